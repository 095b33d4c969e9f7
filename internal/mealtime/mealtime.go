// Package mealtime classifies menu photos into meal periods by local hour.
package mealtime

import (
	"time"
)

type Period string

const (
	Breakfast Period = "Breakfast"
	Lunch     Period = "Lunch"
	Dinner    Period = "Dinner"
)

// Periods in serving order.
var Periods = []Period{Breakfast, Lunch, Dinner}

const (
	breakfastStart = 5
	lunchStart     = 11
	dinnerStart    = 16
)

// Classify uses the hour of t in t's own location. A zero time is Dinner.
func Classify(t time.Time) Period {
	if t.IsZero() {
		return Dinner
	}

	h := t.Hour()
	switch {
	case h >= breakfastStart && h < lunchStart:
		return Breakfast
	case h >= lunchStart && h < dinnerStart:
		return Lunch
	default:
		return Dinner
	}
}

// Effective picks the capture time when present, else the ingestion time.
func Effective(capture *time.Time, ingestion time.Time) time.Time {
	if capture != nil && !capture.IsZero() {
		return *capture
	}
	return ingestion
}

// Classifier evaluates hours in a fixed zone so that classification does not
// depend on the server's local time.
type Classifier struct {
	loc *time.Location
}

func NewClassifier(loc *time.Location) Classifier {
	if loc == nil {
		loc = time.Local
	}
	return Classifier{loc: loc}
}

func (c Classifier) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Classifier) Classify(t time.Time) Period {
	if t.IsZero() {
		return Dinner
	}
	return Classify(t.In(c.Location()))
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Parse accepts RFC3339 or a bare local "2006-01-02T15:04[:05]" timestamp.
// Zone-less layouts are read in the classifier's zone.
func (c Classifier) Parse(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c Classifier) CurrentPeriod(now time.Time) Period {
	return c.Classify(now)
}

// Timestamped is anything carrying an effective timestamp.
type Timestamped interface {
	EffectiveAt() time.Time
}

// GroupByPeriod buckets items by meal period, preserving input order within
// each bucket.
func GroupByPeriod[T Timestamped](c Classifier, items []T) map[Period][]T {
	out := make(map[Period][]T, len(Periods))
	for _, item := range items {
		p := c.Classify(item.EffectiveAt())
		out[p] = append(out[p], item)
	}
	return out
}

// SplitByDay splits items into today and yesterday relative to now in the
// classifier's zone. Anything older or in the future is dropped.
func SplitByDay[T Timestamped](c Classifier, items []T, now time.Time) (today, yesterday []T) {
	loc := c.Location()
	n := now.In(loc)
	startToday := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	startTomorrow := startToday.AddDate(0, 0, 1)
	startYesterday := startToday.AddDate(0, 0, -1)

	for _, item := range items {
		t := item.EffectiveAt().In(loc)
		switch {
		case !t.Before(startToday) && t.Before(startTomorrow):
			today = append(today, item)
		case !t.Before(startYesterday) && t.Before(startToday):
			yesterday = append(yesterday, item)
		}
	}
	return today, yesterday
}
