package menu

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/restaurant"
)

var ErrNotFound = errors.New("menu image not found")

type MenuImage struct {
	ID                   string     `json:"id"`
	RestaurantID         string     `json:"restaurant_id"`
	StoragePath          string     `json:"storage_path"`
	Mime                 string     `json:"mime"`
	UploadedBy           *string    `json:"uploaded_by"`
	IsAnonymous          bool       `json:"is_anonymous"`
	AnonymousDisplayName *string    `json:"anonymous_display_name"`
	PhotoTakenAt         *time.Time `json:"photo_taken_at"`
	CreatedAt            time.Time  `json:"created_at"`
	Status               Status     `json:"status"`
	OCRError             *string    `json:"ocr_error,omitempty"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// EffectiveAt is the capture time when known, else the ingestion time.
func (m *MenuImage) EffectiveAt() time.Time {
	return mealtime.Effective(m.PhotoTakenAt, m.CreatedAt)
}

type OCRResult struct {
	ID               string          `json:"id"`
	ImageID          string          `json:"image_id"`
	Text             string          `json:"text"`
	RawJSON          json.RawMessage `json:"raw_json,omitempty"`
	Language         string          `json:"language"`
	Engine           string          `json:"ocr_engine"`
	ProcessingTimeMS int             `json:"processing_time_ms"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Uploader is the display data of the profile behind uploaded_by.
type Uploader struct {
	DisplayName string
	AvatarURL   *string
}

// FreshMenu is one row of the freshness query.
type FreshMenu struct {
	Image    MenuImage
	OCR      *OCRResult
	Uploader *Uploader
}

// ---------- API views ----------

type Contributor struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
	IsAnonymous bool    `json:"is_anonymous"`
}

type MenuView struct {
	MenuImage
	ImageURL           string          `json:"image_url"`
	EffectiveTimestamp time.Time       `json:"effective_at"`
	MealPeriod         mealtime.Period `json:"meal_period"`
	OCRResult          *OCRResult      `json:"ocr_result"`
	Contributor        Contributor     `json:"contributor"`
}

func (v MenuView) EffectiveAt() time.Time {
	return v.EffectiveTimestamp
}

type Availability struct {
	Today          map[mealtime.Period]bool `json:"today"`
	CurrentPeriod  mealtime.Period          `json:"current_period"`
	HasCurrent     bool                     `json:"has_current"`
	TodayCount     int                      `json:"today_count"`
	YesterdayCount int                      `json:"yesterday_count"`
}

type MenusResult struct {
	Restaurant   *restaurant.Restaurant         `json:"restaurant"`
	Menus        []MenuView                     `json:"menus"`
	ByMeal       map[mealtime.Period][]MenuView `json:"by_meal,omitempty"`
	Availability *Availability                  `json:"availability,omitempty"`
}

type UploadResult struct {
	Image                *MenuImage      `json:"menu_image"`
	ImageURL             string          `json:"image_url"`
	Status               Status          `json:"status"`
	MealPeriod           mealtime.Period `json:"meal_period"`
	ContributionRecorded bool            `json:"contribution_recorded"`
	Warnings             []string        `json:"warnings"`
}

type DeleteResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	ImageID  string   `json:"imageId"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
