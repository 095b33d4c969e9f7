package restaurant

import (
	"errors"
	"regexp"
	"time"
)

var ErrNotFound = errors.New("restaurant not found")

type Restaurant struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	Slug              string    `json:"slug"`
	Latitude          *float64  `json:"latitude"`
	Longitude         *float64  `json:"longitude"`
	DistanceEstimateM *int      `json:"distance_estimate_m"`
	CreatedAt         time.Time `json:"created_at"`

	// Set only when the caller supplied an origin.
	DistanceM *float64 `json:"distance_m,omitempty"`
}

// SeedRestaurant is one entry of a seed YAML file.
type SeedRestaurant struct {
	Name              string   `yaml:"name" validate:"required,max=120"`
	Slug              string   `yaml:"slug" validate:"required,max=64"`
	Location          string   `yaml:"location" validate:"max=200"`
	DistanceEstimateM *int     `yaml:"distance_estimate_m" validate:"omitempty,min=0"`
	Latitude          *float64 `yaml:"latitude" validate:"omitempty,latitude"`
	Longitude         *float64 `yaml:"longitude" validate:"omitempty,longitude"`
}

type SeedFile struct {
	Restaurants []SeedRestaurant `yaml:"restaurants" validate:"required,min=1,dive"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase URL-safe slug.
func ValidSlug(s string) bool {
	return len(s) <= 64 && slugPattern.MatchString(s)
}
