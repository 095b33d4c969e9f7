package profile

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("profile not found")
	ErrExists   = errors.New("profile already exists")
)

type Role string

const (
	RoleTrainee Role = "trainee"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleTrainee || r == RoleAdmin
}

const (
	DietVegetarian = "vegetarian"
	DietNonVeg     = "non-veg"
)

type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	DisplayName       string    `json:"display_name"`
	AvatarURL         *string   `json:"avatar_url"`
	Role              Role      `json:"role"`
	DietaryPreference string    `json:"dietary_preference"`
	KarmaPoints       int       `json:"karma_points"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateRequest struct {
	DisplayName       string  `json:"display_name" validate:"required,min=1,max=50"`
	AvatarURL         *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	DietaryPreference string  `json:"dietary_preference" validate:"omitempty,oneof=vegetarian non-veg"`
}
