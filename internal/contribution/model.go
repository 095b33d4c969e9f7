package contribution

import (
	"time"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/mealtime"
)

const TypeUpload = "upload"

type Contribution struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	RestaurantID     *string         `json:"restaurant_id"`
	MenuImageID      *string         `json:"menu_image_id"`
	ContributionType string          `json:"contribution_type"`
	ContributionDate string          `json:"contribution_date"`
	PointsEarned     int             `json:"points_earned"`
	MealSession      mealtime.Period `json:"meal_session"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Upload describes a stored menu image for contribution accounting.
type Upload struct {
	ProfileID    *string
	RestaurantID string
	MenuImageID  string
	Anonymous    bool
	// Effective timestamp of the photo.
	At time.Time
}
