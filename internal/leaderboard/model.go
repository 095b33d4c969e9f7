package leaderboard

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("leaderboard entry not found")

type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RankPosition *int      `json:"rank_position"`
	TotalKarma   int       `json:"total_karma"`
	UpdatedAt    time.Time `json:"updated_at"`

	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type Board struct {
	Entries   []Entry `json:"leaderboard"`
	UserEntry *Entry  `json:"user_entry"`
}
