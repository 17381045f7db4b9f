package dto

import "time"

type RankingEntry struct {
	Position     int       `json:"position"` // 1-based
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	TotalPoints  int       `json:"total_points"`
	FirstEntryAt time.Time `json:"first_entry_at"`
	LevelName    string    `json:"level_name"`
}
