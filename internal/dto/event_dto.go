package dto

import "time"

type EventInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Zone        string    `json:"zone" binding:"required"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
}
