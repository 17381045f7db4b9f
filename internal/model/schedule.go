package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// CollectionSchedule is a recurring rule describing when waste is collected in a
// zone for a waste type. NextCollection is recomputed on demand and is always on
// or after the reference date used for the computation.
type CollectionSchedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Zone      string    `gorm:"size:100;not null;index" json:"zone"`
	WasteType string    `gorm:"size:50;not null" json:"waste_type"`

	// Days holds weekday names ("Monday", ...); must be non-empty.
	Days []string  `gorm:"serializer:json;not null" json:"days"`
	Time *string   `gorm:"size:20" json:"time,omitempty"`
	Frequency Frequency `gorm:"size:20;not null" json:"frequency"`

	NextCollection   *time.Time `json:"next_collection,omitempty"`
	LastCalculatedAt *time.Time `json:"last_calculated_at,omitempty"`

	CreatedByID uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *CollectionSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
