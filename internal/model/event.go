package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CleanupEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Zone        string    `gorm:"size:100;index" json:"zone"`
	Location    string    `gorm:"type:text" json:"location"`
	StartsAt    time.Time `gorm:"not null" json:"starts_at"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Participants []EventParticipant `gorm:"constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

func (e *CleanupEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EventParticipant struct {
	EventID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"event_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
