package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecyclingCenter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Zone      string    `gorm:"size:100;index" json:"zone"`

	// AcceptedTypes holds waste type keys this center accepts.
	AcceptedTypes []string `gorm:"serializer:json" json:"accepted_types"`
	Phone         *string  `gorm:"size:30" json:"phone,omitempty"`
	OpenHours     *string  `gorm:"size:100" json:"open_hours,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *RecyclingCenter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type FavoriteCenter struct {
	UserID    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	CenterID  uuid.UUID       `gorm:"type:uuid;primaryKey" json:"center_id"`
	Center    RecyclingCenter `gorm:"foreignKey:CenterID;constraint:OnDelete:CASCADE" json:"center"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
