package model

import (
	"time"

	"github.com/google/uuid"
)

type EcoActionType string

const (
	ActionReportCreated      EcoActionType = "report_created"
	ActionReportResolved     EcoActionType = "report_resolved"
	ActionEventParticipation EcoActionType = "event_participation"
	ActionDailyLogin         EcoActionType = "daily_login"
	ActionRecycling          EcoActionType = "recycling"
	ActionCleanup            EcoActionType = "cleanup"
)

// EcoAction is one append-only ledger entry. Entries are never mutated or deleted;
// a user's true point total is the sum of their entries.
type EcoAction struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;index:idx_user_date,priority:1;not null" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID" json:"-"`
	Type           EcoActionType `gorm:"size:50;not null" json:"type"`
	Points         int           `gorm:"not null" json:"points"`
	ReferenceID    string        `gorm:"size:36" json:"reference_id"`    // UUID string of the report/event
	ReferenceTable string        `gorm:"size:50" json:"reference_table"` // 'reports', 'events'
	CreatedAt      time.Time     `gorm:"index:idx_user_date,priority:2;index:idx_date" json:"created_at"`
}
