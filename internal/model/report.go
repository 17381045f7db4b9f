package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportCancelled  ReportStatus = "cancelled"
)

type ReportType string

const (
	TypeIllegalDumping  ReportType = "illegal_dumping"
	TypeBulkyWaste      ReportType = "bulky_waste"
	TypeHazardousWaste  ReportType = "hazardous_waste"
	TypeElectronicWaste ReportType = "electronic_waste"
	TypeOther           ReportType = "other"
)

type ReportSeverity string

const (
	SeverityLow      ReportSeverity = "low"
	SeverityMedium   ReportSeverity = "medium"
	SeverityHigh     ReportSeverity = "high"
	SeverityCritical ReportSeverity = "critical"
)

type Report struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID uuid.UUID      `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reporter   User           `gorm:"foreignKey:ReporterID" json:"reporter"`
	Type       ReportType     `gorm:"size:50;not null;index" json:"type"`
	Severity   ReportSeverity `gorm:"size:20;not null" json:"severity"`
	Status     ReportStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`

	Description string  `gorm:"type:text;not null" json:"description"`
	Latitude    float64 `gorm:"not null" json:"latitude"`
	Longitude   float64 `gorm:"not null" json:"longitude"`
	Address     string  `gorm:"type:text" json:"address"`
	Zone        string  `gorm:"size:100;index" json:"zone"`

	Photos []ReportPhoto `gorm:"constraint:OnDelete:CASCADE" json:"photos"`

	ResolutionNotes *string    `gorm:"type:text" json:"resolution_notes,omitempty"`
	// ResolvedAt is set if and only if Status is resolved.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ReportPhoto struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ReportID uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	URL      string    `gorm:"type:text;not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
