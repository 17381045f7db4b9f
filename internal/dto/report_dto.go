package dto

import "github.com/greencycle/ecotrack-backend/internal/model"

type CreateReportInput struct {
	Type        model.ReportType     `form:"type" json:"type" binding:"required,oneof=illegal_dumping bulky_waste hazardous_waste electronic_waste other"`
	Severity    model.ReportSeverity `form:"severity" json:"severity" binding:"required,oneof=low medium high critical"`
	Description string               `form:"description" json:"description" binding:"required,min=10"`
	Latitude    float64              `form:"latitude" json:"latitude" binding:"required,latitude"`
	Longitude   float64              `form:"longitude" json:"longitude" binding:"required,longitude"`
	Address     string               `form:"address" json:"address"`
	Zone        string               `form:"zone" json:"zone" binding:"required"`
}

// UpdateReportInput carries the citizen-editable fields. Only the owning
// reporter may use it, and only while the report is still pending.
type UpdateReportInput struct {
	Description *string               `json:"description,omitempty"`
	Severity    *model.ReportSeverity `json:"severity,omitempty" binding:"omitempty,oneof=low medium high critical"`
}

type TransitionReportInput struct {
	Status          model.ReportStatus `json:"status" binding:"required"`
	ResolutionNotes *string            `json:"resolution_notes,omitempty"`
}
