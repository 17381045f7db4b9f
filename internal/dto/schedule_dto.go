package dto

import "github.com/greencycle/ecotrack-backend/internal/model"

type ScheduleInput struct {
	Zone      string          `json:"zone" binding:"required"`
	WasteType string          `json:"waste_type" binding:"required"`
	Days      []string        `json:"days" binding:"required,min=1"`
	Time      *string         `json:"time,omitempty"`
	Frequency model.Frequency `json:"frequency" binding:"required,oneof=daily weekly biweekly monthly"`
}
