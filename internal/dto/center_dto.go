package dto

type CenterInput struct {
	Name          string   `json:"name" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	Latitude      float64  `json:"latitude" binding:"omitempty,latitude"`
	Longitude     float64  `json:"longitude" binding:"omitempty,longitude"`
	Zone          string   `json:"zone"`
	AcceptedTypes []string `json:"accepted_types"`
	Phone         *string  `json:"phone,omitempty"`
	OpenHours     *string  `json:"open_hours,omitempty"`
}
