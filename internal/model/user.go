package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCitizen = "citizen"
	RoleWorker  = "worker"
	RoleAdmin   = "admin"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	RoleID       *uint     `json:"role_id"`
	Role         Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	// Zone is set for workers only and scopes which schedules and reports they handle.
	Zone      *string   `gorm:"size:100;index" json:"zone,omitempty"`
	AvatarURL *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	// EcoPoints is a denormalized cache of the eco-action ledger sum. It is updated
	// asynchronously on award and reconciled from the ledger by a background job,
	// so short-lived drift from the true sum is expected.
	EcoPoints int       `gorm:"default:0" json:"eco_points"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsStaff reports whether the user may mutate report status and schedules.
func (u *User) IsStaff() bool {
	return u.Role.Name == RoleWorker || u.Role.Name == RoleAdmin
}

type Profile struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Phone     *string   `gorm:"size:30" json:"phone,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
