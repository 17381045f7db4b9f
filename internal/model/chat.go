package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is a direct conversation between two users. The participant pair is
// stored sorted (UserAID < UserBID lexicographically) so each pair maps to
// exactly one room regardless of who opened it.
type ChatRoom struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserAID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_pair,priority:1" json:"user_a_id"`
	UserBID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_pair,priority:2" json:"user_b_id"`
	UserA     User      `gorm:"foreignKey:UserAID" json:"user_a"`
	UserB     User      `gorm:"foreignKey:UserBID" json:"user_b"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Sender    User      `gorm:"foreignKey:SenderID" json:"sender"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
