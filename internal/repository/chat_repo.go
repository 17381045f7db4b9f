package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	FindRoomByPair(ctx context.Context, userA, userB uuid.UUID) (*model.ChatRoom, error)
	CreateRoom(ctx context.Context, room *model.ChatRoom) error
	FindRoomByID(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error)
	FindRoomsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatRoom, error)
	CreateMessage(ctx context.Context, message *model.ChatMessage) error
	FindMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// FindRoomByPair expects the pair already sorted (userA < userB).
func (r *chatRepository) FindRoomByPair(ctx context.Context, userA, userB uuid.UUID) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).
		Preload("UserA").
		Preload("UserB").
		Where("user_a_id = ? AND user_b_id = ?", userA, userB).
		First(&room).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *chatRepository) CreateRoom(ctx context.Context, room *model.ChatRoom) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *chatRepository) FindRoomByID(ctx context.Context, id uuid.UUID) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).
		Preload("UserA").
		Preload("UserB").
		Where("id = ?", id).
		First(&room).Error; err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *chatRepository) FindRoomsByUser(ctx context.Context, userID uuid.UUID) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("UserA").
		Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at desc").
		Find(&rooms).Error
	return rooms, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) FindMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Preload("Sender", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Find(&messages).Error
	return messages, err
}
