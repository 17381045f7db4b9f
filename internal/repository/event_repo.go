package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.CleanupEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CleanupEvent, error)
	FindAll(ctx context.Context, zone string) ([]model.CleanupEvent, error)
	Update(ctx context.Context, event *model.CleanupEvent) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddParticipant(ctx context.Context, eventID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error
	IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.CleanupEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CleanupEvent, error) {
	var event model.CleanupEvent
	if err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Participants").
		Preload("Participants.User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, zone string) ([]model.CleanupEvent, error) {
	query := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Order("starts_at asc")
	if zone != "" {
		query = query.Where("zone = ?", zone)
	}

	var events []model.CleanupEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.CleanupEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.EventParticipant{}, "event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CleanupEvent{}, "id = ?", id).Error
	})
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	participant := model.EventParticipant{EventID: eventID, UserID: userID}
	return r.db.WithContext(ctx).Create(&participant).Error
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.EventParticipant{}, "event_id = ? AND user_id = ?", eventID, userID).Error
}

func (r *eventRepository) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}
