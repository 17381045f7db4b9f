package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.CollectionSchedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error)
	FindAll(ctx context.Context, zone string) ([]model.CollectionSchedule, error)
	Update(ctx context.Context, schedule *model.CollectionSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type scheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *model.CollectionSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error) {
	var schedule model.CollectionSchedule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error; err != nil {
		return nil, err
	}

	return &schedule, nil
}

func (r *scheduleRepository) FindAll(ctx context.Context, zone string) ([]model.CollectionSchedule, error) {
	query := r.db.WithContext(ctx).Order("zone, waste_type")
	if zone != "" {
		query = query.Where("zone = ?", zone)
	}

	var schedules []model.CollectionSchedule
	if err := query.Find(&schedules).Error; err != nil {
		return nil, err
	}

	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *model.CollectionSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CollectionSchedule{}, "id = ?", id).Error
}
