package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

type CenterRepository interface {
	Create(ctx context.Context, center *model.RecyclingCenter) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.RecyclingCenter, error)
	FindAll(ctx context.Context, zone string) ([]model.RecyclingCenter, error)
	Update(ctx context.Context, center *model.RecyclingCenter) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddFavorite(ctx context.Context, userID, centerID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, centerID uuid.UUID) error
	FindFavoritesByUser(ctx context.Context, userID uuid.UUID) ([]model.FavoriteCenter, error)
}

type centerRepository struct {
	db *gorm.DB
}

func NewCenterRepository(db *gorm.DB) CenterRepository {
	return &centerRepository{db: db}
}

func (r *centerRepository) Create(ctx context.Context, center *model.RecyclingCenter) error {
	return r.db.WithContext(ctx).Create(center).Error
}

func (r *centerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.RecyclingCenter, error) {
	var center model.RecyclingCenter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&center).Error; err != nil {
		return nil, err
	}

	return &center, nil
}

func (r *centerRepository) FindAll(ctx context.Context, zone string) ([]model.RecyclingCenter, error) {
	query := r.db.WithContext(ctx).Order("name")
	if zone != "" {
		query = query.Where("zone = ?", zone)
	}

	var centers []model.RecyclingCenter
	if err := query.Find(&centers).Error; err != nil {
		return nil, err
	}

	return centers, nil
}

func (r *centerRepository) Update(ctx context.Context, center *model.RecyclingCenter) error {
	return r.db.WithContext(ctx).Save(center).Error
}

func (r *centerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.FavoriteCenter{}, "center_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.RecyclingCenter{}, "id = ?", id).Error
	})
}

func (r *centerRepository) AddFavorite(ctx context.Context, userID, centerID uuid.UUID) error {
	favorite := model.FavoriteCenter{UserID: userID, CenterID: centerID}
	// Duplicate favorites are a no-op thanks to the composite primary key.
	err := r.db.WithContext(ctx).Create(&favorite).Error
	if err == gorm.ErrDuplicatedKey {
		return nil
	}
	return err
}

func (r *centerRepository) RemoveFavorite(ctx context.Context, userID, centerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&model.FavoriteCenter{}, "user_id = ? AND center_id = ?", userID, centerID).Error
}

func (r *centerRepository) FindFavoritesByUser(ctx context.Context, userID uuid.UUID) ([]model.FavoriteCenter, error) {
	var favorites []model.FavoriteCenter
	err := r.db.WithContext(ctx).
		Preload("Center").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&favorites).Error
	return favorites, err
}
