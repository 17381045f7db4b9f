package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"gorm.io/gorm"
)

type CenterService interface {
	Create(ctx context.Context, input dto.CenterInput) (*model.RecyclingCenter, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.RecyclingCenter, error)
	List(ctx context.Context, zone string) ([]model.RecyclingCenter, error)
	Update(ctx context.Context, id uuid.UUID, input dto.CenterInput) (*model.RecyclingCenter, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddFavorite(ctx context.Context, userID, centerID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, centerID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]model.FavoriteCenter, error)
}

type centerService struct {
	repo repository.CenterRepository
}

func NewCenterService(repo repository.CenterRepository) CenterService {
	return &centerService{repo: repo}
}

func (s *centerService) Create(ctx context.Context, input dto.CenterInput) (*model.RecyclingCenter, error) {
	center := &model.RecyclingCenter{
		Name:          input.Name,
		Address:       input.Address,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Zone:          input.Zone,
		AcceptedTypes: input.AcceptedTypes,
		Phone:         input.Phone,
		OpenHours:     input.OpenHours,
	}

	if err := s.repo.Create(ctx, center); err != nil {
		return nil, err
	}

	return center, nil
}

func (s *centerService) GetByID(ctx context.Context, id uuid.UUID) (*model.RecyclingCenter, error) {
	center, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return center, nil
}

func (s *centerService) List(ctx context.Context, zone string) ([]model.RecyclingCenter, error) {
	return s.repo.FindAll(ctx, zone)
}

func (s *centerService) Update(ctx context.Context, id uuid.UUID, input dto.CenterInput) (*model.RecyclingCenter, error) {
	center, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	center.Name = input.Name
	center.Address = input.Address
	center.Latitude = input.Latitude
	center.Longitude = input.Longitude
	center.Zone = input.Zone
	center.AcceptedTypes = input.AcceptedTypes
	center.Phone = input.Phone
	center.OpenHours = input.OpenHours

	if err := s.repo.Update(ctx, center); err != nil {
		return nil, err
	}

	return center, nil
}

func (s *centerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *centerService) AddFavorite(ctx context.Context, userID, centerID uuid.UUID) error {
	if _, err := s.GetByID(ctx, centerID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, centerID)
}

func (s *centerService) RemoveFavorite(ctx context.Context, userID, centerID uuid.UUID) error {
	return s.repo.RemoveFavorite(ctx, userID, centerID)
}

func (s *centerService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]model.FavoriteCenter, error) {
	return s.repo.FindFavoritesByUser(ctx, userID)
}
