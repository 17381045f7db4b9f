package service

import (
	"context"
	"errors"

	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"gorm.io/gorm"
)

// ProfileView bundles a user with their derived eco level.
type ProfileView struct {
	User      *model.User `json:"user"`
	EcoStatus EcoStatus   `json:"eco_status"`
}

type ProfileService interface {
	GetByID(ctx context.Context, id string) (*ProfileView, error)
	GetByUsername(ctx context.Context, username string) (*ProfileView, error)
	Update(ctx context.Context, id string, input dto.UpdateProfileInput) (*ProfileView, error)
}

type profileService struct {
	repo repository.UserRepository
}

func NewProfileService(repo repository.UserRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetByID(ctx context.Context, id string) (*ProfileView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.buildView(user), nil
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*ProfileView, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return s.buildView(user), nil
}

func (s *profileService) Update(ctx context.Context, id string, input dto.UpdateProfileInput) (*ProfileView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if user.Profile == nil {
		user.Profile = &model.Profile{UserID: user.ID}
	}
	if input.FullName != nil {
		user.Profile.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Profile.Phone = normalizeOptional(input.Phone)
	}
	if input.Address != nil {
		user.Profile.Address = normalizeOptional(input.Address)
	}

	if err := s.repo.Update(ctx, user, user.Profile); err != nil {
		return nil, err
	}

	return s.buildView(user), nil
}

func (s *profileService) buildView(user *model.User) *ProfileView {
	user.PasswordHash = ""
	return &ProfileView{
		User:      user,
		EcoStatus: GetEcoStatus(user.EcoPoints),
	}
}
