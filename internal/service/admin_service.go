package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, input dto.UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type adminService struct {
	repo repository.UserRepository
}

func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*model.User, error) {
	if input.Role == model.RoleWorker && (input.Zone == nil || *input.Zone == "") {
		return nil, apperror.New(400, "zone is required for workers", apperror.ErrValidation)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
	}
	if input.Role == model.RoleWorker {
		user.Zone = input.Zone
	}

	profile := &model.Profile{
		FullName: input.FullName,
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, user.ID.String())
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.PasswordHash = ""
	}

	return users, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, input dto.UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		role, err := s.repo.FindRoleByName(ctx, *input.Role)
		if err != nil {
			return nil, fmt.Errorf("role %s not found", *input.Role)
		}
		roleID := role.ID
		user.RoleID = &roleID

		// Zone only applies to workers.
		if *input.Role != model.RoleWorker {
			user.Zone = nil
		}
	}
	if input.Zone != nil {
		user.Zone = input.Zone
	}

	if err := s.repo.Update(ctx, user, nil); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
