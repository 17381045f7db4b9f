package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/mailer"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	// Register creates a citizen account. Worker/admin accounts are created by
	// admins through the admin service.
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo          repository.UserRepository
	ecoPoints     EcoPointsService
	searchService SearchService
	mail          mailer.Mailer
	secret        string
	tokenTTL      time.Duration
}

func NewAuthService(repo repository.UserRepository, ecoPoints EcoPointsService, searchService SearchService, mail mailer.Mailer) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:          repo,
		ecoPoints:     ecoPoints,
		searchService: searchService,
		mail:          mail,
		secret:        secret,
		tokenTTL:      ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if err := s.ensureUserUnique(ctx, input.Email, input.Username); err != nil {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, model.RoleCitizen)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", model.RoleCitizen)
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

	profile := &model.Profile{
		FullName: input.FullName,
		Phone:    normalizeOptional(input.Phone),
		Address:  normalizeOptional(input.Address),
	}

	if err := s.repo.Create(ctx, user, profile); err != nil {
		return nil, err
	}

	createdUser, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		go s.mail.SendWelcome(createdUser.Email, profile.FullName)
	}

	return s.buildAuthResponse(createdUser)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	// First login of the day earns points; repeats are a no-op in the service.
	if s.ecoPoints != nil {
		s.ecoPoints.AwardAsync(user.ID, model.ActionDailyLogin, "", user.ID.String(), "users")
	}

	if s.mail != nil {
		fullName := user.Username
		if user.Profile != nil {
			fullName = user.Profile.FullName
		}
		go s.mail.SendLoginAlert(user.Email, fullName)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	resp := &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		Role:        &user.Role,
		Profile:     user.Profile,
	}

	if s.searchService != nil {
		searchToken, err := s.searchService.GenerateSearchToken(user.Role.Name)
		if err != nil {
			log.Printf("failed to generate search token for user %s: %v", user.ID, err)
		} else {
			resp.SearchToken = searchToken
		}
	}

	return resp, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

func (s *authService) ensureUserUnique(ctx context.Context, email, username string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return errors.New("username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}

	result := trimmed
	return &result
}
