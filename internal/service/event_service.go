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

type EventService interface {
	Create(ctx context.Context, actorID uuid.UUID, input dto.EventInput) (*model.CleanupEvent, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CleanupEvent, error)
	List(ctx context.Context, zone string) ([]model.CleanupEvent, error)
	Update(ctx context.Context, id uuid.UUID, input dto.EventInput) (*model.CleanupEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Join registers the user and awards event participation points once per
	// event, even across leave/rejoin cycles.
	Join(ctx context.Context, eventID, userID uuid.UUID) error
	Leave(ctx context.Context, eventID, userID uuid.UUID) error
}

type eventService struct {
	repo          repository.EventRepository
	ecoActionRepo repository.EcoActionRepository
	ecoPoints     EcoPointsService
}

func NewEventService(repo repository.EventRepository, ecoActionRepo repository.EcoActionRepository, ecoPoints EcoPointsService) EventService {
	return &eventService{
		repo:          repo,
		ecoActionRepo: ecoActionRepo,
		ecoPoints:     ecoPoints,
	}
}

func (s *eventService) Create(ctx context.Context, actorID uuid.UUID, input dto.EventInput) (*model.CleanupEvent, error) {
	event := &model.CleanupEvent{
		Title:       input.Title,
		Description: input.Description,
		Zone:        input.Zone,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		CreatedByID: actorID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, event.ID)
}

func (s *eventService) GetByID(ctx context.Context, id uuid.UUID) (*model.CleanupEvent, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, zone string) ([]model.CleanupEvent, error) {
	return s.repo.FindAll(ctx, zone)
}

func (s *eventService) Update(ctx context.Context, id uuid.UUID, input dto.EventInput) (*model.CleanupEvent, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Zone = input.Zone
	event.Location = input.Location
	event.StartsAt = input.StartsAt

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *eventService) Join(ctx context.Context, eventID, userID uuid.UUID) error {
	event, err := s.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	joined, err := s.repo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if joined {
		return nil
	}

	if err := s.repo.AddParticipant(ctx, eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	// The ledger keeps the award one-shot: rejoining after a leave does not pay
	// out a second time.
	awarded, err := s.ecoActionRepo.HasEventParticipation(ctx, userID, event.ID)
	if err != nil {
		return err
	}
	if !awarded && s.ecoPoints != nil {
		s.ecoPoints.AwardAsync(userID, model.ActionEventParticipation, "", event.ID.String(), "cleanup_events")
	}

	return nil
}

func (s *eventService) Leave(ctx context.Context, eventID, userID uuid.UUID) error {
	joined, err := s.repo.IsParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !joined {
		return apperror.ErrNotFound
	}

	return s.repo.RemoveParticipant(ctx, eventID, userID)
}
