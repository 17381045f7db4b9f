package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"gorm.io/gorm"
)

type ScheduleService interface {
	Create(ctx context.Context, actorID uuid.UUID, input dto.ScheduleInput) (*model.CollectionSchedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error)
	List(ctx context.Context, zone string) ([]model.CollectionSchedule, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input dto.ScheduleInput) (*model.CollectionSchedule, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	// CalculateNext recomputes NextCollection server-side from the recurrence
	// rule. Recomputation with unchanged inputs is idempotent.
	CalculateNext(ctx context.Context, actorID, id uuid.UUID) (*model.CollectionSchedule, error)
}

type scheduleService struct {
	repo     repository.ScheduleRepository
	userRepo repository.UserRepository
}

func NewScheduleService(repo repository.ScheduleRepository, userRepo repository.UserRepository) ScheduleService {
	return &scheduleService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// authorizeZone enforces the zone scoping rule: workers may only touch
// schedules of their assigned zone, admins are unrestricted, citizens none.
func (s *scheduleService) authorizeZone(ctx context.Context, actorID uuid.UUID, zone string) (*model.User, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	switch actor.Role.Name {
	case model.RoleAdmin:
		return actor, nil
	case model.RoleWorker:
		if actor.Zone == nil || *actor.Zone != zone {
			return nil, apperror.ErrForbidden
		}
		return actor, nil
	default:
		return nil, apperror.ErrForbidden
	}
}

func (s *scheduleService) Create(ctx context.Context, actorID uuid.UUID, input dto.ScheduleInput) (*model.CollectionSchedule, error) {
	actor, err := s.authorizeZone(ctx, actorID, input.Zone)
	if err != nil {
		return nil, err
	}

	schedule := &model.CollectionSchedule{
		Zone:        input.Zone,
		WasteType:   input.WasteType,
		Days:        input.Days,
		Time:        input.Time,
		Frequency:   input.Frequency,
		CreatedByID: actor.ID,
	}

	now := time.Now()
	next, err := ComputeNext(schedule, now)
	if err != nil {
		return nil, err
	}
	schedule.NextCollection = &next
	schedule.LastCalculatedAt = &now

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *scheduleService) GetByID(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *scheduleService) List(ctx context.Context, zone string) ([]model.CollectionSchedule, error) {
	return s.repo.FindAll(ctx, zone)
}

func (s *scheduleService) Update(ctx context.Context, actorID, id uuid.UUID, input dto.ScheduleInput) (*model.CollectionSchedule, error) {
	schedule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The actor must be allowed in both the current and the target zone.
	if _, err := s.authorizeZone(ctx, actorID, schedule.Zone); err != nil {
		return nil, err
	}
	if _, err := s.authorizeZone(ctx, actorID, input.Zone); err != nil {
		return nil, err
	}

	schedule.Zone = input.Zone
	schedule.WasteType = input.WasteType
	schedule.Days = input.Days
	schedule.Time = input.Time
	schedule.Frequency = input.Frequency

	// The recurrence rule changed, so the old computed date no longer applies.
	schedule.NextCollection = nil
	now := time.Now()
	next, err := ComputeNext(schedule, now)
	if err != nil {
		return nil, err
	}
	schedule.NextCollection = &next
	schedule.LastCalculatedAt = &now

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *scheduleService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	schedule, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.authorizeZone(ctx, actorID, schedule.Zone); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *scheduleService) CalculateNext(ctx context.Context, actorID, id uuid.UUID) (*model.CollectionSchedule, error) {
	schedule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.authorizeZone(ctx, actorID, schedule.Zone); err != nil {
		return nil, err
	}

	now := time.Now()
	next, err := ComputeNext(schedule, now)
	if err != nil {
		return nil, err
	}
	schedule.NextCollection = &next
	schedule.LastCalculatedAt = &now

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}
