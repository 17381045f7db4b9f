package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/greencycle/ecotrack-backend/pkg/storage"
	"gorm.io/gorm"
)

// PhotoFile represents one uploaded report photo.
type PhotoFile struct {
	Reader   io.Reader
	FileName string
}

type ReportService interface {
	Create(ctx context.Context, reporterID uuid.UUID, input dto.CreateReportInput, photos []PhotoFile) (*model.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error)
	UpdateDetails(ctx context.Context, actorID, id uuid.UUID, input dto.UpdateReportInput) (*model.Report, error)
	Transition(ctx context.Context, actorID, id uuid.UUID, input dto.TransitionReportInput) (*model.Report, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type reportService struct {
	repo                repository.ReportRepository
	userRepo            repository.UserRepository
	ecoPoints           EcoPointsService
	notificationService NotificationService
	searchService       SearchService
	photoStorage        storage.PhotoStorage
	limiter             RateLimiter
	createLimit         time.Duration
}

func NewReportService(
	repo repository.ReportRepository,
	userRepo repository.UserRepository,
	ecoPoints EcoPointsService,
	notificationService NotificationService,
	searchService SearchService,
	photoStorage storage.PhotoStorage,
	limiter RateLimiter,
	createLimit time.Duration,
) ReportService {
	return &reportService{
		repo:                repo,
		userRepo:            userRepo,
		ecoPoints:           ecoPoints,
		notificationService: notificationService,
		searchService:       searchService,
		photoStorage:        photoStorage,
		limiter:             limiter,
		createLimit:         createLimit,
	}
}

func (s *reportService) Create(ctx context.Context, reporterID uuid.UUID, input dto.CreateReportInput, photos []PhotoFile) (*model.Report, error) {
	creationFailed := true
	if s.limiter != nil {
		allowed, err := s.limiter.Acquire(ctx, reporterID, "create_report", s.createLimit)
		if err != nil {
			return nil, err
		}
		if !allowed {
			ttl, _ := s.limiter.TTL(ctx, reporterID, "create_report")
			return nil, fmt.Errorf("you can only create one report every %s, try again in %.0f seconds: %w",
				s.createLimit, ttl.Seconds(), apperror.ErrRateLimitExceeded)
		}
		// Release the cooldown when creation fails so the reporter can retry.
		defer func() {
			if creationFailed {
				_ = s.limiter.Release(ctx, reporterID, "create_report")
			}
		}()
	}

	report := &model.Report{
		ReporterID:  reporterID,
		Type:        input.Type,
		Severity:    input.Severity,
		Status:      model.ReportPending,
		Description: input.Description,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		Zone:        input.Zone,
	}

	for _, photo := range photos {
		if photo.Reader == nil || s.photoStorage == nil {
			continue
		}
		url, err := s.photoStorage.UploadPhoto(ctx, photo.Reader, "reports", photo.FileName)
		if err != nil {
			return nil, err
		}
		report.Photos = append(report.Photos, model.ReportPhoto{URL: url})
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	creationFailed = false

	s.ecoPoints.AwardAsync(reporterID, model.ActionReportCreated, report.Severity, report.ID.String(), "reports")
	go s.notifyZoneStaff(report)
	go s.indexReport(report.ID)

	return s.repo.FindByID(ctx, report.ID)
}

func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.FindAll(ctx, filter)
}

// UpdateDetails lets the owning citizen revise description/severity, but only
// while the report is still pending.
func (s *reportService) UpdateDetails(ctx context.Context, actorID, id uuid.UUID, input dto.UpdateReportInput) (*model.Report, error) {
	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if report.ReporterID != actorID {
		return nil, apperror.ErrForbidden
	}
	if report.Status != model.ReportPending {
		return nil, apperror.ErrForbidden
	}

	if input.Description != nil {
		report.Description = *input.Description
	}
	if input.Severity != nil {
		report.Severity = *input.Severity
	}

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	go s.indexReport(report.ID)

	return report, nil
}

// Transition moves a report through its lifecycle. Role capability and graph
// validity are checked by the lifecycle rules; resolution awards points to the
// original reporter and every transition notifies them.
func (s *reportService) Transition(ctx context.Context, actorID, id uuid.UUID, input dto.TransitionReportInput) (*model.Report, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	report, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(actor.Role.Name, report.Status, input.Status); err != nil {
		return nil, err
	}

	ApplyTransition(report, input.Status, input.ResolutionNotes, time.Now())

	if err := s.repo.Update(ctx, report); err != nil {
		return nil, err
	}

	if report.Status == model.ReportResolved {
		// The award goes to the original reporter. Reopening later never claws
		// these points back - the ledger is append-only.
		s.ecoPoints.AwardAsync(report.ReporterID, model.ActionReportResolved, "", report.ID.String(), "reports")
	}

	go s.notifyStatusChange(report, actor)
	go s.indexReport(report.ID)

	return report, nil
}

func (s *reportService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	actor, err := s.userRepo.FindByID(ctx, actorID.String())
	if err != nil {
		return apperror.ErrUnauthorized
	}

	report, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role.Name != model.RoleAdmin && report.ReporterID != actorID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Storage and index cleanup is best-effort.
	go func() {
		ctx := context.Background()
		for _, photo := range report.Photos {
			if s.photoStorage == nil {
				break
			}
			if err := s.photoStorage.DeletePhoto(ctx, photo.URL); err != nil {
				log.Printf("failed to delete report photo %s: %v", photo.URL, err)
			}
		}
		if s.searchService != nil {
			if err := s.searchService.DeleteReport(id.String()); err != nil {
				log.Printf("failed to delete report %s from search index: %v", id, err)
			}
		}
	}()

	return nil
}

// notifyZoneStaff tells workers assigned to the report's zone (and all admins)
// that a new report came in.
func (s *reportService) notifyZoneStaff(report *model.Report) {
	ctx := context.Background()

	staff, err := s.userRepo.FindStaffByZone(ctx, report.Zone)
	if err != nil {
		log.Printf("failed to find staff for zone %s: %v", report.Zone, err)
		return
	}

	for _, member := range staff {
		notification := &model.Notification{
			UserID:     member.ID,
			ActorID:    report.ReporterID,
			EntityID:   report.ID,
			EntityType: "report",
			Type:       "report_created",
			Message:    fmt.Sprintf("New %s report (%s) in zone %s", report.Type, report.Severity, report.Zone),
		}
		if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to notify staff %s about report %s: %v", member.ID, report.ID, err)
		}
	}
}

func (s *reportService) notifyStatusChange(report *model.Report, actor *model.User) {
	ctx := context.Background()

	notification := &model.Notification{
		UserID:     report.ReporterID,
		ActorID:    actor.ID,
		EntityID:   report.ID,
		EntityType: "report",
		Type:       "status_changed",
		Message:    fmt.Sprintf("Your report is now %s", report.Status),
	}
	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to notify reporter %s about report %s: %v", report.ReporterID, report.ID, err)
	}
}

func (s *reportService) indexReport(id uuid.UUID) {
	if s.searchService == nil {
		return
	}

	report, err := s.repo.FindByID(context.Background(), id)
	if err != nil {
		log.Printf("failed to load report %s for indexing: %v", id, err)
		return
	}

	if err := s.searchService.IndexReport(report); err != nil {
		log.Printf("failed to index report %s: %v", id, err)
	}
}
