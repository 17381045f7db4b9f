package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"gorm.io/gorm"
)

// Fixed point values per action. report_created scales with severity instead.
const (
	PointsReportResolved     = 20
	PointsEventParticipation = 100
	PointsDailyLogin         = 5
	PointsRecycling          = 20
	PointsCleanup            = 50
)

// severityPoints scales the report_created award by how bad the dump is.
var severityPoints = map[model.ReportSeverity]int{
	model.SeverityLow:      10,
	model.SeverityMedium:   20,
	model.SeverityHigh:     35,
	model.SeverityCritical: 50,
}

// PointsFor maps an action (and severity, for report_created) to its award value.
func PointsFor(actionType model.EcoActionType, severity model.ReportSeverity) (int, error) {
	switch actionType {
	case model.ActionReportCreated:
		points, ok := severityPoints[severity]
		if !ok {
			return 0, apperror.ErrValidation
		}
		return points, nil
	case model.ActionReportResolved:
		return PointsReportResolved, nil
	case model.ActionEventParticipation:
		return PointsEventParticipation, nil
	case model.ActionDailyLogin:
		return PointsDailyLogin, nil
	case model.ActionRecycling:
		return PointsRecycling, nil
	case model.ActionCleanup:
		return PointsCleanup, nil
	default:
		return 0, apperror.ErrValidation
	}
}

type EcoPointsService interface {
	// Award appends a ledger entry and bumps the cached total. daily_login is
	// idempotent per calendar day: a second award the same day is a silent no-op.
	Award(ctx context.Context, userID uuid.UUID, actionType model.EcoActionType, severity model.ReportSeverity, referenceID, referenceTable string) error
	// AwardAsync runs Award in the background; award failures never fail the
	// triggering operation.
	AwardAsync(userID uuid.UUID, actionType model.EcoActionType, severity model.ReportSeverity, referenceID, referenceTable string)
	GetRanking(ctx context.Context, limit int, period string) ([]dto.RankingEntry, error)
	GetUserActions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.EcoAction, error)
	ReconcileCaches(ctx context.Context) error
}

type ecoPointsService struct {
	repo                repository.EcoActionRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewEcoPointsService(repo repository.EcoActionRepository, userRepo repository.UserRepository, notificationService NotificationService) EcoPointsService {
	return &ecoPointsService{
		repo:                repo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *ecoPointsService) AwardAsync(userID uuid.UUID, actionType model.EcoActionType, severity model.ReportSeverity, referenceID, referenceTable string) {
	go func() {
		ctx := context.Background()
		if err := s.Award(ctx, userID, actionType, severity, referenceID, referenceTable); err != nil {
			log.Printf("failed to award %s to user %s: %v", actionType, userID, err)
		}
	}()
}

func (s *ecoPointsService) Award(ctx context.Context, userID uuid.UUID, actionType model.EcoActionType, severity model.ReportSeverity, referenceID, referenceTable string) error {
	points, err := PointsFor(actionType, severity)
	if err != nil {
		return err
	}

	// daily_login is the one award that needs duplicate suppression.
	if actionType == model.ActionDailyLogin {
		exists, err := s.repo.HasDailyLogin(ctx, userID, time.Now())
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
	}

	previousTotal, err := s.repo.SumPointsByUser(ctx, userID)
	if err != nil {
		return err
	}
	previousLevel := GetEcoStatus(previousTotal).LevelName

	entry := &model.EcoAction{
		UserID:         userID,
		Type:           actionType,
		Points:         points,
		ReferenceID:    referenceID,
		ReferenceTable: referenceTable,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		// Two concurrent first-logins can both pass the existence check; the
		// partial unique index catches the loser, which is not an error.
		if actionType == model.ActionDailyLogin && errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	// Cache bump is best-effort; the reconcile job repairs any drift.
	if err := s.repo.AddCachedPoints(ctx, userID, points); err != nil {
		log.Printf("failed to update cached points for user %s: %v", userID, err)
	}

	newLevel := GetEcoStatus(previousTotal + points).LevelName
	if newLevel != previousLevel && s.notificationService != nil {
		s.sendLevelUpNotification(ctx, userID, previousLevel, newLevel, previousTotal+points)
	}

	return nil
}

func (s *ecoPointsService) sendLevelUpNotification(ctx context.Context, userID uuid.UUID, previousLevel, newLevel string, total int) {
	notification := &model.Notification{
		UserID:     userID,
		ActorID:    userID, // Self-triggered
		EntityID:   userID,
		EntityType: "gamification",
		Type:       "level_up",
		Message:    fmt.Sprintf("Congratulations! You leveled up from %s to %s with %d eco-points!", previousLevel, newLevel, total),
		IsRead:     false,
	}

	if err := s.notificationService.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to send level up notification to user %s: %v", userID, err)
	}
}

func (s *ecoPointsService) GetRanking(ctx context.Context, limit int, period string) ([]dto.RankingEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var since *time.Time
	now := time.Now()
	switch period {
	case "", "all_time":
		// No window: rank over the full ledger.
	case "weekly":
		start := now.AddDate(0, 0, -7)
		since = &start
	case "monthly":
		start := now.AddDate(0, -1, 0)
		since = &start
	default:
		return nil, apperror.ErrValidation
	}

	rows, err := s.repo.GetRanking(ctx, limit, since)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.RankingEntry, 0, len(rows))
	for i, row := range rows {
		entry := dto.RankingEntry{
			Position:     i + 1,
			UserID:       row.UserID.String(),
			TotalPoints:  row.TotalPoints,
			FirstEntryAt: row.FirstEntryAt,
			LevelName:    GetEcoStatus(row.TotalPoints).LevelName,
		}

		if user, err := s.userRepo.FindByID(ctx, row.UserID.String()); err == nil {
			entry.Username = user.Username
			entry.AvatarURL = user.AvatarURL
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *ecoPointsService) GetUserActions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.EcoAction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// ReconcileCaches rebuilds every eco_points cache from the ledger. Called by the
// background job in main.
func (s *ecoPointsService) ReconcileCaches(ctx context.Context) error {
	return s.repo.RecomputeAllCaches(ctx)
}
