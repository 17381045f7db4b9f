package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

// RankingRow is one leaderboard entry aggregated from the ledger. FirstEntryAt
// breaks ties between equal totals: the earlier contributor ranks higher.
type RankingRow struct {
	UserID       uuid.UUID `json:"user_id"`
	TotalPoints  int       `json:"total_points"`
	FirstEntryAt time.Time `json:"first_entry_at"`
}

type EcoActionRepository interface {
	Create(ctx context.Context, action *model.EcoAction) error
	AddCachedPoints(ctx context.Context, userID uuid.UUID, points int) error
	HasDailyLogin(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
	HasEventParticipation(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) (bool, error)
	SumPointsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	GetRanking(ctx context.Context, limit int, since *time.Time) ([]RankingRow, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.EcoAction, error)
	RecomputeAllCaches(ctx context.Context) error
}

type ecoActionRepository struct {
	db *gorm.DB
}

func NewEcoActionRepository(db *gorm.DB) EcoActionRepository {
	return &ecoActionRepository{db: db}
}

func (r *ecoActionRepository) Create(ctx context.Context, action *model.EcoAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// AddCachedPoints bumps the denormalized eco_points cache on the user row. The
// ledger remains the source of truth; a racing increment that is lost heals on
// the next full recomputation.
func (r *ecoActionRepository) AddCachedPoints(ctx context.Context, userID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("eco_points", gorm.Expr("eco_points + ?", points)).Error
}

func (r *ecoActionRepository) HasDailyLogin(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var count int64
	err := r.db.WithContext(ctx).Model(&model.EcoAction{}).
		Where("user_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			userID, model.ActionDailyLogin, startOfDay, endOfDay).
		Count(&count).Error
	return count > 0, err
}

func (r *ecoActionRepository) HasEventParticipation(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.EcoAction{}).
		Where("user_id = ? AND type = ? AND reference_id = ?",
			userID, model.ActionEventParticipation, eventID.String()).
		Count(&count).Error
	return count > 0, err
}

func (r *ecoActionRepository) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.EcoAction{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// GetRanking aggregates the ledger into a leaderboard: total points descending,
// ties broken by the earliest ledger entry in the queried window.
func (r *ecoActionRepository) GetRanking(ctx context.Context, limit int, since *time.Time) ([]RankingRow, error) {
	query := r.db.WithContext(ctx).Model(&model.EcoAction{}).
		Select("user_id, SUM(points) as total_points, MIN(created_at) as first_entry_at").
		Group("user_id").
		Order("total_points DESC, first_entry_at ASC").
		Limit(limit)

	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var rows []RankingRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *ecoActionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.EcoAction, error) {
	var actions []model.EcoAction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error
	return actions, err
}

// RecomputeAllCaches rewrites every user's eco_points cache from the ledger sum.
// Run periodically; this is the self-heal path for cache drift.
func (r *ecoActionRepository) RecomputeAllCaches(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE users SET eco_points = COALESCE(
			(SELECT SUM(points) FROM eco_actions WHERE eco_actions.user_id = users.id), 0
		)`).Error
}
