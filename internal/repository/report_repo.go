package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"gorm.io/gorm"
)

// ReportFilter narrows report listings. Zero values mean "no filter".
type ReportFilter struct {
	Status     model.ReportStatus
	Type       model.ReportType
	Zone       string
	ReporterID uuid.UUID
	Limit      int
	Offset     int
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	FindAll(ctx context.Context, filter ReportFilter) ([]model.Report, error)
	Update(ctx context.Context, report *model.Report) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status model.ReportStatus) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Reporter.Role").
		Preload("Photos").
		Where("id = ?", id).
		First(&report).Error; err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *reportRepository) FindAll(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	query := r.db.WithContext(ctx).Model(&model.Report{}).
		Preload("Reporter").
		Preload("Photos").
		Order("created_at desc")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Zone != "" {
		query = query.Where("zone = ?", filter.Zone)
	}
	if filter.ReporterID != uuid.Nil {
		query = query.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var reports []model.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ReportPhoto{}, "report_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Report{}, "id = ?", id).Error
	})
}

func (r *reportRepository) CountByStatus(ctx context.Context, status model.ReportStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
