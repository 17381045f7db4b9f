package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReportRepo struct {
	reports   map[uuid.UUID]*model.Report
	createErr error
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: make(map[uuid.UUID]*model.Report)}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *model.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	if r, ok := f.reports[id]; ok {
		copy := *r
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) FindAll(ctx context.Context, filter repository.ReportFilter) ([]model.Report, error) {
	var out []model.Report
	for _, r := range f.reports {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ReporterID != uuid.Nil && r.ReporterID != filter.ReporterID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *model.Report) error {
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.reports, id)
	return nil
}

func (f *fakeReportRepo) CountByStatus(ctx context.Context, status model.ReportStatus) (int64, error) {
	var count int64
	for _, r := range f.reports {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

// fakeLimiter grants or denies every acquisition and records releases.
type fakeLimiter struct {
	denied   bool
	ttl      time.Duration
	released []string
}

func (f *fakeLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	return !f.denied, nil
}

func (f *fakeLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	return f.ttl, nil
}

func (f *fakeLimiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	f.released = append(f.released, action)
	return nil
}

func newTestReports(users ...*model.User) (ReportService, *fakeReportRepo, *fakeEcoActionRepo) {
	svc, repo, actions := newTestReportsLimited(nil, users...)
	return svc, repo, actions
}

func newTestReportsLimited(limiter RateLimiter, users ...*model.User) (ReportService, *fakeReportRepo, *fakeEcoActionRepo) {
	repo := newFakeReportRepo()
	userRepo := newFakeUserRepo(users...)
	actions := newFakeEcoActionRepo()
	notifs := &fakeNotificationService{}
	ecoPoints := NewEcoPointsService(actions, userRepo, notifs)
	svc := NewReportService(repo, userRepo, ecoPoints, notifs, nil, nil, limiter, time.Minute)
	return svc, repo, actions
}

func seedReport(repo *fakeReportRepo, reporterID uuid.UUID, status model.ReportStatus) *model.Report {
	report := &model.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		Type:        model.TypeIllegalDumping,
		Severity:    model.SeverityHigh,
		Status:      status,
		Description: "mattress dumped behind the market",
		Zone:        "north",
	}
	repo.reports[report.ID] = report
	return report
}

func validReportInput() dto.CreateReportInput {
	return dto.CreateReportInput{
		Type:        model.TypeIllegalDumping,
		Severity:    model.SeverityLow,
		Description: "overflowing bins by the station",
		Latitude:    -6.2,
		Longitude:   106.8,
		Zone:        "north",
	}
}

func TestReportCreate_RateLimited(t *testing.T) {
	citizen := zoneUser(model.RoleCitizen, "")
	limiter := &fakeLimiter{denied: true, ttl: 45 * time.Second}
	svc, repo, _ := newTestReportsLimited(limiter, citizen)

	_, err := svc.Create(context.Background(), citizen.ID, validReportInput(), nil)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	// The error tells the reporter how long the cooldown has left.
	assert.Contains(t, err.Error(), "45 seconds")
	assert.Empty(t, repo.reports)
}

func TestReportCreate_ReleasesCooldownOnFailure(t *testing.T) {
	citizen := zoneUser(model.RoleCitizen, "")
	limiter := &fakeLimiter{}
	svc, repo, _ := newTestReportsLimited(limiter, citizen)
	ctx := context.Background()

	repo.createErr = errors.New("connection reset by peer")
	_, err := svc.Create(ctx, citizen.ID, validReportInput(), nil)
	require.Error(t, err)
	assert.Equal(t, []string{"create_report"}, limiter.released)

	// A successful creation keeps the cooldown in place.
	repo.createErr = nil
	_, err = svc.Create(ctx, citizen.ID, validReportInput(), nil)
	require.NoError(t, err)
	assert.Len(t, limiter.released, 1)
}

func TestReportTransition_CitizenForbidden(t *testing.T) {
	citizen := zoneUser(model.RoleCitizen, "")
	svc, repo, _ := newTestReports(citizen)
	report := seedReport(repo, citizen.ID, model.ReportPending)

	_, err := svc.Transition(context.Background(), citizen.ID, report.ID,
		dto.TransitionReportInput{Status: model.ReportInProgress})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Even the reporter's own report stays untouched.
	assert.Equal(t, model.ReportPending, repo.reports[report.ID].Status)
}

func TestReportTransition_WorkerResolves(t *testing.T) {
	worker := zoneUser(model.RoleWorker, "north")
	citizen := zoneUser(model.RoleCitizen, "")
	svc, repo, _ := newTestReports(worker, citizen)
	report := seedReport(repo, citizen.ID, model.ReportInProgress)

	notes := "cleared this morning"
	updated, err := svc.Transition(context.Background(), worker.ID, report.ID,
		dto.TransitionReportInput{Status: model.ReportResolved, ResolutionNotes: &notes})
	require.NoError(t, err)

	assert.Equal(t, model.ReportResolved, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	require.NotNil(t, updated.ResolutionNotes)
	assert.Equal(t, notes, *updated.ResolutionNotes)
}

func TestReportTransition_ResolutionAwardsReporter(t *testing.T) {
	worker := zoneUser(model.RoleWorker, "north")
	citizen := zoneUser(model.RoleCitizen, "")
	svc, repo, actions := newTestReports(worker, citizen)
	report := seedReport(repo, citizen.ID, model.ReportInProgress)

	_, err := svc.Transition(context.Background(), worker.ID, report.ID,
		dto.TransitionReportInput{Status: model.ReportResolved})
	require.NoError(t, err)

	// The award is written in the background, so poll the ledger. It must go
	// to the original reporter, not the resolving worker.
	require.Eventually(t, func() bool {
		for _, e := range actions.ledger() {
			if e.Type == model.ActionReportResolved && e.UserID == citizen.ID && e.Points == PointsReportResolved {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, actions.ledger(), 1)
}

func TestReportTransition_CancelledStaysCancelled(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	svc, repo, _ := newTestReports(admin)
	report := seedReport(repo, uuid.New(), model.ReportCancelled)

	for _, to := range []model.ReportStatus{model.ReportPending, model.ReportInProgress, model.ReportResolved} {
		_, err := svc.Transition(context.Background(), admin.ID, report.ID,
			dto.TransitionReportInput{Status: to})
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition, to)
	}
}

func TestReportTransition_UnknownActor(t *testing.T) {
	svc, repo, _ := newTestReports()
	report := seedReport(repo, uuid.New(), model.ReportPending)

	_, err := svc.Transition(context.Background(), uuid.New(), report.ID,
		dto.TransitionReportInput{Status: model.ReportInProgress})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestReportUpdateDetails_OwnerPendingOnly(t *testing.T) {
	citizen := zoneUser(model.RoleCitizen, "")
	other := zoneUser(model.RoleCitizen, "")
	svc, repo, _ := newTestReports(citizen, other)
	ctx := context.Background()

	report := seedReport(repo, citizen.ID, model.ReportPending)

	newDesc := "two mattresses now, and a fridge"
	updated, err := svc.UpdateDetails(ctx, citizen.ID, report.ID, dto.UpdateReportInput{Description: &newDesc})
	require.NoError(t, err)
	assert.Equal(t, newDesc, updated.Description)

	// Not the owner.
	_, err = svc.UpdateDetails(ctx, other.ID, report.ID, dto.UpdateReportInput{Description: &newDesc})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// No longer pending.
	inProgress := seedReport(repo, citizen.ID, model.ReportInProgress)
	_, err = svc.UpdateDetails(ctx, citizen.ID, inProgress.ID, dto.UpdateReportInput{Description: &newDesc})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestReportDelete_AdminOrOwner(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	citizen := zoneUser(model.RoleCitizen, "")
	other := zoneUser(model.RoleCitizen, "")
	svc, repo, _ := newTestReports(admin, citizen, other)
	ctx := context.Background()

	mine := seedReport(repo, citizen.ID, model.ReportPending)
	require.NoError(t, svc.Delete(ctx, citizen.ID, mine.ID))

	theirs := seedReport(repo, citizen.ID, model.ReportPending)
	err := svc.Delete(ctx, other.ID, theirs.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, admin.ID, theirs.ID))
	assert.Empty(t, repo.reports)
}

func TestReportGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestReports()

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
