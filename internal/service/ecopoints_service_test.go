package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/internal/repository"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeEcoActionRepo keeps the ledger in memory. The mutex matters because
// awards are fired from background goroutines.
type fakeEcoActionRepo struct {
	mu        sync.Mutex
	entries   []model.EcoAction
	cached    map[uuid.UUID]int
	createErr error
}

func newFakeEcoActionRepo() *fakeEcoActionRepo {
	return &fakeEcoActionRepo{cached: make(map[uuid.UUID]int)}
}

// ledger returns a copy safe to inspect while awards may still be running.
func (f *fakeEcoActionRepo) ledger() []model.EcoAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.EcoAction(nil), f.entries...)
}

func (f *fakeEcoActionRepo) Create(ctx context.Context, action *model.EcoAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.entries = append(f.entries, *action)
	return nil
}

func (f *fakeEcoActionRepo) AddCachedPoints(ctx context.Context, userID uuid.UUID, points int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached[userID] += points
	return nil
}

func (f *fakeEcoActionRepo) HasDailyLogin(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	for _, e := range f.entries {
		if e.UserID == userID && e.Type == model.ActionDailyLogin &&
			!e.CreatedAt.Before(dayStart) && e.CreatedAt.Before(dayStart.Add(24*time.Hour)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEcoActionRepo) HasEventParticipation(ctx context.Context, userID uuid.UUID, eventID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.Type == model.ActionEventParticipation && e.ReferenceID == eventID.String() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEcoActionRepo) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, e := range f.entries {
		if e.UserID == userID {
			total += e.Points
		}
	}
	return total, nil
}

func (f *fakeEcoActionRepo) GetRanking(ctx context.Context, limit int, since *time.Time) ([]repository.RankingRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byUser := make(map[uuid.UUID]*repository.RankingRow)
	for _, e := range f.entries {
		if since != nil && e.CreatedAt.Before(*since) {
			continue
		}
		row, ok := byUser[e.UserID]
		if !ok {
			row = &repository.RankingRow{UserID: e.UserID, FirstEntryAt: e.CreatedAt}
			byUser[e.UserID] = row
		}
		row.TotalPoints += e.Points
		if e.CreatedAt.Before(row.FirstEntryAt) {
			row.FirstEntryAt = e.CreatedAt
		}
	}

	rows := make([]repository.RankingRow, 0, len(byUser))
	for _, row := range byUser {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].FirstEntryAt.Before(rows[j].FirstEntryAt)
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeEcoActionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.EcoAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.EcoAction
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEcoActionRepo) RecomputeAllCaches(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := make(map[uuid.UUID]int)
	for _, e := range f.entries {
		totals[e.UserID] += e.Points
	}
	f.cached = totals
	return nil
}

// fakeUserRepo serves users from a map, erroring like gorm for misses.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	m := make(map[string]*model.User)
	for _, u := range users {
		m[u.ID.String()] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User, profile *model.Profile) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return &model.Role{ID: 1, Name: name}, nil
}

func (f *fakeUserRepo) FindStaffByZone(ctx context.Context, zone string) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User, profile *model.Profile) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

// fakeNotificationService records what would have been sent.
type fakeNotificationService struct {
	sent []*model.Notification
}

func (f *fakeNotificationService) CreateNotification(ctx context.Context, n *model.Notification) error {
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationService) MarkAsRead(id uuid.UUID) error          { return nil }
func (f *fakeNotificationService) MarkAllAsRead(userID uuid.UUID) error   { return nil }
func (f *fakeNotificationService) UnreadCount(userID uuid.UUID) (int64, error) { return 0, nil }

func newTestEcoPoints() (EcoPointsService, *fakeEcoActionRepo, *fakeUserRepo, *fakeNotificationService) {
	actions := newFakeEcoActionRepo()
	users := newFakeUserRepo()
	notifs := &fakeNotificationService{}
	return NewEcoPointsService(actions, users, notifs), actions, users, notifs
}

func TestPointsFor_SeverityScaling(t *testing.T) {
	cases := map[model.ReportSeverity]int{
		model.SeverityLow:      10,
		model.SeverityMedium:   20,
		model.SeverityHigh:     35,
		model.SeverityCritical: 50,
	}

	for severity, want := range cases {
		got, err := PointsFor(model.ActionReportCreated, severity)
		require.NoError(t, err, severity)
		assert.Equal(t, want, got, severity)
	}
}

func TestPointsFor_RejectsUnknown(t *testing.T) {
	_, err := PointsFor(model.ActionReportCreated, model.ReportSeverity("catastrophic"))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = PointsFor(model.EcoActionType("jaywalking"), "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestPointsFor_FixedActions(t *testing.T) {
	cases := map[model.EcoActionType]int{
		model.ActionReportResolved:     20,
		model.ActionEventParticipation: 100,
		model.ActionDailyLogin:         5,
		model.ActionRecycling:          20,
		model.ActionCleanup:            50,
	}

	for action, want := range cases {
		got, err := PointsFor(action, "")
		require.NoError(t, err, action)
		assert.Equal(t, want, got, action)
	}
}

func TestAward_CriticalReportThenResolution(t *testing.T) {
	svc, actions, _, _ := newTestEcoPoints()
	ctx := context.Background()
	userID := uuid.New()
	reportID := uuid.New().String()

	require.NoError(t, svc.Award(ctx, userID, model.ActionReportCreated, model.SeverityCritical, reportID, "reports"))
	require.NoError(t, svc.Award(ctx, userID, model.ActionReportResolved, "", reportID, "reports"))

	total, err := actions.SumPointsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 70, total)
	assert.Len(t, actions.entries, 2)
	assert.Equal(t, 70, actions.cached[userID])
}

func TestAward_DailyLoginDedup(t *testing.T) {
	svc, actions, _, _ := newTestEcoPoints()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Award(ctx, userID, model.ActionDailyLogin, "", userID.String(), "users"))
	// Second login the same day must be a silent no-op.
	require.NoError(t, svc.Award(ctx, userID, model.ActionDailyLogin, "", userID.String(), "users"))

	assert.Len(t, actions.entries, 1)
	total, _ := actions.SumPointsByUser(ctx, userID)
	assert.Equal(t, 5, total)
}

func TestAward_DailyLoginDuplicateKeyIsNoOp(t *testing.T) {
	svc, actions, _, _ := newTestEcoPoints()
	ctx := context.Background()
	userID := uuid.New()

	// Two concurrent first-logins can both pass the existence check; the
	// loser hits the unique index instead and must stay a silent no-op.
	actions.createErr = gorm.ErrDuplicatedKey

	require.NoError(t, svc.Award(ctx, userID, model.ActionDailyLogin, "", userID.String(), "users"))
	assert.Empty(t, actions.entries)
	assert.Zero(t, actions.cached[userID])

	// Other action types still surface the insert failure.
	err := svc.Award(ctx, userID, model.ActionCleanup, "", "", "cleanup_events")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAward_LevelUpNotification(t *testing.T) {
	svc, actions, users, notifs := newTestEcoPoints()
	ctx := context.Background()

	user := &model.User{ID: uuid.New(), Username: "rina"}
	users.users[user.ID.String()] = user

	// Seed the ledger just below the Sprout threshold.
	actions.entries = append(actions.entries, model.EcoAction{
		UserID: user.ID, Type: model.ActionCleanup, Points: 95, CreatedAt: time.Now(),
	})

	require.NoError(t, svc.Award(ctx, user.ID, model.ActionDailyLogin, "", user.ID.String(), "users"))

	require.Len(t, notifs.sent, 1)
	assert.Equal(t, user.ID, notifs.sent[0].UserID)
	assert.Equal(t, "level_up", notifs.sent[0].Type)
}

func TestAward_NoNotificationWithoutLevelChange(t *testing.T) {
	svc, _, _, notifs := newTestEcoPoints()

	require.NoError(t, svc.Award(context.Background(), uuid.New(), model.ActionDailyLogin, "", "", "users"))

	assert.Empty(t, notifs.sent)
}

func TestGetRanking_OrderAndTieBreak(t *testing.T) {
	svc, actions, users, _ := newTestEcoPoints()
	ctx := context.Background()

	early := &model.User{ID: uuid.New(), Username: "early"}
	late := &model.User{ID: uuid.New(), Username: "late"}
	top := &model.User{ID: uuid.New(), Username: "top"}
	for _, u := range []*model.User{early, late, top} {
		users.users[u.ID.String()] = u
	}

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	actions.entries = []model.EcoAction{
		{UserID: top.ID, Points: 200, CreatedAt: base.Add(3 * time.Hour)},
		{UserID: early.ID, Points: 100, CreatedAt: base},
		{UserID: late.ID, Points: 100, CreatedAt: base.Add(time.Hour)},
	}

	entries, err := svc.GetRanking(ctx, 10, "all_time")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "top", entries[0].Username)
	// Equal totals: the earlier first entry wins.
	assert.Equal(t, "early", entries[1].Username)
	assert.Equal(t, "late", entries[2].Username)

	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
	}
}

func TestGetRanking_WindowExcludesOldEntries(t *testing.T) {
	svc, actions, users, _ := newTestEcoPoints()
	ctx := context.Background()

	veteran := &model.User{ID: uuid.New(), Username: "veteran"}
	newcomer := &model.User{ID: uuid.New(), Username: "newcomer"}
	users.users[veteran.ID.String()] = veteran
	users.users[newcomer.ID.String()] = newcomer

	actions.entries = []model.EcoAction{
		{UserID: veteran.ID, Points: 1000, CreatedAt: time.Now().AddDate(0, 0, -30)},
		{UserID: newcomer.ID, Points: 50, CreatedAt: time.Now().Add(-time.Hour)},
	}

	entries, err := svc.GetRanking(ctx, 10, "weekly")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "newcomer", entries[0].Username)
	assert.Equal(t, 50, entries[0].TotalPoints)
}

func TestGetRanking_InvalidPeriod(t *testing.T) {
	svc, _, _, _ := newTestEcoPoints()

	_, err := svc.GetRanking(context.Background(), 10, "hourly")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestReconcileCaches_RepairsDrift(t *testing.T) {
	svc, actions, _, _ := newTestEcoPoints()
	ctx := context.Background()
	userID := uuid.New()

	actions.entries = []model.EcoAction{
		{UserID: userID, Points: 30, CreatedAt: time.Now()},
		{UserID: userID, Points: 20, CreatedAt: time.Now()},
	}
	actions.cached[userID] = 9999 // drifted cache

	require.NoError(t, svc.ReconcileCaches(ctx))
	assert.Equal(t, 50, actions.cached[userID])
}

func TestGetEcoStatus_Thresholds(t *testing.T) {
	cases := []struct {
		points int
		level  string
	}{
		{0, "Seedling"},
		{99, "Seedling"},
		{100, "Sprout"},
		{600, "Steward"},
		{3000, "Guardian"},
		{8000, "Champion"},
		{20000, "Legend"},
		{50000, "Legend"},
	}

	for _, tc := range cases {
		status := GetEcoStatus(tc.points)
		assert.Equal(t, tc.level, status.LevelName, "points=%d", tc.points)
		assert.Equal(t, tc.points, status.CurrentPoints)
	}

	assert.Equal(t, "Max Level", GetEcoStatus(25000).NextLevel)
}
