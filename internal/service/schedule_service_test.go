package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greencycle/ecotrack-backend/internal/dto"
	"github.com/greencycle/ecotrack-backend/internal/model"
	"github.com/greencycle/ecotrack-backend/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*model.CollectionSchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[uuid.UUID]*model.CollectionSchedule)}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, schedule *model.CollectionSchedule) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CollectionSchedule, error) {
	if s, ok := f.schedules[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleRepo) FindAll(ctx context.Context, zone string) ([]model.CollectionSchedule, error) {
	var out []model.CollectionSchedule
	for _, s := range f.schedules {
		if zone == "" || s.Zone == zone {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, schedule *model.CollectionSchedule) error {
	f.schedules[schedule.ID] = schedule
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.schedules, id)
	return nil
}

func zoneUser(role string, zone string) *model.User {
	u := &model.User{
		ID:   uuid.New(),
		Role: model.Role{Name: role},
	}
	if zone != "" {
		u.Zone = &zone
	}
	return u
}

func newTestSchedules(users ...*model.User) (ScheduleService, *fakeScheduleRepo) {
	repo := newFakeScheduleRepo()
	return NewScheduleService(repo, newFakeUserRepo(users...)), repo
}

func mondayInput(zone string) dto.ScheduleInput {
	return dto.ScheduleInput{
		Zone:      zone,
		WasteType: "organic",
		Days:      []string{"Monday"},
		Frequency: model.FrequencyWeekly,
	}
}

func TestScheduleCreate_AdminAnyZone(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	svc, _ := newTestSchedules(admin)

	schedule, err := svc.Create(context.Background(), admin.ID, mondayInput("north"))
	require.NoError(t, err)

	require.NotNil(t, schedule.NextCollection)
	assert.Equal(t, time.Monday, schedule.NextCollection.Weekday())
	assert.NotNil(t, schedule.LastCalculatedAt)
	assert.Equal(t, admin.ID, schedule.CreatedByID)
}

func TestScheduleCreate_WorkerOwnZoneOnly(t *testing.T) {
	worker := zoneUser(model.RoleWorker, "north")
	svc, _ := newTestSchedules(worker)
	ctx := context.Background()

	_, err := svc.Create(ctx, worker.ID, mondayInput("north"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, worker.ID, mondayInput("south"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestScheduleCreate_CitizenForbidden(t *testing.T) {
	citizen := zoneUser(model.RoleCitizen, "")
	svc, _ := newTestSchedules(citizen)

	_, err := svc.Create(context.Background(), citizen.ID, mondayInput("north"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestScheduleCreate_InvalidDaysRejected(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	svc, _ := newTestSchedules(admin)

	input := mondayInput("north")
	input.Days = []string{"Funday"}

	_, err := svc.Create(context.Background(), admin.ID, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidSchedule)
}

func TestScheduleUpdate_WorkerCannotMoveToForeignZone(t *testing.T) {
	worker := zoneUser(model.RoleWorker, "north")
	svc, _ := newTestSchedules(worker)
	ctx := context.Background()

	schedule, err := svc.Create(ctx, worker.ID, mondayInput("north"))
	require.NoError(t, err)

	// Moving the schedule into a zone the worker doesn't own is forbidden.
	_, err = svc.Update(ctx, worker.ID, schedule.ID, mondayInput("south"))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestScheduleCalculateNext_Idempotent(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	svc, _ := newTestSchedules(admin)
	ctx := context.Background()

	input := mondayInput("north")
	input.Frequency = model.FrequencyBiweekly

	schedule, err := svc.Create(ctx, admin.ID, input)
	require.NoError(t, err)
	first := *schedule.NextCollection

	// Recomputing before the date passes must not move it.
	recomputed, err := svc.CalculateNext(ctx, admin.ID, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *recomputed.NextCollection)
}

func TestScheduleGetByID_NotFound(t *testing.T) {
	admin := zoneUser(model.RoleAdmin, "")
	svc, _ := newTestSchedules(admin)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
