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

type fakeEventRepo struct {
	events       map[uuid.UUID]*model.CleanupEvent
	participants map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:       make(map[uuid.UUID]*model.CleanupEvent),
		participants: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.CleanupEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CleanupEvent, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRepo) FindAll(ctx context.Context, zone string) ([]model.CleanupEvent, error) {
	var out []model.CleanupEvent
	for _, e := range f.events {
		if zone == "" || e.Zone == zone {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.CleanupEvent) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.events, id)
	delete(f.participants, id)
	return nil
}

func (f *fakeEventRepo) AddParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	if f.participants[eventID] == nil {
		f.participants[eventID] = make(map[uuid.UUID]bool)
	}
	f.participants[eventID][userID] = true
	return nil
}

func (f *fakeEventRepo) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) error {
	delete(f.participants[eventID], userID)
	return nil
}

func (f *fakeEventRepo) IsParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return f.participants[eventID][userID], nil
}

func newTestEvents() (EventService, *fakeEventRepo, *fakeEcoActionRepo) {
	repo := newFakeEventRepo()
	actions := newFakeEcoActionRepo()
	// No points service: awards fire asynchronously and are covered separately.
	svc := NewEventService(repo, actions, nil)
	return svc, repo, actions
}

func seedEvent(t *testing.T, svc EventService, repo *fakeEventRepo) *model.CleanupEvent {
	t.Helper()
	event, err := svc.Create(context.Background(), uuid.New(), dto.EventInput{
		Title:    "River bank cleanup",
		Zone:     "north",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	return event
}

func TestEventJoin_Idempotent(t *testing.T) {
	svc, repo, _ := newTestEvents()
	ctx := context.Background()
	event := seedEvent(t, svc, repo)
	userID := uuid.New()

	require.NoError(t, svc.Join(ctx, event.ID, userID))
	require.NoError(t, svc.Join(ctx, event.ID, userID))

	assert.Len(t, repo.participants[event.ID], 1)
}

func TestEventJoin_UnknownEvent(t *testing.T) {
	svc, _, _ := newTestEvents()

	err := svc.Join(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEventLeave(t *testing.T) {
	svc, repo, _ := newTestEvents()
	ctx := context.Background()
	event := seedEvent(t, svc, repo)
	userID := uuid.New()

	require.NoError(t, svc.Join(ctx, event.ID, userID))
	require.NoError(t, svc.Leave(ctx, event.ID, userID))
	assert.Empty(t, repo.participants[event.ID])

	// Leaving an event you're not part of is an error.
	err := svc.Leave(ctx, event.ID, userID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEventDelete_RemovesParticipants(t *testing.T) {
	svc, repo, _ := newTestEvents()
	ctx := context.Background()
	event := seedEvent(t, svc, repo)

	require.NoError(t, svc.Join(ctx, event.ID, uuid.New()))
	require.NoError(t, svc.Delete(ctx, event.ID))

	assert.Empty(t, repo.events)
	assert.Empty(t, repo.participants)
}
