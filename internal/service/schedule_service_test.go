package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/repository"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
)

type mockScheduleRepo struct {
	slots []models.ScheduleSlot
	slot  *models.ScheduleSlot
	err   error
	calls int
}

func (m *mockScheduleRepo) ListWithOccupancy(ctx context.Context) ([]models.ScheduleSlot, error) {
	m.calls++
	return m.slots, m.err
}

func (m *mockScheduleRepo) FindSlotByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	return m.slot, m.err
}

type mockScheduleCache struct {
	stored  map[string][]models.ScheduleSlot
	getErr  error
	setErr  error
	setKeys []string
}

func newMockScheduleCache() *mockScheduleCache {
	return &mockScheduleCache{stored: map[string][]models.ScheduleSlot{}}
}

func (m *mockScheduleCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	slots, ok := m.stored[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*[]models.ScheduleSlot) = slots
	return nil
}

func (m *mockScheduleCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setKeys = append(m.setKeys, key)
	if m.setErr != nil {
		return m.setErr
	}
	m.stored[key] = value.([]models.ScheduleSlot)
	return nil
}

type mockCacheMetrics struct {
	hits, misses int
}

func (m *mockCacheMetrics) RecordCacheOperation(hit bool, duration time.Duration) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func sampleSlots() []models.ScheduleSlot {
	return []models.ScheduleSlot{
		{Class: models.Class{ID: "class-1", Weekday: "monday", StartTime: "10:00:00", Title: "HATHA YOGA", Capacity: 6}, Occupancy: 4},
		{Class: models.Class{ID: "class-2", Weekday: "monday", StartTime: "18:00:00", Title: "ACROYOGA", Capacity: 6}, Occupancy: 6, IsFull: true},
	}
}

func TestScheduleServiceGridPopulatesCacheOnMiss(t *testing.T) {
	repo := &mockScheduleRepo{slots: sampleSlots()}
	cache := newMockScheduleCache()
	metrics := &mockCacheMetrics{}
	svc := NewScheduleService(repo, cache, metrics, 30*time.Second, zap.NewNop())

	slots, err := svc.Grid(context.Background())
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, []string{repository.ScheduleGridKey}, cache.setKeys)
	assert.Equal(t, 1, metrics.misses)

	// Second call is served from the cache.
	slots, err = svc.Grid(context.Background())
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, metrics.hits)
}

func TestScheduleServiceGridSurvivesCacheFailure(t *testing.T) {
	repo := &mockScheduleRepo{slots: sampleSlots()}
	cache := newMockScheduleCache()
	cache.getErr = errors.New("redis gone")
	cache.setErr = errors.New("redis gone")
	svc := NewScheduleService(repo, cache, nil, 30*time.Second, zap.NewNop())

	slots, err := svc.Grid(context.Background())
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestScheduleServiceGridWithoutCache(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	slots, err := svc.Grid(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestScheduleServiceGridWrapsRepoError(t *testing.T) {
	repo := &mockScheduleRepo{err: errors.New("down")}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	_, err := svc.Grid(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceGetClassNotFound(t *testing.T) {
	repo := &mockScheduleRepo{err: sql.ErrNoRows}
	svc := NewScheduleService(repo, nil, nil, 0, zap.NewNop())

	_, err := svc.GetClass(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
