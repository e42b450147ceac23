package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/repository"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
)

type scheduleRepository interface {
	ListWithOccupancy(ctx context.Context) ([]models.ScheduleSlot, error)
	FindSlotByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// ScheduleService serves the weekly grid of classes with occupancy. The grid
// is read far more often than it changes, so it is cached with a short TTL
// and invalidated by the write paths.
type ScheduleService struct {
	repo     scheduleRepository
	cache    scheduleCache
	metrics  cacheMetrics
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(repo scheduleRepository, cache scheduleCache, metrics cacheMetrics, cacheTTL time.Duration, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Grid returns every class with occupancy, capacity and the full flag, in
// weekday-then-start-time order.
func (s *ScheduleService) Grid(ctx context.Context) ([]models.ScheduleSlot, error) {
	if s.cache != nil {
		start := time.Now()
		var cached []models.ScheduleSlot
		err := s.cache.Get(ctx, repository.ScheduleGridKey, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache read failed", zap.Error(err))
		}
	}

	slots, err := s.repo.ListWithOccupancy(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	if slots == nil {
		slots = []models.ScheduleSlot{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, repository.ScheduleGridKey, slots, s.cacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.Error(err))
		}
	}

	return slots, nil
}

// GetClass returns one class with its occupancy.
func (s *ScheduleService) GetClass(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindSlotByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return slot, nil
}
