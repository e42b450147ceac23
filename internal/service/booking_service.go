package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/repository"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
)

type bookingRepository interface {
	Book(ctx context.Context, actor repository.BookingActor, classIDs []string) (*models.BookingResult, error)
}

type cacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

type bookingMetrics interface {
	RecordBookingOutcomes(enrolled, already, full, unknown int)
}

// BookingRequest describes the reservation payload.
type BookingRequest struct {
	FirstName  string   `json:"first_name" validate:"required"`
	LastName   string   `json:"last_name" validate:"required"`
	NationalID string   `json:"national_id" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone"`
	ClassIDs   []string `json:"class_ids" validate:"required,min=1,dive,required"`
}

// BookingService orchestrates the reservation workflow: validate the
// payload, run the transactional booking, invalidate the cached grid and
// record outcome metrics.
type BookingService struct {
	repo      bookingRepository
	cache     cacheInvalidator
	metrics   bookingMetrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs BookingService.
func NewBookingService(repo bookingRepository, cache cacheInvalidator, metrics bookingMetrics, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// Book resolves the student and enrolls them into the requested classes.
// Capacity-full, already-enrolled and unknown class ids are reported inside
// the result, never as errors; only identity conflicts and storage failures
// surface as errors, and those leave no partial state behind.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*models.BookingResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	actor := repository.BookingActor{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Email:      req.Email,
		Phone:      req.Phone,
	}

	result, err := s.repo.Book(ctx, actor, req.ClassIDs)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student identity conflicts with an existing record")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to process booking")
	}

	if s.metrics != nil {
		s.metrics.RecordBookingOutcomes(len(result.Enrolled), len(result.AlreadyEnrolled), len(result.Full), len(result.Unknown))
	}

	if len(result.Enrolled) > 0 && s.cache != nil {
		if err := s.cache.Delete(ctx, repository.ScheduleGridKey); err != nil {
			s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
		}
	}

	s.logger.Info("booking processed",
		zap.String("student_id", result.StudentID),
		zap.Bool("student_created", result.StudentCreated),
		zap.Int("enrolled", len(result.Enrolled)),
		zap.Int("already_enrolled", len(result.AlreadyEnrolled)),
		zap.Int("full", len(result.Full)),
		zap.Int("unknown", len(result.Unknown)),
	)

	return result, nil
}
