package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-booking-api/internal/models"
	"github.com/noah-isme/studio-booking-api/internal/repository"
	appErrors "github.com/noah-isme/studio-booking-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, input models.UpdateStudentInput) (*models.Student, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type studentClassReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Class, error)
}

// UpdateStudentRequest carries the editable fields of a student record.
type UpdateStudentRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
}

// StudentService covers directory CRUD outside the booking flow.
type StudentService struct {
	repo      studentRepository
	classes   studentClassReader
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, classes studentClassReader, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Classes lists the classes a student is enrolled in, grid ordering.
func (s *StudentService) Classes(ctx context.Context, id string) ([]models.Class, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	classes, err := s.classes.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student classes")
	}
	if classes == nil {
		classes = []models.Class{}
	}
	return classes, nil
}

// Update rewrites the mutable contact fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.Update(ctx, id, models.UpdateStudentInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use by another student")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Delete removes a student; the enrollment rows cascade with the foreign
// key, so the schedule grid cache is invalidated as well.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, repository.ScheduleGridKey); err != nil {
			s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
		}
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}
