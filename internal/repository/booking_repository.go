package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studio-booking-api/internal/models"
)

// BookingActor carries the identity fields submitted with a booking.
type BookingActor struct {
	FirstName  string
	LastName   string
	NationalID string
	Email      string
	Phone      string
}

// BookingRepository executes the reservation workflow. Resolving or creating
// the student and every capacity-checked enrollment insert run inside a
// single transaction. Each class row is
// locked with FOR UPDATE before its occupancy is counted, so two concurrent
// bookings against the same near-full class serialise on the row lock and
// can never push occupancy past capacity.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs the repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Book resolves the actor and enrolls them into the requested classes,
// partitioning the ids into outcome buckets. Any storage error rolls back
// the whole request; partial outcomes (full, already enrolled, unknown id)
// are data, not errors.
func (r *BookingRepository) Book(ctx context.Context, actor BookingActor, classIDs []string) (*models.BookingResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result := &models.BookingResult{
		Enrolled:        []string{},
		AlreadyEnrolled: []string{},
		Full:            []string{},
		Unknown:         []string{},
	}

	studentID, created, err := r.resolveActor(ctx, tx, actor)
	if err != nil {
		return nil, err
	}
	result.StudentID = studentID
	result.StudentCreated = created

	for _, classID := range classIDs {
		outcome, err := r.enrollOne(ctx, tx, studentID, classID)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case models.OutcomeEnrolled:
			result.Enrolled = append(result.Enrolled, classID)
		case models.OutcomeAlreadyEnrolled:
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, classID)
		case models.OutcomeFull:
			result.Full = append(result.Full, classID)
		case models.OutcomeUnknownClass:
			result.Unknown = append(result.Unknown, classID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit booking tx: %w", err)
	}
	return result, nil
}

// resolveActor looks the student up by national id only. A hit refreshes the
// contact fields in place; a miss creates the record. The student row is
// locked so a concurrent booking for the same person serialises here.
func (r *BookingRepository) resolveActor(ctx context.Context, tx *sqlx.Tx, actor BookingActor) (string, bool, error) {
	const lookup = `SELECT id FROM students WHERE national_id = $1 FOR UPDATE`
	var studentID string
	err := tx.GetContext(ctx, &studentID, lookup, actor.NationalID)
	switch {
	case err == nil:
		const update = `UPDATE students SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = $6 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, update, studentID, actor.FirstName, actor.LastName, actor.Email, actor.Phone, time.Now().UTC()); err != nil {
			return "", false, fmt.Errorf("refresh student contact: %w", err)
		}
		return studentID, false, nil
	case errors.Is(err, sql.ErrNoRows):
		studentID = uuid.NewString()
		now := time.Now().UTC()
		const insert = `INSERT INTO students (id, first_name, last_name, national_id, email, phone, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, insert, studentID, actor.FirstName, actor.LastName, actor.NationalID, actor.Email, actor.Phone, now, now); err != nil {
			return "", false, fmt.Errorf("create student: %w", err)
		}
		return studentID, true, nil
	default:
		return "", false, fmt.Errorf("resolve student: %w", err)
	}
}

func (r *BookingRepository) enrollOne(ctx context.Context, tx *sqlx.Tx, studentID, classID string) (models.BookingOutcome, error) {
	// The FOR UPDATE lock is the serialisation point for the capacity check.
	const lockClass = `SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`
	var capacity int
	if err := tx.GetContext(ctx, &capacity, lockClass, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.OutcomeUnknownClass, nil
		}
		return "", fmt.Errorf("lock class %s: %w", classID, err)
	}

	const existing = `SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`
	var enrolled bool
	if err := tx.GetContext(ctx, &enrolled, existing, studentID, classID); err != nil {
		return "", fmt.Errorf("check existing enrollment: %w", err)
	}
	if enrolled {
		return models.OutcomeAlreadyEnrolled, nil
	}

	const occupancy = `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`
	var count int
	if err := tx.GetContext(ctx, &count, occupancy, classID); err != nil {
		return "", fmt.Errorf("count enrollments: %w", err)
	}
	if count >= capacity {
		return models.OutcomeFull, nil
	}

	const insert = `INSERT INTO enrollments (id, student_id, class_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), studentID, classID, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("insert enrollment: %w", err)
	}
	return models.OutcomeEnrolled, nil
}
