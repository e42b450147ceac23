package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studio-booking-api/internal/models"
)

// weekdayOrder ranks schedule slots Monday through Saturday. Classes carry
// their weekday as text, so ordering has to be spelled out.
const weekdayOrder = `CASE c.weekday
        WHEN 'monday' THEN 1
        WHEN 'tuesday' THEN 2
        WHEN 'wednesday' THEN 3
        WHEN 'thursday' THEN 4
        WHEN 'friday' THEN 5
        WHEN 'saturday' THEN 6
        ELSE 7 END`

// ClassRepository manages persistence for scheduled classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListWithOccupancy returns every class enriched with its current occupancy,
// ordered by weekday then start time.
func (r *ClassRepository) ListWithOccupancy(ctx context.Context) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT c.id, c.weekday, c.start_time, c.title, c.capacity, c.created_at, c.updated_at,
        COUNT(e.id) AS occupancy, COUNT(e.id) >= c.capacity AS is_full
        FROM classes c
        LEFT JOIN enrollments e ON e.class_id = c.id
        GROUP BY c.id
        ORDER BY %s, c.start_time ASC`, weekdayOrder)

	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list classes with occupancy: %w", err)
	}
	return slots, nil
}

// FindByID fetches a single class.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, weekday, start_time, title, capacity, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindSlotByID fetches a single class together with its occupancy.
func (r *ClassRepository) FindSlotByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	const query = `SELECT c.id, c.weekday, c.start_time, c.title, c.capacity, c.created_at, c.updated_at,
        COUNT(e.id) AS occupancy, COUNT(e.id) >= c.capacity AS is_full
        FROM classes c
        LEFT JOIN enrollments e ON e.class_id = c.id
        WHERE c.id = $1
        GROUP BY c.id`
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListByStudent returns the classes a student is enrolled in, grid ordering.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Class, error) {
	query := fmt.Sprintf(`SELECT c.id, c.weekday, c.start_time, c.title, c.capacity, c.created_at, c.updated_at
        FROM classes c
        JOIN enrollments e ON e.class_id = c.id
        WHERE e.student_id = $1
        ORDER BY %s, c.start_time ASC`, weekdayOrder)

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, studentID); err != nil {
		return nil, fmt.Errorf("list student classes: %w", err)
	}
	return classes, nil
}
