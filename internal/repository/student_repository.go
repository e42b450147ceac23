package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/studio-booking-api/internal/models"
)

// pqUniqueViolation is the Postgres error code for unique constraint breaches.
const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-key violation.
// Services map it onto the conflict error of the API contract.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ok := asPQError(err, &pqErr); ok {
		return string(pqErr.Code) == pqUniqueViolation
	}
	return false
}

func asPQError(err error, target **pq.Error) bool {
	for err != nil {
		if e, ok := err.(*pq.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND (LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR national_id LIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	allowedSorts := map[string]bool{
		"last_name":   true,
		"first_name":  true,
		"national_id": true,
		"created_at":  true,
	}
	sortBy := filter.SortBy
	if !allowedSorts[sortBy] {
		sortBy = "last_name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, first_name, last_name, national_id, email, phone, created_at, updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, first_name, last_name, national_id, email, phone, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update rewrites the mutable contact fields of a student. The national
// identifier is immutable and never touched here.
func (r *StudentRepository) Update(ctx context.Context, id string, input models.UpdateStudentInput) (*models.Student, error) {
	const query = `UPDATE students
        SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = $6
        WHERE id = $1
        RETURNING id, first_name, last_name, national_id, email, phone, created_at, updated_at`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id, input.FirstName, input.LastName, input.Email, input.Phone, time.Now().UTC()); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student; enrollments cascade through the foreign key.
// Returns the number of rows removed so callers can distinguish not-found.
func (r *StudentRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM students WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete student: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete student rows affected: %w", err)
	}
	return affected, nil
}
