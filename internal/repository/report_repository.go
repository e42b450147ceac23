package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studio-booking-api/internal/models"
)

// ReportRepository builds read-only projections for reporting endpoints.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type rosterRow struct {
	ClassID    string  `db:"class_id"`
	StudentID  *string `db:"student_id"`
	FirstName  *string `db:"first_name"`
	LastName   *string `db:"last_name"`
	NationalID *string `db:"national_id"`
	Email      *string `db:"email"`
}

// ClassRosters returns every class with its enrolled students, classes in
// grid order and students ordered by last name then first name. Classes with
// no enrollments are included with an empty roster.
func (r *ReportRepository) ClassRosters(ctx context.Context) ([]models.ClassRoster, error) {
	classQuery := fmt.Sprintf(`SELECT c.id, c.weekday, c.start_time, c.title, c.capacity, c.created_at, c.updated_at
        FROM classes c ORDER BY %s, c.start_time ASC`, weekdayOrder)

	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, classQuery); err != nil {
		return nil, fmt.Errorf("list classes for roster: %w", err)
	}

	const rosterQuery = `SELECT e.class_id, s.id AS student_id, s.first_name, s.last_name, s.national_id, s.email
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        ORDER BY s.last_name ASC, s.first_name ASC`

	var rows []rosterRow
	if err := r.db.SelectContext(ctx, &rows, rosterQuery); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	byClass := make(map[string][]models.RosterEntry, len(classes))
	for _, row := range rows {
		if row.StudentID == nil {
			continue
		}
		entry := models.RosterEntry{
			StudentID:  *row.StudentID,
			FirstName:  deref(row.FirstName),
			LastName:   deref(row.LastName),
			NationalID: deref(row.NationalID),
			Email:      deref(row.Email),
		}
		byClass[row.ClassID] = append(byClass[row.ClassID], entry)
	}

	rosters := make([]models.ClassRoster, 0, len(classes))
	for _, class := range classes {
		students := byClass[class.ID]
		if students == nil {
			students = []models.RosterEntry{}
		}
		rosters = append(rosters, models.ClassRoster{
			Class:     class,
			Occupancy: len(students),
			Students:  students,
		})
	}
	return rosters, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
