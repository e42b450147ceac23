package models

import "time"

// Enrollment is the association row between a student and a class. The pair
// (student_id, class_id) is unique; the count of rows per class is the sole
// source of truth for seat occupancy.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
