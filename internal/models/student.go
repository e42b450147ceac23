package models

import "time"

// Student represents a person registered with the studio. The national
// identifier is the immutable business key used to recognise returning
// students across bookings; email is unique but never used for resolution.
type Student struct {
	ID         string    `db:"id" json:"id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	NationalID string    `db:"national_id" json:"national_id"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UpdateStudentInput carries the mutable fields of a student record.
type UpdateStudentInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}
