package models

// RosterEntry is one enrolled student inside a class roster.
type RosterEntry struct {
	StudentID  string `db:"student_id" json:"student_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	NationalID string `db:"national_id" json:"national_id"`
	Email      string `db:"email" json:"email"`
}

// ClassRoster embeds a class together with the ordered list of its
// enrolled students (last name, then first name).
type ClassRoster struct {
	Class
	Occupancy int           `json:"occupancy"`
	Students  []RosterEntry `json:"students"`
}
