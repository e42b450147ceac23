package models

import "time"

// Class is a scheduled offering: one weekly slot with a fixed seat capacity.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Weekday   string    `db:"weekday" json:"weekday"`
	StartTime string    `db:"start_time" json:"start_time"`
	Title     string    `db:"title" json:"title"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleSlot is a class enriched with its current occupancy for the grid.
type ScheduleSlot struct {
	Class
	Occupancy int  `db:"occupancy" json:"occupancy"`
	IsFull    bool `db:"is_full" json:"is_full"`
}

// WeekdayRank orders weekdays Monday through Saturday; the schedule grid and
// every per-student class list share this ordering. Kept in one place so the
// SQL CASE expression and any Go-side sorting cannot drift apart.
var WeekdayRank = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}
