package models

// BookingOutcome classifies what happened to one requested class.
type BookingOutcome string

// Per-class booking outcomes.
const (
	OutcomeEnrolled        BookingOutcome = "ENROLLED"
	OutcomeAlreadyEnrolled BookingOutcome = "ALREADY_ENROLLED"
	OutcomeFull            BookingOutcome = "FULL"
	OutcomeUnknownClass    BookingOutcome = "UNKNOWN_CLASS"
)

// BookingResult partitions the requested class ids into disjoint outcome
// buckets and reports the resolved actor. Empty buckets serialise as empty
// arrays so clients never need nil checks.
type BookingResult struct {
	StudentID       string   `json:"student_id"`
	StudentCreated  bool     `json:"student_created"`
	Enrolled        []string `json:"enrolled"`
	AlreadyEnrolled []string `json:"already_enrolled"`
	Full            []string `json:"full"`
	Unknown         []string `json:"unknown"`
}

// AllEnrolled reports whether every requested class ended up enrolled.
func (r *BookingResult) AllEnrolled() bool {
	return len(r.AlreadyEnrolled) == 0 && len(r.Full) == 0 && len(r.Unknown) == 0
}
