// Package ledger contains the raw grade and attendance records of the
// classroom ledger. Pure data model; aggregation rules live in the
// evaluation package.
package ledger

import (
	"time"

	"github.com/directaula/classroom-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

const (
	// GradeMin is the lowest recordable grade value.
	GradeMin = 0.0

	// GradeMax is the highest recordable grade value (0-10 scale).
	GradeMax = 10.0
)

// GradeEntry is one raw graded item for a student in a category. Several
// entries may exist for the same (student, category) pair - that is how
// multiple homework submissions within one category are modeled. The upsert
// key is (student, category, date): a write with an existing key overwrites
// instead of duplicating.
type GradeEntry struct {
	// ID - surrogate row id (UUID in string form).
	ID string

	// StudentCode - enrollment code of the graded student.
	StudentCode string

	// CategoryName - rubric category this grade belongs to. The name is
	// not validated against the current rubric: if the rubric changes
	// later the entry is orphaned and simply excluded from averaging.
	CategoryName string

	// Value - the grade, 0.0 to 10.0.
	Value float64

	// RecordedAt - the calendar date of the graded item. Part of the
	// upsert key; truncated to a date, never a timestamp.
	RecordedAt time.Time
}

// ValidateGradeValue checks a raw grade value against the 0-10 scale.
func ValidateGradeValue(value float64) error {
	if value < GradeMin || value > GradeMax {
		return shared.ErrGradeOutOfRange
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceStatus is the recorded state of a student on one class day.
type AttendanceStatus string

const (
	// StatusPresent - the student attended.
	StatusPresent AttendanceStatus = "Present"
	// StatusAbsent - the student did not attend.
	StatusAbsent AttendanceStatus = "Absent"
	// StatusLate - the student arrived late. Counts against attendance.
	StatusLate AttendanceStatus = "Late"
	// StatusExcused - justified absence. Does not count against attendance.
	StatusExcused AttendanceStatus = "Excused"
)

// IsValid checks that the status is one of the four recordable states.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether this status counts toward the attendance
// percentage. Present and Excused count; Absent and Late do not.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusExcused
}

// String returns the string representation of the status.
func (s AttendanceStatus) String() string {
	return string(s)
}

// AttendanceEntry is one student's recorded state for one date. At most one
// entry exists per (student, date); later writes overwrite earlier ones.
type AttendanceEntry struct {
	// ID - surrogate row id (UUID in string form).
	ID string

	// StudentCode - enrollment code of the student.
	StudentCode string

	// Date - the class date, truncated to a calendar date.
	Date time.Time

	// Status - recorded state for that date.
	Status AttendanceStatus
}
