package ledger

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER REPOSITORIES
// Contract note: the Get* methods return an empty slice when a student has
// no records. "Not found" is reserved for unknown students/groups and is
// raised by the roster, never by the ledger.
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository stores raw grade entries.
type GradeRepository interface {
	// UpsertGrade inserts a grade entry or, when an entry with the same
	// (student, category, date) key exists, overwrites its value.
	UpsertGrade(ctx context.Context, e *GradeEntry) error

	// GetGrades returns all grade entries of one student, in no
	// guaranteed order. Empty slice when there are none.
	GetGrades(ctx context.Context, studentCode string) ([]*GradeEntry, error)

	// GetGradesByCategory returns one student's entries for one category.
	// Empty slice when there are none.
	GetGradesByCategory(ctx context.Context, studentCode, categoryName string) ([]*GradeEntry, error)

	// DeleteGradesByStudent removes all grade rows of a student. Called
	// only from explicit student removal.
	DeleteGradesByStudent(ctx context.Context, studentCode string) error
}

// AttendanceRepository stores raw attendance entries.
type AttendanceRepository interface {
	// UpsertAttendance inserts an attendance entry or, when the
	// (student, date) key exists, overwrites its status.
	UpsertAttendance(ctx context.Context, e *AttendanceEntry) error

	// GetAttendance returns all attendance entries of one student.
	// Empty slice when there are none.
	GetAttendance(ctx context.Context, studentCode string) ([]*AttendanceEntry, error)

	// GetAttendanceByDate returns the entries of one student within the
	// given date range (inclusive). Empty slice when there are none.
	GetAttendanceByDate(ctx context.Context, studentCode string, from, to time.Time) ([]*AttendanceEntry, error)

	// DeleteAttendanceByStudent removes all attendance rows of a student.
	// Called only from explicit student removal.
	DeleteAttendanceByStudent(ctx context.Context, studentCode string) error
}
