package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY
// This interface defines the contract for roster storage.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines roster operations for students.
type Repository interface {
	// Enroll adds a student to a group's roster.
	// Returns shared.ErrStudentExists if the code is already enrolled.
	Enroll(ctx context.Context, s *Student) error

	// GetByCode returns a student by enrollment code.
	// Returns shared.ErrStudentNotFound if no such student exists.
	GetByCode(ctx context.Context, code EnrollmentCode) (*Student, error)

	// GetRoster returns all students of a group sorted by display name
	// (ties broken by enrollment code). The returned slice is empty, never
	// nil-with-error, when the group has no students.
	GetRoster(ctx context.Context, groupID string) ([]*Student, error)

	// Update persists mutable student fields.
	// Returns shared.ErrStudentNotFound if no such student exists.
	Update(ctx context.Context, s *Student) error

	// Remove deletes a student and, transactionally, all of the student's
	// grade and attendance rows. This is the only deletion path for ledger
	// data. Returns shared.ErrStudentNotFound if no such student exists.
	Remove(ctx context.Context, code EnrollmentCode) error

	// CountByGroup returns the roster size of a group.
	CountByGroup(ctx context.Context, groupID string) (int, error)
}
