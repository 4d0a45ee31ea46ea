package memory

import (
	"context"
	"sort"

	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository is the in-memory implementation of student.Repository.
type RosterRepository struct {
	d *db
}

// Enroll adds a student to a group's roster.
func (r *RosterRepository) Enroll(_ context.Context, s *student.Student) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, exists := r.d.students[s.Code]; exists {
		return shared.ErrStudentExists
	}
	r.d.students[s.Code] = *s
	return nil
}

// GetByCode returns a student by enrollment code.
func (r *RosterRepository) GetByCode(_ context.Context, code student.EnrollmentCode) (*student.Student, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	s, ok := r.d.students[code]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return &s, nil
}

// GetRoster returns all students of a group sorted by display name, code
// as tiebreak.
func (r *RosterRepository) GetRoster(_ context.Context, groupID string) ([]*student.Student, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]*student.Student, 0)
	for _, s := range r.d.students {
		if s.GroupID != groupID {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// Update persists mutable student fields.
func (r *RosterRepository) Update(_ context.Context, s *student.Student) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, exists := r.d.students[s.Code]; !exists {
		return shared.ErrStudentNotFound
	}
	r.d.students[s.Code] = *s
	return nil
}

// Remove deletes a student together with all of the student's grade and
// attendance rows. Everything happens under one lock, so a reader never
// observes a half-removed student.
func (r *RosterRepository) Remove(_ context.Context, code student.EnrollmentCode) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, exists := r.d.students[code]; !exists {
		return shared.ErrStudentNotFound
	}
	delete(r.d.students, code)

	for k := range r.d.grades {
		if k.studentCode == code.String() {
			delete(r.d.grades, k)
		}
	}
	for k := range r.d.attendance {
		if k.studentCode == code.String() {
			delete(r.d.attendance, k)
		}
	}
	return nil
}

// CountByGroup returns the roster size of a group.
func (r *RosterRepository) CountByGroup(_ context.Context, groupID string) (int, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	count := 0
	for _, s := range r.d.students {
		if s.GroupID == groupID {
			count++
		}
	}
	return count, nil
}
