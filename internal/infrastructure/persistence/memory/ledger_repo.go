package memory

import (
	"context"
	"time"

	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER REPOSITORIES
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository is the in-memory implementation of ledger.GradeRepository.
type GradeRepository struct {
	d *db
}

// UpsertGrade inserts or overwrites the entry with the same
// (student, category, date) key.
func (r *GradeRepository) UpsertGrade(_ context.Context, e *ledger.GradeEntry) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := gradeKey{
		studentCode:  e.StudentCode,
		categoryName: e.CategoryName,
		date:         dateKey(e.RecordedAt),
	}
	if prev, exists := r.d.grades[key]; exists {
		// Keep the original row id so the overwrite is an update, not a
		// delete-and-insert.
		stored := *e
		stored.ID = prev.ID
		r.d.grades[key] = stored
		return nil
	}
	r.d.grades[key] = *e
	return nil
}

// GetGrades returns all grade entries of one student.
func (r *GradeRepository) GetGrades(_ context.Context, studentCode string) ([]*ledger.GradeEntry, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]*ledger.GradeEntry, 0)
	for k, e := range r.d.grades {
		if k.studentCode != studentCode {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

// GetGradesByCategory returns one student's entries for one category.
func (r *GradeRepository) GetGradesByCategory(_ context.Context, studentCode, categoryName string) ([]*ledger.GradeEntry, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]*ledger.GradeEntry, 0)
	for k, e := range r.d.grades {
		if k.studentCode != studentCode || k.categoryName != categoryName {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

// DeleteGradesByStudent removes all grade rows of a student.
func (r *GradeRepository) DeleteGradesByStudent(_ context.Context, studentCode string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for k := range r.d.grades {
		if k.studentCode == studentCode {
			delete(r.d.grades, k)
		}
	}
	return nil
}

// AttendanceRepository is the in-memory implementation of
// ledger.AttendanceRepository.
type AttendanceRepository struct {
	d *db
}

// UpsertAttendance inserts or overwrites the entry with the same
// (student, date) key.
func (r *AttendanceRepository) UpsertAttendance(_ context.Context, e *ledger.AttendanceEntry) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	key := attendanceKey{
		studentCode: e.StudentCode,
		date:        dateKey(e.Date),
	}
	if prev, exists := r.d.attendance[key]; exists {
		stored := *e
		stored.ID = prev.ID
		r.d.attendance[key] = stored
		return nil
	}
	r.d.attendance[key] = *e
	return nil
}

// GetAttendance returns all attendance entries of one student.
func (r *AttendanceRepository) GetAttendance(_ context.Context, studentCode string) ([]*ledger.AttendanceEntry, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]*ledger.AttendanceEntry, 0)
	for k, e := range r.d.attendance {
		if k.studentCode != studentCode {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

// GetAttendanceByDate returns the entries of one student within the given
// date range, inclusive on both ends.
func (r *AttendanceRepository) GetAttendanceByDate(_ context.Context, studentCode string, from, to time.Time) ([]*ledger.AttendanceEntry, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	fromDay := timeutil.DateOf(from)
	toDay := timeutil.DateOf(to)

	out := make([]*ledger.AttendanceEntry, 0)
	for k, e := range r.d.attendance {
		if k.studentCode != studentCode {
			continue
		}
		day := timeutil.DateOf(e.Date)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	return out, nil
}

// DeleteAttendanceByStudent removes all attendance rows of a student.
func (r *AttendanceRepository) DeleteAttendanceByStudent(_ context.Context, studentCode string) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	for k := range r.d.attendance {
		if k.studentCode == studentCode {
			delete(r.d.attendance, k)
		}
	}
	return nil
}
