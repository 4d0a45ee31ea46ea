package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository implements ledger.GradeRepository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

// UpsertGrade inserts a grade entry or overwrites the value of the entry
// with the same (student, category, date) key. The unique constraint on the
// grades table carries the key, so concurrent writers cannot duplicate it.
func (r *GradeRepository) UpsertGrade(ctx context.Context, e *ledger.GradeEntry) error {
	query := `
		INSERT INTO grades (id, student_code, category_name, value, recorded_on)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_code, category_name, recorded_on)
		DO UPDATE SET value = EXCLUDED.value
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.StudentCode,
		e.CategoryName,
		e.Value,
		timeutil.DateOf(e.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert grade: %w", err)
	}

	return nil
}

// GetGrades returns all grade entries of one student.
func (r *GradeRepository) GetGrades(ctx context.Context, studentCode string) ([]*ledger.GradeEntry, error) {
	query := `
		SELECT id, student_code, category_name, value, recorded_on
		FROM grades
		WHERE student_code = $1
	`

	rows, err := r.conn.Query(ctx, query, studentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer rows.Close()

	entries := make([]*ledger.GradeEntry, 0)
	for rows.Next() {
		var e ledger.GradeEntry
		if err := rows.Scan(&e.ID, &e.StudentCode, &e.CategoryName, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// GetGradesByCategory returns one student's entries for one category.
func (r *GradeRepository) GetGradesByCategory(ctx context.Context, studentCode, categoryName string) ([]*ledger.GradeEntry, error) {
	query := `
		SELECT id, student_code, category_name, value, recorded_on
		FROM grades
		WHERE student_code = $1 AND category_name = $2
	`

	rows, err := r.conn.Query(ctx, query, studentCode, categoryName)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by category: %w", err)
	}
	defer rows.Close()

	entries := make([]*ledger.GradeEntry, 0)
	for rows.Next() {
		var e ledger.GradeEntry
		if err := rows.Scan(&e.ID, &e.StudentCode, &e.CategoryName, &e.Value, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// DeleteGradesByStudent removes all grade rows of a student.
func (r *GradeRepository) DeleteGradesByStudent(ctx context.Context, studentCode string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM grades WHERE student_code = $1`, studentCode); err != nil {
		return fmt.Errorf("failed to delete grades: %w", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRepository implements ledger.AttendanceRepository for PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// UpsertAttendance inserts an attendance entry or overwrites the status of
// the entry with the same (student, date) key.
func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, e *ledger.AttendanceEntry) error {
	query := `
		INSERT INTO attendance (id, student_code, class_date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_code, class_date)
		DO UPDATE SET status = EXCLUDED.status
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.StudentCode,
		timeutil.DateOf(e.Date),
		e.Status.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return nil
}

// GetAttendance returns all attendance entries of one student.
func (r *AttendanceRepository) GetAttendance(ctx context.Context, studentCode string) ([]*ledger.AttendanceEntry, error) {
	query := `
		SELECT id, student_code, class_date, status
		FROM attendance
		WHERE student_code = $1
	`

	rows, err := r.conn.Query(ctx, query, studentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	return scanAttendanceEntries(rows)
}

// GetAttendanceByDate returns the entries of one student within the given
// date range, inclusive.
func (r *AttendanceRepository) GetAttendanceByDate(ctx context.Context, studentCode string, from, to time.Time) ([]*ledger.AttendanceEntry, error) {
	query := `
		SELECT id, student_code, class_date, status
		FROM attendance
		WHERE student_code = $1 AND class_date >= $2 AND class_date <= $3
		ORDER BY class_date
	`

	rows, err := r.conn.Query(ctx, query, studentCode, timeutil.DateOf(from), timeutil.DateOf(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance by date: %w", err)
	}
	defer rows.Close()

	return scanAttendanceEntries(rows)
}

// DeleteAttendanceByStudent removes all attendance rows of a student.
func (r *AttendanceRepository) DeleteAttendanceByStudent(ctx context.Context, studentCode string) error {
	if _, err := r.conn.Exec(ctx, `DELETE FROM attendance WHERE student_code = $1`, studentCode); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func scanAttendanceEntries(rows pgx.Rows) ([]*ledger.AttendanceEntry, error) {
	entries := make([]*ledger.AttendanceEntry, 0)
	for rows.Next() {
		var e ledger.AttendanceEntry
		var status string
		if err := rows.Scan(&e.ID, &e.StudentCode, &e.Date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		e.Status = ledger.AttendanceStatus(status)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
