package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RosterRepository implements student.Repository for PostgreSQL.
type RosterRepository struct {
	conn *Connection
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(conn *Connection) *RosterRepository {
	return &RosterRepository{conn: conn}
}

// Enroll adds a student to a group's roster.
func (r *RosterRepository) Enroll(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (code, group_id, display_name, contact_email, contact_phone, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		s.Code.String(),
		s.GroupID,
		s.DisplayName,
		s.ContactEmail,
		s.ContactPhone,
		s.EnrolledAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentExists
		}
		return fmt.Errorf("failed to enroll student: %w", err)
	}

	return nil
}

// GetByCode returns a student by enrollment code.
func (r *RosterRepository) GetByCode(ctx context.Context, code student.EnrollmentCode) (*student.Student, error) {
	query := `
		SELECT code, group_id, display_name, contact_email, contact_phone, enrolled_at, updated_at
		FROM students
		WHERE code = $1
	`

	row := r.conn.QueryRow(ctx, query, code.String())
	return scanStudent(row)
}

// GetRoster returns all students of a group sorted by display name, code as
// tiebreak.
func (r *RosterRepository) GetRoster(ctx context.Context, groupID string) ([]*student.Student, error) {
	query := `
		SELECT code, group_id, display_name, contact_email, contact_phone, enrolled_at, updated_at
		FROM students
		WHERE group_id = $1
		ORDER BY display_name, code
	`

	rows, err := r.conn.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	roster := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudentFromRows(rows)
		if err != nil {
			return nil, err
		}
		roster = append(roster, s)
	}

	return roster, rows.Err()
}

// Update persists mutable student fields.
func (r *RosterRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			group_id = $1,
			display_name = $2,
			contact_email = $3,
			contact_phone = $4,
			updated_at = $5
		WHERE code = $6
	`

	result, err := r.conn.Exec(ctx, query,
		s.GroupID,
		s.DisplayName,
		s.ContactEmail,
		s.ContactPhone,
		time.Now().UTC(),
		s.Code.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Remove deletes a student and all of the student's ledger rows in one
// transaction. The grade and attendance deletes are explicit rather than
// relying on the ON DELETE CASCADE, so the behavior is the same on schemas
// restored without constraints.
func (r *RosterRepository) Remove(ctx context.Context, code student.EnrollmentCode) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM grades WHERE student_code = $1`, code.String()); err != nil {
			return fmt.Errorf("failed to delete grades: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM attendance WHERE student_code = $1`, code.String()); err != nil {
			return fmt.Errorf("failed to delete attendance: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM students WHERE code = $1`, code.String())
		if err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrStudentNotFound
		}

		return nil
	})
}

// CountByGroup returns the roster size of a group.
func (r *RosterRepository) CountByGroup(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE group_id = $1`,
		groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count roster: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var code string

	err := row.Scan(
		&code,
		&s.GroupID,
		&s.DisplayName,
		&s.ContactEmail,
		&s.ContactPhone,
		&s.EnrolledAt,
		&s.UpdatedAt,
	)
	if IsNoRows(err) {
		return nil, shared.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.Code = student.EnrollmentCode(code)
	return &s, nil
}

func scanStudentFromRows(rows pgx.Rows) (*student.Student, error) {
	var s student.Student
	var code string

	err := rows.Scan(
		&code,
		&s.GroupID,
		&s.DisplayName,
		&s.ContactEmail,
		&s.ContactPhone,
		&s.EnrolledAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.Code = student.EnrollmentCode(code)
	return &s, nil
}
