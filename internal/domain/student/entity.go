// Package student contains the domain model for students on a class roster.
// This is core business logic - there are no external dependencies here.
package student

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentCode is the unique enrollment code (matricula) identifying a
// student. It is the student's immutable identity; everything else about a
// student may change.
type EnrollmentCode string

// IsValid checks that the enrollment code is 3-20 characters with no
// whitespace. The legacy installations use codes like "A2023-0412".
func (c EnrollmentCode) IsValid() bool {
	s := string(c)
	return len(s) >= 3 && len(s) <= 20 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the enrollment code.
func (c EnrollmentCode) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student represents one member of a group's roster.
type Student struct {
	// Code - unique enrollment code. Immutable identity.
	Code EnrollmentCode `json:"code"`

	// GroupID - the group this student currently belongs to. A student
	// belongs to exactly one group at a time.
	GroupID string `json:"group_id"`

	// DisplayName - full name as shown in lists and exports. Mutable.
	DisplayName string `json:"display_name"`

	// ContactEmail - optional guardian/student contact. Not used by the
	// evaluation engine.
	ContactEmail string `json:"contact_email,omitempty"`

	// ContactPhone - optional contact phone. Not used by the engine.
	ContactPhone string `json:"contact_phone,omitempty"`

	// EnrolledAt - when the student was added to the roster.
	EnrolledAt time.Time `json:"enrolled_at"`

	// UpdatedAt - time of last modification.
	UpdatedAt time.Time `json:"updated_at"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidEnrollmentCode - malformed enrollment code.
	ErrInvalidEnrollmentCode = errors.New("invalid enrollment code: must be 3-20 chars without whitespace")

	// ErrInvalidDisplayName - malformed display name.
	ErrInvalidDisplayName = errors.New("invalid display name: must be 1-100 chars")

	// ErrMissingGroup - student created without a group.
	ErrMissingGroup = errors.New("student must belong to a group")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the parameters for enrolling a new student.
type NewStudentParams struct {
	Code         EnrollmentCode
	GroupID      string
	DisplayName  string
	ContactEmail string
	ContactPhone string
}

// NewStudent creates a new student with all fields validated.
func NewStudent(params NewStudentParams) (*Student, error) {
	if !params.Code.IsValid() {
		return nil, ErrInvalidEnrollmentCode
	}

	if params.GroupID == "" {
		return nil, ErrMissingGroup
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	now := time.Now().UTC()

	return &Student{
		Code:         params.Code,
		GroupID:      params.GroupID,
		DisplayName:  displayName,
		ContactEmail: strings.TrimSpace(params.ContactEmail),
		ContactPhone: strings.TrimSpace(params.ContactPhone),
		EnrolledAt:   now,
		UpdatedAt:    now,
	}, nil
}

// Rename changes the display name. Identity (the enrollment code) never changes.
func (s *Student) Rename(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return ErrInvalidDisplayName
	}
	s.DisplayName = displayName
	s.UpdatedAt = time.Now().UTC()
	return nil
}
