package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		Code:        "A2023-0412",
		GroupID:     "g1",
		DisplayName: "  Maria Fernanda Lopez ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Fernanda Lopez", s.DisplayName)
	assert.Equal(t, EnrollmentCode("A2023-0412"), s.Code)

	tests := []struct {
		name    string
		params  NewStudentParams
		wantErr error
	}{
		{
			name:    "code too short",
			params:  NewStudentParams{Code: "ab", GroupID: "g1", DisplayName: "X"},
			wantErr: ErrInvalidEnrollmentCode,
		},
		{
			name:    "code with whitespace",
			params:  NewStudentParams{Code: "A20 23", GroupID: "g1", DisplayName: "X"},
			wantErr: ErrInvalidEnrollmentCode,
		},
		{
			name:    "no group",
			params:  NewStudentParams{Code: "A2023-0412", DisplayName: "X"},
			wantErr: ErrMissingGroup,
		},
		{
			name:    "blank name",
			params:  NewStudentParams{Code: "A2023-0412", GroupID: "g1", DisplayName: "   "},
			wantErr: ErrInvalidDisplayName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStudent(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStudent_Rename(t *testing.T) {
	s, err := NewStudent(NewStudentParams{Code: "A2023-0412", GroupID: "g1", DisplayName: "Old"})
	require.NoError(t, err)

	require.NoError(t, s.Rename("New Name"))
	assert.Equal(t, "New Name", s.DisplayName)

	assert.ErrorIs(t, s.Rename(""), ErrInvalidDisplayName)
}
