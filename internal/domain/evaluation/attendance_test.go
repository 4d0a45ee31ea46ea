package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/directaula/classroom-engine/internal/domain/ledger"
)

func attendance(statuses ...ledger.AttendanceStatus) []*ledger.AttendanceEntry {
	out := make([]*ledger.AttendanceEntry, len(statuses))
	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	for i, st := range statuses {
		out[i] = &ledger.AttendanceEntry{
			StudentCode: "A2023-0001",
			Date:        day.AddDate(0, 0, i),
			Status:      st,
		}
	}
	return out
}

func TestPercentage_NoRecordsIsFullAttendance(t *testing.T) {
	agg := NewAttendanceAggregator()

	// No data is no penalty: exactly 100.0, not 0.
	assert.Equal(t, 100.0, agg.Percentage(nil))
	assert.Equal(t, 100.0, agg.Percentage([]*ledger.AttendanceEntry{}))
}

func TestPercentage_CountsPresentAndExcused(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ledger.AttendanceStatus
		want     float64
	}{
		{
			name:     "all present",
			statuses: []ledger.AttendanceStatus{ledger.StatusPresent, ledger.StatusPresent},
			want:     100.0,
		},
		{
			name:     "excused counts as present",
			statuses: []ledger.AttendanceStatus{ledger.StatusPresent, ledger.StatusExcused},
			want:     100.0,
		},
		{
			name:     "late does not count",
			statuses: []ledger.AttendanceStatus{ledger.StatusPresent, ledger.StatusLate},
			want:     50.0,
		},
		{
			name:     "absent does not count",
			statuses: []ledger.AttendanceStatus{ledger.StatusAbsent, ledger.StatusAbsent, ledger.StatusAbsent, ledger.StatusPresent},
			want:     25.0,
		},
		{
			name: "mixed",
			statuses: []ledger.AttendanceStatus{
				ledger.StatusPresent, ledger.StatusAbsent, ledger.StatusLate,
				ledger.StatusExcused, ledger.StatusPresent, ledger.StatusPresent,
			},
			want: 4.0 / 6.0 * 100.0,
		},
	}

	agg := NewAttendanceAggregator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.Percentage(attendance(tt.statuses...))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPercentage_RoundingHappensAtPresentation(t *testing.T) {
	// 2 of 3 counted: full precision internally, 66.67 at the edge.
	got := NewAttendanceAggregator().Percentage(attendance(
		ledger.StatusPresent, ledger.StatusExcused, ledger.StatusAbsent,
	))

	assert.InDelta(t, 200.0/3.0, got, 1e-9)
	assert.Equal(t, 66.67, Round2(got))
}
