package evaluation

import (
	"github.com/directaula/classroom-engine/internal/domain/ledger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE AGGREGATOR
// ══════════════════════════════════════════════════════════════════════════════

// NoRecordAttendance is the defined attendance percentage for a student
// with zero attendance records. Absence of data is no penalty, not a
// failure - callers depend on this exact value.
const NoRecordAttendance = 100.0

// AttendanceAggregator computes one student's attendance percentage from
// raw attendance entries. Present and Excused count as attended; Absent
// and Late do not.
type AttendanceAggregator struct{}

// NewAttendanceAggregator creates an aggregator.
func NewAttendanceAggregator() *AttendanceAggregator {
	return &AttendanceAggregator{}
}

// Percentage returns the full-precision attendance percentage of the
// supplied entries. A student with no entries at all is at
// NoRecordAttendance.
func (a *AttendanceAggregator) Percentage(entries []*ledger.AttendanceEntry) float64 {
	if len(entries) == 0 {
		return NoRecordAttendance
	}

	counted := 0
	for _, e := range entries {
		if e.Status.CountsAsPresent() {
			counted++
		}
	}

	return float64(counted) / float64(len(entries)) * 100.0
}
