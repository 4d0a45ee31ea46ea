// Package evaluation implements the weighted evaluation and risk assessment
// core: normalized weighted averages with best-of-N selection, attendance
// aggregation, and threshold-based risk classification. Everything in this
// package is a pure computation over data handed in by the caller.
package evaluation

import (
	"math"
)

// ══════════════════════════════════════════════════════════════════════════════
// RISK STATES
// ══════════════════════════════════════════════════════════════════════════════

// RiskState is the classified risk label of one student.
type RiskState string

const (
	// RiskNone - neither academic nor attendance risk.
	RiskNone RiskState = "Normal"
	// RiskAcademic - final average below the academic threshold.
	RiskAcademic RiskState = "Academic Risk"
	// RiskAttendance - attendance percentage below the attendance threshold.
	RiskAttendance RiskState = "Attendance Risk"
	// RiskBoth - both conditions hold.
	RiskBoth RiskState = "Academic and Attendance Risk"
)

// IsValid checks that the state is one of the four classifications.
func (r RiskState) IsValid() bool {
	switch r {
	case RiskNone, RiskAcademic, RiskAttendance, RiskBoth:
		return true
	default:
		return false
	}
}

// AtRisk reports whether the state flags any risk at all.
func (r RiskState) AtRisk() bool {
	return r != RiskNone
}

// String returns the display label of the state.
func (r RiskState) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATION RESULT
// ══════════════════════════════════════════════════════════════════════════════

// Result is the derived per-student evaluation row. It is recomputed on
// demand from the current ledger and rubric and never persisted, so there
// is no staleness to manage.
type Result struct {
	// StudentCode - enrollment code of the evaluated student.
	StudentCode string `json:"student_code"`

	// DisplayName - roster display name, carried for sorting and export.
	DisplayName string `json:"display_name"`

	// FinalAverage - normalized weighted average on the 0-10 scale,
	// rounded to 2 decimals.
	FinalAverage float64 `json:"final_average"`

	// AttendancePercent - attendance percentage, rounded to 2 decimals.
	AttendancePercent float64 `json:"attendance_percent"`

	// CategoryAverages - per-category best-of-N averages that fed the
	// final average, keyed by category name. Categories without grades
	// are absent from the map.
	CategoryAverages map[string]float64 `json:"category_averages,omitempty"`

	// Risk - classified risk state.
	Risk RiskState `json:"risk"`
}

// Round2 rounds to 2 decimal places for presentation. Intermediate
// aggregation always runs on full precision; rounding happens once, at the
// edge.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
