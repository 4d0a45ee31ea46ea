package evaluation

// ══════════════════════════════════════════════════════════════════════════════
// RISK CLASSIFIER
// ══════════════════════════════════════════════════════════════════════════════

// Default risk thresholds. These values are fixed policy in the current
// version; RiskThresholds exists so a future variant can inject different
// ones without touching the classifier.
const (
	// DefaultAcademicThreshold - final averages below this flag academic risk.
	DefaultAcademicThreshold = 7.0

	// DefaultAttendanceThreshold - attendance percentages below this flag
	// attendance risk.
	DefaultAttendanceThreshold = 80.0
)

// RiskThresholds carries the classification cut-offs. Both comparisons are
// strict less-than: a student sitting exactly on a threshold is not at risk.
type RiskThresholds struct {
	// Academic - final-average threshold on the 0-10 scale.
	Academic float64

	// Attendance - attendance-percentage threshold, 0-100.
	Attendance float64
}

// DefaultRiskThresholds returns the 7.0 / 80.0 policy values.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		Academic:   DefaultAcademicThreshold,
		Attendance: DefaultAttendanceThreshold,
	}
}

// RiskClassifier maps (final average, attendance percent) to a risk state.
// Purely a function of its two inputs: no hysteresis, no state across calls.
type RiskClassifier struct {
	thresholds RiskThresholds
}

// NewRiskClassifier creates a classifier with the given thresholds.
func NewRiskClassifier(t RiskThresholds) *RiskClassifier {
	return &RiskClassifier{thresholds: t}
}

// NewDefaultRiskClassifier creates a classifier with the default thresholds.
func NewDefaultRiskClassifier() *RiskClassifier {
	return NewRiskClassifier(DefaultRiskThresholds())
}

// Classify returns the risk state for the given averages.
func (c *RiskClassifier) Classify(finalAverage, attendancePercent float64) RiskState {
	academic := finalAverage < c.thresholds.Academic
	attendance := attendancePercent < c.thresholds.Attendance

	switch {
	case academic && attendance:
		return RiskBoth
	case academic:
		return RiskAcademic
	case attendance:
		return RiskAttendance
	default:
		return RiskNone
	}
}
