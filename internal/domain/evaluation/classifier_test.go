package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		average    float64
		attendance float64
		want       RiskState
	}{
		{"only academic", 6.9, 85, RiskAcademic},
		{"only attendance", 8.0, 79, RiskAttendance},
		{"both", 6.9, 79, RiskBoth},
		{"neither", 8.5, 95, RiskNone},
		// Thresholds are strict less-than: boundary values are non-risk.
		{"academic boundary", 7.0, 80, RiskNone},
		{"attendance boundary", 10.0, 80.0, RiskNone},
		{"just under academic", 6.99, 100, RiskAcademic},
		{"just under attendance", 7.0, 79.99, RiskAttendance},
		{"zero everything", 0, 0, RiskBoth},
	}

	c := NewDefaultRiskClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.average, tt.attendance))
		})
	}
}

func TestClassify_IsPure(t *testing.T) {
	c := NewDefaultRiskClassifier()

	// Same inputs, same output, regardless of what was classified before.
	first := c.Classify(6.0, 70)
	c.Classify(9.9, 99)
	c.Classify(0, 0)
	assert.Equal(t, first, c.Classify(6.0, 70))
}

func TestCustomThresholds(t *testing.T) {
	c := NewRiskClassifier(RiskThresholds{Academic: 5.0, Attendance: 50.0})

	assert.Equal(t, RiskNone, c.Classify(6.0, 70))
	assert.Equal(t, RiskAcademic, c.Classify(4.9, 70))
	assert.Equal(t, RiskAttendance, c.Classify(5.0, 49.9))
}

func TestDefaultRiskThresholds(t *testing.T) {
	tr := DefaultRiskThresholds()
	assert.Equal(t, 7.0, tr.Academic)
	assert.Equal(t, 80.0, tr.Attendance)
}

func TestRiskState(t *testing.T) {
	assert.True(t, RiskBoth.AtRisk())
	assert.False(t, RiskNone.AtRisk())
	assert.True(t, RiskAttendance.IsValid())
	assert.False(t, RiskState("Critical").IsValid())
	assert.Equal(t, "Academic and Attendance Risk", RiskBoth.String())
}
