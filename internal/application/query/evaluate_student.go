package query

import (
	"context"

	"github.com/directaula/classroom-engine/internal/domain/evaluation"
	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVALUATE STUDENT QUERY
// Computes one student's evaluation row from the current ledger and rubric.
// Always recomputes; nothing is cached or persisted.
// ══════════════════════════════════════════════════════════════════════════════

// EvaluateStudentQuery contains the parameters for a single-student evaluation.
type EvaluateStudentQuery struct {
	// GroupID - the group the student is expected to belong to.
	GroupID string

	// StudentCode - enrollment code of the student.
	StudentCode string
}

// Validate checks the query parameters.
func (q *EvaluateStudentQuery) Validate() error {
	if q.GroupID == "" {
		return shared.NewDomainError("query", "EvaluateStudent", shared.ErrEmptyValue, "group id is required")
	}
	if q.StudentCode == "" {
		return shared.NewDomainError("query", "EvaluateStudent", shared.ErrEmptyValue, "student code is required")
	}
	return nil
}

// EvaluateStudentHandler handles single-student evaluation queries.
type EvaluateStudentHandler struct {
	roster     student.Repository
	grades     ledger.GradeRepository
	attendance ledger.AttendanceRepository
	rubrics    *RubricLoader

	calculator *evaluation.WeightedAverageCalculator
	aggregator *evaluation.AttendanceAggregator
	classifier *evaluation.RiskClassifier
}

// NewEvaluateStudentHandler creates a new handler.
func NewEvaluateStudentHandler(
	roster student.Repository,
	grades ledger.GradeRepository,
	attendance ledger.AttendanceRepository,
	rubrics *RubricLoader,
	classifier *evaluation.RiskClassifier,
) *EvaluateStudentHandler {
	return &EvaluateStudentHandler{
		roster:     roster,
		grades:     grades,
		attendance: attendance,
		rubrics:    rubrics,
		calculator: evaluation.NewWeightedAverageCalculator(),
		aggregator: evaluation.NewAttendanceAggregator(),
		classifier: classifier,
	}
}

// Handle evaluates one student against the group's current rubric.
func (h *EvaluateStudentHandler) Handle(ctx context.Context, q EvaluateStudentQuery) (*evaluation.Result, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	st, err := h.roster.GetByCode(ctx, student.EnrollmentCode(q.StudentCode))
	if err != nil {
		return nil, err
	}
	if st.GroupID != q.GroupID {
		return nil, shared.ErrStudentNotInGroup
	}

	rubric, err := h.rubrics.Load(ctx, q.GroupID)
	if err != nil {
		return nil, err
	}

	return h.evaluateOne(ctx, st, rubric)
}

// evaluateOne runs the three aggregation steps for a roster member against
// an already-loaded rubric. Shared with the group evaluation, which loads
// the rubric once for the whole roster.
func (h *EvaluateStudentHandler) evaluateOne(ctx context.Context, st *student.Student, rubric *group.CategorySet) (*evaluation.Result, error) {
	grades, err := h.grades.GetGrades(ctx, st.Code.String())
	if err != nil {
		return nil, shared.WrapError("evaluation", "EvaluateStudent", shared.ErrExternalService, "loading grades", err)
	}

	entries, err := h.attendance.GetAttendance(ctx, st.Code.String())
	if err != nil {
		return nil, shared.WrapError("evaluation", "EvaluateStudent", shared.ErrExternalService, "loading attendance", err)
	}

	breakdown := h.calculator.Calculate(grades, rubric)
	attendancePct := h.aggregator.Percentage(entries)

	// Classification runs on full precision; rounding is presentation only.
	// A true average of 6.997 displays as 7.0 but is still below the
	// academic threshold.
	risk := h.classifier.Classify(breakdown.FinalAverage, attendancePct)

	categoryAverages := make(map[string]float64, len(breakdown.CategoryAverages))
	for name, avg := range breakdown.CategoryAverages {
		categoryAverages[name] = evaluation.Round2(avg)
	}

	return &evaluation.Result{
		StudentCode:       st.Code.String(),
		DisplayName:       st.DisplayName,
		FinalAverage:      evaluation.Round2(breakdown.FinalAverage),
		AttendancePercent: evaluation.Round2(attendancePct),
		CategoryAverages:  categoryAverages,
		Risk:              risk,
	}, nil
}
