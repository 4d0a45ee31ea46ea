package application

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directaula/classroom-engine/internal/application/command"
	"github.com/directaula/classroom-engine/internal/domain/evaluation"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/internal/infrastructure/persistence/memory"
	"github.com/directaula/classroom-engine/pkg/logger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := memory.NewStore()
	return NewEngine(Repositories{
		Groups:     store.Groups,
		Rubrics:    store.Rubrics,
		Roster:     store.Roster,
		Grades:     store.Grades,
		Attendance: store.Attendance,
	}, Options{
		Log: logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError}),
	})
}

func enroll(t *testing.T, e *Engine, groupID, code, name string) {
	t.Helper()
	_, err := e.EnrollStudent(context.Background(), student.NewStudentParams{
		Code:        student.EnrollmentCode(code),
		GroupID:     groupID,
		DisplayName: name,
	})
	require.NoError(t, err)
}

func standardRubric() []command.CategoryInput {
	return []command.CategoryInput{
		{Name: "Exam", WeightPercent: 50, MaxItems: 2},
		{Name: "Homework", WeightPercent: 30, MaxItems: 3},
		{Name: "Participation", WeightPercent: 20, MaxItems: 1},
	}
}

func TestEngine_EvaluateStudent_FullFlow(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "3-B Mathematics", "2026-1")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-001", "Ana Torres")

	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, standardRubric()))

	// Three exams, best two count: (9.0 + 8.0) / 2 = 8.5.
	day := timeutil.Date(2026, 3, 2)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-001", "Exam", 9.0, day)
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-001", "Exam", 6.0, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-001", "Exam", 8.0, day.AddDate(0, 0, 14))
	require.NoError(t, err)

	// Homework average 7.0, Participation 10.0.
	_, err = e.RecordGrade(ctx, g.ID, "A2026-001", "Homework", 7.0, day)
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-001", "Participation", 10.0, day)
	require.NoError(t, err)

	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-001")
	require.NoError(t, err)

	// 8.5*0.5 + 7.0*0.3 + 10.0*0.2 = 8.35
	assert.InDelta(t, 8.35, res.FinalAverage, 0.001)
	assert.InDelta(t, 8.5, res.CategoryAverages["Exam"], 0.001)
	assert.InDelta(t, 7.0, res.CategoryAverages["Homework"], 0.001)
	assert.Equal(t, evaluation.RiskNone, res.Risk)
	// No attendance records means a perfect 100.
	assert.Equal(t, 100.0, res.AttendancePercent)
}

func TestEngine_EvaluateStudent_NoGrades(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Empty Ledger", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-002", "Bruno Diaz")

	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-002")
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.FinalAverage)
	assert.Equal(t, 100.0, res.AttendancePercent)
	assert.Equal(t, evaluation.RiskAcademic, res.Risk)
	assert.Empty(t, res.CategoryAverages)
}

func TestEngine_EvaluateStudent_WrongGroup(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g1, err := e.CreateGroup(ctx, "Group One", "")
	require.NoError(t, err)
	g2, err := e.CreateGroup(ctx, "Group Two", "")
	require.NoError(t, err)
	enroll(t, e, g1.ID, "A2026-003", "Carla Ruiz")

	_, err = e.EvaluateStudent(ctx, g2.ID, "A2026-003")
	assert.ErrorIs(t, err, shared.ErrStudentNotInGroup)
}

func TestEngine_EvaluateStudent_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Roster", "")
	require.NoError(t, err)

	_, err = e.EvaluateStudent(ctx, g.ID, "NOBODY-1")
	assert.True(t, shared.IsNotFound(err))
}

func TestEngine_DefaultRubricSynthesizedOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Fresh Group", "")
	require.NoError(t, err)

	cs, err := e.CategorySet(ctx, g.ID)
	require.NoError(t, err)

	require.Len(t, cs.Categories, 3)
	assert.Equal(t, []string{"Exam", "Homework", "Participation"}, cs.Names())
	assert.InDelta(t, 100.0, cs.TotalWeight(), 0.001)

	// The synthesized set is persisted, so a second load sees the same set.
	again, err := e.CategorySet(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, cs.Names(), again.Names())
}

func TestEngine_RecordGrade_Validation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Validation", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-004", "Diego Leon")

	tests := []struct {
		name     string
		code     string
		category string
		value    float64
		wantErr  error
	}{
		{"value above range", "A2026-004", "Exam", 10.5, shared.ErrGradeOutOfRange},
		{"value below range", "A2026-004", "Exam", -0.1, shared.ErrGradeOutOfRange},
		{"blank category", "A2026-004", "   ", 7.0, shared.ErrEmptyCategoryName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RecordGrade(ctx, g.ID, tt.code, tt.category, tt.value, timeutil.Today())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown student", func(t *testing.T) {
		_, err := e.RecordGrade(ctx, g.ID, "GHOST-1", "Exam", 7.0, timeutil.Today())
		assert.True(t, shared.IsNotFound(err))
	})

	// Rejected writes must not leave partial state behind.
	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-004")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.FinalAverage)
}

func TestEngine_RecordGrade_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Upsert", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-005", "Elena Vega")
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 5},
	}))

	day := timeutil.Date(2026, 4, 1)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-005", "Exam", 5.0, day)
	require.NoError(t, err)

	// Same (student, category, date) key: the second write replaces the
	// first instead of adding a second exam.
	res, err := e.RecordGrade(ctx, g.ID, "A2026-005", "Exam", 9.0, day)
	require.NoError(t, err)

	assert.InDelta(t, 9.0, res.FinalAverage, 0.001)
	assert.InDelta(t, 9.0, res.CategoryAverages["Exam"], 0.001)
}

func TestEngine_RecordGrade_ReturnsRefreshedResult(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Refresh", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-006", "Fabio Marin")
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 1},
	}))

	res, err := e.RecordGrade(ctx, g.ID, "A2026-006", "Exam", 6.5, timeutil.Today())
	require.NoError(t, err)

	assert.Equal(t, "A2026-006", res.StudentCode)
	assert.InDelta(t, 6.5, res.FinalAverage, 0.001)
	assert.Equal(t, evaluation.RiskAcademic, res.Risk)
}

func TestEngine_ReplaceCategorySet_InvalidKeepsPriorSet(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Atomic", "")
	require.NoError(t, err)
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, standardRubric()))

	err = e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 60, MaxItems: 1},
		{Name: "Homework", WeightPercent: 60, MaxItems: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "120.00")

	cs, err := e.CategorySet(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Exam", "Homework", "Participation"}, cs.Names())
}

func TestEngine_ReplaceCategorySet_OrphansOldCategories(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Orphans", "")
	require.NoError(t, err)
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Quiz", WeightPercent: 100, MaxItems: 5},
	}))
	enroll(t, e, g.ID, "A2026-007", "Gloria Paz")

	_, err = e.RecordGrade(ctx, g.ID, "A2026-007", "Quiz", 9.0, timeutil.Today())
	require.NoError(t, err)

	// The new rubric has no Quiz category: the grade stays in the ledger
	// but drops out of averaging entirely.
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Project", WeightPercent: 100, MaxItems: 1},
	}))

	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-007")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.FinalAverage)
	assert.NotContains(t, res.CategoryAverages, "Quiz")
}

func TestEngine_EvaluateGroup_SortedAndCounted(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Ordering", "")
	require.NoError(t, err)
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 1},
	}))

	// Enrolled out of display-name order on purpose.
	enroll(t, e, g.ID, "A2026-020", "Zoe Quintana")
	enroll(t, e, g.ID, "A2026-021", "Alba Nieto")
	enroll(t, e, g.ID, "A2026-022", "Mario Sanz")

	_, err = e.RecordGrade(ctx, g.ID, "A2026-021", "Exam", 9.0, timeutil.Today())
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-022", "Exam", 5.0, timeutil.Today())
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-020", "Exam", 8.0, timeutil.Today())
	require.NoError(t, err)

	out, err := e.EvaluateGroup(ctx, g.ID)
	require.NoError(t, err)

	require.Len(t, out.Results, 3)
	names := []string{out.Results[0].DisplayName, out.Results[1].DisplayName, out.Results[2].DisplayName}
	assert.Equal(t, []string{"Alba Nieto", "Mario Sanz", "Zoe Quintana"}, names)
	assert.Equal(t, 1, out.AtRiskCount)
	assert.Equal(t, evaluation.RiskAcademic, out.Results[1].Risk)
}

func TestEngine_EvaluateGroup_EmptyRoster(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Nobody", "")
	require.NoError(t, err)

	out, err := e.EvaluateGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.Zero(t, out.AtRiskCount)
}

func TestEngine_EvaluateGroup_UnknownGroup(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.EvaluateGroup(context.Background(), "missing-group")
	assert.ErrorIs(t, err, shared.ErrGroupNotFound)
}

func TestEngine_Attendance_SingleAndBulk(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Attendance", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-030", "Hugo Prieto")
	enroll(t, e, g.ID, "A2026-031", "Ines Gallego")

	day1 := timeutil.Date(2026, 5, 4)
	day2 := timeutil.Date(2026, 5, 5)

	res, err := e.RecordAttendanceBulk(ctx, g.ID, day1, ledger.StatusPresent)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Updated)

	require.NoError(t, e.RecordAttendance(ctx, g.ID, "A2026-030", day2, ledger.StatusAbsent))
	require.NoError(t, e.RecordAttendance(ctx, g.ID, "A2026-031", day2, ledger.StatusExcused))

	// A passing grade keeps the academic side clean so only the attendance
	// flag shows up below.
	_, err = e.RecordGrade(ctx, g.ID, "A2026-030", "Exam", 8.0, day1)
	require.NoError(t, err)

	// Hugo: 1 of 2 counted days -> 50%.
	r1, err := e.EvaluateStudent(ctx, g.ID, "A2026-030")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, r1.AttendancePercent, 0.001)
	assert.Equal(t, evaluation.RiskAttendance, r1.Risk)

	// Ines: excused counts as attended -> 100%.
	r2, err := e.EvaluateStudent(ctx, g.ID, "A2026-031")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, r2.AttendancePercent, 0.001)
}

func TestEngine_Attendance_BulkThenCorrection(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Correction", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-032", "Julia Roca")

	day := timeutil.Date(2026, 5, 6)
	_, err = e.RecordAttendanceBulk(ctx, g.ID, day, ledger.StatusAbsent)
	require.NoError(t, err)

	// Late arrival corrected after the bulk mark: same (student, date) key,
	// the second write wins.
	require.NoError(t, e.RecordAttendance(ctx, g.ID, "A2026-032", day, ledger.StatusPresent))

	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-032")
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.AttendancePercent, 0.001)
}

func TestEngine_Attendance_BulkEmptyRoster(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Empty", "")
	require.NoError(t, err)

	_, err = e.RecordAttendanceBulk(ctx, g.ID, timeutil.Today(), ledger.StatusPresent)
	assert.ErrorIs(t, err, shared.ErrNoStudents)
	assert.True(t, shared.IsNoData(err))
}

func TestEngine_Attendance_BulkUnknownGroup(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	_, err := e.RecordAttendanceBulk(ctx, "no-such-group", timeutil.Today(), ledger.StatusPresent)
	assert.True(t, shared.IsNotFound(err), "unknown group should be not-found, got: %v", err)
	assert.False(t, shared.IsNoData(err))
}

func TestEngine_RiskClassifiedOnFullPrecision(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Precision", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-040", "Nora Gil")

	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 3},
	}))

	// True average 20.99/3 = 6.9966..., which displays as 7.0 after
	// rounding but is still below the 7.0 threshold.
	_, err = e.RecordGrade(ctx, g.ID, "A2026-040", "Exam", 6.99, timeutil.Date(2026, 3, 2))
	require.NoError(t, err)
	_, err = e.RecordGrade(ctx, g.ID, "A2026-040", "Exam", 7.0, timeutil.Date(2026, 3, 3))
	require.NoError(t, err)
	res, err := e.RecordGrade(ctx, g.ID, "A2026-040", "Exam", 7.0, timeutil.Date(2026, 3, 4))
	require.NoError(t, err)

	assert.Equal(t, 7.0, res.FinalAverage)
	assert.Equal(t, evaluation.RiskAcademic, res.Risk)
}

func TestEngine_Attendance_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Status", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-033", "Kiko Bravo")

	err = e.RecordAttendance(ctx, g.ID, "A2026-033", timeutil.Today(), ledger.AttendanceStatus("Tardy"))
	assert.ErrorIs(t, err, shared.ErrInvalidAttendanceStatus)

	_, err = e.RecordAttendanceBulk(ctx, g.ID, timeutil.Today(), ledger.AttendanceStatus(""))
	assert.ErrorIs(t, err, shared.ErrInvalidAttendanceStatus)
}

func TestEngine_RemoveStudent_PurgesLedger(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Removal", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-040", "Lara Mendez")
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 1},
	}))

	_, err = e.RecordGrade(ctx, g.ID, "A2026-040", "Exam", 4.0, timeutil.Today())
	require.NoError(t, err)
	require.NoError(t, e.RecordAttendance(ctx, g.ID, "A2026-040", timeutil.Today(), ledger.StatusAbsent))

	require.NoError(t, e.RemoveStudent(ctx, g.ID, "A2026-040"))

	_, err = e.EvaluateStudent(ctx, g.ID, "A2026-040")
	assert.True(t, shared.IsNotFound(err))

	// Re-enrolling the same code starts from a clean slate.
	enroll(t, e, g.ID, "A2026-040", "Lara Mendez")
	res, err := e.EvaluateStudent(ctx, g.ID, "A2026-040")
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.FinalAverage)
	assert.Equal(t, 100.0, res.AttendancePercent)
}

func TestEngine_RemoveStudent_WrongGroup(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g1, err := e.CreateGroup(ctx, "Owner", "")
	require.NoError(t, err)
	g2, err := e.CreateGroup(ctx, "Other", "")
	require.NoError(t, err)
	enroll(t, e, g1.ID, "A2026-041", "Marta Soler")

	err = e.RemoveStudent(ctx, g2.ID, "A2026-041")
	assert.ErrorIs(t, err, shared.ErrStudentNotInGroup)
}

func TestEngine_EnrollStudent_Validation(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	g, err := e.CreateGroup(ctx, "Enrollment", "")
	require.NoError(t, err)

	_, err = e.EnrollStudent(ctx, student.NewStudentParams{
		Code: "AB", GroupID: g.ID, DisplayName: "Too Short",
	})
	assert.ErrorIs(t, err, student.ErrInvalidEnrollmentCode)

	_, err = e.EnrollStudent(ctx, student.NewStudentParams{
		Code: "A2026-050", GroupID: "missing", DisplayName: "No Group",
	})
	assert.ErrorIs(t, err, shared.ErrGroupNotFound)

	enroll(t, e, g.ID, "A2026-051", "Nora Campos")
	_, err = e.EnrollStudent(ctx, student.NewStudentParams{
		Code: "A2026-051", GroupID: g.ID, DisplayName: "Duplicate Code",
	})
	assert.ErrorIs(t, err, shared.ErrStudentExists)
}

func TestEngine_CustomThresholds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	e := NewEngine(Repositories{
		Groups:     store.Groups,
		Rubrics:    store.Rubrics,
		Roster:     store.Roster,
		Grades:     store.Grades,
		Attendance: store.Attendance,
	}, Options{
		Thresholds: evaluation.RiskThresholds{Academic: 5.0, Attendance: 60.0},
		Log:        logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError}),
	})

	g, err := e.CreateGroup(ctx, "Lenient", "")
	require.NoError(t, err)
	enroll(t, e, g.ID, "A2026-060", "Oscar Pina")
	require.NoError(t, e.ReplaceCategorySet(ctx, g.ID, []command.CategoryInput{
		{Name: "Exam", WeightPercent: 100, MaxItems: 1},
	}))

	// 6.0 is below the default 7.0 threshold but above the custom 5.0.
	res, err := e.RecordGrade(ctx, g.ID, "A2026-060", "Exam", 6.0, timeutil.Today())
	require.NoError(t, err)
	assert.Equal(t, evaluation.RiskNone, res.Risk)
}
