// Package application wires the command and query handlers into the
// evaluation engine - the single entry point external collaborators (HTTP
// layer, exports, a future GUI shell) talk to.
package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/directaula/classroom-engine/internal/application/command"
	"github.com/directaula/classroom-engine/internal/application/query"
	"github.com/directaula/classroom-engine/internal/domain/evaluation"
	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/pkg/logger"
)

// Repositories bundles the storage dependencies of the engine.
type Repositories struct {
	Groups     group.Repository
	Rubrics    group.RubricRepository
	Roster     student.Repository
	Grades     ledger.GradeRepository
	Attendance ledger.AttendanceRepository
}

// Engine is the evaluation engine facade. All operations are synchronous
// and recompute from current state; nothing is cached at this layer.
type Engine struct {
	repos Repositories
	bus   shared.EventPublisher
	log   *logger.Logger

	rubrics          *query.RubricLoader
	evaluateStudent  *query.EvaluateStudentHandler
	evaluateGroup    *query.EvaluateGroupHandler
	recordGrade      *command.RecordGradeHandler
	recordAttendance *command.RecordAttendanceHandler
	replaceRubric    *command.ReplaceRubricHandler
}

// Options configures optional Engine collaborators.
type Options struct {
	// Bus receives domain events after successful writes. Optional.
	Bus shared.EventBus

	// Thresholds override the default risk thresholds. Zero value means
	// the 7.0 / 80.0 defaults.
	Thresholds evaluation.RiskThresholds

	// Log is the structured logger. Defaults to logger.Default().
	Log *logger.Logger
}

// NewEngine creates a fully wired evaluation engine.
func NewEngine(repos Repositories, opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = logger.Default()
	}

	thresholds := opts.Thresholds
	if thresholds == (evaluation.RiskThresholds{}) {
		thresholds = evaluation.DefaultRiskThresholds()
	}
	classifier := evaluation.NewRiskClassifier(thresholds)

	loader := query.NewRubricLoader(repos.Groups, repos.Rubrics)
	evalStudent := query.NewEvaluateStudentHandler(
		repos.Roster, repos.Grades, repos.Attendance, loader, classifier,
	)

	var bus shared.EventPublisher
	if opts.Bus != nil {
		bus = opts.Bus
	}

	return &Engine{
		repos:            repos,
		bus:              bus,
		log:              log,
		rubrics:          loader,
		evaluateStudent:  evalStudent,
		evaluateGroup:    query.NewEvaluateGroupHandler(repos.Roster, loader, evalStudent),
		recordGrade:      command.NewRecordGradeHandler(repos.Roster, repos.Grades, evalStudent, bus, log),
		recordAttendance: command.NewRecordAttendanceHandler(repos.Groups, repos.Roster, repos.Attendance, bus, log),
		replaceRubric:    command.NewReplaceRubricHandler(repos.Groups, repos.Rubrics, bus, log),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Evaluation surface
// ─────────────────────────────────────────────────────────────────────────────

// EvaluateGroup computes one result row per roster member, sorted by
// display name.
func (e *Engine) EvaluateGroup(ctx context.Context, groupID string) (*query.EvaluateGroupResult, error) {
	return e.evaluateGroup.Handle(ctx, query.EvaluateGroupQuery{GroupID: groupID})
}

// EvaluateStudent computes one student's current result row.
func (e *Engine) EvaluateStudent(ctx context.Context, groupID, studentCode string) (*evaluation.Result, error) {
	return e.evaluateStudent.Handle(ctx, query.EvaluateStudentQuery{
		GroupID:     groupID,
		StudentCode: studentCode,
	})
}

// RecordGrade upserts a grade and returns the student's refreshed result.
func (e *Engine) RecordGrade(ctx context.Context, groupID, studentCode, categoryName string, value float64, date time.Time) (*evaluation.Result, error) {
	return e.recordGrade.Handle(ctx, command.RecordGradeCommand{
		GroupID:      groupID,
		StudentCode:  studentCode,
		CategoryName: categoryName,
		Value:        value,
		Date:         date,
	})
}

// RecordAttendance upserts one student's attendance for a date.
func (e *Engine) RecordAttendance(ctx context.Context, groupID, studentCode string, date time.Time, status ledger.AttendanceStatus) error {
	return e.recordAttendance.Handle(ctx, command.RecordAttendanceCommand{
		GroupID:     groupID,
		StudentCode: studentCode,
		Date:        date,
		Status:      status,
	})
}

// RecordAttendanceBulk marks the whole roster for a date and reports how
// many students were updated. Empty roster fails with shared.ErrNoStudents.
func (e *Engine) RecordAttendanceBulk(ctx context.Context, groupID string, date time.Time, status ledger.AttendanceStatus) (*command.BulkAttendanceResult, error) {
	return e.recordAttendance.HandleBulk(ctx, command.RecordAttendanceBulkCommand{
		GroupID: groupID,
		Date:    date,
		Status:  status,
	})
}

// ReplaceCategorySet validates and atomically replaces a group's rubric.
func (e *Engine) ReplaceCategorySet(ctx context.Context, groupID string, categories []command.CategoryInput) error {
	return e.replaceRubric.Handle(ctx, command.ReplaceRubricCommand{
		GroupID:    groupID,
		Categories: categories,
	})
}

// CategorySet returns the group's active rubric, synthesizing the default
// on first access.
func (e *Engine) CategorySet(ctx context.Context, groupID string) (*group.CategorySet, error) {
	return e.rubrics.Load(ctx, groupID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Thin roster management
// The engine proper treats groups and rosters as external collaborators;
// these helpers exist so a deployment without the legacy CRUD shell can
// still set up and maintain groups.
// ─────────────────────────────────────────────────────────────────────────────

// CreateGroup creates a group with a generated surrogate id.
func (e *Engine) CreateGroup(ctx context.Context, name, term string) (*group.Group, error) {
	g, err := group.NewGroup(uuid.NewString(), name, term)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Groups.Create(ctx, g); err != nil {
		return nil, err
	}
	e.log.Info("group created", logger.GroupID(g.ID), logger.String("name", g.Name))
	return g, nil
}

// ListGroups returns all groups sorted by name.
func (e *Engine) ListGroups(ctx context.Context) ([]*group.Group, error) {
	return e.repos.Groups.GetAll(ctx)
}

// Roster returns a group's students sorted by display name.
func (e *Engine) Roster(ctx context.Context, groupID string) ([]*student.Student, error) {
	if _, err := e.repos.Groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return e.repos.Roster.GetRoster(ctx, groupID)
}

// EnrollStudent adds a student to a group's roster.
func (e *Engine) EnrollStudent(ctx context.Context, params student.NewStudentParams) (*student.Student, error) {
	if _, err := e.repos.Groups.GetByID(ctx, params.GroupID); err != nil {
		return nil, err
	}
	st, err := student.NewStudent(params)
	if err != nil {
		return nil, err
	}
	if err := e.repos.Roster.Enroll(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// RemoveStudent removes a student and the student's ledger rows. This is
// the only operation that deletes grade or attendance data.
func (e *Engine) RemoveStudent(ctx context.Context, groupID string, code student.EnrollmentCode) error {
	st, err := e.repos.Roster.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if st.GroupID != groupID {
		return shared.ErrStudentNotInGroup
	}

	if err := e.repos.Roster.Remove(ctx, code); err != nil {
		return err
	}

	e.log.Info("student removed", logger.GroupID(groupID), logger.StudentCode(code.String()))

	if e.bus != nil {
		if err := e.bus.Publish(shared.NewStudentRemovedEvent(groupID, code.String())); err != nil {
			e.log.Warn("event publish failed", logger.Err(err))
		}
	}

	return nil
}
