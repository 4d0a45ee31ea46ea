package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/directaula/classroom-engine/internal/application/query"
	"github.com/directaula/classroom-engine/internal/domain/evaluation"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/pkg/logger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand contains the parameters for recording one grade.
type RecordGradeCommand struct {
	// GroupID - the group the student belongs to.
	GroupID string

	// StudentCode - enrollment code of the graded student.
	StudentCode string

	// CategoryName - rubric category. Deliberately NOT validated against
	// the current rubric: a grade may be recorded against any name, and
	// becomes an orphan if the rubric changes later.
	CategoryName string

	// Value - the grade on the 0-10 scale.
	Value float64

	// Date - the graded item's date. Zero value means today. Part of the
	// upsert key together with student and category.
	Date time.Time
}

// RecordGradeHandler handles grade recording commands.
type RecordGradeHandler struct {
	roster    student.Repository
	grades    ledger.GradeRepository
	evaluator *query.EvaluateStudentHandler
	bus       shared.EventPublisher
	log       *logger.Logger
}

// NewRecordGradeHandler creates a new handler.
func NewRecordGradeHandler(
	roster student.Repository,
	grades ledger.GradeRepository,
	evaluator *query.EvaluateStudentHandler,
	bus shared.EventPublisher,
	log *logger.Logger,
) *RecordGradeHandler {
	return &RecordGradeHandler{
		roster:    roster,
		grades:    grades,
		evaluator: evaluator,
		bus:       bus,
		log:       log,
	}
}

// Handle validates and upserts the grade, then returns the student's
// refreshed evaluation row so the caller can reflect the change
// immediately. All validation happens before the upsert.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*evaluation.Result, error) {
	if err := ledger.ValidateGradeValue(cmd.Value); err != nil {
		return nil, err
	}

	categoryName := strings.TrimSpace(cmd.CategoryName)
	if categoryName == "" {
		return nil, shared.ErrEmptyCategoryName
	}

	st, err := h.roster.GetByCode(ctx, student.EnrollmentCode(cmd.StudentCode))
	if err != nil {
		return nil, err
	}
	if st.GroupID != cmd.GroupID {
		return nil, shared.ErrStudentNotInGroup
	}

	date := cmd.Date
	if date.IsZero() {
		date = timeutil.Today()
	}

	entry := &ledger.GradeEntry{
		ID:           uuid.NewString(),
		StudentCode:  cmd.StudentCode,
		CategoryName: categoryName,
		Value:        cmd.Value,
		RecordedAt:   timeutil.DateOf(date),
	}

	if err := h.grades.UpsertGrade(ctx, entry); err != nil {
		return nil, shared.WrapError("ledger", "RecordGrade", shared.ErrExternalService, "upserting grade", err)
	}

	h.log.Debug("grade recorded",
		logger.StudentCode(cmd.StudentCode),
		logger.CategoryName(categoryName),
		logger.GradeValue(cmd.Value),
	)

	h.publish(shared.NewGradeRecordedEvent(cmd.GroupID, cmd.StudentCode, categoryName, cmd.Value))

	return h.evaluator.Handle(ctx, query.EvaluateStudentQuery{
		GroupID:     cmd.GroupID,
		StudentCode: cmd.StudentCode,
	})
}

func (h *RecordGradeHandler) publish(event shared.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(event); err != nil {
		h.log.Warn("event publish failed",
			logger.String("event_type", string(event.EventType())),
			logger.Err(err),
		)
	}
}
