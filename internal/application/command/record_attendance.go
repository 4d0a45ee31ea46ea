package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/internal/domain/student"
	"github.com/directaula/classroom-engine/pkg/logger"
	"github.com/directaula/classroom-engine/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD ATTENDANCE COMMANDS
// Single-student upsert plus the "mark everyone for today" bulk variant
// the instructor uses at the start of class.
// ══════════════════════════════════════════════════════════════════════════════

// RecordAttendanceCommand contains the parameters for one attendance upsert.
type RecordAttendanceCommand struct {
	// GroupID - the group the student belongs to.
	GroupID string

	// StudentCode - enrollment code of the student.
	StudentCode string

	// Date - the class date. Zero value means today. Together with the
	// student this is the upsert key: one entry per student per date,
	// last writer wins.
	Date time.Time

	// Status - Present, Absent, Late or Excused.
	Status ledger.AttendanceStatus
}

// RecordAttendanceBulkCommand marks the whole roster for one date.
type RecordAttendanceBulkCommand struct {
	// GroupID - the group whose roster is marked.
	GroupID string

	// Date - the class date. Zero value means today.
	Date time.Time

	// Status - the status applied to every roster member.
	Status ledger.AttendanceStatus
}

// BulkAttendanceResult reports the outcome of a bulk marking.
type BulkAttendanceResult struct {
	// Updated - how many roster members were marked.
	Updated int `json:"updated"`

	// Date - the normalized class date that was marked.
	Date time.Time `json:"date"`

	// Status - the applied status.
	Status ledger.AttendanceStatus `json:"status"`
}

// RecordAttendanceHandler handles both attendance commands.
type RecordAttendanceHandler struct {
	groups     group.Repository
	roster     student.Repository
	attendance ledger.AttendanceRepository
	bus        shared.EventPublisher
	log        *logger.Logger
}

// NewRecordAttendanceHandler creates a new handler.
func NewRecordAttendanceHandler(
	groups group.Repository,
	roster student.Repository,
	attendance ledger.AttendanceRepository,
	bus shared.EventPublisher,
	log *logger.Logger,
) *RecordAttendanceHandler {
	return &RecordAttendanceHandler{
		groups:     groups,
		roster:     roster,
		attendance: attendance,
		bus:        bus,
		log:        log,
	}
}

// Handle upserts one student's attendance for a date.
func (h *RecordAttendanceHandler) Handle(ctx context.Context, cmd RecordAttendanceCommand) error {
	if !cmd.Status.IsValid() {
		return shared.ErrInvalidAttendanceStatus
	}

	st, err := h.roster.GetByCode(ctx, student.EnrollmentCode(cmd.StudentCode))
	if err != nil {
		return err
	}
	if st.GroupID != cmd.GroupID {
		return shared.ErrStudentNotInGroup
	}

	date := normalizeDate(cmd.Date)

	entry := &ledger.AttendanceEntry{
		ID:          uuid.NewString(),
		StudentCode: cmd.StudentCode,
		Date:        date,
		Status:      cmd.Status,
	}

	if err := h.attendance.UpsertAttendance(ctx, entry); err != nil {
		return shared.WrapError("ledger", "RecordAttendance", shared.ErrExternalService, "upserting attendance", err)
	}

	h.publish(shared.NewAttendanceMarkedEvent(
		cmd.GroupID, cmd.StudentCode, timeutil.FormatDate(date), cmd.Status.String(),
	))

	return nil
}

// HandleBulk marks every roster member with the same status for one date.
// An empty roster is a distinct outcome (shared.ErrNoStudents), never a
// silent success.
func (h *RecordAttendanceHandler) HandleBulk(ctx context.Context, cmd RecordAttendanceBulkCommand) (*BulkAttendanceResult, error) {
	if !cmd.Status.IsValid() {
		return nil, shared.ErrInvalidAttendanceStatus
	}

	// An unknown group is not-found; ErrNoStudents is reserved for a group
	// that exists with an empty roster.
	if _, err := h.groups.GetByID(ctx, cmd.GroupID); err != nil {
		return nil, err
	}

	roster, err := h.roster.GetRoster(ctx, cmd.GroupID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, shared.ErrNoStudents
	}

	date := normalizeDate(cmd.Date)

	updated := 0
	for _, st := range roster {
		entry := &ledger.AttendanceEntry{
			ID:          uuid.NewString(),
			StudentCode: st.Code.String(),
			Date:        date,
			Status:      cmd.Status,
		}
		if err := h.attendance.UpsertAttendance(ctx, entry); err != nil {
			return nil, shared.WrapError("ledger", "RecordAttendanceBulk", shared.ErrExternalService, "upserting attendance", err)
		}
		updated++
	}

	h.log.Info("bulk attendance marked",
		logger.GroupID(cmd.GroupID),
		logger.String("date", timeutil.FormatDate(date)),
		logger.String("status", cmd.Status.String()),
		logger.Int("updated", updated),
	)

	h.publish(shared.NewAttendanceBulkMarkedEvent(
		cmd.GroupID, timeutil.FormatDate(date), cmd.Status.String(), updated,
	))

	return &BulkAttendanceResult{Updated: updated, Date: date, Status: cmd.Status}, nil
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return timeutil.Today()
	}
	return timeutil.DateOf(t)
}

func (h *RecordAttendanceHandler) publish(event shared.Event) {
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
