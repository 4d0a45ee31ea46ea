// Package command contains write operations following the CQRS pattern.
// Every command validates its input fully before touching storage, so a
// rejected command never leaves partial state behind.
package command

import (
	"context"
	"time"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPLACE RUBRIC COMMAND
// Replaces a group's category set wholesale. The instructor edits the full
// set and saves it as one unit - there are no incremental category edits.
// ══════════════════════════════════════════════════════════════════════════════

// CategoryInput is one rubric member as submitted by the instructor.
type CategoryInput struct {
	// Name - category name, unique within the set.
	Name string

	// WeightPercent - the category's weight, 0-100.
	WeightPercent float64

	// MaxItems - best-of-N limit, at least 1.
	MaxItems int
}

// ReplaceRubricCommand contains the parameters for a rubric replacement.
type ReplaceRubricCommand struct {
	// GroupID - the group whose rubric is replaced.
	GroupID string

	// Categories - the complete new set.
	Categories []CategoryInput
}

// ReplaceRubricHandler handles rubric replacement commands.
type ReplaceRubricHandler struct {
	groups  group.Repository
	rubrics group.RubricRepository
	bus     shared.EventPublisher
	log     *logger.Logger
}

// NewReplaceRubricHandler creates a new handler.
func NewReplaceRubricHandler(
	groups group.Repository,
	rubrics group.RubricRepository,
	bus shared.EventPublisher,
	log *logger.Logger,
) *ReplaceRubricHandler {
	return &ReplaceRubricHandler{
		groups:  groups,
		rubrics: rubrics,
		bus:     bus,
		log:     log,
	}
}

// Handle validates and applies the replacement. Validation failures are
// returned before any mutation; the storage-level Replace is a single
// transaction, so a failure partway leaves the prior set intact. Existing
// grade entries are never cascaded: entries for categories that no longer
// exist become orphans and drop out of future averaging.
func (h *ReplaceRubricHandler) Handle(ctx context.Context, cmd ReplaceRubricCommand) error {
	if cmd.GroupID == "" {
		return shared.NewDomainError("rubric", "Replace", shared.ErrEmptyValue, "group id is required")
	}

	cs := &group.CategorySet{
		GroupID:    cmd.GroupID,
		Categories: make([]group.Category, len(cmd.Categories)),
		UpdatedAt:  time.Now().UTC(),
	}
	for i, in := range cmd.Categories {
		cs.Categories[i] = group.Category{
			Name:          in.Name,
			WeightPercent: in.WeightPercent,
			MaxItems:      in.MaxItems,
		}
	}

	if err := cs.Validate(); err != nil {
		return err
	}

	if _, err := h.groups.GetByID(ctx, cmd.GroupID); err != nil {
		return err
	}

	if err := h.rubrics.Replace(ctx, cs); err != nil {
		return shared.WrapError("rubric", "Replace", shared.ErrExternalService, "replacing category set", err)
	}

	h.log.Info("rubric replaced",
		logger.GroupID(cmd.GroupID),
		logger.Int("categories", len(cs.Categories)),
	)

	// Cached rubric data is dropped by subscribers; evaluation rows are
	// recomputed lazily on the next read.
	h.publish(shared.NewRubricReplacedEvent(cmd.GroupID, len(cs.Categories)))

	return nil
}

func (h *ReplaceRubricHandler) publish(event shared.Event) {
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
