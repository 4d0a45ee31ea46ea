package group

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for groups.
type Repository interface {
	// Create creates a new group.
	// Returns shared.ErrGroupExists if the id is already taken.
	Create(ctx context.Context, g *Group) error

	// GetByID returns a group by its surrogate id.
	// Returns shared.ErrGroupNotFound if no such group exists.
	GetByID(ctx context.Context, id string) (*Group, error)

	// GetAll returns all groups sorted by name.
	GetAll(ctx context.Context) ([]*Group, error)

	// Update persists mutable group fields.
	// Returns shared.ErrGroupNotFound if no such group exists.
	Update(ctx context.Context, g *Group) error
}

// RubricRepository defines storage operations for category sets.
type RubricRepository interface {
	// Get returns the persisted category set of a group, or
	// shared.ErrRubricNotFound if the group has never saved one. Callers
	// that want the lazy default go through the application layer, which
	// synthesizes and persists DefaultCategorySet on first access.
	Get(ctx context.Context, groupID string) (*CategorySet, error)

	// Replace atomically swaps the group's category set: the prior set is
	// deleted and the new one inserted inside one transaction. On any
	// failure the prior set must remain intact (all-or-nothing). The set
	// must already be validated; Replace does not re-run Validate.
	Replace(ctx context.Context, cs *CategorySet) error
}
