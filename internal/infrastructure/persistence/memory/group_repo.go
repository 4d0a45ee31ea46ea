package memory

import (
	"context"
	"sort"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository is the in-memory implementation of group.Repository.
type GroupRepository struct {
	d *db
}

// Create creates a new group.
func (r *GroupRepository) Create(_ context.Context, g *group.Group) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, exists := r.d.groups[g.ID]; exists {
		return shared.ErrGroupExists
	}
	r.d.groups[g.ID] = *g
	return nil
}

// GetByID returns a group by its surrogate id.
func (r *GroupRepository) GetByID(_ context.Context, id string) (*group.Group, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	g, ok := r.d.groups[id]
	if !ok {
		return nil, shared.ErrGroupNotFound
	}
	return &g, nil
}

// GetAll returns all groups sorted by name.
func (r *GroupRepository) GetAll(_ context.Context) ([]*group.Group, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	out := make([]*group.Group, 0, len(r.d.groups))
	for _, g := range r.d.groups {
		g := g
		out = append(out, &g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Update persists mutable group fields.
func (r *GroupRepository) Update(_ context.Context, g *group.Group) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	if _, exists := r.d.groups[g.ID]; !exists {
		return shared.ErrGroupNotFound
	}
	r.d.groups[g.ID] = *g
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RUBRIC REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// RubricRepository is the in-memory implementation of group.RubricRepository.
type RubricRepository struct {
	d *db
}

// Get returns the persisted category set of a group.
func (r *RubricRepository) Get(_ context.Context, groupID string) (*group.CategorySet, error) {
	r.d.mu.RLock()
	defer r.d.mu.RUnlock()

	cs, ok := r.d.rubrics[groupID]
	if !ok {
		return nil, shared.ErrRubricNotFound
	}

	out := cs
	out.Categories = make([]group.Category, len(cs.Categories))
	copy(out.Categories, cs.Categories)
	return &out, nil
}

// Replace swaps the group's category set. The map write is atomic under the
// store mutex, which satisfies the all-or-nothing contract.
func (r *RubricRepository) Replace(_ context.Context, cs *group.CategorySet) error {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	stored := *cs
	stored.Categories = make([]group.Category, len(cs.Categories))
	copy(stored.Categories, cs.Categories)
	r.d.rubrics[cs.GroupID] = stored
	return nil
}
