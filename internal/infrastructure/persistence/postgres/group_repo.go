package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements group.Repository for PostgreSQL.
type GroupRepository struct {
	conn *Connection
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(conn *Connection) *GroupRepository {
	return &GroupRepository{conn: conn}
}

// Create creates a new group.
func (r *GroupRepository) Create(ctx context.Context, g *group.Group) error {
	query := `
		INSERT INTO groups (id, name, term, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query, g.ID, g.Name, g.Term, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrGroupExists
		}
		return fmt.Errorf("failed to create group: %w", err)
	}

	return nil
}

// GetByID returns a group by its surrogate id.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*group.Group, error) {
	query := `
		SELECT id, name, term, created_at, updated_at
		FROM groups
		WHERE id = $1
	`

	var g group.Group
	err := r.conn.QueryRow(ctx, query, id).Scan(&g.ID, &g.Name, &g.Term, &g.CreatedAt, &g.UpdatedAt)
	if IsNoRows(err) {
		return nil, shared.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return &g, nil
}

// GetAll returns all groups sorted by name.
func (r *GroupRepository) GetAll(ctx context.Context) ([]*group.Group, error) {
	query := `
		SELECT id, name, term, created_at, updated_at
		FROM groups
		ORDER BY name, id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*group.Group, 0)
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Term, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &g)
	}

	return groups, rows.Err()
}

// Update persists mutable group fields.
func (r *GroupRepository) Update(ctx context.Context, g *group.Group) error {
	query := `
		UPDATE groups SET name = $1, term = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.conn.Exec(ctx, query, g.Name, g.Term, time.Now().UTC(), g.ID)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrGroupNotFound
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RUBRIC REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RubricRepository implements group.RubricRepository for PostgreSQL.
type RubricRepository struct {
	conn *Connection
}

// NewRubricRepository creates a new RubricRepository.
func NewRubricRepository(conn *Connection) *RubricRepository {
	return &RubricRepository{conn: conn}
}

// Get returns the persisted category set of a group in instructor-defined
// order.
func (r *RubricRepository) Get(ctx context.Context, groupID string) (*group.CategorySet, error) {
	query := `
		SELECT name, weight_percent, max_items, updated_at
		FROM categories
		WHERE group_id = $1
		ORDER BY position
	`

	rows, err := r.conn.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	cs := &group.CategorySet{GroupID: groupID}
	for rows.Next() {
		var c group.Category
		if err := rows.Scan(&c.Name, &c.WeightPercent, &c.MaxItems, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cs.Categories = append(cs.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if len(cs.Categories) == 0 {
		return nil, shared.ErrRubricNotFound
	}

	return cs, nil
}

// Replace swaps the group's category set inside one transaction: delete the
// prior rows, insert the new ones. A failure at any point rolls everything
// back and the prior set stays intact.
func (r *RubricRepository) Replace(ctx context.Context, cs *group.CategorySet) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE group_id = $1`, cs.GroupID); err != nil {
			return fmt.Errorf("failed to delete prior categories: %w", err)
		}

		insert := `
			INSERT INTO categories (group_id, name, weight_percent, max_items, position, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		updatedAt := cs.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}

		for i, c := range cs.Categories {
			if _, err := tx.Exec(ctx, insert, cs.GroupID, c.Name, c.WeightPercent, c.MaxItems, i, updatedAt); err != nil {
				return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
			}
		}

		return nil
	})
}
