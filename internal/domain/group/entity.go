// Package group contains the domain model for class groups and their grading
// rubrics (category sets). The rubric carries the only hard invariant of the
// whole system: category weights must sum to 100 percent.
package group

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/directaula/classroom-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// WeightSum is the required sum of category weights, in percent.
	WeightSum = 100.0

	// WeightSumTolerance is the accepted deviation from WeightSum. The sum
	// is validated only at replace time, never continuously.
	WeightSumTolerance = 0.01
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: GROUP
// ══════════════════════════════════════════════════════════════════════════════

// Group represents one class group owned by the instructor. A group owns a
// roster of students and exactly one category set.
type Group struct {
	// ID - surrogate identifier (UUID in string form).
	ID string `json:"id"`

	// Name - display name, e.g. "3-B Matematicas".
	Name string `json:"name"`

	// Term - school term the group belongs to, e.g. "2026-1". Optional.
	Term string `json:"term,omitempty"`

	// CreatedAt - time of creation.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt - time of last modification.
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	// ErrInvalidGroupName - malformed group name.
	ErrInvalidGroupName = errors.New("invalid group name: must be 1-80 chars")

	// ErrMissingGroupID - group created without an ID.
	ErrMissingGroupID = errors.New("group id is required")
)

// NewGroup creates a group with validated fields.
func NewGroup(id, name, term string) (*Group, error) {
	if id == "" {
		return nil, ErrMissingGroupID
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 80 {
		return nil, ErrInvalidGroupName
	}

	now := time.Now().UTC()

	return &Group{
		ID:        id,
		Name:      name,
		Term:      strings.TrimSpace(term),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORY SET (GRADING RUBRIC)
// ══════════════════════════════════════════════════════════════════════════════

// Category is one member of a group's rubric: a named slice of the final
// grade with an independent weight and a best-of-N item limit.
type Category struct {
	// Name - unique within the rubric, e.g. "Exam", "Homework".
	Name string `json:"name"`

	// WeightPercent - this category's share of the final average, 0-100.
	WeightPercent float64 `json:"weight_percent"`

	// MaxItems - how many of the student's best grades in this category
	// are counted. Must be at least 1. Grades beyond the limit (the
	// lowest ones) are discarded, not averaged in.
	MaxItems int `json:"max_items"`
}

// CategorySet is the ordered rubric of one group.
type CategorySet struct {
	// GroupID - the owning group.
	GroupID string `json:"group_id"`

	// Categories - the rubric members, in instructor-defined order.
	Categories []Category `json:"categories"`

	// UpdatedAt - when the set was last replaced.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the rubric invariants: at least one category, unique
// names, MaxItems >= 1 per category, and weights summing to 100 within
// tolerance. It returns the first violation found.
func (cs *CategorySet) Validate() error {
	if len(cs.Categories) == 0 {
		return shared.ErrEmptyRubric
	}

	seen := make(map[string]struct{}, len(cs.Categories))
	sum := 0.0
	for _, c := range cs.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return shared.ErrEmptyCategoryName
		}
		if _, dup := seen[name]; dup {
			return shared.ErrDuplicateCategory
		}
		seen[name] = struct{}{}

		if c.MaxItems < 1 {
			return shared.ErrInvalidMaxItems
		}
		sum += c.WeightPercent
	}

	if math.Abs(sum-WeightSum) > WeightSumTolerance {
		return shared.NewWeightSumError(sum)
	}

	return nil
}

// Find returns the category with the given name, if present.
func (cs *CategorySet) Find(name string) (Category, bool) {
	for _, c := range cs.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Names returns the category names in rubric order.
func (cs *CategorySet) Names() []string {
	names := make([]string, len(cs.Categories))
	for i, c := range cs.Categories {
		names[i] = c.Name
	}
	return names
}

// TotalWeight returns the sum of all category weights.
func (cs *CategorySet) TotalWeight() float64 {
	sum := 0.0
	for _, c := range cs.Categories {
		sum += c.WeightPercent
	}
	return sum
}

// Sorted returns a copy of the categories sorted by descending weight,
// name as tiebreak. Used by exports and the HTTP layer for stable output.
func (cs *CategorySet) Sorted() []Category {
	out := make([]Category, len(cs.Categories))
	copy(out, cs.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeightPercent != out[j].WeightPercent {
			return out[i].WeightPercent > out[j].WeightPercent
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DefaultCategorySet returns the rubric synthesized for a group that has
// none yet: Exam 50%, Homework 30%, Participation 20%, one counted item
// each. This is a documented default, not a normative rubric - instructors
// replace it wholesale.
func DefaultCategorySet(groupID string) *CategorySet {
	return &CategorySet{
		GroupID: groupID,
		Categories: []Category{
			{Name: "Exam", WeightPercent: 50.0, MaxItems: 1},
			{Name: "Homework", WeightPercent: 30.0, MaxItems: 1},
			{Name: "Participation", WeightPercent: 20.0, MaxItems: 1},
		},
		UpdatedAt: time.Now().UTC(),
	}
}
