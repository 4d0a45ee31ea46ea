// Package query contains read operations following the CQRS pattern.
// Queries never modify state, with one deliberate exception: loading a
// rubric for a group that has never saved one synthesizes and persists the
// default set, so every group always has a usable rubric.
package query

import (
	"context"
	"errors"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/shared"
)

// RubricLoader resolves the active category set of a group, creating the
// default set on first access.
type RubricLoader struct {
	groups  group.Repository
	rubrics group.RubricRepository
}

// NewRubricLoader creates a RubricLoader.
func NewRubricLoader(groups group.Repository, rubrics group.RubricRepository) *RubricLoader {
	return &RubricLoader{groups: groups, rubrics: rubrics}
}

// Load returns the group's category set. If the group exists but has no
// persisted rubric yet, the default set (Exam 50 / Homework 30 /
// Participation 20) is saved and returned. Unknown groups fail with
// shared.ErrGroupNotFound.
func (l *RubricLoader) Load(ctx context.Context, groupID string) (*group.CategorySet, error) {
	if _, err := l.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}

	cs, err := l.rubrics.Get(ctx, groupID)
	if err == nil {
		return cs, nil
	}
	if !errors.Is(err, shared.ErrRubricNotFound) {
		return nil, shared.WrapError("rubric", "Load", shared.ErrExternalService, "loading category set", err)
	}

	cs = group.DefaultCategorySet(groupID)
	if err := l.rubrics.Replace(ctx, cs); err != nil {
		return nil, shared.WrapError("rubric", "Load", shared.ErrExternalService, "persisting default category set", err)
	}
	return cs, nil
}
