package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/pkg/logger"
)

// PrefixRubric is the key prefix for cached category sets.
const PrefixRubric = "rubric:"

// TTLRubricCache bounds staleness if an invalidation is ever missed. The
// normal invalidation path is the rubric.replaced event.
const TTLRubricCache = 30 * time.Minute

// RubricKey returns the cache key for a group's rubric.
func RubricKey(groupID string) string {
	return PrefixRubric + groupID
}

// CachedRubricRepository decorates a group.RubricRepository with a
// read-through cache. Every evaluation reads the rubric, and the rubric
// changes only through Replace, so the hit rate is high and invalidation
// is trivial. Cache failures degrade to the inner repository; they never
// fail a read or a write.
type CachedRubricRepository struct {
	inner group.RubricRepository
	cache *Cache
	log   *logger.Logger
}

// NewCachedRubricRepository creates the caching decorator.
func NewCachedRubricRepository(inner group.RubricRepository, cache *Cache, log *logger.Logger) *CachedRubricRepository {
	if log == nil {
		log = logger.Default()
	}
	return &CachedRubricRepository{
		inner: inner,
		cache: cache,
		log:   log,
	}
}

// Get returns the category set, serving from cache when possible.
func (r *CachedRubricRepository) Get(ctx context.Context, groupID string) (*group.CategorySet, error) {
	var cached group.CategorySet
	err := r.cache.Get(ctx, RubricKey(groupID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.log.Warn("rubric cache read failed", logger.GroupID(groupID), logger.Err(err))
	}

	cs, err := r.inner.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, RubricKey(groupID), cs, TTLRubricCache); err != nil {
		r.log.Warn("rubric cache write failed", logger.GroupID(groupID), logger.Err(err))
	}

	return cs, nil
}

// Replace delegates to the inner repository and drops the cached entry.
// The delete runs after a successful replace so a failed write never
// leaves the cache pointing at rows that were rolled back.
func (r *CachedRubricRepository) Replace(ctx context.Context, cs *group.CategorySet) error {
	if err := r.inner.Replace(ctx, cs); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, RubricKey(cs.GroupID)); err != nil {
		r.log.Warn("rubric cache invalidation failed", logger.GroupID(cs.GroupID), logger.Err(err))
	}

	return nil
}

// SubscribeInvalidation registers the cache drop on rubric.replaced events.
// This covers replacements that bypass this decorator, e.g. a second
// process writing through its own repository instance.
func (r *CachedRubricRepository) SubscribeInvalidation(bus shared.EventSubscriber) error {
	return bus.Subscribe(shared.EventRubricReplaced, func(event shared.Event) error {
		groupID := event.AggregateID()
		if groupID == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := r.cache.Delete(ctx, RubricKey(groupID)); err != nil {
			return fmt.Errorf("invalidate rubric cache: %w", err)
		}
		return nil
	})
}
