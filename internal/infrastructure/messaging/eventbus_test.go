package messaging

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/directaula/classroom-engine/internal/domain/shared"
	"github.com/directaula/classroom-engine/pkg/logger"
)

func newTestBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.Log = logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
	return NewInMemoryEventBus(cfg)
}

func TestInMemoryEventBus_SubscribeAndPublish(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	var seen []shared.EventType
	err := bus.Subscribe(shared.EventRubricReplaced, func(e shared.Event) error {
		seen = append(seen, e.EventType())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(shared.NewRubricReplacedEvent("g1", 3)))
	require.NoError(t, bus.Publish(shared.NewGradeRecordedEvent("g1", "A-001", "Exam", 9.0)))

	// Only the subscribed type reaches the handler.
	assert.Equal(t, []shared.EventType{shared.EventRubricReplaced}, seen)
}

func TestInMemoryEventBus_SubscribeAll(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	count := 0
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		count++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewRubricReplacedEvent("g1", 3)))
	require.NoError(t, bus.Publish(shared.NewStudentRemovedEvent("g1", "A-001")))

	assert.Equal(t, 2, count)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventGradeRecorded, func(shared.Event) error {
		return errors.New("boom")
	}))

	err := bus.Publish(shared.NewGradeRecordedEvent("g1", "A-001", "Exam", 5.0))
	assert.NoError(t, err)

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.HandlerFailures)
}

func TestInMemoryEventBus_Closed(t *testing.T) {
	bus := newTestBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewRubricReplacedEvent("g1", 1)), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventRubricReplaced, func(shared.Event) error { return nil }), ErrEventBusClosed)

	// Closing twice is a no-op.
	assert.NoError(t, bus.Close())
}

func TestInMemoryEventBus_NilHandler(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	assert.ErrorIs(t, bus.Subscribe(shared.EventRubricReplaced, nil), ErrNilHandler)
	assert.ErrorIs(t, bus.SubscribeAll(nil), ErrNilHandler)
}
