package events

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"roofing_crm_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func newTestBus() *InMemoryBus {
	return NewInMemoryBus(logger.NewWithWriter("production", io.Discard))
}

func TestPublishDeliversToAllHandlers(t *testing.T) {
	bus := newTestBus()
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}
	bus.Subscribe("other", HandlerFunc(func(context.Context, Event) error {
		t.Fatal("unexpected delivery")
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestPublishSurvivesHandlerPanic(t *testing.T) {
	bus := newTestBus()
	var ok atomic.Bool
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { panic("boom") }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		ok.Store(true)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()

	assert.True(t, ok.Load())
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := newTestBus()
	errA := errors.New("a")
	errB := errors.New("b")
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errA }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return errB }))

	err := bus.PublishSync(context.Background(), pingEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestBaseEventIsStampedInUTC(t *testing.T) {
	chicago := time.FixedZone("CDT", -5*3600)
	at := time.Date(2024, 6, 3, 9, 30, 0, 0, chicago)

	e := NewBaseEventAt(at)
	assert.Equal(t, time.UTC, e.OccurredAt().Location())
	assert.True(t, at.Equal(e.OccurredAt()))

	assert.Equal(t, time.UTC, NewBaseEvent().OccurredAt().Location())
}
