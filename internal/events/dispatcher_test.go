package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventRequestCreated, func(_ context.Context, e Event) error {
		got = append(got, e.EntityID)
		return nil
	})
	d.Subscribe(EventRequestCreated, func(_ context.Context, e Event) error {
		got = append(got, e.EntityID+"-second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestCreated, EntityID: "r1"}))
	assert.Equal(t, []string{"r1", "r1-second"}, got)
}

func TestDispatcherIgnoresUnrelatedEvents(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventReviewSubmitted, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestCreated}))
	assert.False(t, called)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	reached := false
	d.Subscribe(EventRequestAssigned, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventRequestAssigned, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventRequestAssigned}))
	assert.True(t, reached)
}
