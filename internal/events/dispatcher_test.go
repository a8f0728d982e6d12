package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishStampsIDAndTimestamp(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got Event
	d.Subscribe(EventTicketClosed, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketClosed, UserID: 42, TicketID: 7})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(7), got.TicketID)
}

func TestPublishPreservesCallerStamps(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got Event
	d.Subscribe(EventUserBlocked, func(ctx context.Context, e Event) error {
		got = e
		return nil
	})

	in := Event{ID: "fixed-id", Type: EventUserBlocked, UserID: 1}
	require.NoError(t, d.Publish(context.Background(), in))
	assert.Equal(t, "fixed-id", got.ID)
}

func TestPublishInvokesAllHandlersDespiteFailure(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventMessageForwarded, func(ctx context.Context, e Event) error {
		calls++
		return errors.New("handler exploded")
	})
	d.Subscribe(EventMessageForwarded, func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMessageForwarded})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventReplyDelivered}))
}

func TestSubscribeIsTypeScoped(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []EventType
	d.Subscribe(EventUserBlocked, func(ctx context.Context, e Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserUnblocked}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserBlocked}))

	assert.Equal(t, []EventType{EventUserBlocked}, seen)
}
