package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")

		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}

	var zero T

	return zero
}

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	first := b.Subscribe(t.Context())
	second := b.Subscribe(t.Context())

	b.Publish(1)

	assert.Equal(t, 1, receive(t, first))
	assert.Equal(t, 1, receive(t, second))
	assert.Equal(t, 2, b.Len())
}

func TestBroadcaster_SlowSubscriberSeesLatest(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	ch := b.Subscribe(t.Context())

	for i := 1; i <= 5; i++ {
		b.Publish(i)
	}

	assert.Equal(t, 5, receive(t, ch))
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestBroadcaster_OrderPreservedForReader(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	ch := b.Subscribe(t.Context())

	last := 0
	for i := 1; i <= 100; i++ {
		b.Publish(i)
		if i%7 == 0 {
			v := receive(t, ch)
			assert.Greater(t, v, last)
			last = v
		}
	}
}

func TestBroadcaster_NoReplayForLateSubscriber(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[string]()
	b.Publish("before")

	ch := b.Subscribe(t.Context())
	select {
	case v := <-ch:
		t.Fatalf("late subscriber received %q", v)
	default:
	}
}

func TestBroadcaster_ContextCancelClosesChannel(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	ctx, cancel := context.WithCancel(t.Context())
	ch := b.Subscribe(ctx)

	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, b.Len())
}

func TestBroadcaster_CloseAll(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	ch := b.Subscribe(t.Context())

	b.CloseAll()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	again := b.Subscribe(t.Context())
	b.Publish(9)
	assert.Equal(t, 9, receive(t, again))
}
