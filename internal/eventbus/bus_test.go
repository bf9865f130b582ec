package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Publish("hello")
	assert.Equal(t, "hello", <-ch)
	bus.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestBusFanOut(t *testing.T) {
	bus := New[int]()
	a := bus.Subscribe()
	b := bus.Subscribe()
	bus.Publish(7)
	assert.Equal(t, 7, <-a)
	assert.Equal(t, 7, <-b)
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	_, ok := <-ch1
	assert.False(t, ok, "ch1 should be closed")
	_, ok = <-ch2
	assert.False(t, ok, "ch2 should be closed")

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")

	bus.Publish(1)
	bus.Close()
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[float64]()
	ch := bus.Subscribe()
	bus.Close()
	require.NotPanics(t, func() { bus.Unsubscribe(ch) })
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := New[int](WithBuffer(2))
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, uint64(3), bus.Dropped())
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
}

func TestWithBufferIgnoresNonPositive(t *testing.T) {
	bus := New[int](WithBuffer(0))
	ch := bus.Subscribe()
	assert.Equal(t, defaultBuffer, cap(ch))
}

func TestBusPublishWaitDeliversIntoFullBuffer(t *testing.T) {
	bus := New[int](WithBuffer(1))
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	require.Equal(t, uint64(1), bus.Dropped())

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- bus.PublishWait(ctx, 99)
	}()

	assert.Equal(t, 1, <-ch)
	assert.Equal(t, 99, <-ch)
	require.NoError(t, <-done)
	assert.Equal(t, uint64(1), bus.Dropped())
}

func TestBusPublishWaitGivesUpWithContext(t *testing.T) {
	bus := New[int](WithBuffer(1))
	ch := bus.Subscribe()
	bus.Publish(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.PublishWait(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, uint64(1), bus.Dropped())
	assert.Equal(t, 1, <-ch)
}
