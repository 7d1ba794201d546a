package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	bus.Publish("first", 1)
	bus.Publish("second", 2)

	events := bus.SubscribeCh()
	ev := <-events
	assert.Equal(t, "first", ev.Name)
	assert.Equal(t, 1, ev.Data)

	ev = <-events
	assert.Equal(t, "second", ev.Name)
	assert.Equal(t, 2, ev.Data)
}

func TestEventBusPublishNeverBlocks(t *testing.T) {
	bus := NewEventBus()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			bus.Publish("burst", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no consumer")
	}
}
