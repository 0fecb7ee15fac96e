package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishFansOut(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	a, unsubA := bus.Subscribe()
	b, unsubB := bus.Subscribe()
	defer unsubA()
	defer unsubB()

	bus.Publish("analysis", &RunStartedData{RunID: "r1"})

	for _, ch := range []<-chan EventWithData{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, RunStarted, ev.Type)
			assert.Equal(t, "analysis", ev.Module)
			assert.False(t, ev.Timestamp.IsZero())
		default:
			t.Fatal("expected an event")
		}
	}
}

func TestBus_SlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch, unsub := bus.Subscribe()
	defer unsub()

	for i := 0; i < SubscriberBuffer+5; i++ {
		bus.Publish("analysis", &RunCompletedData{Picks: i})
	}

	assert.Len(t, ch, SubscriberBuffer)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	ch, unsub := bus.Subscribe()
	require.Equal(t, 1, bus.Subscribers())

	unsub()
	unsub()

	assert.Equal(t, 0, bus.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	// Publishing with no subscribers is a no-op
	bus.Publish("analysis", &RunFailedData{Error: "x"})
}
