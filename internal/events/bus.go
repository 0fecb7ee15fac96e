package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SubscriberBuffer is the per-subscriber queue length
const SubscriberBuffer = 16

// Bus fans events out to subscribers. Publishing never blocks: a subscriber
// whose queue is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan EventWithData
	nextID      int
	log         zerolog.Logger
}

// NewBus creates an event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[int]chan EventWithData),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan EventWithData, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan EventWithData, SubscriberBuffer)
	b.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
}

// Publish emits data from module to every subscriber
func (b *Bus) Publish(module string, data EventData) {
	event := EventWithData{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Module:    module,
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn().Int("subscriber", id).Str("type", string(event.Type)).Msg("Subscriber queue full, dropping event")
		}
	}
}

// Subscribers returns the number of active subscribers
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
