package orchestrator

import (
	"sync"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeTurnChunk       EventType = "turn.chunk"
	EventTypeTurnPublished   EventType = "turn.published"
	EventTypeTurnFailed      EventType = "turn.failed"
	EventTypeSessionSwitched EventType = "session.switched"
)

// Event represents a generic event structure
type Event struct {
	Type       EventType              `json:"type"`
	Generation uint64                 `json:"generation,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Broker fans events out to in-process subscribers. Sends never block:
// a subscriber that stops draining its channel misses events instead of
// stalling the turn pipeline.
type Broker struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]chan Event
}

// NewBroker creates a broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int]chan Event),
	}
}

// subscriberBuffer absorbs chunk bursts from a fast LLM stream.
const subscriberBuffer = 64

// Subscribe registers a new subscriber. The returned cancel function
// removes the subscription and closes the channel; it is safe to call
// more than once.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber.
func (b *Broker) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
