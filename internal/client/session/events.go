package session

import "sync"

// Event names broadcast on the Bus
const (
	// EventTokenExpired fires when a request came back 401 with a
	// token-related error, outside of a refresh attempt
	EventTokenExpired = "tokenExpired"
	// EventAuthRefreshed fires after a successful token refresh
	EventAuthRefreshed = "authRefreshed"
)

// Event is a broadcast notification about the session lifecycle.
// Status and Message carry the failing response's detail for
// EventTokenExpired; both are zero for other events.
type Event struct {
	Name    string
	Status  int
	Message string
}

// Bus is a small publish/subscribe hub for session events. Publishing
// never blocks: slow subscribers miss events rather than stall the
// HTTP path.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an event bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. The returned cancel func must be
// called to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish broadcasts a bare event to all current subscribers
func (b *Bus) Publish(name string) {
	b.PublishEvent(Event{Name: name})
}

// PublishEvent broadcasts the event to all current subscribers
func (b *Bus) PublishEvent(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
