// Package cache holds the client-side stores that mirror catalog and
// collection state from the API.
package cache

import "sync"

// Event names a class of change.
type Event string

const (
	OwnedChanged    Event = "owned:changed"
	WishlistChanged Event = "wishlist:changed"
	CatalogChanged  Event = "catalog:changed"
)

const defaultBuffer = 16

// Notifier fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	next   int
	buffer int
}

func NewNotifier(buffer int) *Notifier {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Notifier{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe returns a receive channel and a cancel func that closes it.
func (n *Notifier) Subscribe() (<-chan Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan Event, n.buffer)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (n *Notifier) Publish(e Event) {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
