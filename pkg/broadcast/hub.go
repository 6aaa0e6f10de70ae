package broadcast

import "sync"

// Hub fans a change signal out to registered listeners within a single process.
//
// Delivery is synchronous: Publish returns only after every listener that was
// subscribed when the call started has run. Listeners added during a Publish
// do not observe that Publish. The Hub carries no payload; listeners are
// expected to read the current state from its owner, which must update that
// state before publishing.
type Hub struct {
	mu      sync.Mutex
	nextID  uint64
	entries []entry
}

type entry struct {
	id uint64
	fn func()
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{}
}

// Subscribe registers fn to run on every subsequent Publish and returns a
// function that removes the registration. The returned function is idempotent
// and safe to call from inside a listener. Listeners run in subscription order.
func (h *Hub) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.entries = append(h.entries, entry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			h.unsubscribe(id)
		})
	}
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Publish invokes all currently subscribed listeners in subscription order.
// Listeners are called outside the Hub's lock, so they may subscribe or
// unsubscribe freely. A listener removed concurrently with a Publish may
// still receive that in-flight notification.
func (h *Hub) Publish() {
	h.mu.Lock()
	snapshot := make([]entry, len(h.entries))
	copy(snapshot, h.entries)
	h.mu.Unlock()

	for _, e := range snapshot {
		e.fn()
	}
}

// Len reports the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
