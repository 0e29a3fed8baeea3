// Package refresh provides the cross-component refresh signal: a process-wide,
// payload-free publish/subscribe point used to tell independent views that
// backing collection data changed. It replaces the stringly-typed browser
// event the original front end used, so publishers and subscribers are
// statically discoverable.
package refresh

import (
	"sync"

	"github.com/google/uuid"
)

// Bus is a payload-free broadcast point. Any number of listeners may
// subscribe and unsubscribe; there is no delivery ordering guarantee and no
// replay for late subscribers. Safe for concurrent use.
type Bus struct {
	mu   sync.Mutex
	subs map[uuid.UUID]func()
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[uuid.UUID]func()),
	}
}

// Subscribe registers fn to be invoked on every subsequent Publish. The
// returned cancel function removes the subscription and is idempotent.
func (b *Bus) Subscribe(fn func()) (cancel func()) {
	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish invokes every current subscriber exactly once. Callbacks run outside
// the bus lock, so a subscriber may publish or unsubscribe from within its
// callback without deadlocking.
func (b *Bus) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
