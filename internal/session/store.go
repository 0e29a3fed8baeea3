// Package session exposes the current authenticated user as an observable
// value. Screens read it through Current and Subscribe instead of sharing a
// mutated global; the value is owned by the identity provider's session
// stream and injected where needed.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/scholarsync/scholarsync/internal/domain"
)

// Source is the upstream session stream, normally the identity provider.
type Source interface {
	Current() *domain.User
	Subscribe(fn func(*domain.User)) func()
}

// Store is an observable current-user value fed by a Source. Safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	current *domain.User
	subs    map[uuid.UUID]func(*domain.User)
	cancel  func()
}

// NewStore creates a store tracking src. The store snapshots the source's
// current session and follows every subsequent change until Close.
func NewStore(src Source) *Store {
	s := &Store{
		current: src.Current(),
		subs:    make(map[uuid.UUID]func(*domain.User)),
	}
	s.cancel = src.Subscribe(s.set)
	return s
}

// Current returns the current user, or nil when signed out.
func (s *Store) Current() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SignedIn reports whether a user is currently authenticated.
func (s *Store) SignedIn() bool {
	return s.Current() != nil
}

// Subscribe registers fn to be called on every session change with the new
// user (nil for signed out). No replay of the current value; read Current
// for that. The returned cancel function is idempotent.
func (s *Store) Subscribe(fn func(*domain.User)) func() {
	id := uuid.New()

	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close detaches the store from its source. Subscribers receive no further
// notifications.
func (s *Store) Close() {
	s.cancel()
}

func (s *Store) set(user *domain.User) {
	s.mu.Lock()
	s.current = user
	fns := make([]func(*domain.User), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}
