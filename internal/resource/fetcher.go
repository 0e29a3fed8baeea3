// Package resource implements the remote-resource lifecycle every data-bound
// view builds on: one fetcher per logical resource, tracking an
// idle/loading/success/error status, the parsed response, and a human-readable
// error message.
//
// The fetcher enforces the stale-response discard rule: when a new load starts
// before a prior request resolves, the prior request's eventual result is
// ignored. Each request is tagged with a generation at issue time and compared
// against the current generation on resolution, so results are never applied
// out of trigger order and a closed fetcher never mutates state.
package resource

import (
	"context"
	"sync"

	"github.com/scholarsync/scholarsync/internal/domain"
)

// Status is the lifecycle phase of a fetcher.
type Status string

// Fetcher lifecycle phases. A fetcher is in exactly one at any instant.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DefaultErrorMessage is shown when a failure carries no server-supplied detail.
const DefaultErrorMessage = "Something went wrong. Please try again."

// State is a snapshot of a fetcher. Data holds a meaningful value only when
// Status is StatusSuccess; Err is non-empty only when Status is StatusError.
type State[T any] struct {
	Status Status
	Data   T
	Err    string
}

// LoadFunc performs the actual remote call for one load.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Option configures a Fetcher.
type Option[T any] func(*Fetcher[T])

// WithFallbackMessage overrides the generic error message used when a failure
// has no server detail.
func WithFallbackMessage[T any](msg string) Option[T] {
	return func(f *Fetcher[T]) {
		f.fallback = msg
	}
}

// WithOnChange registers a hook invoked with a state snapshot after every
// transition. The hook runs outside the fetcher lock, in transition order.
func WithOnChange[T any](fn func(State[T])) Option[T] {
	return func(f *Fetcher[T]) {
		f.onChange = fn
	}
}

// Fetcher owns one remote-resource lifecycle. It is safe for concurrent use;
// loads resolve asynchronously and stale results are discarded.
type Fetcher[T any] struct {
	mu       sync.Mutex
	state    State[T]
	gen      uint64
	key      string
	load     LoadFunc[T]
	cancel   context.CancelFunc
	onChange func(State[T])
	fallback string
	closed   bool
}

// NewFetcher creates a fetcher in the idle state.
func NewFetcher[T any](opts ...Option[T]) *Fetcher[T] {
	f := &Fetcher[T]{
		state:    State[T]{Status: StatusIdle},
		fallback: DefaultErrorMessage,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current snapshot.
func (f *Fetcher[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Key returns the resource key of the most recent load.
func (f *Fetcher[T]) Key() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// Load starts a new load for the given resource key. Prior data and error are
// cleared, status becomes loading, and fn runs on its own goroutine. If a
// previous request is still in flight its context is canceled and its result
// will be discarded when it resolves.
func (f *Fetcher[T]) Load(ctx context.Context, key string, fn LoadFunc[T]) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if f.cancel != nil {
		f.cancel()
	}

	f.gen++
	gen := f.gen
	f.key = key
	f.load = fn

	loadCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	var zero T
	f.state = State[T]{Status: StatusLoading, Data: zero}
	st := f.state
	hook := f.onChange
	f.mu.Unlock()

	if hook != nil {
		hook(st)
	}

	go func() {
		data, err := fn(loadCtx)
		cancel()

		f.mu.Lock()
		if f.closed || gen != f.gen {
			// A newer load started (or the view tore down) while this
			// request was in flight; its result no longer belongs to
			// anything on screen.
			f.mu.Unlock()
			return
		}
		f.cancel = nil
		if err != nil {
			var zero T
			f.state = State[T]{
				Status: StatusError,
				Data:   zero,
				Err:    domain.UserMessage(err, f.fallback),
			}
		} else {
			f.state = State[T]{Status: StatusSuccess, Data: data}
		}
		st := f.state
		hook := f.onChange
		f.mu.Unlock()

		if hook != nil {
			hook(st)
		}
	}()
}

// Refresh re-runs the most recent load for its original key, issuing exactly
// one new request. A fetcher that has never loaded ignores the call.
func (f *Fetcher[T]) Refresh(ctx context.Context) {
	f.mu.Lock()
	key, fn := f.key, f.load
	f.mu.Unlock()

	if fn == nil {
		return
	}
	f.Load(ctx, key, fn)
}

// Close tears the fetcher down. Any in-flight request is canceled and its
// eventual result is a no-op, not an error. Subsequent loads are ignored.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.gen++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
