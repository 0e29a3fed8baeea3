package resource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/scholarsync/internal/domain"
)

const waitFor = 2 * time.Second

// awaitStatus polls until the fetcher reaches the wanted status.
func awaitStatus[T any](t *testing.T, f *Fetcher[T], want Status) State[T] {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.State().Status == want
	}, waitFor, 5*time.Millisecond, "fetcher never reached status %s", want)
	return f.State()
}

func TestFetcherStartsIdle(t *testing.T) {
	f := NewFetcher[string]()
	st := f.State()

	assert.Equal(t, StatusIdle, st.Status)
	assert.Empty(t, st.Data)
	assert.Empty(t, st.Err)
}

func TestFetcherSuccessLifecycle(t *testing.T) {
	f := NewFetcher[string]()
	release := make(chan struct{})

	f.Load(context.Background(), "paper:1", func(ctx context.Context) (string, error) {
		<-release
		return "abstract text", nil
	})

	st := f.State()
	assert.Equal(t, StatusLoading, st.Status)
	assert.Empty(t, st.Data)
	assert.Empty(t, st.Err)

	close(release)
	st = awaitStatus(t, f, StatusSuccess)
	assert.Equal(t, "abstract text", st.Data)
	assert.Empty(t, st.Err)
}

func TestFetcherErrorLifecycle(t *testing.T) {
	f := NewFetcher[string]()

	f.Load(context.Background(), "paper:1", func(ctx context.Context) (string, error) {
		return "", errors.New("connection refused")
	})

	st := awaitStatus(t, f, StatusError)
	assert.Empty(t, st.Data)
	assert.Equal(t, DefaultErrorMessage, st.Err)
}

func TestFetcherErrorPrefersServerDetail(t *testing.T) {
	f := NewFetcher[string]()

	f.Load(context.Background(), "search", func(ctx context.Context) (string, error) {
		return "", domain.NewAPIError(400, "Search query cannot be empty", nil)
	})

	st := awaitStatus(t, f, StatusError)
	assert.Equal(t, "Search query cannot be empty", st.Err)
}

func TestFetcherCustomFallbackMessage(t *testing.T) {
	f := NewFetcher(WithFallbackMessage[string]("Failed to fetch related papers"))

	f.Load(context.Background(), "related", func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})

	st := awaitStatus(t, f, StatusError)
	assert.Equal(t, "Failed to fetch related papers", st.Err)
}

func TestFetcherNewTriggerClearsPriorState(t *testing.T) {
	f := NewFetcher[string]()

	f.Load(context.Background(), "k1", func(ctx context.Context) (string, error) {
		return "first", nil
	})
	awaitStatus(t, f, StatusSuccess)

	gate := make(chan struct{})
	f.Load(context.Background(), "k2", func(ctx context.Context) (string, error) {
		<-gate
		return "second", nil
	})

	st := f.State()
	assert.Equal(t, StatusLoading, st.Status)
	assert.Empty(t, st.Data, "prior data must be cleared on new trigger")

	close(gate)
	st = awaitStatus(t, f, StatusSuccess)
	assert.Equal(t, "second", st.Data)
}

func TestFetcherErrorCanRestart(t *testing.T) {
	f := NewFetcher[string]()

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})
	awaitStatus(t, f, StatusError)

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	st := awaitStatus(t, f, StatusSuccess)
	assert.Equal(t, "recovered", st.Data)
	assert.Empty(t, st.Err)
}

func TestFetcherDiscardsStaleResponse(t *testing.T) {
	f := NewFetcher[string]()

	k1Started := make(chan struct{})
	k1Release := make(chan struct{})

	// K1 hangs until released.
	f.Load(context.Background(), "k1", func(ctx context.Context) (string, error) {
		close(k1Started)
		<-k1Release
		return "stale k1 payload", nil
	})
	<-k1Started

	// Key changes to K2 before K1 resolves.
	f.Load(context.Background(), "k2", func(ctx context.Context) (string, error) {
		return "k2 payload", nil
	})
	st := awaitStatus(t, f, StatusSuccess)
	require.Equal(t, "k2 payload", st.Data)

	// Late K1 resolution must not overwrite K2's state.
	close(k1Release)
	time.Sleep(50 * time.Millisecond)

	st = f.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Equal(t, "k2 payload", st.Data)
	assert.Equal(t, "k2", f.Key())
}

func TestFetcherStaleErrorDoesNotOverwrite(t *testing.T) {
	f := NewFetcher[string]()

	k1Started := make(chan struct{})
	k1Release := make(chan struct{})

	f.Load(context.Background(), "k1", func(ctx context.Context) (string, error) {
		close(k1Started)
		<-k1Release
		return "", errors.New("k1 failed late")
	})
	<-k1Started

	f.Load(context.Background(), "k2", func(ctx context.Context) (string, error) {
		return "k2 payload", nil
	})
	awaitStatus(t, f, StatusSuccess)

	close(k1Release)
	time.Sleep(50 * time.Millisecond)

	st := f.State()
	assert.Equal(t, StatusSuccess, st.Status)
	assert.Empty(t, st.Err)
}

func TestFetcherSupersededRequestIsCanceled(t *testing.T) {
	f := NewFetcher[string]()

	canceled := make(chan struct{})
	started := make(chan struct{})

	f.Load(context.Background(), "k1", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		close(canceled)
		return "", ctx.Err()
	})
	<-started

	f.Load(context.Background(), "k2", func(ctx context.Context) (string, error) {
		return "k2", nil
	})

	select {
	case <-canceled:
	case <-time.After(waitFor):
		t.Fatal("superseded request context was never canceled")
	}
}

func TestFetcherCloseMakesLateResultNoOp(t *testing.T) {
	f := NewFetcher[string]()

	started := make(chan struct{})
	release := make(chan struct{})

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "too late", nil
	})
	<-started

	f.Close()
	close(release)
	time.Sleep(50 * time.Millisecond)

	// Teardown is a no-op, not an error.
	st := f.State()
	assert.NotEqual(t, StatusError, st.Status)
	assert.Empty(t, st.Data)
}

func TestFetcherLoadAfterCloseIgnored(t *testing.T) {
	f := NewFetcher[string]()
	f.Close()

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "ignored", nil
	})
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StatusIdle, f.State().Status)
}

func TestFetcherRefreshReissuesExactlyOnce(t *testing.T) {
	f := NewFetcher[int]()

	var mu sync.Mutex
	calls := 0

	load := func(ctx context.Context) (int, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		return n, nil
	}

	f.Load(context.Background(), "papers", load)
	awaitStatus(t, f, StatusSuccess)

	f.Refresh(context.Background())
	st := awaitStatus(t, f, StatusSuccess)

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
	assert.Equal(t, 2, st.Data)
	assert.Equal(t, "papers", f.Key())
}

func TestFetcherRefreshWithoutLoadIsNoOp(t *testing.T) {
	f := NewFetcher[int]()
	f.Refresh(context.Background())

	assert.Equal(t, StatusIdle, f.State().Status)
}

func TestFetcherOnChangeSeesTransitionsInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []Status

	f := NewFetcher(WithOnChange(func(st State[string]) {
		mu.Lock()
		seen = append(seen, st.Status)
		mu.Unlock()
	}))

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	awaitStatus(t, f, StatusSuccess)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, waitFor, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []Status{StatusLoading, StatusSuccess}, seen)
	mu.Unlock()
}

func TestFetcherInvariantExactlyOneMeaningfulField(t *testing.T) {
	f := NewFetcher[string]()

	checkInvariant := func(st State[string]) {
		switch st.Status {
		case StatusSuccess:
			assert.Empty(t, st.Err)
		case StatusError:
			assert.Empty(t, st.Data)
			assert.NotEmpty(t, st.Err)
		case StatusIdle, StatusLoading:
			assert.Empty(t, st.Data)
			assert.Empty(t, st.Err)
		default:
			t.Fatalf("unknown status %q", st.Status)
		}
	}

	checkInvariant(f.State())

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "data", nil
	})
	checkInvariant(f.State())
	awaitStatus(t, f, StatusSuccess)
	checkInvariant(f.State())

	f.Load(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})
	awaitStatus(t, f, StatusError)
	checkInvariant(f.State())
}
