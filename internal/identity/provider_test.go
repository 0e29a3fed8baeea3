package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarsync/scholarsync/internal/domain"
)

func newTestProvider(t *testing.T, handler http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(Config{BaseURL: srv.URL}, zerolog.Nop())
}

func identityHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(signInPath, func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Password != "hunter22" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"wrong-password"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(sessionResponse{
			UID:   "u-1",
			Email: req.Email,
			Token: "tok-1",
		})
	})
	mux.HandleFunc(signUpPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"email-already-in-use"}}`))
	})
	mux.HandleFunc(signOutPath, func(w http.ResponseWriter, r *http.Request) {
		var req signOutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-1", req.Token)
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestSignInSuccess(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	user, err := p.SignIn(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, user, p.Current())
}

func TestSignInWrongPassword(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	_, err := p.SignIn(context.Background(), "ada@example.com", "nope")
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, CodeWrongPassword, authErr.Code)
	assert.Equal(t, FieldPassword, authErr.Field())
	assert.Nil(t, p.Current())
}

func TestSignUpEmailInUse(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	_, err := p.SignUp(context.Background(), "ada@example.com", "hunter22")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, CodeEmailAlreadyInUse, authErr.Code)
}

func TestUnknownCodeNormalizedToOther(t *testing.T) {
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"quota-exceeded"}}`))
	}))

	_, err := p.SignIn(context.Background(), "a@b.c", "x")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, CodeOther, authErr.Code)
}

func TestSignOutClearsSessionAndRevokesToken(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	_, err := p.SignIn(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(context.Background()))
	assert.Nil(t, p.Current())
}

func TestSignOutWithoutSessionIsNoOp(t *testing.T) {
	var hits int
	p := newTestProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	require.NoError(t, p.SignOut(context.Background()))
	assert.Zero(t, hits)
}

func TestSubscribeObservesSessionChanges(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	var mu sync.Mutex
	var seen []*domain.User
	cancel := p.Subscribe(func(u *domain.User) {
		mu.Lock()
		seen = append(seen, u)
		mu.Unlock()
	})
	defer cancel()

	_, err := p.SignIn(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, "u-1", seen[0].UID)
	assert.Nil(t, seen[1])
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	p := newTestProvider(t, identityHandler(t))

	calls := 0
	cancel := p.Subscribe(func(u *domain.User) { calls++ })
	cancel()
	cancel() // idempotent

	_, err := p.SignIn(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.Zero(t, calls)
}
