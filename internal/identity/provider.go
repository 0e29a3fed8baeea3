// Package identity talks to the external identity provider and exposes the
// session stream the rest of the application observes. Provider errors arrive
// as codes from a closed enum; each code maps to a user-facing message scoped
// to a form field or to the whole form.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scholarsync/scholarsync/internal/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout for identity calls.
	DefaultTimeout = 15 * time.Second

	signInPath  = "/v1/accounts:signIn"
	signUpPath  = "/v1/accounts:signUp"
	signOutPath = "/v1/accounts:signOut"

	maxResponseBody = 1 << 20
)

// Config contains configuration options for the identity provider client.
type Config struct {
	// BaseURL is the base URL of the identity provider.
	BaseURL string

	// Timeout is the HTTP request timeout. Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// APIKey is sent as the key query parameter when set.
	APIKey string
}

// Provider is the HTTP client for the identity provider. It also owns the
// current session: sign-in/up/out mutate it, and subscribers observe every
// change as *domain.User (nil for signed out).
type Provider struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger

	mu      sync.Mutex
	current *domain.User
	token   string
	subs    map[uuid.UUID]func(*domain.User)
}

// NewProvider creates a new identity provider client.
func NewProvider(cfg Config, logger zerolog.Logger) *Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Provider{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger.With().Str("component", "identity").Logger(),
		subs:       make(map[uuid.UUID]func(*domain.User)),
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type signOutRequest struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// SignIn authenticates with email and password. On success the session
// changes and subscribers are notified before SignIn returns.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	return p.authenticate(ctx, signInPath, email, password)
}

// SignUp creates an account and signs it in. The provider validates email
// shape and password strength on its side; failures come back as codes.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return p.authenticate(ctx, signUpPath, email, password)
}

func (p *Provider) authenticate(ctx context.Context, path, email, password string) (*domain.User, error) {
	var resp sessionResponse
	err := p.post(ctx, path, credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	user := &domain.User{UID: resp.UID, Email: resp.Email}
	p.setSession(user, resp.Token)

	p.logger.Info().Str("uid", user.UID).Msg("session established")
	return user, nil
}

// SignOut ends the current session. The local session is cleared even when
// the provider call fails; a stale remote token is the provider's problem.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := p.token
	p.mu.Unlock()

	p.setSession(nil, "")

	if token == "" {
		return nil
	}
	if err := p.post(ctx, signOutPath, signOutRequest{Token: token}, nil); err != nil {
		p.logger.Warn().Err(err).Msg("remote sign-out failed")
		return err
	}
	return nil
}

// Current returns the current session user, or nil when signed out.
func (p *Provider) Current() *domain.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe registers fn to be called on every session change with the new
// user (nil for signed out). There is no replay of the current session. The
// returned cancel function is idempotent.
func (p *Provider) Subscribe(fn func(*domain.User)) func() {
	id := uuid.New()

	p.mu.Lock()
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// setSession swaps the session and notifies subscribers outside the lock.
func (p *Provider) setSession(user *domain.User, token string) {
	p.mu.Lock()
	p.current = user
	p.token = token
	fns := make([]func(*domain.User), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

func (p *Provider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	endpoint := p.config.BaseURL + path
	if p.config.APIKey != "" {
		endpoint += "?key=" + p.config.APIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body)

		authErr := NewAuthError(body.Error.Code)
		p.logger.Debug().
			Int("status", resp.StatusCode).
			Str("code", string(authErr.Code)).
			Msg("identity request failed")
		return authErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
