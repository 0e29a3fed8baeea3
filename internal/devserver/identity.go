package devserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// In-memory identity provider compatible with the client's identity wire
// contract. Accounts exist for the life of the process.

type account struct {
	uid      string
	email    string
	password string
}

type accountStore struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	sessions map[string]string // token -> uid
}

func newAccountStore() *accountStore {
	return &accountStore{
		byEmail:  make(map[string]*account),
		sessions: make(map[string]string),
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signOutRequest struct {
	Token string `json:"token"`
}

// writeIdentityError writes the identity error body with a code from the
// client's closed enum.
func writeIdentityError(w http.ResponseWriter, statusCode int, code string) {
	writeJSON(w, statusCode, map[string]any{
		"error": map[string]string{"code": code},
	})
}

// validateCredentials maps request validation failures onto identity codes.
func (s *Server) validateCredentials(req credentialsRequest) (code string, ok bool) {
	if req.Email == "" || s.validate.Var(req.Email, "email") != nil {
		return "invalid-email", false
	}
	if req.Password == "" || len(req.Password) < 6 {
		return "weak-password", false
	}
	return "", true
}

func (s *Server) signInHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeIdentityError(w, http.StatusBadRequest, "invalid-credential")
		return
	}

	s.accounts.mu.Lock()
	acct, exists := s.accounts.byEmail[req.Email]
	s.accounts.mu.Unlock()

	if !exists {
		writeIdentityError(w, http.StatusNotFound, "user-not-found")
		return
	}
	if acct.password != req.Password {
		writeIdentityError(w, http.StatusUnauthorized, "wrong-password")
		return
	}

	s.issueSession(w, acct)
}

func (s *Server) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if code, ok := s.validateCredentials(req); !ok {
		writeIdentityError(w, http.StatusBadRequest, code)
		return
	}

	s.accounts.mu.Lock()
	if _, exists := s.accounts.byEmail[req.Email]; exists {
		s.accounts.mu.Unlock()
		writeIdentityError(w, http.StatusConflict, "email-already-in-use")
		return
	}
	acct := &account{
		uid:      uuid.NewString(),
		email:    req.Email,
		password: req.Password,
	}
	s.accounts.byEmail[req.Email] = acct
	s.accounts.mu.Unlock()

	s.logger.Info().Str("uid", acct.uid).Msg("account created")
	s.issueSession(w, acct)
}

func (s *Server) signOutHandler(w http.ResponseWriter, r *http.Request) {
	var req signOutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.accounts.mu.Lock()
	delete(s.accounts.sessions, req.Token)
	s.accounts.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) issueSession(w http.ResponseWriter, acct *account) {
	token := uuid.NewString()

	s.accounts.mu.Lock()
	s.accounts.sessions[token] = acct.uid
	s.accounts.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"uid":   acct.uid,
		"email": acct.email,
		"token": token,
	})
}
