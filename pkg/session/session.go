// Package session holds the client's notion of the current authenticated
// identity, derived from a persisted token.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/ecsproull/edandlinda/internal/logging"
	"github.com/ecsproull/edandlinda/internal/metrics"
	"github.com/ecsproull/edandlinda/pkg/roles"
)

// TokenTTL is how long a persisted session stays valid.
const TokenTTL = 7 * 24 * time.Hour

// ErrMalformedToken marks a token whose payload could not be decoded. The
// store keeps this as an explicit corrupted state rather than silently
// degrading to "not logged in".
var ErrMalformedToken = errors.New("malformed session token")

// Identity is the decoded token payload.
type Identity struct {
	Name string
	Role roles.Role
}

// Store is the only cross-component mutable shared state. It is mutated by
// Login, Logout, Bootstrap, and the API gateway's 401 policy; everything
// else reads it.
type Store struct {
	mu       sync.RWMutex
	tokens   TokenStore
	server   string
	token    string
	identity *Identity
	loading  bool
	corrupt  error
}

// New creates a store backed by the given token persistence. The store
// reports Loading until Bootstrap has run.
func New(tokens TokenStore, server string) *Store {
	return &Store{tokens: tokens, server: server, loading: true}
}

// Bootstrap rehydrates the session from the persisted token. It runs once at
// startup, before anything reads the store.
func (s *Store) Bootstrap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	tf, err := s.tokens.Load()
	if errors.Is(err, ErrNoToken) {
		return
	}
	if err != nil {
		logging.Warn("failed to read persisted token", zap.Error(err))
		return
	}
	if tf.IsExpired(0) {
		if err := s.tokens.Delete(); err != nil {
			logging.Warn("failed to remove expired token", zap.Error(err))
		}
		return
	}

	id, err := decodeIdentity(tf.Token)
	if err != nil {
		s.corrupt = err
		logging.Error("persisted token is corrupted", zap.Error(err))
		return
	}

	s.token = tf.Token
	s.identity = id
}

// Login decodes the token, persists it with a 7-day expiry, and sets the
// identity. A token that fails to decode leaves the store unauthenticated
// with Corrupted reporting the cause.
func (s *Store) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	id, err := decodeIdentity(token)
	if err != nil {
		s.corrupt = err
		metrics.RecordAuthAttempt(false)
		logging.Error("token decode failed on login", zap.Error(err))
		return err
	}

	tf := &TokenFile{
		Token:     token,
		ExpiresAt: time.Now().Add(TokenTTL),
		Server:    s.server,
		Username:  id.Name,
	}
	if err := s.tokens.Save(tf); err != nil {
		// The in-memory session is still valid; the next run starts signed out.
		logging.Warn("failed to persist session token", zap.Error(err))
	}

	s.token = token
	s.identity = id
	s.corrupt = nil
	metrics.RecordAuthAttempt(true)
	logging.Info("logged in", zap.String("user", id.Name), zap.Stringer("role", id.Role))
	return nil
}

// Logout erases the persisted token and nulls the identity.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.tokens.Delete()
	if err != nil {
		logging.Warn("failed to delete persisted token", zap.Error(err))
	}
	s.token = ""
	s.identity = nil
	s.corrupt = nil
	return err
}

// Invalidate tears the session down after the server rejected its token.
// This is the 401 policy entry point.
func (s *Store) Invalidate() {
	metrics.RecordSessionTeardown()
	logging.Warn("session invalidated by server")
	_ = s.Logout()
}

// Token returns the raw session token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns a copy of the current identity, or nil.
func (s *Store) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Loading reports whether Bootstrap has yet to complete.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated is true iff an identity is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Corrupted returns the decode error of the last malformed token, or nil.
func (s *Store) Corrupted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corrupt
}

// HasRole reports whether the identity holds exactly the given role.
func (s *Store) HasRole(r roles.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.Role == r
}

// HasAnyRole reports whether the identity holds any of the given roles.
func (s *Store) HasAnyRole(rs ...roles.Role) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return false
	}
	return roles.Contains(rs, s.identity.Role)
}

// decodeIdentity extracts the identity from the token's payload segment.
// The signature is never verified client-side; the trust boundary is the
// server that issued the token. Payload fields live either under a nested
// "data" object or at the top level (older tokens).
func decodeIdentity(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	payload := map[string]interface{}(claims)
	if data, ok := claims["data"].(map[string]interface{}); ok {
		payload = data
	}

	name, _ := payload["user_name"].(string)
	roleName, _ := payload["role"].(string)
	if name == "" || roleName == "" {
		return nil, fmt.Errorf("%w: payload missing user_name or role", ErrMalformedToken)
	}

	role, err := roles.Parse(roleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return &Identity{Name: name, Role: role}, nil
}
