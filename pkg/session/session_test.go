package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecsproull/edandlinda/pkg/roles"
)

// memStore is an in-memory TokenStore.
type memStore struct {
	tf      *TokenFile
	saveErr error
}

func (m *memStore) Save(tf *TokenFile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tf = tf
	return nil
}

func (m *memStore) Load() (*TokenFile, error) {
	if m.tf == nil {
		return nil, ErrNoToken
	}
	return m.tf, nil
}

func (m *memStore) Delete() error {
	m.tf = nil
	return nil
}

func segment(v interface{}) string {
	data, _ := json.Marshal(v)
	return base64.RawURLEncoding.EncodeToString(data)
}

// makeToken builds an unsigned-but-well-formed token around the payload.
func makeToken(payload map[string]interface{}) string {
	header := segment(map[string]string{"alg": "HS256", "typ": "JWT"})
	return header + "." + segment(payload) + ".sig"
}

func TestLogin_NestedDataPayload(t *testing.T) {
	mem := &memStore{}
	s := New(mem, "http://localhost:3000")

	token := makeToken(map[string]interface{}{
		"data": map[string]interface{}{"user_name": "linda", "role": "Admin"},
	})
	if err := s.Login(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := s.Identity()
	if id == nil || id.Name != "linda" || id.Role != roles.Admin {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !s.Authenticated() {
		t.Error("expected authenticated")
	}
	if s.Loading() {
		t.Error("login should clear loading")
	}
	if mem.tf == nil {
		t.Fatal("token was not persisted")
	}
	if mem.tf.Token != token || mem.tf.Username != "linda" {
		t.Errorf("persisted token file mismatch: %+v", mem.tf)
	}
	ttl := time.Until(mem.tf.ExpiresAt)
	if ttl < TokenTTL-time.Minute || ttl > TokenTTL {
		t.Errorf("expected ~7 day expiry, got %v", ttl)
	}
}

func TestLogin_TopLevelPayloadFallback(t *testing.T) {
	s := New(&memStore{}, "")
	token := makeToken(map[string]interface{}{"user_name": "ed", "role": "Creator"})
	if err := s.Login(token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id := s.Identity(); id == nil || id.Name != "ed" || id.Role != roles.Creator {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestLogin_MalformedTokenIsCorruptedNotSilent(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"bad base64 payload", "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
		{"missing fields", makeToken(map[string]interface{}{"foo": "bar"})},
		{"unknown role", makeToken(map[string]interface{}{"user_name": "x", "role": "Root"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&memStore{}, "")
			err := s.Login(tt.token)
			if !errors.Is(err, ErrMalformedToken) {
				t.Fatalf("expected ErrMalformedToken, got %v", err)
			}
			if s.Authenticated() {
				t.Error("malformed token must not authenticate")
			}
			if s.Loading() {
				t.Error("loading must clear even on failure")
			}
			if s.Corrupted() == nil {
				t.Error("corrupted state must be surfaced")
			}
		})
	}
}

func TestLogout(t *testing.T) {
	mem := &memStore{}
	s := New(mem, "")
	if err := s.Login(makeToken(map[string]interface{}{"user_name": "ed", "role": "User"})); err != nil {
		t.Fatal(err)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Authenticated() || s.Identity() != nil || s.Token() != "" {
		t.Error("logout must clear identity and token")
	}
	if mem.tf != nil {
		t.Error("logout must erase the persisted token")
	}
}

func TestBootstrap_RehydratesPersistedToken(t *testing.T) {
	token := makeToken(map[string]interface{}{
		"data": map[string]interface{}{"user_name": "linda", "role": "Manuals"},
	})
	mem := &memStore{tf: &TokenFile{Token: token, ExpiresAt: time.Now().Add(time.Hour)}}
	s := New(mem, "")

	if !s.Loading() {
		t.Fatal("store must report loading before bootstrap")
	}
	s.Bootstrap()

	if s.Loading() {
		t.Error("bootstrap must clear loading")
	}
	if id := s.Identity(); id == nil || id.Role != roles.Manuals {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestBootstrap_NoToken(t *testing.T) {
	s := New(&memStore{}, "")
	s.Bootstrap()
	if s.Authenticated() || s.Loading() {
		t.Error("expected signed-out, not loading")
	}
	if s.Corrupted() != nil {
		t.Error("absent token is not a corrupted session")
	}
}

func TestBootstrap_ExpiredTokenIsDiscarded(t *testing.T) {
	token := makeToken(map[string]interface{}{"user_name": "ed", "role": "User"})
	mem := &memStore{tf: &TokenFile{Token: token, ExpiresAt: time.Now().Add(-time.Minute)}}
	s := New(mem, "")
	s.Bootstrap()

	if s.Authenticated() {
		t.Error("expired token must not authenticate")
	}
	if mem.tf != nil {
		t.Error("expired token must be erased")
	}
}

func TestBootstrap_CorruptedToken(t *testing.T) {
	mem := &memStore{tf: &TokenFile{Token: "junk", ExpiresAt: time.Now().Add(time.Hour)}}
	s := New(mem, "")
	s.Bootstrap()

	if s.Authenticated() {
		t.Error("corrupted token must not authenticate")
	}
	if !errors.Is(s.Corrupted(), ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", s.Corrupted())
	}
}

func TestInvalidate(t *testing.T) {
	mem := &memStore{}
	s := New(mem, "")
	if err := s.Login(makeToken(map[string]interface{}{"user_name": "ed", "role": "Admin"})); err != nil {
		t.Fatal(err)
	}

	s.Invalidate()

	if s.Authenticated() {
		t.Error("invalidate must sign the session out")
	}
	if mem.tf != nil {
		t.Error("invalidate must erase the persisted token")
	}
}

func TestRoleChecks(t *testing.T) {
	s := New(&memStore{}, "")
	if s.HasRole(roles.User) || s.HasAnyRole(roles.All...) {
		t.Error("signed-out store must hold no roles")
	}

	if err := s.Login(makeToken(map[string]interface{}{"user_name": "ed", "role": "Creator"})); err != nil {
		t.Fatal(err)
	}

	if !s.HasRole(roles.Creator) {
		t.Error("expected HasRole(Creator)")
	}
	if s.HasRole(roles.Admin) {
		t.Error("role check is exact membership, not level comparison")
	}
	if !s.HasAnyRole(roles.Admin, roles.Creator) {
		t.Error("expected HasAnyRole to match Creator")
	}
	if s.HasAnyRole(roles.Admin, roles.Manuals) {
		t.Error("did not expect a match")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	fs := NewFileStore(path)

	if _, err := fs.Load(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	tf := &TokenFile{
		Token:     "abc",
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Millisecond),
		Server:    "http://localhost:3000",
		Username:  "ed",
	}
	if err := fs.Save(tf); err != nil {
		t.Fatal(err)
	}

	loaded, err := fs.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Token != tf.Token || loaded.Username != tf.Username || loaded.Server != tf.Server {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	if err := fs.Delete(); err != nil {
		t.Fatal(err)
	}
	if err := fs.Delete(); err != nil {
		t.Errorf("deleting a missing token file should not error: %v", err)
	}
}
