package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// TokenFile holds the persisted session token.
type TokenFile struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Server    string    `json:"server"`
	Username  string    `json:"username"`
}

// IsExpired returns true if the token has expired (with optional margin).
func (t *TokenFile) IsExpired(margin time.Duration) bool {
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// ErrNoToken is returned by Load when no token has been persisted.
var ErrNoToken = errors.New("no persisted token")

// TokenStore persists the session token across runs.
type TokenStore interface {
	Save(*TokenFile) error
	Load() (*TokenFile, error)
	Delete() error
}

// FileStore keeps the token in a JSON file, the durable analog of the
// browser cookie the server originally issued tokens into.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultTokenPath returns the default token file location.
func DefaultTokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "edandlinda", "token.json")
}

// Save writes the token file, creating parent directories as needed.
func (s *FileStore) Save(tf *TokenFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Load reads the token file. Returns ErrNoToken when absent.
func (s *FileStore) Load() (*TokenFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	var tf TokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, err
	}
	return &tf, nil
}

// Delete removes the token file. Missing files are not an error.
func (s *FileStore) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
