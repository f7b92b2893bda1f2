// Package session persists the signed-in user's token, role and theme
// between pulse invocations.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultFilename is the default filename for session storage.
const DefaultFilename = "session.json"

// Data is the persisted session. Token and Role are set at login and
// cleared at logout or when the backend rejects the token. Theme outlives
// both.
type Data struct {
	Token     string    `json:"token,omitempty"`
	Role      string    `json:"role,omitempty"`
	Theme     string    `json:"theme,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store handles reading and writing the session file. Every mutation is
// written through synchronously.
type Store struct {
	path string
	mu   sync.RWMutex
	data Data
}

// NewStore creates a Store for path.
// It does not read the file; call Load for that.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewStoreInDir creates a Store for the default session.json in dir.
func NewStoreInDir(dir string) *Store {
	return NewStore(filepath.Join(dir, DefaultFilename))
}

// Path returns the file path of the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file. A missing file is an empty session.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = Data{}
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}

	var d Data
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	s.data = d
	return nil
}

// save writes the session file. Callers must hold s.mu.
func (s *Store) save() error {
	s.data.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	// The token grants API access; keep it private to the user.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Token returns the bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// Role returns the role the backend assigned at login.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Role
}

// Theme returns the persisted theme name, or "" if never toggled.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Theme
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SetLogin stores the credentials returned by a successful login.
func (s *Store) SetLogin(token, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Token = token
	s.data.Role = role
	return s.save()
}

// SetTheme stores the theme name.
func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Theme = theme
	return s.save()
}

// Clear removes token and role, keeping the theme.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.Token == "" && s.data.Role == "" {
		return nil
	}
	s.data.Token = ""
	s.data.Role = ""
	return s.save()
}
