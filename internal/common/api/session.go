// internal/common/api/session.go
package api

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the persisted login object. The backend issues the bearer token
// against the app name/version pair the storage key is derived from.
type Session struct {
	Token   string    `json:"token"`
	UserID  int64     `json:"user_id,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// SessionStore provides access to the persisted session. Token returns the
// empty string when no session exists; callers must treat that as a login
// redirect, never as an authenticated state.
type SessionStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
	Token() string
}

// FileSessionStore keeps the session as a single JSON object in a file named
// after the derived storage key.
type FileSessionStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileSessionStore creates a store at dir/<key>.json.
func NewFileSessionStore(dir, key string) *FileSessionStore {
	return &FileSessionStore{path: filepath.Join(dir, key+".json")}
}

func (s *FileSessionStore) Load() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &sess, nil
}

func (s *FileSessionStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.SavedAt.IsZero() {
		sess.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (s *FileSessionStore) Token() string {
	sess, err := s.Load()
	if err != nil || sess == nil {
		return ""
	}
	return sess.Token
}

// MemorySessionStore holds the session in memory, for tests.
type MemorySessionStore struct {
	mu   sync.RWMutex
	sess *Session
}

func NewMemorySessionStore(token string) *MemorySessionStore {
	store := &MemorySessionStore{}
	if token != "" {
		store.sess = &Session{Token: token, SavedAt: time.Now().UTC()}
	}
	return store
}

func (s *MemorySessionStore) Load() (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, nil
}

func (s *MemorySessionStore) Save(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}

func (s *MemorySessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.Token
}
