// Package session holds the signed-in admin's credentials. It replaces ambient
// browser storage with an explicit Store that is handed to the API client.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/investdesk/desk/internal/model"
)

// Session is everything the console persists between runs.
type Session struct {
	AccessToken string      `json:"access_token,omitempty"`
	User        *model.User `json:"user,omitempty"`
}

// SignedIn reports whether a token is present.
func (s Session) SignedIn() bool {
	return s.AccessToken != ""
}

// Store gets, sets and clears the current session.
type Store interface {
	Get() (Session, error)
	Set(Session) error
	Clear() error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	cur Session
}

// NewMemoryStore returns a store pre-populated with s.
func NewMemoryStore(s Session) *MemoryStore {
	return &MemoryStore{cur: s}
}

func (m *MemoryStore) Get() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur, nil
}

func (m *MemoryStore) Set(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = Session{}
	return nil
}

// FileStore persists the session as JSON readable only by the current user.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string {
	return f.path
}

// Get returns the stored session, or an empty one if nothing is stored.
func (f *FileStore) Get() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("reading session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w", f.path, err)
	}
	return s, nil
}

func (f *FileStore) Set(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing session: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an empty store is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
