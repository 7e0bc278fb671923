// Package cabinet is the patient-facing client: the signed-in session, page
// gating, the appointment tabs and the controller binding UI actions to the
// HTTP API.
package cabinet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CurrentUser is what the client remembers about the signed-in user.
type CurrentUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token,omitempty"`
}

// Store persists the current user between runs. Load returns nil, nil when
// nobody is signed in.
type Store interface {
	Load() (*CurrentUser, error)
	Save(u *CurrentUser) error
	Clear() error
}

type MemoryStore struct {
	mu   sync.Mutex
	user *CurrentUser
}

func (m *MemoryStore) Load() (*CurrentUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, nil
	}
	u := *m.user
	return &u, nil
}

func (m *MemoryStore) Save(u *CurrentUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.user = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

// FileStore keeps the current user as a JSON file readable only by its owner.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (*CurrentUser, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var u CurrentUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", f.Path, err)
	}
	return &u, nil
}

func (f FileStore) Save(u *CurrentUser) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, f.Path)
}

func (f FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Session is the explicit client state handed to every controller call.
type Session struct {
	store Store
	user  *CurrentUser
}

// NewSession restores the user saved in store, if any.
func NewSession(store Store) (*Session, error) {
	u, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{store: store, user: u}, nil
}

// User returns the signed-in user or nil.
func (s *Session) User() *CurrentUser {
	return s.user
}

func (s *Session) LoggedIn() bool {
	return s.user != nil
}

func (s *Session) SignIn(u CurrentUser) error {
	if err := s.store.Save(&u); err != nil {
		return err
	}
	s.user = &u
	return nil
}

func (s *Session) SignOut() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.user = nil
	return nil
}
