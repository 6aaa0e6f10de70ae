package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/inklet/inklet/pkg/broadcast"
	"github.com/inklet/inklet/pkg/logger"
)

// DefaultPath returns the conventional location of the durable session
// record: <user config dir>/inklet/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "inklet", "session.json"), nil
}

// Store is the single owner of the durable session record. All reads and
// writes of the record go through it, so the never-partial invariant is
// enforced in one place. The in-memory session is a cache of the file; the
// file is the source of truth shared with other processes.
type Store struct {
	path string
	hub  *broadcast.Hub
	log  *slog.Logger

	mu      sync.RWMutex
	current Session
}

// Option configures a Store.
type Option func(*Store)

// WithHub shares an external broadcast hub instead of a Store-private one.
func WithHub(hub *broadcast.Hub) Option {
	return func(s *Store) {
		if hub != nil {
			s.hub = hub
		}
	}
}

// WithLogger configures structured logging for the store.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Store persisting to path. An empty path selects DefaultPath.
// The parent directory is created if missing and the store hydrates
// immediately, so Current is valid as soon as New returns.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, errors.Join(ErrNoHome, err)
		}
	}

	s := &Store{
		path: path,
		hub:  broadcast.New(),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Join(ErrPersist, err)
	}

	s.Hydrate()
	return s, nil
}

// Path returns the location of the durable record.
func (s *Store) Path() string {
	return s.path
}

// Current returns the cached session without touching the file.
// Safe for concurrent use; intended for the hot path of every command.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to run after every session change, whether it
// originated in this process (Set, Clear) or was picked up from another one
// by a Watcher. The returned function removes the registration.
func (s *Store) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}

// Hydrate re-reads the durable record and replaces the cache. A missing file
// yields the absent session. A record that cannot be parsed, or that parses
// without a username, is erased and treated as absent. Hydrate never fails
// and never notifies; notification is the caller's concern.
func (s *Store) Hydrate() Session {
	loaded := s.load()

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()

	return loaded
}

// Set atomically replaces the durable record with the given identity,
// updates the cache, and notifies subscribers. No reader of the file can
// observe a half-written record: the write goes to a temp file that is
// renamed over the destination.
func (s *Store) Set(id Identity) error {
	if strings.TrimSpace(id.Username) == "" {
		return ErrMissingUsername
	}

	raw, err := json.Marshal(id)
	if err != nil {
		return errors.Join(ErrPersist, err)
	}

	s.mu.Lock()
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		s.mu.Unlock()
		return errors.Join(ErrPersist, err)
	}
	// The session carries a credential; keep it out of other users' reach.
	if err := os.Chmod(s.path, 0o600); err != nil {
		s.log.Warn("failed to restrict session file permissions",
			logger.Component("session"), logger.Error(err))
	}
	s.current = Session{identity: &id}
	s.mu.Unlock()

	s.hub.Publish()
	return nil
}

// Clear erases the durable record, resets the cache to absent, and notifies
// subscribers. Clearing an already absent session is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.mu.Unlock()
		return errors.Join(ErrPersist, err)
	}
	s.current = Session{}
	s.mu.Unlock()

	s.hub.Publish()
	return nil
}

func (s *Store) load() Session {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to read session file",
				logger.Component("session"), logger.Error(err))
		}
		return Session{}
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil || strings.TrimSpace(id.Username) == "" {
		// Corrupted or partial record. Erase it so the next reader does
		// not trip over the same garbage.
		_ = os.Remove(s.path)
		s.log.Warn("discarded unreadable session record",
			logger.Component("session"), slog.String("path", s.path))
		return Session{}
	}

	return Session{identity: &id}
}
