package session

import "errors"

var (
	// ErrMissingUsername is returned when storing an identity without a username.
	ErrMissingUsername = errors.New("identity username is required")
	// ErrPersist is returned when the durable session record cannot be written or removed.
	ErrPersist = errors.New("failed to persist session")
	// ErrNoHome is returned when the default session path cannot be resolved.
	ErrNoHome = errors.New("cannot resolve user config directory")
	// ErrWatcherClosed is returned when running an already closed watcher.
	ErrWatcherClosed = errors.New("session watcher is closed")
)
