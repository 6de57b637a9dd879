package types

import "errors"

// Gateway is a durable key/value store holding string payloads. The
// counter core needs nothing more than get, set and delete.
type Gateway interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err reports a read failure.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key succeeds.
	Delete(key string) error
}

// Store is a Gateway with an attach/detach lifecycle.
type Store interface {
	Gateway

	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach flushes pending writes and releases resources. Idempotent.
	// After Detach, Get/Set/Delete return ErrGatewayDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrGatewayDetached = errors.New("gateway is detached")
	ErrAlreadyAttached = errors.New("gateway is already attached")
	ErrInvalidKey      = errors.New("invalid key")
)

// Document value errors.
var (
	ErrInvalidSeqMode = errors.New("invalid sequence mode")
	ErrInvalidTheme   = errors.New("invalid theme")
)
