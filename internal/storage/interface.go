package storage

import "errors"

var (
	// ErrNotFound is returned by Get when a key has never been written.
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the backing file does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'arise init' first")
	// ErrStorageUnavailable marks failures of the durable store. Progress made
	// after such an error lives only in memory.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Provider is a durable key-value store. Every Set is written through before
// it returns.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
