package storage

import "errors"

var (
	// ErrNotFound is returned by Get when no value is stored under the key.
	ErrNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when an entry is accessed before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is a durable key-value store holding serialized entries.
//
//go:generate mockgen -source=interface.go -destination=mocks/mock_provider.go -package=mocks
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Entries
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
