package backend

import (
	"context"
	"time"

	"bollette/internal/amqp"
	"bollette/internal/snapshot"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the assembled snapshot store and optional event
// client, plus a cleanup function releasing their resources.
type BackendResult struct {
	// Store is the snapshot store, already wrapped with the configured
	// delay and failure behavior.
	Store *snapshot.Simulator

	// Events is the AMQP client, nil when no broker is configured or the
	// broker is unreachable.
	Events *amqp.Client

	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Snapshot store behavior
	StoreDelay     time.Duration
	StoreFailSaves bool
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
