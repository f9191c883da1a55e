package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bollette/internal/amqp"
	"bollette/internal/snapshot"
	"bollette/internal/snapshot/memory"
	"bollette/internal/snapshot/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		medium  snapshot.Store
		cleanup CleanupFunc
	)

	switch config.Type {
	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		medium = repo
		cleanup = repo.Close
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	case MemoryBackend:
		medium = memory.New()
		f.logger.Info("Initialized memory backend")

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	// The simulator carries the configured save delay and failure toggle
	// for every medium.
	sim := snapshot.NewSimulator(medium, config.StoreDelay)
	sim.SetFailSaves(config.StoreFailSaves)
	if config.StoreFailSaves {
		f.logger.Warn("Snapshot saves are configured to fail")
	}

	// Initialize AMQP client (optional)
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	result := &BackendResult{
		Store:  sim,
		Events: amqpClient,
	}
	result.Cleanup = func() error {
		var firstErr error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				firstErr = err
			}
		}
		if cleanup != nil {
			if err := cleanup(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	return result, nil
}
