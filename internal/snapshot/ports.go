// Package snapshot defines the persistence ports for the bill collection.
//
// Persistence is full-snapshot: every save replaces the previously stored
// collection, every fetch returns it whole. The collection is assumed small
// enough that replace-on-write beats any merge or patch logic.
package snapshot

import (
	"context"
	"errors"

	"bollette/internal/core"
)

// Ports for outbound persistence adapters.
type (
	Fetcher interface {
		FetchAll(ctx context.Context) ([]core.Bill, error)
	}

	Saver interface {
		SaveAll(ctx context.Context, bills []core.Bill) error
	}

	Store interface {
		Fetcher
		Saver
	}
)

// ErrSaveFailed is the persistence error kind surfaced to callers when a
// snapshot save does not go through. Check with errors.Is.
var ErrSaveFailed = errors.New("snapshot save failed")
