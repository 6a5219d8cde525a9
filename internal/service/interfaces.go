// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/upaylabs/fraudwatch/internal/model"
)

// Store defines the contract for the persistence layer. It provides atomic
// per-record reads and writes, but no atomic claim over a batch.
type Store interface {
	// Insert creates a status=new record and returns its identifier.
	Insert(ctx context.Context, source model.Source, message string, afterHours bool) (int64, error)

	// FindUnprocessed returns up to limit records that are status=new or
	// missing a result, ordered by creation time ascending.
	FindUnprocessed(ctx context.Context, limit int) ([]model.Record, error)

	// UpdateResult marks a record processed with its final label and meta.
	// Returns whether a matching record was found.
	UpdateResult(ctx context.Context, id int64, label model.Label, meta map[string]any) (bool, error)

	// MarkError marks a record as failed. Best-effort.
	MarkError(ctx context.Context, id int64, errMsg string)

	// GetByID fetches a single record.
	GetByID(ctx context.Context, id int64) (*model.Record, error)

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	Close() error
}

// Result is the outcome handed back to a direct caller for one message.
type Result struct {
	Meta  map[string]any
	Label model.Label
}
