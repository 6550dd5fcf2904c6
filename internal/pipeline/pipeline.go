// Package pipeline contains the stage handlers that consume change batches
// and advance records toward the final place store.
package pipeline

import (
	"context"

	"buzzmap/internal/model"
	"buzzmap/internal/stream"
)

// CandidateStore persists intermediate extraction results.
type CandidateStore interface {
	Upsert(c *model.PlaceCandidate) error
}

// PlaceStore persists final geocoded places.
type PlaceStore interface {
	Upsert(p *model.Place) error
}

// Publisher pushes a change batch onto a feed key.
type Publisher interface {
	Publish(ctx context.Context, key string, batch stream.Batch) error
}

// Summary reports what happened to one consumed batch.
type Summary struct {
	Processed int
	Upserted  int
	Skipped   int
	Failed    int
}
