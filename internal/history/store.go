// Package history maintains per-entity score time series and computes
// windowed score deltas against prior runs.
package history

import (
	"context"
	"time"
)

// RetentionCap is the maximum number of records kept per entity. Once
// exceeded, the oldest records are evicted first.
const RetentionCap = 90

// Record is one point of an entity's score time series.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// Store persists one ordered score series per entity key.
//
// Append must serialize the whole read-append-trim sequence per entity key:
// concurrent appends for the same entity must not lose or double-evict
// records, while appends for different entities must not block one another.
type Store interface {
	// Append adds a record to the entity's series, trims it to
	// RetentionCap and returns the series as it was before the append.
	Append(ctx context.Context, entity string, rec Record) (prior []Record, err error)

	// Series returns the entity's full series in timestamp order. A
	// never-seen entity yields an empty series, not an error.
	Series(ctx context.Context, entity string) ([]Record, error)
}
