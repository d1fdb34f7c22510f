package history

import (
	"context"
	"time"
)

// Window is a named lookback for delta computation.
type Window struct {
	Name     string
	Lookback time.Duration
}

// DefaultWindows returns the standard 1, 7 and 30 day lookbacks.
func DefaultWindows() []Window {
	return []Window{
		{Name: "1d", Lookback: 24 * time.Hour},
		{Name: "7d", Lookback: 7 * 24 * time.Hour},
		{Name: "30d", Lookback: 30 * 24 * time.Hour},
	}
}

// Tracker computes windowed score deltas against a store's prior history.
type Tracker struct {
	store Store
}

// NewTracker wraps a store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// Track records the current score for an entity and returns the delta map
// computed against the history as it stood before this run's append. A nil
// delta means no reference point existed for that window.
func (t *Tracker) Track(ctx context.Context, entity string, score float64, now time.Time, windows []Window) (map[string]*float64, error) {
	prior, err := t.store.Append(ctx, entity, Record{Timestamp: now, Score: score})
	if err != nil {
		// Degrade to null deltas; a broken store must never block scoring.
		return nullDeltas(windows), err
	}
	return Deltas(prior, score, now, windows), nil
}

// Deltas computes current−reference per window over the given series. For
// each window the reference is the entry whose timestamp is closest to
// now−lookback by absolute distance; there is no maximum-distance bound, so
// an arbitrarily old entry can serve as the reference when nothing closer
// exists. An empty series yields nil for every window.
func Deltas(series []Record, current float64, now time.Time, windows []Window) map[string]*float64 {
	out := nullDeltas(windows)
	if len(series) == 0 {
		return out
	}

	for _, w := range windows {
		target := now.Add(-w.Lookback)
		ref := closest(series, target)
		delta := current - ref.Score
		out[w.Name] = &delta
	}
	return out
}

func nullDeltas(windows []Window) map[string]*float64 {
	out := make(map[string]*float64, len(windows))
	for _, w := range windows {
		out[w.Name] = nil
	}
	return out
}

// closest picks the record nearest to target by absolute time distance,
// keeping the earliest on exact ties.
func closest(series []Record, target time.Time) Record {
	best := series[0]
	bestDist := absDuration(best.Timestamp.Sub(target))
	for _, rec := range series[1:] {
		dist := absDuration(rec.Timestamp.Sub(target))
		if dist < bestDist {
			best = rec
			bestDist = dist
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
