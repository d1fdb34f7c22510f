package collector

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockradar/stockradar/internal/signal"
)

// IngestCollector stores ad-hoc signals submitted via the API, keyed by
// ticker.
type IngestCollector struct {
	name    string
	mu      sync.RWMutex
	signals map[string][]signal.Signal
}

// NewIngestCollector constructs an empty ingest collector.
func NewIngestCollector(name string) *IngestCollector {
	if name == "" {
		name = "ingest"
	}
	return &IngestCollector{name: name, signals: make(map[string][]signal.Signal)}
}

// Name returns the collector identifier.
func (s *IngestCollector) Name() string { return s.name }

// Add registers a signal for a ticker, generating defaults when missing.
func (s *IngestCollector) Add(ticker string, sig signal.Signal) signal.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	if sig.OccurredAt.IsZero() {
		sig.OccurredAt = time.Now().UTC()
	}

	key := strings.ToUpper(strings.TrimSpace(ticker))

	// Replace an existing record with the same ID if found.
	existing := s.signals[key]
	for idx := range existing {
		if existing[idx].ID == sig.ID {
			existing[idx] = sig
			return sig
		}
	}

	s.signals[key] = append(existing, sig)
	return sig
}

// Collect returns the ticker's signals within the requested timeframe in
// occurrence order.
func (s *IngestCollector) Collect(ctx context.Context, ticker string, from, to time.Time) ([]signal.Signal, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.signals[strings.ToUpper(strings.TrimSpace(ticker))]
	out := make([]signal.Signal, 0, len(stored))
	for _, sig := range stored {
		if sig.OccurredAt.Before(from) || sig.OccurredAt.After(to) {
			continue
		}
		out = append(out, sig)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

// PruneOlderThan drops signals that occurred before the provided timestamp
// and returns the number of removed entries.
func (s *IngestCollector) PruneOlderThan(ts time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for ticker, stored := range s.signals {
		filtered := stored[:0]
		for _, sig := range stored {
			if sig.OccurredAt.Before(ts) {
				removed++
				continue
			}
			filtered = append(filtered, sig)
		}
		if len(filtered) == 0 {
			delete(s.signals, ticker)
			continue
		}
		s.signals[ticker] = filtered
	}
	return removed
}
