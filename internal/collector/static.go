package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stockradar/stockradar/internal/signal"
)

// StaticFileCollector serves signal records from a JSON file keyed by
// ticker. Useful for offline runs and tests.
type StaticFileCollector struct {
	name string
	path string
}

// NewStaticFileCollector returns a collector reading the given file. The
// file holds a JSON object mapping ticker symbols to signal arrays.
func NewStaticFileCollector(name, path string) (*StaticFileCollector, error) {
	if name == "" {
		return nil, errors.New("static collector requires a name")
	}
	if path == "" {
		return nil, errors.New("static collector requires a path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("static collector: %w", err)
	}
	return &StaticFileCollector{name: name, path: path}, nil
}

// Name returns the collector name.
func (s *StaticFileCollector) Name() string { return s.name }

// Collect reads the file and filters the ticker's signals by timeframe.
// Signals without an occurred_at timestamp always pass the filter.
func (s *StaticFileCollector) Collect(ctx context.Context, ticker string, from, to time.Time) ([]signal.Signal, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read static file %s: %w", s.path, err)
	}

	byTicker, err := decodeSignalFile(raw)
	if err != nil {
		return nil, fmt.Errorf("decode static file %s: %w", s.path, err)
	}

	var filtered []signal.Signal
	for _, sig := range byTicker[strings.ToUpper(ticker)] {
		if !sig.OccurredAt.IsZero() && (sig.OccurredAt.Before(from) || sig.OccurredAt.After(to)) {
			continue
		}
		filtered = append(filtered, sig)
	}
	return filtered, nil
}

func decodeSignalFile(data []byte) (map[string][]signal.Signal, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	byTicker := make(map[string][]signal.Signal, len(raw))
	for ticker, encoded := range raw {
		signals, err := signal.DecodeSignals(encoded)
		if err != nil {
			return nil, fmt.Errorf("ticker %s: %w", ticker, err)
		}
		byTicker[strings.ToUpper(ticker)] = signals
	}
	return byTicker, nil
}
