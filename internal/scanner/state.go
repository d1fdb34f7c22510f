package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultRescanInterval is how long a ticker's last scan stays fresh before
// an incremental batch picks it up again.
const DefaultRescanInterval = 6 * time.Hour

// TickerState records the outcome of the most recent scan of a ticker.
type TickerState struct {
	LastScan    time.Time `json:"last_scan"`
	LastScore   float64   `json:"last_score"`
	SignalCount int       `json:"signal_count"`
}

// StateStore persists per-ticker scan state between runs so incremental
// batches can skip tickers that are still fresh.
type StateStore struct {
	path string

	mu     sync.Mutex
	states map[string]TickerState
}

// OpenStateStore loads state from path, starting empty when the file does
// not exist yet.
func OpenStateStore(path string) (*StateStore, error) {
	s := &StateStore{path: path, states: make(map[string]TickerState)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan state: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.states); err != nil {
		return nil, fmt.Errorf("scan state: decode %s: %w", path, err)
	}
	return s, nil
}

// Get returns the recorded state for a ticker.
func (s *StateStore) Get(ticker string) (TickerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[ticker]
	return state, ok
}

// NeedsRescan reports whether a ticker is due. Never-scanned tickers are
// always due; otherwise the last scan must be older than interval.
func (s *StateStore) NeedsRescan(ticker string, now time.Time, interval time.Duration) bool {
	state, ok := s.Get(ticker)
	if !ok {
		return true
	}
	return now.Sub(state.LastScan) >= interval
}

// Record stores the outcome of a completed scan in memory. Call Flush to
// persist.
func (s *StateStore) Record(ticker string, report *Report) {
	if report == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[ticker] = TickerState{
		LastScan:    report.GeneratedAt,
		LastScore:   report.Score,
		SignalCount: report.TotalSignals,
	}
}

// Flush writes the state file atomically via a temp-file rename.
func (s *StateStore) Flush() error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.states, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("scan state: encode: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("scan state: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("scan state: rename: %w", err)
	}
	return nil
}
