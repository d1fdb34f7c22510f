package scanner

import (
	"time"

	"github.com/stockradar/stockradar/internal/scoring"
)

// Report is the full outcome of scanning one ticker.
type Report struct {
	RunID        string                  `json:"run_id"`
	Ticker       string                  `json:"ticker"`
	GeneratedAt  time.Time               `json:"generated_at"`
	LookbackDays int                     `json:"lookback_days"`
	Score        float64                 `json:"score"`
	Level        scoring.Level           `json:"level"`
	Categories   []scoring.CategoryScore `json:"categories"`
	TotalSignals int                     `json:"total_signals"`
	NoData       bool                    `json:"no_data"`
	Deltas       map[string]*float64     `json:"deltas"`
	Blend        scoring.Blend           `json:"blend"`
	Explanation  string                  `json:"explanation,omitempty"`
}

// Result pairs a ticker with either its report or the error that kept one
// from being produced. A batch always yields one Result per requested
// ticker.
type Result struct {
	Ticker string  `json:"ticker"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
}
