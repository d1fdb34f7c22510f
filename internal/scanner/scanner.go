// Package scanner orchestrates the scan pipeline: collect signals, score
// them, fold in the analyzer's assessment, and track score history. Every
// failure is isolated to the ticker it happened on.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stockradar/stockradar/internal/analyzer"
	"github.com/stockradar/stockradar/internal/collector"
	"github.com/stockradar/stockradar/internal/history"
	"github.com/stockradar/stockradar/internal/metrics"
	"github.com/stockradar/stockradar/internal/scoring"
)

const (
	// DefaultLookback bounds how far back collectors search for signals.
	DefaultLookback = 30 * 24 * time.Hour

	// DefaultConcurrency caps how many tickers a batch scans at once.
	DefaultConcurrency = 4
)

// Analyzer produces an independent assessment of a scored breakdown.
type Analyzer interface {
	Assess(ctx context.Context, ticker string, result scoring.Result) (analyzer.Assessment, error)
}

// Service runs the scan pipeline for tickers.
type Service struct {
	registry    *collector.Registry
	analyzer    Analyzer
	tracker     *history.Tracker
	metrics     *metrics.Metrics
	windows     []history.Window
	lookback    time.Duration
	concurrency int
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLookback overrides the collection window.
func WithLookback(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.lookback = d
		}
	}
}

// WithConcurrency bounds parallel ticker scans in a batch.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithWindows overrides the delta windows.
func WithWindows(windows []history.Window) Option {
	return func(s *Service) {
		if len(windows) > 0 {
			s.windows = windows
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a scan service. The registry and tracker are required; a nil
// analyzer disables assessment and keeps scoring rule-only.
func New(registry *collector.Registry, a Analyzer, tracker *history.Tracker, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("scanner: collector registry is required")
	}
	if tracker == nil {
		return nil, errors.New("scanner: history tracker is required")
	}

	s := &Service{
		registry:    registry,
		analyzer:    a,
		tracker:     tracker,
		windows:     history.DefaultWindows(),
		lookback:    DefaultLookback,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ScanTicker runs the full pipeline for one ticker. A collector failure
// fails the ticker; analyzer and history failures degrade the report
// instead of failing it.
func (s *Service) ScanTicker(ctx context.Context, ticker string) (*Report, error) {
	return s.scanTicker(ctx, ticker, s.lookback)
}

func (s *Service) scanTicker(ctx context.Context, ticker string, lookback time.Duration) (*Report, error) {
	started := s.now()
	from := started.Add(-lookback)

	signals, err := s.registry.CollectAll(ctx, ticker, from, started)
	if err != nil {
		s.metrics.ObserveScan("error", s.now().Sub(started).Seconds(), 0)
		return nil, fmt.Errorf("scan %s: %w", ticker, err)
	}

	ruleResult := scoring.Score(signals)

	var mlScore *float64
	var explanation string
	if s.analyzer != nil {
		assessment, aerr := s.analyzer.Assess(ctx, ticker, ruleResult)
		if aerr != nil {
			slog.Warn("assessment unavailable, reporting rule-only score", "ticker", ticker, "error", aerr)
		} else {
			mlScore = assessment.MLScore
			explanation = assessment.Explanation
		}
	}

	blend := scoring.BlendScores(ruleResult.Score, mlScore)

	deltas, herr := s.tracker.Track(ctx, ticker, blend.Combined, started, s.windows)
	if herr != nil {
		slog.Warn("history unavailable, deltas reported as null", "ticker", ticker, "error", herr)
	}

	report := &Report{
		RunID:        uuid.NewString(),
		Ticker:       ticker,
		GeneratedAt:  started,
		LookbackDays: int(lookback / (24 * time.Hour)),
		Score:        blend.Combined,
		Level:        scoring.LevelForScore(blend.Combined),
		Categories:   ruleResult.Categories,
		TotalSignals: ruleResult.TotalSignals,
		NoData:       ruleResult.NoData,
		Deltas:       deltas,
		Blend:        blend,
		Explanation:  explanation,
	}

	s.metrics.ObserveScan("ok", s.now().Sub(started).Seconds(), ruleResult.TotalSignals)
	slog.Info("scan complete",
		"ticker", ticker,
		"score", report.Score,
		"level", report.Level,
		"signals", report.TotalSignals,
	)
	return report, nil
}

// ScanBatch scans tickers with bounded concurrency and returns one result
// per ticker in input order. A failing ticker never fails the batch.
func (s *Service) ScanBatch(ctx context.Context, tickers []string) []Result {
	return s.ScanBatchWindow(ctx, tickers, 0)
}

// ScanBatchWindow is ScanBatch with a per-call lookback override; zero
// keeps the service default.
func (s *Service) ScanBatchWindow(ctx context.Context, tickers []string, lookback time.Duration) []Result {
	if lookback <= 0 {
		lookback = s.lookback
	}
	results := make([]Result, len(tickers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			report, err := s.scanTicker(ctx, ticker, lookback)
			results[i] = Result{Ticker: ticker, Report: report, Err: err}
			return nil
		})
	}
	// Workers swallow their own errors, so Wait only observes ctx.
	_ = g.Wait()

	return results
}

// ScanIncremental scans only the tickers that are due per the state store,
// records outcomes, and flushes the state. force scans everything
// regardless of freshness. Skipped tickers do not appear in the results.
func (s *Service) ScanIncremental(ctx context.Context, tickers []string, state *StateStore, interval time.Duration, force bool) ([]Result, error) {
	if interval <= 0 {
		interval = DefaultRescanInterval
	}

	due := tickers
	if !force {
		due = due[:0:0]
		for _, ticker := range tickers {
			if state.NeedsRescan(ticker, s.now(), interval) {
				due = append(due, ticker)
			}
		}
		if skipped := len(tickers) - len(due); skipped > 0 {
			slog.Info("incremental scan skipping fresh tickers", "skipped", skipped, "due", len(due))
		}
	}

	results := s.ScanBatch(ctx, due)
	for _, res := range results {
		state.Record(res.Ticker, res.Report)
	}
	if err := state.Flush(); err != nil {
		return results, err
	}
	return results, nil
}

// SortByScore orders results highest combined score first, errors last.
// Ordering is stable so equal scores keep input order.
func SortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].Report, results[j].Report
		if ri == nil {
			return false
		}
		if rj == nil {
			return true
		}
		return ri.Score > rj.Score
	})
}
