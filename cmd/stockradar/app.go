package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stockradar/stockradar/internal/analyzer"
	"github.com/stockradar/stockradar/internal/collector"
	"github.com/stockradar/stockradar/internal/config"
	"github.com/stockradar/stockradar/internal/history"
	"github.com/stockradar/stockradar/internal/metrics"
	"github.com/stockradar/stockradar/internal/scanner"
	"github.com/stockradar/stockradar/internal/webhook"
)

// app holds the wired pipeline shared by the scan and serve commands.
type app struct {
	cfg      config.Config
	service  *scanner.Service
	ingest   *collector.IngestCollector
	store    *history.BadgerStore
	notifier *webhook.Notifier
	registry *prometheus.Registry
}

func buildApp(cfg config.Config) (*app, error) {
	ingest := collector.NewIngestCollector("ingest")

	edgar := collector.NewEDGARClient(cfg.SECUserAgent)
	registry, err := collector.NewRegistry(collector.NewSECCollector(edgar), ingest)
	if err != nil {
		return nil, err
	}

	if cfg.StaticDataPath != "" {
		static, err := collector.NewStaticFileCollector("static", cfg.StaticDataPath)
		if err != nil {
			return nil, fmt.Errorf("static collector: %w", err)
		}
		registry.Add(static)
	}

	store, err := history.OpenBadger(filepath.Clean(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}

	var assess scanner.Analyzer
	if cfg.GroqAPIKey != "" {
		assess = analyzer.NewLLMAnalyzer(cfg.GroqAPIKey, cfg.GroqModel, func(a *analyzer.LLMAnalyzer) {
			a.Temperature = float32(cfg.LLMTemperature)
			a.MaxTokens = cfg.LLMMaxTokens
		})
		slog.Info("llm assessment enabled", "model", cfg.GroqModel)
	} else {
		assess = &analyzer.HeuristicAnalyzer{}
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	service, err := scanner.New(registry, assess, history.NewTracker(store),
		scanner.WithLookback(cfg.Lookback()),
		scanner.WithConcurrency(cfg.Concurrency),
		scanner.WithMetrics(m),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	endpoints := make([]webhook.Endpoint, 0, len(cfg.Webhooks))
	for _, wh := range cfg.Webhooks {
		endpoints = append(endpoints, webhook.Endpoint{URL: wh.URL, Kind: webhook.Kind(wh.Kind)})
	}
	notifier := webhook.NewNotifier(endpoints,
		webhook.WithThreshold(cfg.AlertThreshold),
		webhook.WithMetrics(m),
	)

	return &app{
		cfg:      cfg,
		service:  service,
		ingest:   ingest,
		store:    store,
		notifier: notifier,
		registry: promReg,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("close history store", "error", err)
	}
}

// resolveTickers expands the universe setting when no explicit tickers are
// configured.
func (a *app) resolveTickers(ctx context.Context, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	if len(a.cfg.Tickers) > 0 {
		return a.cfg.Tickers, nil
	}

	universe := collector.NewUniverseProvider(a.cfg.SECUserAgent)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch a.cfg.Universe {
	case "sp500":
		return universe.SP500(ctx)
	case "nasdaq100":
		return universe.Nasdaq100(ctx)
	default:
		return nil, fmt.Errorf("no tickers configured: set --tickers, config tickers, or a universe")
	}
}
