// Package transporthttp exposes the scan pipeline over HTTP.
package transporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockradar/stockradar/internal/collector"
	"github.com/stockradar/stockradar/internal/history"
	"github.com/stockradar/stockradar/internal/scanner"
	"github.com/stockradar/stockradar/internal/signal"
)

const scanTimeout = 2 * time.Minute

// Server wires the scan service, the ingest collector and the history
// store into HTTP handlers.
type Server struct {
	scans    *scanner.Service
	ingest   *collector.IngestCollector
	store    history.Store
	registry *prometheus.Registry
	validate *validator.Validate
}

// NewServer builds the HTTP server. ingest may be nil to disable the
// signals endpoint; registry may be nil to disable /metrics.
func NewServer(scans *scanner.Service, ingest *collector.IngestCollector, store history.Store, registry *prometheus.Registry) *Server {
	return &Server{
		scans:    scans,
		ingest:   ingest,
		store:    store,
		registry: registry,
		validate: validator.New(),
	}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/signals", s.handleSignals)
		r.Get("/history/{ticker}", s.handleHistory)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scanRequest struct {
	Tickers      []string `json:"tickers" validate:"required,min=1,max=100,dive,required"`
	LookbackDays int      `json:"lookback_days" validate:"omitempty,gte=1,lte=365"`
}

type scanResultPayload struct {
	Ticker string          `json:"ticker"`
	Report *scanner.Report `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), scanTimeout)
	defer cancel()

	var req scanRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "tickers: between 1 and 100 non-empty entries required; lookback_days: 1-365")
		return
	}

	tickers := make([]string, 0, len(req.Tickers))
	for _, t := range req.Tickers {
		tickers = append(tickers, strings.ToUpper(strings.TrimSpace(t)))
	}

	results := s.scans.ScanBatchWindow(ctx, tickers, time.Duration(req.LookbackDays)*24*time.Hour)

	payload := make([]scanResultPayload, 0, len(results))
	for _, res := range results {
		out := scanResultPayload{Ticker: res.Ticker, Report: res.Report}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		payload = append(payload, out)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":   time.Now().UTC(),
		"results": payload,
	})
}

type signalsRequest struct {
	Ticker  string          `json:"ticker"`
	Signals json.RawMessage `json:"signals"`
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	if s.ingest == nil {
		writeError(w, http.StatusServiceUnavailable, "signal ingest disabled")
		return
	}

	var req signalsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	if len(req.Signals) == 0 {
		writeError(w, http.StatusBadRequest, "signals array is required")
		return
	}

	signals, err := signal.DecodeSignals(req.Signals)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(signals) == 0 {
		writeError(w, http.StatusBadRequest, "no usable signals in payload")
		return
	}

	ids := make([]string, 0, len(signals))
	for _, sig := range signals {
		stored := s.ingest.Add(req.Ticker, sig)
		ids = append(ids, stored.ID)
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "accepted",
		"ticker":   strings.ToUpper(strings.TrimSpace(req.Ticker)),
		"accepted": len(ids),
		"ids":      ids,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	series, err := s.store.Series(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	// Deltas of the latest record against the rest of the series, mirroring
	// what the scan that produced it would have reported.
	deltas := map[string]*float64{}
	if len(series) > 0 {
		latest := series[len(series)-1]
		deltas = history.Deltas(series[:len(series)-1], latest.Score, latest.Timestamp, history.DefaultWindows())
	} else {
		for _, win := range history.DefaultWindows() {
			deltas[win.Name] = nil
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":  ticker,
		"records": series,
		"deltas":  deltas,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
