// Package webhook delivers scan alerts to HTTP endpoints. Payload shape is
// chosen per endpoint kind; deliveries retry with exponential backoff.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/stockradar/stockradar/internal/metrics"
	"github.com/stockradar/stockradar/internal/scanner"
)

// Kind selects the payload format for an endpoint.
type Kind string

const (
	KindGeneric Kind = "generic"
	KindDiscord Kind = "discord"
	KindSlack   Kind = "slack"
)

// Endpoint is one webhook destination.
type Endpoint struct {
	URL  string
	Kind Kind
}

const (
	// DefaultAlertThreshold is the combined score at and above which a
	// report triggers a webhook delivery.
	DefaultAlertThreshold = 70.0

	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second
)

// Notifier fans alerts out to the configured endpoints.
type Notifier struct {
	endpoints   []Endpoint
	client      *http.Client
	threshold   float64
	maxAttempts int
	metrics     *metrics.Metrics
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithThreshold overrides the alert threshold.
func WithThreshold(threshold float64) Option {
	return func(n *Notifier) {
		n.threshold = threshold
	}
}

// WithMaxAttempts bounds delivery attempts per endpoint.
func WithMaxAttempts(attempts int) Option {
	return func(n *Notifier) {
		if attempts > 0 {
			n.maxAttempts = attempts
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(n *Notifier) {
		n.metrics = m
	}
}

// NewNotifier builds a notifier for the given endpoints.
func NewNotifier(endpoints []Endpoint, opts ...Option) *Notifier {
	n := &Notifier{
		endpoints:   endpoints,
		client:      &http.Client{Timeout: 15 * time.Second},
		threshold:   DefaultAlertThreshold,
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ShouldAlert reports whether a scan report crosses the alert threshold.
func (n *Notifier) ShouldAlert(report *scanner.Report) bool {
	return report != nil && report.Score >= n.threshold
}

// NotifyIfAlerting delivers the report to every endpoint when it crosses
// the threshold. Endpoint failures are logged and counted, not returned,
// so one broken webhook never hides another.
func (n *Notifier) NotifyIfAlerting(ctx context.Context, report *scanner.Report) {
	if !n.ShouldAlert(report) {
		return
	}
	for _, ep := range n.endpoints {
		if err := n.deliver(ctx, ep, report); err != nil {
			slog.Error("webhook delivery failed", "url", ep.URL, "kind", ep.Kind, "ticker", report.Ticker, "error", err)
			n.metrics.ObserveAlert("error")
			continue
		}
		n.metrics.ObserveAlert("ok")
	}
}

func (n *Notifier) deliver(ctx context.Context, ep Endpoint, report *scanner.Report) error {
	payload, err := buildPayload(ep.Kind, report)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < n.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := defaultBackoffBase << (attempt - 1)
			if err := n.sleep(ctx, backoff); err != nil {
				return err
			}
		}

		lastErr = n.post(ctx, ep.URL, payload)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", n.maxAttempts, lastErr)
}

func (n *Notifier) post(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
