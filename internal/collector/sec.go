package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stockradar/stockradar/internal/signal"
)

// defaultMaxForm4 caps how many Form 4 documents are fetched per ticker in
// one run; each document costs a separate archive request.
const defaultMaxForm4 = 20

// SECCollector turns a ticker's recent EDGAR filings into signals.
type SECCollector struct {
	name     string
	client   *EDGARClient
	maxForm4 int
}

// NewSECCollector constructs a collector on top of an EDGAR client.
func NewSECCollector(client *EDGARClient, opts ...func(*SECCollector)) *SECCollector {
	c := &SECCollector{name: "sec", client: client, maxForm4: defaultMaxForm4}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithMaxForm4 overrides the per-run Form 4 fetch cap.
func WithMaxForm4(n int) func(*SECCollector) {
	return func(c *SECCollector) {
		if n > 0 {
			c.maxForm4 = n
		}
	}
}

// Name returns the collector identifier.
func (c *SECCollector) Name() string { return c.name }

// Collect fetches the ticker's 8-K and Form 4 filings within the window and
// derives signals from them.
func (c *SECCollector) Collect(ctx context.Context, ticker string, from, to time.Time) ([]signal.Signal, error) {
	cik, err := c.client.ResolveCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	filings, err := c.client.RecentFilings(ctx, cik)
	if err != nil {
		return nil, err
	}

	data := FilingData{
		Ticker:      strings.ToUpper(ticker),
		CIK:         cik,
		CollectedAt: time.Now().UTC(),
	}

	form4Fetched := 0
	for _, filing := range filings {
		if filing.FilingDate.Before(from) || filing.FilingDate.After(to) {
			continue
		}

		switch filing.Form {
		case "8-K", "8-K/A":
			data.Filings8K = append(data.Filings8K, Filing8K{
				FilingDate:      filing.FilingDate,
				AccessionNumber: filing.AccessionNumber,
				Items:           filing.Items,
				URL:             c.client.FilingURL(cik, filing.AccessionNumber, filing.PrimaryDocument),
			})
		case "4", "4/A":
			if form4Fetched >= c.maxForm4 {
				continue
			}
			form4Fetched++
			transactions, err := c.client.Form4Transactions(ctx, cik, filing)
			if err != nil {
				// One unreadable form should not sink the ticker.
				slog.Warn("skipping unreadable form 4",
					"ticker", ticker, "accession", filing.AccessionNumber, "error", err)
				continue
			}
			data.Transactions = append(data.Transactions, transactions...)
		}
	}

	signals := SignalsFromFilings(data)
	if len(signals) > 0 {
		slog.Debug("edgar collection complete",
			"ticker", ticker, "filings_8k", len(data.Filings8K),
			"transactions", len(data.Transactions), "signals", len(signals))
	}
	return signals, nil
}

// String implements fmt.Stringer for log friendliness.
func (c *SECCollector) String() string {
	return fmt.Sprintf("sec collector (max form4 %d)", c.maxForm4)
}
