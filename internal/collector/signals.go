package collector

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockradar/stockradar/internal/signal"
)

// largeTransactionUSD is the value above which a single insider trade is
// flagged on its own.
var largeTransactionUSD = decimal.NewFromInt(1_000_000)

// clusterInsiderCount is the number of distinct insiders trading in the same
// direction that constitutes a cluster.
const clusterInsiderCount = 3

// SignalsFromFilings converts collected EDGAR data into signal records.
// 8-K item codes map to regulatory/operational signal types; Form 4
// transactions produce insider signals for large trades and for clusters of
// insiders moving in the same direction. Buys and sells are emitted
// independently, they do not net against each other.
func SignalsFromFilings(data FilingData) []signal.Signal {
	var signals []signal.Signal
	for _, filing := range data.Filings8K {
		signals = append(signals, signalsFrom8K(filing)...)
	}
	signals = append(signals, insiderSignals(data.Transactions)...)
	return signals
}

func signalsFrom8K(filing Filing8K) []signal.Signal {
	var out []signal.Signal
	for _, item := range filing.Items {
		typ, ok := itemSignalType(strings.TrimSpace(item))
		if !ok {
			continue
		}
		out = append(out, signal.Signal{
			Type:        typ,
			Category:    typ.DefaultCategory(),
			Title:       fmt.Sprintf("8-K Item %s filed %s", strings.TrimSpace(item), filing.FilingDate.Format("2006-01-02")),
			EvidenceURL: filing.URL,
			OccurredAt:  filing.FilingDate,
		})
	}
	return out
}

// itemSignalType maps an 8-K item code to a signal type. Unlisted items are
// not risk signals and are dropped.
func itemSignalType(item string) (signal.Type, bool) {
	switch item {
	case "4.01":
		return signal.TypeSEC8KAuditorChange, true
	case "4.02":
		return signal.TypeSEC8KNonReliance, true
	case "3.01":
		return signal.TypeDelistingNotice, true
	case "2.05":
		return signal.TypeRestructuring, true
	case "2.06":
		return signal.TypeImpairmentCharge, true
	case "5.02":
		return signal.TypeExecDeparture, true
	case "1.03":
		return signal.TypeGoingConcern, true
	default:
		return "", false
	}
}

func insiderSignals(transactions []InsiderTransaction) []signal.Signal {
	var out []signal.Signal

	sellers := make(map[string]struct{})
	buyers := make(map[string]struct{})

	for _, txn := range transactions {
		switch {
		case txn.IsSale():
			sellers[txn.Insider] = struct{}{}
			if txn.Value.GreaterThanOrEqual(largeTransactionUSD) {
				out = append(out, largeTradeSignal(signal.TypeInsiderSellLarge, txn))
			}
		case txn.IsPurchase():
			buyers[txn.Insider] = struct{}{}
			if txn.Value.GreaterThanOrEqual(largeTransactionUSD) {
				out = append(out, largeTradeSignal(signal.TypeInsiderBuyLarge, txn))
			}
		}
	}

	if len(sellers) >= clusterInsiderCount {
		out = append(out, clusterSignal(signal.TypeInsiderSellCluster, len(sellers), "selling"))
	}
	if len(buyers) >= clusterInsiderCount {
		out = append(out, clusterSignal(signal.TypeInsiderBuyCluster, len(buyers), "buying"))
	}
	return out
}

func largeTradeSignal(typ signal.Type, txn InsiderTransaction) signal.Signal {
	// Severity scales with trade size; normalization clamps it to range.
	severity, _ := txn.Value.Div(largeTransactionUSD).Float64()

	title := fmt.Sprintf("%s traded $%s on %s", txn.Insider, txn.Value.StringFixed(0), txn.Date.Format("2006-01-02"))
	return signal.Signal{
		Type:        typ,
		Category:    signal.CategoryInsider,
		Severity:    severity,
		Title:       title,
		Description: fmt.Sprintf("%s shares at $%s", txn.Shares.StringFixed(0), txn.Price.StringFixed(2)),
		EvidenceURL: txn.URL,
		OccurredAt:  txn.Date,
	}
}

func clusterSignal(typ signal.Type, insiders int, direction string) signal.Signal {
	return signal.Signal{
		Type:     typ,
		Category: signal.CategoryInsider,
		Severity: float64(insiders) / clusterInsiderCount,
		Title:    fmt.Sprintf("%d insiders %s in the lookback window", insiders, direction),
	}
}
