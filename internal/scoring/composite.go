package scoring

import (
	"math"

	"github.com/stockradar/stockradar/internal/signal"
)

// Weight returns the fixed composite weight for a category. The weighted
// categories must sum to exactly 1.0; changing the table is a design change,
// not a runtime parameter. The "other" bucket and anything unrecognized
// carry no weight.
func Weight(cat signal.Category) float64 {
	switch cat {
	case signal.CategoryRegulatory:
		return 0.30
	case signal.CategoryOperational:
		return 0.25
	case signal.CategoryNarrative:
		return 0.20
	case signal.CategoryInsider:
		return 0.15
	case signal.CategoryMomentum:
		return 0.10
	default:
		return 0
	}
}

// Result is the composite output of one scoring run for an entity.
type Result struct {
	Score        float64         `json:"score"`
	Level        Level           `json:"level"`
	Categories   []CategoryScore `json:"categories"`
	TotalSignals int             `json:"total_signals"`

	// NoData distinguishes "no risk detected" from "nothing to score".
	// Downstream consumers must not conflate the two.
	NoData bool `json:"no_data"`
}

// Score normalizes the given signals, aggregates them per category and
// produces the weighted composite. Identical signal lists always yield
// identical results: the computation is pure and touches no shared state.
func Score(signals []signal.Signal) Result {
	normalized := signal.NormalizeAll(signals)
	categories := Aggregate(normalized)

	var total float64
	var count int
	for _, cs := range categories {
		total += cs.Weighted
		count += cs.Count
	}

	final := RoundScore(total)
	return Result{
		Score:        final,
		Level:        LevelForScore(final),
		Categories:   categories,
		TotalSignals: count,
		NoData:       len(signals) == 0,
	}
}

// RoundScore rounds to the one decimal of precision the composite carries.
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
