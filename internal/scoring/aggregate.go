package scoring

import (
	"math"
	"sort"

	"github.com/stockradar/stockradar/internal/signal"
)

// TopSignalCount caps how many contributing signals are surfaced per
// category in the breakdown.
const TopSignalCount = 3

// CategoryScore is the derived per-category aggregate for one scoring run.
type CategoryScore struct {
	Category   signal.Category     `json:"category"`
	Score      float64             `json:"score"`
	Weight     float64             `json:"weight"`
	Weighted   float64             `json:"weighted_contribution"`
	Count      int                 `json:"signal_count"`
	TopSignals []signal.Normalized `json:"top_signals,omitempty"`
}

// Aggregate partitions normalized signals into the fixed category set and
// computes a capped score per category. The returned slice holds the five
// weighted categories in breakdown order followed by the "other" bucket,
// which is counted but carries no weight. Conflicting signals within a
// category (a large buy against a large sell) both contribute; there is no
// netting beyond plain summation of signed contributions.
func Aggregate(signals []signal.Normalized) []CategoryScore {
	buckets := make(map[signal.Category][]signal.Normalized, 6)
	for _, s := range signals {
		buckets[s.Category] = append(buckets[s.Category], s)
	}

	order := append(signal.WeightedCategories(), signal.CategoryOther)
	out := make([]CategoryScore, 0, len(order))
	for _, cat := range order {
		out = append(out, aggregateCategory(cat, buckets[cat]))
	}
	return out
}

func aggregateCategory(cat signal.Category, members []signal.Normalized) CategoryScore {
	var sum float64
	for _, s := range members {
		sum += s.Contribution
	}

	score := clampScore(sum)
	weight := Weight(cat)

	return CategoryScore{
		Category:   cat,
		Score:      score,
		Weight:     weight,
		Weighted:   score * weight,
		Count:      len(members),
		TopSignals: topByContribution(members, TopSignalCount),
	}
}

// topByContribution returns up to n signals ranked by contribution magnitude
// descending. The sort is stable so ties keep their input order.
func topByContribution(members []signal.Normalized, n int) []signal.Normalized {
	if len(members) == 0 {
		return nil
	}
	ranked := make([]signal.Normalized, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].Contribution) > math.Abs(ranked[j].Contribution)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// clampScore bounds an aggregate to [0, 100]. The raw sum may exceed the
// range in either direction when many signals stack up.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
