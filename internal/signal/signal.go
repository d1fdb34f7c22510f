package signal

import "time"

// Category groups signals for weighted scoring. The set is fixed: the five
// weighted categories plus an overflow bucket for anything unrecognized.
type Category string

const (
	CategoryRegulatory  Category = "regulatory"
	CategoryOperational Category = "operational"
	CategoryNarrative   Category = "narrative"
	CategoryInsider     Category = "insider"
	CategoryMomentum    Category = "momentum"

	// CategoryOther collects signals with a missing or unrecognized
	// category. They are counted and reported but carry no weight in the
	// composite score.
	CategoryOther Category = "other"
)

// WeightedCategories lists the categories that participate in the composite
// score, in breakdown order.
func WeightedCategories() []Category {
	return []Category{
		CategoryRegulatory,
		CategoryOperational,
		CategoryNarrative,
		CategoryInsider,
		CategoryMomentum,
	}
}

// ParseCategory resolves a raw category string, routing anything unknown to
// CategoryOther.
func ParseCategory(raw string) Category {
	switch Category(raw) {
	case CategoryRegulatory, CategoryOperational, CategoryNarrative, CategoryInsider, CategoryMomentum:
		return Category(raw)
	default:
		return CategoryOther
	}
}

// Signal is a single detected risk-relevant event produced by a collector.
// Signals are immutable once created.
type Signal struct {
	ID          string    `json:"id,omitempty"`
	Type        Type      `json:"type"`
	Category    Category  `json:"category"`
	Severity    float64   `json:"severity,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EvidenceURL string    `json:"evidence_url,omitempty"`
	OccurredAt  time.Time `json:"occurred_at,omitempty"`
}
