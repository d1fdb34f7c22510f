package scoring

// Blend weights for combining the rule-based composite with an externally
// supplied ML probability score. Fixed constants; they must sum to 1.0.
const (
	RuleBlendWeight = 0.6
	MLBlendWeight   = 0.4
)

// Blend reports how a combined score was assembled. When no ML score was
// available the rule score passes through unchanged and RuleOnly is set.
type Blend struct {
	Combined     float64  `json:"combined"`
	RuleOnly     bool     `json:"rule_only"`
	RuleScore    float64  `json:"rule_score"`
	RuleWeighted float64  `json:"rule_weighted"`
	MLScore      *float64 `json:"ml_score,omitempty"`
	MLWeighted   *float64 `json:"ml_weighted,omitempty"`
}

// BlendScores folds an optional ML score (0-100, pre-scaled by the ML
// subsystem) into the rule-based composite. A nil ML score is a silent
// rule-only fallback, never an error.
func BlendScores(rule float64, ml *float64) Blend {
	if ml == nil {
		return Blend{
			Combined:     rule,
			RuleOnly:     true,
			RuleScore:    rule,
			RuleWeighted: rule,
		}
	}

	ruleWeighted := rule * RuleBlendWeight
	mlWeighted := *ml * MLBlendWeight

	return Blend{
		Combined:     RoundScore(ruleWeighted + mlWeighted),
		RuleScore:    rule,
		RuleWeighted: ruleWeighted,
		MLScore:      ml,
		MLWeighted:   &mlWeighted,
	}
}
