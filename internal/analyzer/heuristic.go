package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockradar/stockradar/internal/scoring"
)

// HeuristicAnalyzer composes an explanation from the scored breakdown
// without any model call. It never produces an ML score, so blending stays
// rule-only.
type HeuristicAnalyzer struct{}

// Assess implements the scanner's Analyzer contract.
func (h *HeuristicAnalyzer) Assess(_ context.Context, ticker string, result scoring.Result) (Assessment, error) {
	if result.NoData {
		return Assessment{
			Explanation: fmt.Sprintf("No risk signals were detected for %s in the lookback window.", ticker),
		}, nil
	}

	var notes []string
	for _, cs := range result.Categories {
		if cs.Count == 0 || cs.Score == 0 {
			continue
		}
		note := fmt.Sprintf("%s score %.1f from %d signal(s)", cs.Category, cs.Score, cs.Count)
		if len(cs.TopSignals) > 0 && cs.TopSignals[0].Title != "" {
			note += fmt.Sprintf(", led by %q", cs.TopSignals[0].Title)
		}
		notes = append(notes, note)
	}

	if len(notes) == 0 {
		notes = append(notes, "signals present but none carried a scoring weight")
	}

	explanation := fmt.Sprintf("%s scored %.1f (%s risk): %s.",
		ticker, result.Score, result.Level, strings.Join(notes, "; "))
	return Assessment{Explanation: explanation}, nil
}
