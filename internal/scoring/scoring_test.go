package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockradar/stockradar/internal/signal"
)

func TestCategoryWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, cat := range signal.WeightedCategories() {
		w := Weight(cat)
		assert.Greater(t, w, 0.0, "category %s", cat)
		sum += w
	}
	assert.Equal(t, 1.0, sum)
	assert.Zero(t, Weight(signal.CategoryOther))
}

func TestBlendWeightsSumToOne(t *testing.T) {
	assert.Equal(t, 1.0, RuleBlendWeight+MLBlendWeight)
}

func TestScoreEmptySignalList(t *testing.T) {
	res := Score(nil)

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, LevelLow, res.Level)
	assert.True(t, res.NoData)
	assert.Zero(t, res.TotalSignals)
	require.Len(t, res.Categories, 6)
	for _, cs := range res.Categories {
		assert.Zero(t, cs.Score)
		assert.Zero(t, cs.Count)
		assert.Empty(t, cs.TopSignals)
	}
}

func TestScoreSingleRegulatorySignal(t *testing.T) {
	res := Score([]signal.Signal{{
		Type:     signal.TypeSEC8KNonReliance,
		Category: signal.CategoryRegulatory,
		Severity: 1.0,
	}})

	require.False(t, res.NoData)
	assert.Equal(t, 15.0, res.Score)
	assert.Equal(t, LevelLow, res.Level)

	reg := res.Categories[0]
	assert.Equal(t, signal.CategoryRegulatory, reg.Category)
	assert.Equal(t, 50.0, reg.Score)
	assert.Equal(t, 15.0, reg.Weighted)
	assert.Equal(t, 1, reg.Count)
}

func TestScoreInsiderPair(t *testing.T) {
	res := Score([]signal.Signal{
		{Type: signal.TypeInsiderSellCluster, Category: signal.CategoryInsider, Severity: 1.0},
		{Type: signal.TypeInsiderSellLarge, Category: signal.CategoryInsider, Severity: 1.0},
	})

	var ins CategoryScore
	for _, cs := range res.Categories {
		if cs.Category == signal.CategoryInsider {
			ins = cs
		}
	}
	assert.Equal(t, 55.0, ins.Score)
	assert.InDelta(t, 8.25, ins.Weighted, 1e-9)
	// 8.25 weighted total carries one decimal of precision in the composite.
	assert.Equal(t, 8.3, res.Score)
	assert.Equal(t, LevelLow, res.Level)
	assert.Equal(t, 2, res.TotalSignals)
}

func TestScoreClampsSeverityBeforeContribution(t *testing.T) {
	res := Score([]signal.Signal{{
		Type:     signal.TypeInsiderSellLarge,
		Category: signal.CategoryInsider,
		Severity: 3.0,
	}})

	var ins CategoryScore
	for _, cs := range res.Categories {
		if cs.Category == signal.CategoryInsider {
			ins = cs
		}
	}
	require.Len(t, ins.TopSignals, 1)
	assert.Equal(t, 50.0, ins.TopSignals[0].Contribution)
}

func TestCategoryScoreClampedToHundred(t *testing.T) {
	var signals []signal.Signal
	for i := 0; i < 5; i++ {
		signals = append(signals, signal.Signal{
			Type:     signal.TypeSEC8KNonReliance,
			Category: signal.CategoryRegulatory,
			Severity: 2.0,
		})
	}
	res := Score(signals)

	reg := res.Categories[0]
	assert.Equal(t, 100.0, reg.Score)
	assert.Equal(t, 30.0, reg.Weighted)
}

func TestCategoryScoreClampedToZero(t *testing.T) {
	res := Score([]signal.Signal{
		{Type: signal.TypeInsiderBuyCluster, Category: signal.CategoryInsider, Severity: 2.0},
		{Type: signal.TypeInsiderBuyLarge, Category: signal.CategoryInsider, Severity: 2.0},
	})

	var ins CategoryScore
	for _, cs := range res.Categories {
		if cs.Category == signal.CategoryInsider {
			ins = cs
		}
	}
	assert.Zero(t, ins.Score)
	assert.Equal(t, 2, ins.Count)
	assert.Equal(t, 0.0, res.Score)
	assert.False(t, res.NoData)
}

func TestOtherBucketCountedButUnweighted(t *testing.T) {
	res := Score([]signal.Signal{
		{Type: signal.TypeEarningsMiss, Category: "unclassified", Severity: 2.0},
	})

	other := res.Categories[len(res.Categories)-1]
	assert.Equal(t, signal.CategoryOther, other.Category)
	assert.Equal(t, 50.0, other.Score)
	assert.Equal(t, 1, other.Count)
	assert.Zero(t, other.Weight)
	assert.Zero(t, other.Weighted)

	// Counted in totals, excluded from the weighted sum.
	assert.Equal(t, 1, res.TotalSignals)
	assert.Equal(t, 0.0, res.Score)
	assert.False(t, res.NoData)
}

func TestTopSignalsRankedByMagnitudeStable(t *testing.T) {
	res := Score([]signal.Signal{
		{Type: signal.TypeVolumeSpike, Category: signal.CategoryMomentum, Title: "first spike"},
		{Type: signal.TypeSharpPriceDrop, Category: signal.CategoryMomentum, Title: "drop"},
		{Type: signal.TypeVolumeSpike, Category: signal.CategoryMomentum, Title: "second spike"},
		{Type: signal.TypeSocialSpike, Category: signal.CategoryMomentum, Title: "chatter"},
	})

	var mom CategoryScore
	for _, cs := range res.Categories {
		if cs.Category == signal.CategoryMomentum {
			mom = cs
		}
	}
	require.Len(t, mom.TopSignals, 3)
	assert.Equal(t, "drop", mom.TopSignals[0].Title)
	assert.Equal(t, "first spike", mom.TopSignals[1].Title)
	assert.Equal(t, "second spike", mom.TopSignals[2].Title)
}

func TestScoreIsDeterministic(t *testing.T) {
	signals := []signal.Signal{
		{Type: signal.TypeGuidanceLowered, Category: signal.CategoryNarrative, Severity: 1.2},
		{Type: signal.TypeLayoffAnnouncement, Category: signal.CategoryOperational},
		{Type: signal.TypeInsiderSellLarge, Category: signal.CategoryInsider, Severity: 0.7},
	}

	first := Score(signals)
	second := Score(signals)
	assert.Equal(t, first, second)
}

func TestCompositeStaysInRange(t *testing.T) {
	var signals []signal.Signal
	for _, cat := range signal.WeightedCategories() {
		for i := 0; i < 10; i++ {
			signals = append(signals, signal.Signal{
				Type:     signal.TypeSEC8KNonReliance,
				Category: cat,
				Severity: 2.0,
			})
		}
	}
	res := Score(signals)
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, LevelHigh, res.Level)
}

func TestLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Level
	}{
		{0, LevelLow},
		{29.9, LevelLow},
		{30.0, LevelNeutral},
		{49.9, LevelNeutral},
		{50.0, LevelElevated},
		{69.9, LevelElevated},
		{70.0, LevelHigh},
		{100, LevelHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestBlendWithMLScore(t *testing.T) {
	ml := 80.0
	b := BlendScores(40.0, &ml)

	assert.False(t, b.RuleOnly)
	assert.Equal(t, 56.0, b.Combined)
	assert.Equal(t, 24.0, b.RuleWeighted)
	require.NotNil(t, b.MLWeighted)
	assert.Equal(t, 32.0, *b.MLWeighted)
}

func TestBlendWithoutMLScoreFallsBackToRule(t *testing.T) {
	b := BlendScores(37.5, nil)

	assert.True(t, b.RuleOnly)
	assert.Equal(t, 37.5, b.Combined)
	assert.Nil(t, b.MLScore)
	assert.Nil(t, b.MLWeighted)
}
