package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeComputesContribution(t *testing.T) {
	n := Normalize(Signal{
		Type:     TypeSEC8KNonReliance,
		Category: CategoryRegulatory,
		Severity: 1.0,
	})

	assert.Equal(t, 50.0, n.Contribution)
	assert.Equal(t, CategoryRegulatory, n.Category)
}

func TestNormalizeDefaultsSeverity(t *testing.T) {
	n := Normalize(Signal{Type: TypeInsiderSellLarge, Category: CategoryInsider})

	assert.Equal(t, DefaultSeverity, n.Severity)
	assert.Equal(t, 25.0, n.Contribution)
}

func TestNormalizeClampsSeverity(t *testing.T) {
	high := Normalize(Signal{Type: TypeInsiderSellLarge, Category: CategoryInsider, Severity: 3.0})
	assert.Equal(t, 2.0, high.Severity)
	assert.Equal(t, 50.0, high.Contribution)

	low := Normalize(Signal{Type: TypeInsiderSellLarge, Category: CategoryInsider, Severity: 0.1})
	assert.Equal(t, 0.5, low.Severity)
	assert.Equal(t, 12.5, low.Contribution)
}

func TestNormalizeUnknownTypeScoresZero(t *testing.T) {
	n := Normalize(Signal{Type: "SOMETHING_NEW", Category: CategoryRegulatory, Severity: 2.0})

	assert.Zero(t, n.Contribution)
	assert.Equal(t, CategoryRegulatory, n.Category)
}

func TestNormalizeRoutesUnknownCategoryToOther(t *testing.T) {
	n := Normalize(Signal{Type: TypeEarningsMiss, Category: "weather"})

	assert.Equal(t, CategoryOther, n.Category)
	assert.Equal(t, 25.0, n.Contribution)
}

func TestNegativeBaseScoresReduceRisk(t *testing.T) {
	n := Normalize(Signal{Type: TypeInsiderBuyLarge, Category: CategoryInsider})
	assert.Equal(t, -20.0, n.Contribution)
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryMomentum, ParseCategory("momentum"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
	assert.Equal(t, CategoryOther, ParseCategory("unheard-of"))
}

func TestDecodeSignals(t *testing.T) {
	data := []byte(`[
		{"type": "SEC_8K_NONRELIANCE", "category": "regulatory", "title": "Non-reliance 8-K", "occurred_at": "2026-01-05T14:00:00Z"},
		{"type": "insider_sell_large", "category": "insider", "severity": 1.5},
		{"type": "", "category": "insider"}
	]`)

	signals, err := DecodeSignals(data)
	require.NoError(t, err)
	require.Len(t, signals, 2)

	assert.Equal(t, TypeSEC8KNonReliance, signals[0].Type)
	assert.False(t, signals[0].OccurredAt.IsZero())
	assert.Zero(t, signals[0].Severity)

	assert.Equal(t, TypeInsiderSellLarge, signals[1].Type)
	assert.Equal(t, 1.5, signals[1].Severity)
}

func TestDecodeSignalsClampsExplicitZeroSeverity(t *testing.T) {
	signals, err := DecodeSignals([]byte(`[{"type": "INSIDER_SELL_LARGE", "severity": 0}]`))
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, 0.5, signals[0].Severity)

	n := Normalize(signals[0])
	assert.Equal(t, 0.5, n.Severity)
	assert.Equal(t, 12.5, n.Contribution)
}

func TestDecodeSignalsClampsOutOfRangeSeverity(t *testing.T) {
	signals, err := DecodeSignals([]byte(`[
		{"type": "INSIDER_SELL_LARGE", "severity": 5},
		{"type": "INSIDER_SELL_LARGE", "severity": -1}
	]`))
	require.NoError(t, err)
	require.Len(t, signals, 2)
	assert.Equal(t, 2.0, signals[0].Severity)
	assert.Equal(t, 0.5, signals[1].Severity)
}

func TestDecodeSignalsRejectsBadTimestamp(t *testing.T) {
	_, err := DecodeSignals([]byte(`[{"type": "EARNINGS_MISS", "occurred_at": "yesterday"}]`))
	require.Error(t, err)
}

func TestKnownTypesHaveWeightedDefaultCategory(t *testing.T) {
	known := []Type{
		TypeSEC8KNonReliance, TypeSEC8KAuditorChange, TypeFinancialRestatement,
		TypeMaterialWeakness, TypeDelistingNotice, TypeSECInvestigation, TypeLateFiling,
		TypeExecDeparture, TypeCFODeparture, TypeCEODeparture, TypeLayoffAnnouncement, TypeRestructuring,
		TypeImpairmentCharge, TypeContractTermination, TypeHiringFreeze,
		TypeGoingConcern, TypeGuidanceWithdrawn, TypeGuidanceLowered, TypeEarningsMiss,
		TypeDistressKeywords, TypeInsiderSellCluster, TypeInsiderSellLarge,
		TypeInsiderBuyCluster, TypeInsiderBuyLarge, TypeTradingPlanCancel,
		TypeSharpPriceDrop, TypeVolumeSpike, TypeShortInterestSpike, TypeSocialSpike,
	}

	for _, typ := range known {
		assert.NotEqual(t, CategoryOther, typ.DefaultCategory(), "type %s", typ)
		assert.NotZero(t, typ.BaseScore(), "type %s", typ)
	}

	assert.Equal(t, CategoryOther, Type("UNMAPPED").DefaultCategory())
}
