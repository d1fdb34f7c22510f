package signal

// Type identifies what kind of event a signal describes. Each known type
// carries a fixed base score; unknown types score zero but are still counted.
type Type string

// Known signal types by category. Positive base scores increase risk,
// negative ones (large insider purchases) decrease it.
const (
	// Regulatory.
	TypeSEC8KNonReliance      Type = "SEC_8K_NONRELIANCE"
	TypeSEC8KAuditorChange    Type = "SEC_8K_AUDITOR_CHANGE"
	TypeFinancialRestatement  Type = "FINANCIAL_RESTATEMENT"
	TypeMaterialWeakness      Type = "MATERIAL_WEAKNESS"
	TypeDelistingNotice       Type = "DELISTING_NOTICE"
	TypeSECInvestigation      Type = "SEC_INVESTIGATION"
	TypeLateFiling            Type = "LATE_FILING"

	// Operational.
	TypeExecDeparture       Type = "EXEC_DEPARTURE"
	TypeCFODeparture        Type = "EXEC_DEPARTURE_CFO"
	TypeCEODeparture        Type = "EXEC_DEPARTURE_CEO"
	TypeLayoffAnnouncement  Type = "LAYOFF_ANNOUNCEMENT"
	TypeRestructuring       Type = "RESTRUCTURING"
	TypeImpairmentCharge    Type = "IMPAIRMENT_CHARGE"
	TypeContractTermination Type = "CONTRACT_TERMINATION"
	TypeHiringFreeze        Type = "HIRING_FREEZE"

	// Narrative.
	TypeGoingConcern      Type = "PR_GOING_CONCERN"
	TypeGuidanceWithdrawn Type = "GUIDANCE_WITHDRAWN"
	TypeGuidanceLowered   Type = "GUIDANCE_LOWERED"
	TypeEarningsMiss      Type = "EARNINGS_MISS"
	TypeDistressKeywords  Type = "PR_DISTRESS_KEYWORDS"

	// Insider.
	TypeInsiderSellCluster Type = "INSIDER_SELL_CLUSTER"
	TypeInsiderSellLarge   Type = "INSIDER_SELL_LARGE"
	TypeInsiderBuyCluster  Type = "INSIDER_BUY_CLUSTER"
	TypeInsiderBuyLarge    Type = "INSIDER_BUY_LARGE"
	TypeTradingPlanCancel  Type = "INSIDER_10B5_CANCEL"

	// Momentum.
	TypeSharpPriceDrop     Type = "PRICE_DROP_SHARP"
	TypeVolumeSpike        Type = "VOLUME_SPIKE"
	TypeShortInterestSpike Type = "SHORT_INTEREST_SPIKE"
	TypeSocialSpike        Type = "SOCIAL_MOMENTUM_SPIKE"
)

// BaseScore returns the fixed base score for a signal type. Unrecognized
// types resolve to 0: they contribute nothing numerically but remain visible
// in counts and top-signal lists.
func (t Type) BaseScore() float64 {
	switch t {
	case TypeSEC8KNonReliance:
		return 50
	case TypeFinancialRestatement:
		return 45
	case TypeSECInvestigation:
		return 45
	case TypeSEC8KAuditorChange:
		return 40
	case TypeDelistingNotice:
		return 40
	case TypeMaterialWeakness:
		return 35
	case TypeLateFiling:
		return 30
	case TypeCFODeparture:
		return 35
	case TypeCEODeparture:
		return 30
	case TypeExecDeparture:
		return 25
	case TypeLayoffAnnouncement:
		return 25
	case TypeImpairmentCharge:
		return 25
	case TypeRestructuring:
		return 20
	case TypeContractTermination:
		return 20
	case TypeHiringFreeze:
		return 15
	case TypeGoingConcern:
		return 45
	case TypeGuidanceWithdrawn:
		return 35
	case TypeGuidanceLowered:
		return 30
	case TypeEarningsMiss:
		return 25
	case TypeDistressKeywords:
		return 15
	case TypeInsiderSellCluster:
		return 30
	case TypeInsiderSellLarge:
		return 25
	case TypeTradingPlanCancel:
		return 15
	case TypeInsiderBuyLarge:
		return -20
	case TypeInsiderBuyCluster:
		return -25
	case TypeSharpPriceDrop:
		return 20
	case TypeShortInterestSpike:
		return 20
	case TypeVolumeSpike:
		return 15
	case TypeSocialSpike:
		return 10
	default:
		return 0
	}
}

// DefaultCategory returns the category a signal type naturally belongs to.
// Collectors use it when emitting signals; a Signal's explicit Category
// field still wins during scoring.
func (t Type) DefaultCategory() Category {
	switch t {
	case TypeSEC8KNonReliance, TypeSEC8KAuditorChange, TypeFinancialRestatement,
		TypeMaterialWeakness, TypeDelistingNotice, TypeSECInvestigation, TypeLateFiling:
		return CategoryRegulatory
	case TypeExecDeparture, TypeCFODeparture, TypeCEODeparture, TypeLayoffAnnouncement,
		TypeRestructuring, TypeImpairmentCharge, TypeContractTermination, TypeHiringFreeze:
		return CategoryOperational
	case TypeGoingConcern, TypeGuidanceWithdrawn, TypeGuidanceLowered,
		TypeEarningsMiss, TypeDistressKeywords:
		return CategoryNarrative
	case TypeInsiderSellCluster, TypeInsiderSellLarge, TypeInsiderBuyCluster,
		TypeInsiderBuyLarge, TypeTradingPlanCancel:
		return CategoryInsider
	case TypeSharpPriceDrop, TypeVolumeSpike, TypeShortInterestSpike, TypeSocialSpike:
		return CategoryMomentum
	default:
		return CategoryOther
	}
}
