package proforma

import "proforma/internal/models"

const (
	// ClosingCostRate is the share of land cost used when closing cost is auto-calculated
	ClosingCostRate = 0.025

	// GreatDealThreshold is the lowest profit percentage classified as Great
	GreatDealThreshold = 0.21

	// GoodDealThreshold is the lowest profit percentage classified as Good
	GoodDealThreshold = 0.15
)

// Derive computes every derived value from an input snapshot.
// It is pure and total: zero areas or a zero ARV yield zeros, never a fault.
func Derive(in models.Input) models.Derived {
	commissionRate := in.RealEstateCommissionRate / 100
	pointsRate := in.LoanPointsRate / 100

	sitePrepTotal := in.SitePrepCosts.Total()
	extraExpensesTotal := in.ExtraExpensesTotal()
	combinedExtras := sitePrepTotal + extraExpensesTotal

	salePrice := EffectiveSalePricePerSqFt(in)
	closingCost := EffectiveClosingCost(in)

	arv := in.TotalSqFt() * salePrice
	totalBuildCost := in.TotalSqFt() * in.BuildCostPerSqFt

	loanBase := totalBuildCost + in.CostOfLand + combinedExtras + closingCost
	totalPoints := loanBase * pointsRate
	totalInterest := in.Payments().Sum()
	commission := arv * commissionRate

	totalProfit := arv -
		totalBuildCost -
		in.CostOfLand -
		combinedExtras -
		closingCost -
		totalPoints -
		totalInterest -
		commission

	var profitPercentage float64
	if arv > 0 {
		profitPercentage = totalProfit / arv
	}

	return models.Derived{
		EffectiveSalePricePerSqFt:  salePrice,
		ARV:                        arv,
		TotalBuildCost:             totalBuildCost,
		SitePrepTotal:              sitePrepTotal,
		ExtraExpensesTotal:         extraExpensesTotal,
		SitePrepAndExtrasTotal:     combinedExtras,
		EffectiveClosingCost:       closingCost,
		LoanBase:                   loanBase,
		TotalPoints:                totalPoints,
		TotalInterestPayments:      totalInterest,
		RealEstateCommissionAmount: commission,
		TotalProfit:                totalProfit,
		ProfitPercentage:           profitPercentage,
		DealTier:                   ClassifyDeal(profitPercentage),
	}
}

// Calculate pairs the input with its derived values
func Calculate(in models.Input) models.Result {
	return models.Result{
		Input:   in,
		Derived: Derive(in),
	}
}

// EffectiveSalePricePerSqFt resolves the sale price per sq ft for the active
// pricing mode. In total mode it is back-derived from the expected sale price
// and is 0 when there is no buildable area.
func EffectiveSalePricePerSqFt(in models.Input) float64 {
	if in.PricingMode != models.PricingTotal {
		return in.SalePricePerSqFt
	}
	area := in.TotalSqFt()
	if area == 0 {
		return 0
	}
	return in.ExpectedSalePrice / area
}

// EffectiveClosingCost resolves the closing cost for the auto-calculate toggle
func EffectiveClosingCost(in models.Input) float64 {
	if in.AutoCalculateClosingCost {
		return in.CostOfLand * ClosingCostRate
	}
	return in.EstimatedClosingCost
}

// ClassifyDeal maps a profit percentage onto a deal tier.
// Each threshold is inclusive.
func ClassifyDeal(profitPercentage float64) models.DealTier {
	switch {
	case profitPercentage >= GreatDealThreshold:
		return models.DealGreat
	case profitPercentage >= GoodDealThreshold:
		return models.DealGood
	default:
		return models.DealNone
	}
}
