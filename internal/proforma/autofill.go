package proforma

import (
	"github.com/shopspring/decimal"

	"proforma/internal/models"
)

const (
	// AverageDrawShare is the average outstanding share of the loan over the build
	AverageDrawShare = 0.75

	// ConstructionMonths is the assumed length of the construction loan
	ConstructionMonths = 6
)

// PaymentWeights spreads the estimated interest over six escalating draws.
var PaymentWeights = [6]float64{0.10, 0.15, 0.20, 0.22, 0.22, 0.11}

// EstimateInterestPayments suggests six interest payments for the input.
// The loan base uses the manually entered closing cost regardless of the
// auto-calculate toggle. Each payment is rounded to cents on its own, so the
// six may sum a cent away from the estimated total. The input is not modified.
func EstimateInterestPayments(in models.Input) models.Payments {
	var out models.Payments
	for i, share := range interestShares(in) {
		out[i] = decimal.NewFromFloat(share).Round(2).InexactFloat64()
	}
	return out
}

// EstimatedLoanBase is the loan base used by the interest estimate
func EstimatedLoanBase(in models.Input) float64 {
	return in.TotalSqFt()*in.BuildCostPerSqFt +
		in.CostOfLand +
		in.SitePrepCosts.Total() +
		in.ExtraExpensesTotal() +
		in.EstimatedClosingCost
}

// EstimatedTotalInterest is the simple interest on the average draw balance
func EstimatedTotalInterest(in models.Input) float64 {
	return EstimatedLoanBase(in) * AverageDrawShare * (in.InterestRate / 100) * (ConstructionMonths / 12.0)
}

func interestShares(in models.Input) [6]float64 {
	total := EstimatedTotalInterest(in)
	var shares [6]float64
	for i, w := range PaymentWeights {
		shares[i] = total * w
	}
	return shares
}
