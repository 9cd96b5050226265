package proforma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range PaymentWeights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestEstimateInterestPayments_Example(t *testing.T) {
	in := Example()

	payments := EstimateInterestPayments(in)

	// 1,444,000 * 0.75 * 0.11 * 0.5 = 59,565
	expected := [6]float64{5956.5, 8934.75, 11913, 13104.3, 13104.3, 6552.15}
	for i := range expected {
		assert.InDelta(t, expected[i], payments[i], 0.001, "payment %d", i+1)
	}
	assert.InDelta(t, 59565, payments.Sum(), 0.01)
}

func TestEstimateInterestPayments_UnroundedSharesMatchTotal(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		land float64
	}{
		{name: "Example", rate: 11, land: 330000},
		{name: "Odd rate", rate: 7.37, land: 123456.78},
		{name: "Zero rate", rate: 0, land: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Example()
			in.InterestRate = tt.rate
			in.CostOfLand = tt.land

			var sum float64
			for _, s := range interestShares(in) {
				sum += s
			}
			expected := EstimatedLoanBase(in) * 0.75 * tt.rate / 12 * 6 / 100
			assert.InDelta(t, expected, sum, 1e-6)
		})
	}
}

func TestEstimateInterestPayments_RoundsEachPayment(t *testing.T) {
	in := Example()
	in.InterestRate = 7.37
	in.CostOfLand = 123456.78

	payments := EstimateInterestPayments(in)
	shares := interestShares(in)

	for i, p := range payments {
		assert.InDelta(t, shares[i], p, 0.005)
		assert.InDelta(t, p*100, float64(int64(p*100+0.5)), 1e-6)
	}
	// independent rounding may drift by a few cents, never more
	assert.InDelta(t, EstimatedTotalInterest(in), payments.Sum(), 0.03)
}

func TestEstimateInterestPayments_IgnoresAutoClosingToggle(t *testing.T) {
	manual := Example()
	auto := Example()
	auto.AutoCalculateClosingCost = true

	assert.Equal(t, EstimateInterestPayments(manual), EstimateInterestPayments(auto))
}

func TestEstimateInterestPayments_IncludesSitePrepAndExtras(t *testing.T) {
	in := Example()
	in.SitePrepCosts.Septic = 6000
	in.BuilderFee = 4000

	assert.Equal(t, 1454000.0, EstimatedLoanBase(in))
}

func TestEstimateInterestPayments_DoesNotMutateInput(t *testing.T) {
	in := Example()
	before := in

	_ = EstimateInterestPayments(in)

	assert.Equal(t, before, in)
}
