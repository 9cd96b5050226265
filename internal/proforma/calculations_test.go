package proforma

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"proforma/internal/models"
)

func TestDerive_ExampleScenario(t *testing.T) {
	in := Example()
	d := Derive(in)

	assert.Equal(t, 1949400.0, d.ARV)
	assert.Equal(t, 1107000.0, d.TotalBuildCost)
	assert.Equal(t, 0.0, d.SitePrepAndExtrasTotal)
	assert.Equal(t, 7000.0, d.EffectiveClosingCost)
	assert.Equal(t, 1444000.0, d.LoanBase)
	assert.InDelta(t, 21660, d.TotalPoints, 1e-6)
	assert.InDelta(t, 74671.98, d.TotalInterestPayments, 1e-6)
	assert.InDelta(t, 116964, d.RealEstateCommissionAmount, 1e-6)
	assert.InDelta(t, 292104, d.TotalProfit, 1)
	assert.InDelta(t, 0.1498, d.ProfitPercentage, 0.001)
	assert.Equal(t, models.DealNone, d.DealTier)
}

func TestDerive_ZeroARV(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *models.Input)
	}{
		{
			name:   "Zero sale price",
			modify: func(in *models.Input) { in.SalePricePerSqFt = 0 },
		},
		{
			name:   "Zero area",
			modify: func(in *models.Input) { in.ProposedSqFt = 0 },
		},
		{
			name:   "Zero units",
			modify: func(in *models.Input) { in.HowManyBuild = 0 },
		},
		{
			name: "Total pricing with no area",
			modify: func(in *models.Input) {
				in.PricingMode = models.PricingTotal
				in.ProposedSqFt = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Example()
			tt.modify(&in)

			d := Derive(in)

			assert.Equal(t, 0.0, d.ARV)
			assert.Equal(t, 0.0, d.ProfitPercentage)
			assert.Equal(t, models.DealNone, d.DealTier)
		})
	}
}

func TestDerive_BlankInput(t *testing.T) {
	d := Derive(Blank())

	assert.Equal(t, models.Derived{DealTier: models.DealNone}, d)
}

func TestClassifyDeal(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		expected models.DealTier
	}{
		{name: "Exactly great threshold", pct: 0.21, expected: models.DealGreat},
		{name: "Just below great threshold", pct: 0.209999, expected: models.DealGood},
		{name: "Exactly good threshold", pct: 0.15, expected: models.DealGood},
		{name: "Just below good threshold", pct: 0.149999, expected: models.DealNone},
		{name: "Negative profit", pct: -0.3, expected: models.DealNone},
		{name: "Very profitable", pct: 0.8, expected: models.DealGreat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDeal(tt.pct))
		})
	}
}

func TestDerive_DealTiers(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(in *models.Input)
		expected models.DealTier
	}{
		{
			name: "Great deal",
			modify: func(in *models.Input) {
				in.CostOfLand = 100000
				in.BuildCostPerSqFt = 100
				in.ApplyPayments(models.Payments{1000, 1000, 1000, 1000, 1000, 1000})
			},
			expected: models.DealGreat,
		},
		{
			name: "Good deal",
			modify: func(in *models.Input) {
				in.CostOfLand = 480000
				in.BuildCostPerSqFt = 180
				in.ApplyPayments(models.Payments{3000, 3000, 3000, 3000, 3000, 3000})
			},
			expected: models.DealGood,
		},
		{
			name: "No deal",
			modify: func(in *models.Input) {
				in.CostOfLand = 800000
				in.BuildCostPerSqFt = 300
			},
			expected: models.DealNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Example()
			tt.modify(&in)

			assert.Equal(t, tt.expected, Derive(in).DealTier)
		})
	}
}

func TestDerive_SitePrepAndExtras(t *testing.T) {
	in := Example()
	in.SitePrepCosts.SurveyAndPermits = 1000
	in.SitePrepCosts.HouseDemolitionDebris = 2000
	in.SitePrepCosts.ClearingGrading = 3000
	in.SitePrepCosts.SewerWaterTap = 4000
	in.Sidewalks = 500
	in.RePlatt = 500

	d := Derive(in)

	assert.Equal(t, 10000.0, d.SitePrepTotal)
	assert.Equal(t, 1000.0, d.ExtraExpensesTotal)
	assert.Equal(t, 11000.0, d.SitePrepAndExtrasTotal)
	assert.Equal(t, 1444000.0+11000, d.LoanBase)
}

func TestDerive_SitePrepReducesProfit(t *testing.T) {
	in := Example()
	in.SitePrepCosts.ClearingGrading = 10000

	d := Derive(in)

	pointsIncrease := 10000 * (in.LoanPointsRate / 100)
	assert.Equal(t, 1454000.0, d.LoanBase)
	assert.InDelta(t, 21660+pointsIncrease, d.TotalPoints, 1e-6)
	assert.InDelta(t, 292104-10000-pointsIncrease, d.TotalProfit, 1)
}

func TestDerive_InterestPaymentsSum(t *testing.T) {
	in := Example()
	in.ApplyPayments(models.Payments{1000, 2000, 3000, 4000, 5000, 6000})

	assert.Equal(t, 21000.0, Derive(in).TotalInterestPayments)
}

func TestDerive_AutoClosingCost(t *testing.T) {
	in := Example()
	in.AutoCalculateClosingCost = true
	in.EstimatedClosingCost = 99999

	d := Derive(in)

	assert.InDelta(t, 8250, d.EffectiveClosingCost, 1e-9)
	assert.InDelta(t, 1107000+330000+8250, d.LoanBase, 1e-6)
}

func TestDerive_TotalPricingMode(t *testing.T) {
	in := Example()
	in.PricingMode = models.PricingTotal
	in.ExpectedSalePrice = 2160000
	in.SalePricePerSqFt = 1

	d := Derive(in)

	assert.InDelta(t, 400, d.EffectiveSalePricePerSqFt, 1e-9)
	assert.InDelta(t, 2160000, d.ARV, 1e-6)
	// the inactive per-sq-ft field is left alone
	assert.Equal(t, 1.0, in.SalePricePerSqFt)
}

func TestDerive_PerSqFtIgnoresExpectedPrice(t *testing.T) {
	in := Example()
	in.ExpectedSalePrice = 1

	assert.Equal(t, 1949400.0, Derive(in).ARV)
}

func TestDerive_Deterministic(t *testing.T) {
	in := Example()
	in.SitePrepCosts.PadPrep = 1234.56
	in.AutoCalculateClosingCost = true

	assert.Equal(t, Derive(in), Derive(in))
}

func TestCalculate(t *testing.T) {
	in := Example()
	r := Calculate(in)

	assert.Equal(t, in, r.Input)
	assert.Equal(t, Derive(in), r.Derived)
}
