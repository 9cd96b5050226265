package proforma

import "proforma/internal/models"

// Blank returns the default-valued input: one unit, per-sq-ft pricing and
// every amount at zero.
func Blank() models.Input {
	return models.Input{
		PricingMode:  models.PricingPerSqFt,
		HowManyBuild: 1,
	}
}

// Example returns a realistic three-unit project used for demos and as the
// base for decoding share links.
func Example() models.Input {
	return models.Input{
		PropertyAddress: "123 Main st",

		PricingMode:       models.PricingPerSqFt,
		ExpectedSalePrice: 1949400,

		HowManyBuild:     3,
		ProposedSqFt:     1800,
		BuildCostPerSqFt: 205,
		SalePricePerSqFt: 361,

		CostOfLand:           330000,
		EstimatedClosingCost: 7000,

		RealEstateCommissionRate: 6,
		InterestRate:             11,
		LoanPointsRate:           1.5,

		Payment1: 6049.33,
		Payment2: 8447.83,
		Payment3: 13244.83,
		Payment4: 15643.33,
		Payment5: 15643.33,
		Payment6: 15643.33,
	}
}
