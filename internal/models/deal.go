package models

// DealTier is the qualitative classification of a project's profit percentage
type DealTier string

const (
	DealGreat DealTier = "Great"
	DealGood  DealTier = "Good"
	DealNone  DealTier = "NO Deal"
)

// Label returns a human-readable label for the tier.
func (t DealTier) Label() string {
	switch t {
	case DealGreat:
		return "Great Deal"
	case DealGood:
		return "Good Deal"
	default:
		return "NO Deal"
	}
}

// Derived holds every value computed from an Input snapshot.
// ProfitPercentage is a fraction (0.15 = 15%).
type Derived struct {
	EffectiveSalePricePerSqFt  float64  `json:"effective_sale_price_per_sq_ft" yaml:"effective_sale_price_per_sq_ft"`
	ARV                        float64  `json:"arv" yaml:"arv"`
	TotalBuildCost             float64  `json:"total_build_cost" yaml:"total_build_cost"`
	SitePrepTotal              float64  `json:"site_prep_total" yaml:"site_prep_total"`
	ExtraExpensesTotal         float64  `json:"extra_expenses_total" yaml:"extra_expenses_total"`
	SitePrepAndExtrasTotal     float64  `json:"site_prep_and_extras_total" yaml:"site_prep_and_extras_total"`
	EffectiveClosingCost       float64  `json:"effective_closing_cost" yaml:"effective_closing_cost"`
	LoanBase                   float64  `json:"loan_base" yaml:"loan_base"`
	TotalPoints                float64  `json:"total_points" yaml:"total_points"`
	TotalInterestPayments      float64  `json:"total_interest_payments" yaml:"total_interest_payments"`
	RealEstateCommissionAmount float64  `json:"real_estate_commission_amount" yaml:"real_estate_commission_amount"`
	TotalProfit                float64  `json:"total_profit" yaml:"total_profit"`
	ProfitPercentage           float64  `json:"profit_percentage" yaml:"profit_percentage"`
	DealTier                   DealTier `json:"deal_tier" yaml:"deal_tier"`
}

// Result pairs an input snapshot with its derived values
type Result struct {
	Input   Input   `json:"input" yaml:"input"`
	Derived Derived `json:"derived" yaml:"derived"`
}
