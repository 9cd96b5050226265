package models

// PricingMode selects which field governs the sale price
type PricingMode string

const (
	PricingPerSqFt PricingMode = "perSqFt"
	PricingTotal   PricingMode = "total"
)

// PricingModes is the set of allowed pricing modes.
var PricingModes = []PricingMode{PricingPerSqFt, PricingTotal}

// IsValid checks if a pricing mode is recognized.
func (m PricingMode) IsValid() bool {
	for _, v := range PricingModes {
		if m == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the pricing mode.
func (m PricingMode) Label() string {
	switch m {
	case PricingPerSqFt:
		return "Price per sq ft"
	case PricingTotal:
		return "Total expected price"
	default:
		return string(m)
	}
}

// SitePrepCosts holds the fixed set of site preparation line items
type SitePrepCosts struct {
	SurveyAndPermits      float64 `json:"survey_and_permits" yaml:"survey_and_permits"`
	HouseDemolitionDebris float64 `json:"house_demolition_debris" yaml:"house_demolition_debris"`
	TreeRemovalFillDirt   float64 `json:"tree_removal_fill_dirt" yaml:"tree_removal_fill_dirt"`
	ClearingGrading       float64 `json:"clearing_grading" yaml:"clearing_grading"`
	CulvertDrainagePipe   float64 `json:"culvert_drainage_pipe" yaml:"culvert_drainage_pipe"`
	PadPrep               float64 `json:"pad_prep" yaml:"pad_prep"`
	GravelCement          float64 `json:"gravel_cement" yaml:"gravel_cement"`
	GasElectricTap        float64 `json:"gas_electric_tap" yaml:"gas_electric_tap"`
	SewerWaterTap         float64 `json:"sewer_water_tap" yaml:"sewer_water_tap"`
	Septic                float64 `json:"septic" yaml:"septic"`
	RetainingWall         float64 `json:"retaining_wall" yaml:"retaining_wall"`
}

// Total sums every site prep line item
func (s SitePrepCosts) Total() float64 {
	return s.SurveyAndPermits +
		s.HouseDemolitionDebris +
		s.TreeRemovalFillDirt +
		s.ClearingGrading +
		s.CulvertDrainagePipe +
		s.PadPrep +
		s.GravelCement +
		s.GasElectricTap +
		s.SewerWaterTap +
		s.Septic +
		s.RetainingWall
}

// Input is every user-editable proforma field.
// Rates are whole-number percentages (6 means 6%).
type Input struct {
	PropertyAddress string `json:"property_address" yaml:"property_address"`
	LotSize         string `json:"lot_size" yaml:"lot_size"`
	LotZoning       string `json:"lot_zoning" yaml:"lot_zoning"`

	PricingMode       PricingMode `json:"pricing_mode" yaml:"pricing_mode"`
	ExpectedSalePrice float64     `json:"expected_sale_price" yaml:"expected_sale_price"`

	HowManyBuild     int     `json:"how_many_build" yaml:"how_many_build"`
	ProposedSqFt     float64 `json:"proposed_sq_ft" yaml:"proposed_sq_ft"`
	BuildCostPerSqFt float64 `json:"build_cost_per_sq_ft" yaml:"build_cost_per_sq_ft"`
	SalePricePerSqFt float64 `json:"sale_price_per_sq_ft" yaml:"sale_price_per_sq_ft"`

	CostOfLand               float64 `json:"cost_of_land" yaml:"cost_of_land"`
	EstimatedClosingCost     float64 `json:"estimated_closing_cost" yaml:"estimated_closing_cost"`
	AutoCalculateClosingCost bool    `json:"auto_calculate_closing_cost" yaml:"auto_calculate_closing_cost"`

	SitePrepCosts SitePrepCosts `json:"site_prep_costs" yaml:"site_prep_costs"`

	RealEstateCommissionRate float64 `json:"real_estate_commission_rate" yaml:"real_estate_commission_rate"`
	InterestRate             float64 `json:"interest_rate" yaml:"interest_rate"` // auto-fill only
	LoanPointsRate           float64 `json:"loan_points_rate" yaml:"loan_points_rate"`

	Sidewalks    float64 `json:"sidewalks" yaml:"sidewalks"`
	RePlatt      float64 `json:"re_platt" yaml:"re_platt"`
	GrinderPumps float64 `json:"grinder_pumps" yaml:"grinder_pumps"`
	BuilderFee   float64 `json:"builder_fee" yaml:"builder_fee"`

	Payment1 float64 `json:"payment1" yaml:"payment1"`
	Payment2 float64 `json:"payment2" yaml:"payment2"`
	Payment3 float64 `json:"payment3" yaml:"payment3"`
	Payment4 float64 `json:"payment4" yaml:"payment4"`
	Payment5 float64 `json:"payment5" yaml:"payment5"`
	Payment6 float64 `json:"payment6" yaml:"payment6"`
}

// Payments are the six construction loan interest payments
type Payments [6]float64

// Sum adds up all six payments
func (p Payments) Sum() float64 {
	var total float64
	for _, v := range p {
		total += v
	}
	return total
}

// Payments returns the six interest payment fields in order
func (in Input) Payments() Payments {
	return Payments{in.Payment1, in.Payment2, in.Payment3, in.Payment4, in.Payment5, in.Payment6}
}

// ApplyPayments replaces the six interest payment fields
func (in *Input) ApplyPayments(p Payments) {
	in.Payment1 = p[0]
	in.Payment2 = p[1]
	in.Payment3 = p[2]
	in.Payment4 = p[3]
	in.Payment5 = p[4]
	in.Payment6 = p[5]
}

// ExtraExpensesTotal sums the four extra expense line items
func (in Input) ExtraExpensesTotal() float64 {
	return in.Sidewalks + in.RePlatt + in.GrinderPumps + in.BuilderFee
}

// TotalSqFt is the buildable area across all units
func (in Input) TotalSqFt() float64 {
	return float64(in.HowManyBuild) * in.ProposedSqFt
}

// LineItem is a labelled amount used in reports
type LineItem struct {
	Label  string  `json:"label" yaml:"label"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Items lists the site prep costs with display labels, in entry order
func (s SitePrepCosts) Items() []LineItem {
	return []LineItem{
		{Label: "Survey & permits", Amount: s.SurveyAndPermits},
		{Label: "House demolition & debris", Amount: s.HouseDemolitionDebris},
		{Label: "Tree removal & fill dirt", Amount: s.TreeRemovalFillDirt},
		{Label: "Clearing & grading", Amount: s.ClearingGrading},
		{Label: "Culvert & drainage pipe", Amount: s.CulvertDrainagePipe},
		{Label: "Pad prep", Amount: s.PadPrep},
		{Label: "Gravel & cement", Amount: s.GravelCement},
		{Label: "Gas & electric tap", Amount: s.GasElectricTap},
		{Label: "Sewer & water tap", Amount: s.SewerWaterTap},
		{Label: "Septic", Amount: s.Septic},
		{Label: "Retaining wall", Amount: s.RetainingWall},
	}
}

// ExtraExpenses lists the extra expense line items with display labels
func (in Input) ExtraExpenses() []LineItem {
	return []LineItem{
		{Label: "Sidewalks", Amount: in.Sidewalks},
		{Label: "Re-platt", Amount: in.RePlatt},
		{Label: "Grinder pumps", Amount: in.GrinderPumps},
		{Label: "Builder fee", Amount: in.BuilderFee},
	}
}
