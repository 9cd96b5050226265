package proforma

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"proforma/internal/models"
)

// maxUnits caps integer fields so every accepted count fits in an int32
const maxUnits = math.MaxInt32

// Kind is the value type of an input field
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInteger
	KindBool
	KindPricingMode
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindPricingMode:
		return "pricing_mode"
	default:
		return "unknown"
	}
}

// Field describes one user-editable Input field: its JSON name, its short
// share-link key, its value type and its bounds. A Max of 0 means unbounded.
type Field struct {
	Name     string
	Key      string
	Kind     Kind
	SitePrep bool
	Min      float64
	Max      float64

	ref func(*models.Input) any
}

var fields = []Field{
	text("property_address", "addr", func(in *models.Input) any { return &in.PropertyAddress }),
	text("lot_size", "ls", func(in *models.Input) any { return &in.LotSize }),
	text("lot_zoning", "z", func(in *models.Input) any { return &in.LotZoning }),
	{Name: "pricing_mode", Key: "pm", Kind: KindPricingMode, ref: func(in *models.Input) any { return &in.PricingMode }},
	amount("expected_sale_price", "esp", func(in *models.Input) any { return &in.ExpectedSalePrice }),
	{Name: "how_many_build", Key: "qty", Kind: KindInteger, Min: 1, ref: func(in *models.Input) any { return &in.HowManyBuild }},
	amount("proposed_sq_ft", "sf", func(in *models.Input) any { return &in.ProposedSqFt }),
	amount("build_cost_per_sq_ft", "bc", func(in *models.Input) any { return &in.BuildCostPerSqFt }),
	amount("sale_price_per_sq_ft", "sp", func(in *models.Input) any { return &in.SalePricePerSqFt }),
	amount("cost_of_land", "land", func(in *models.Input) any { return &in.CostOfLand }),
	amount("estimated_closing_cost", "close", func(in *models.Input) any { return &in.EstimatedClosingCost }),
	percent("real_estate_commission_rate", "comm", func(in *models.Input) any { return &in.RealEstateCommissionRate }),
	percent("interest_rate", "ir", func(in *models.Input) any { return &in.InterestRate }),
	percent("loan_points_rate", "pts", func(in *models.Input) any { return &in.LoanPointsRate }),
	{Name: "auto_calculate_closing_cost", Key: "acc", Kind: KindBool, ref: func(in *models.Input) any { return &in.AutoCalculateClosingCost }},
	amount("sidewalks", "sw", func(in *models.Input) any { return &in.Sidewalks }),
	amount("re_platt", "rp", func(in *models.Input) any { return &in.RePlatt }),
	amount("grinder_pumps", "gp", func(in *models.Input) any { return &in.GrinderPumps }),
	amount("builder_fee", "bf", func(in *models.Input) any { return &in.BuilderFee }),
	amount("payment1", "p1", func(in *models.Input) any { return &in.Payment1 }),
	amount("payment2", "p2", func(in *models.Input) any { return &in.Payment2 }),
	amount("payment3", "p3", func(in *models.Input) any { return &in.Payment3 }),
	amount("payment4", "p4", func(in *models.Input) any { return &in.Payment4 }),
	amount("payment5", "p5", func(in *models.Input) any { return &in.Payment5 }),
	amount("payment6", "p6", func(in *models.Input) any { return &in.Payment6 }),
	sitePrep("survey_and_permits", "sp_sv", func(in *models.Input) any { return &in.SitePrepCosts.SurveyAndPermits }),
	sitePrep("house_demolition_debris", "sp_dm", func(in *models.Input) any { return &in.SitePrepCosts.HouseDemolitionDebris }),
	sitePrep("tree_removal_fill_dirt", "sp_tr", func(in *models.Input) any { return &in.SitePrepCosts.TreeRemovalFillDirt }),
	sitePrep("clearing_grading", "sp_cg", func(in *models.Input) any { return &in.SitePrepCosts.ClearingGrading }),
	sitePrep("culvert_drainage_pipe", "sp_cv", func(in *models.Input) any { return &in.SitePrepCosts.CulvertDrainagePipe }),
	sitePrep("pad_prep", "sp_pp", func(in *models.Input) any { return &in.SitePrepCosts.PadPrep }),
	sitePrep("gravel_cement", "sp_gc", func(in *models.Input) any { return &in.SitePrepCosts.GravelCement }),
	sitePrep("gas_electric_tap", "sp_ge", func(in *models.Input) any { return &in.SitePrepCosts.GasElectricTap }),
	sitePrep("sewer_water_tap", "sp_sw", func(in *models.Input) any { return &in.SitePrepCosts.SewerWaterTap }),
	sitePrep("septic", "sp_sp", func(in *models.Input) any { return &in.SitePrepCosts.Septic }),
	sitePrep("retaining_wall", "sp_rw", func(in *models.Input) any { return &in.SitePrepCosts.RetainingWall }),
}

func text(name, key string, ref func(*models.Input) any) Field {
	return Field{Name: name, Key: key, Kind: KindString, ref: ref}
}

func amount(name, key string, ref func(*models.Input) any) Field {
	return Field{Name: name, Key: key, Kind: KindNumber, ref: ref}
}

func percent(name, key string, ref func(*models.Input) any) Field {
	return Field{Name: name, Key: key, Kind: KindNumber, Max: 100, ref: ref}
}

func sitePrep(name, key string, ref func(*models.Input) any) Field {
	return Field{Name: name, Key: key, Kind: KindNumber, SitePrep: true, ref: ref}
}

// Fields returns the descriptor of every Input field in a stable order
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Lookup finds a field by JSON name or short key
func Lookup(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name || f.Key == name {
			return f, true
		}
	}
	return Field{}, false
}

// Assign parses raw and stores it in the field if it satisfies the field's
// type and bounds. It reports whether the value was applied; on false the
// input is left untouched.
func (f Field) Assign(in *models.Input, raw any) bool {
	switch p := f.ref(in).(type) {
	case *string:
		s, ok := raw.(string)
		if !ok {
			return false
		}
		*p = s
	case *models.PricingMode:
		var mode models.PricingMode
		switch v := raw.(type) {
		case string:
			mode = models.PricingMode(v)
		case models.PricingMode:
			mode = v
		default:
			return false
		}
		if !mode.IsValid() {
			return false
		}
		*p = mode
	case *bool:
		b, ok := toBool(raw)
		if !ok {
			return false
		}
		*p = b
	case *int:
		v, ok := toNumber(raw)
		if !ok || v != math.Trunc(v) || v > maxUnits || !f.inRange(v) {
			return false
		}
		*p = int(v)
	case *float64:
		v, ok := toNumber(raw)
		if !ok || !f.inRange(v) {
			return false
		}
		*p = v
	default:
		return false
	}
	return true
}

// Value returns the field's current value
func (f Field) Value(in models.Input) any {
	switch p := f.ref(&in).(type) {
	case *string:
		return *p
	case *models.PricingMode:
		return *p
	case *bool:
		return *p
	case *int:
		return *p
	case *float64:
		return *p
	}
	return nil
}

// Format renders the field's value as plain text: shortest exact decimal for
// numbers, true/false for booleans, the member name for the pricing mode.
func (f Field) Format(in models.Input) string {
	switch p := f.ref(&in).(type) {
	case *string:
		return *p
	case *models.PricingMode:
		return string(*p)
	case *bool:
		return strconv.FormatBool(*p)
	case *int:
		return strconv.Itoa(*p)
	case *float64:
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return ""
}

// IsZero reports whether a numeric field holds exactly 0
func (f Field) IsZero(in models.Input) bool {
	switch p := f.ref(&in).(type) {
	case *float64:
		return *p == 0
	case *int:
		return *p == 0
	}
	return false
}

// Valid reports whether the field's current value satisfies its constraints
func (f Field) Valid(in models.Input) bool {
	switch p := f.ref(&in).(type) {
	case *models.PricingMode:
		return p.IsValid()
	case *int:
		return *p <= maxUnits && f.inRange(float64(*p))
	case *float64:
		return !math.IsNaN(*p) && !math.IsInf(*p, 0) && f.inRange(*p)
	}
	return true
}

// reset copies the field's value from src into dst
func (f Field) reset(dst *models.Input, src models.Input) {
	switch p := f.ref(dst).(type) {
	case *string:
		*p = *f.ref(&src).(*string)
	case *models.PricingMode:
		*p = *f.ref(&src).(*models.PricingMode)
	case *bool:
		*p = *f.ref(&src).(*bool)
	case *int:
		*p = *f.ref(&src).(*int)
	case *float64:
		*p = *f.ref(&src).(*float64)
	}
}

func (f Field) inRange(v float64) bool {
	if v < f.Min {
		return false
	}
	return f.Max == 0 || v <= f.Max
}

// toNumber accepts Go numeric types, json.Number and numeric strings.
// Empty strings, booleans, NaN and infinities are rejected.
func toNumber(raw any) (float64, bool) {
	var v float64
	switch r := raw.(type) {
	case nil, bool:
		return 0, false
	case string:
		s := strings.TrimSpace(r)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = parsed
	default:
		parsed, err := cast.ToFloat64E(raw)
		if err != nil {
			return 0, false
		}
		v = parsed
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toBool accepts a bool or one of the strconv.ParseBool tokens
func toBool(raw any) (bool, bool) {
	switch r := raw.(type) {
	case bool:
		return r, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(r))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}
