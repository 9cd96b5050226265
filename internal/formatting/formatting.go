// Package formatting renders proforma values in fixed USD style.
package formatting

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const maxDecimals = 6

// Currency formats a value as US dollars with cents, e.g. "$1,234,567.89"
// or "-$12.50".
func Currency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	if math.Abs(v) < 0.005 {
		return "$0.00"
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Percent formats a fraction as a percentage, e.g. 0.1575 with 2 decimals
// is "15.75%".
func Percent(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	return Number(v*100, decimals) + "%"
}

// Number formats a value with thousands separators and a fixed number of decimals
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	decimals = max(0, min(decimals, maxDecimals))
	pattern := "#,###." + strings.Repeat("#", decimals)
	if math.Abs(v) < 0.5*math.Pow10(-decimals) {
		v = 0
	}
	return humanize.FormatFloat(pattern, v)
}

// ParseAmount reads user-typed amounts such as "$1,234.56", "15%" or
// " 2 500 ". Unparseable text yields 0.
func ParseAmount(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', ',', '%', ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
