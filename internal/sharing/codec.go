package sharing

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"proforma/internal/models"
	"proforma/internal/proforma"
)

// Keys from the older encoding. They are read on decode but never written.
const (
	LegacySitePrepKey = "prep"
	LegacySewerKey    = "sew"
	LegacyWaterKey    = "wat"
)

var ErrInvalidBaseURL = errors.New("invalid share base URL")

// Encode maps an input onto its short query keys. Site prep items are
// omitted when zero; every other field is always written.
func Encode(in models.Input) url.Values {
	params := url.Values{}
	for _, f := range proforma.Fields() {
		if f.SitePrep && f.IsZero(in) {
			continue
		}
		params.Set(f.Key, f.Format(in))
	}
	return params
}

// EncodeString returns the encoded input as a raw query string
func EncodeString(in models.Input) string {
	return Encode(in).Encode()
}

// Decode rebuilds an input from query params, starting from the example
// input. Numbers are read from the leading numeric text of a value, so
// "1800sqft" decodes as 1800. Values that are missing or fail to parse keep
// the example's value and unknown keys are ignored. Legacy keys are applied last and override the
// fields they fold into.
func Decode(params url.Values) models.Input {
	in := proforma.Example()
	for _, f := range proforma.Fields() {
		if !params.Has(f.Key) {
			continue
		}
		raw := params.Get(f.Key)
		switch f.Kind {
		case proforma.KindNumber, proforma.KindInteger:
			v, ok := leadingNumber(raw)
			if !ok {
				continue
			}
			f.Assign(&in, v)
		default:
			f.Assign(&in, raw)
		}
	}
	applyLegacy(&in, params)
	return in
}

// DecodeString decodes a raw query string, with or without its leading '?'.
// Malformed escapes are dropped rather than failing the whole string.
func DecodeString(raw string) models.Input {
	params, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(params)
}

// DecodeURL decodes the query part of a full share link
func DecodeURL(link string) (models.Input, error) {
	u, err := url.Parse(link)
	if err != nil {
		return models.Input{}, fmt.Errorf("failed to parse share link: %w", err)
	}
	return DecodeString(u.RawQuery), nil
}

// ShareURL returns base with its query replaced by the encoded input
func ShareURL(base string, in models.Input) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}
	u.RawQuery = EncodeString(in)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

func applyLegacy(in *models.Input, params url.Values) {
	if v, ok := legacyNumber(params, LegacySitePrepKey); ok && v > 0 {
		in.SitePrepCosts.ClearingGrading = v
	}

	if params.Has(LegacySewerKey) || params.Has(LegacyWaterKey) {
		sewer, _ := legacyNumber(params, LegacySewerKey)
		water, _ := legacyNumber(params, LegacyWaterKey)
		if sum := sewer + water; sum > 0 {
			in.SitePrepCosts.SewerWaterTap = sum
		}
	}
}

// legacyNumber parses a legacy amount; absent, malformed, non-finite or
// negative values report false
func legacyNumber(params url.Values, key string) (float64, bool) {
	if !params.Has(key) {
		return 0, false
	}
	v, ok := leadingNumber(params.Get(key))
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// leadingNumber parses the longest decimal prefix of s after leading
// whitespace. Text without one, and values that overflow, report false.
func leadingNumber(s string) (float64, bool) {
	m := numberPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
