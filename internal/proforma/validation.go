package proforma

import (
	"fmt"

	"proforma/internal/models"
)

// SitePrepKey is the JSON object holding the site prep line items
const SitePrepKey = "site_prep_costs"

// FieldError reports a field whose value violates its constraints
type FieldError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Value)
}

// Coerce builds a fully valid Input from a loosely-typed mapping such as a
// decoded JSON or YAML document. Any field that is missing, wrong-typed or
// out of range keeps its blank default. Site prep items are read from the
// nested site_prep_costs object.
func Coerce(raw map[string]any) models.Input {
	in, _ := CoerceWithReport(raw)
	return in
}

// CoerceWithReport is Coerce that also returns the names of the fields that
// were present but rejected.
func CoerceWithReport(raw map[string]any) (models.Input, []string) {
	in := Blank()
	var rejected []string

	nested := nestedMap(raw[SitePrepKey])
	for _, f := range fields {
		src := raw
		if f.SitePrep {
			src = nested
		}
		v, ok := src[f.Name]
		if !ok {
			continue
		}
		if !f.Assign(&in, v) {
			rejected = append(rejected, f.Name)
		}
	}
	return in, rejected
}

// Validate returns one FieldError per field that violates its constraints
func Validate(in models.Input) []FieldError {
	var errs []FieldError
	for _, f := range fields {
		if !f.Valid(in) {
			errs = append(errs, FieldError{Field: f.Name, Value: f.Value(in)})
		}
	}
	return errs
}

// Normalize replaces every invalid field with its blank default
func Normalize(in models.Input) models.Input {
	blank := Blank()
	for _, f := range fields {
		if !f.Valid(in) {
			f.reset(&in, blank)
		}
	}
	return in
}

func nestedMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if s, ok := k.(string); ok {
				out[s] = val
			}
		}
		return out
	}
	return nil
}
