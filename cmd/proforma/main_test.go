package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"proforma/internal/models"
	"proforma/internal/proforma"
	"proforma/internal/sharing"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCalc_Summary(t *testing.T) {
	out, _, err := run(t, "calc", "--example")
	require.NoError(t, err)

	assert.Contains(t, out, "123 Main st")
	assert.Contains(t, out, "NO Deal (14.98%)")
	assert.Contains(t, out, "$1,949,400.00")
	assert.Contains(t, out, "$1,444,000.00")
}

func TestCalc_JSON(t *testing.T) {
	out, _, err := run(t, "calc", "--example", "--json")
	require.NoError(t, err)

	var result models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, proforma.Calculate(proforma.Example()), result)
}

func TestCalc_Set(t *testing.T) {
	out, _, err := run(t, "calc", "--example", "--json",
		"--set", "sale_price_per_sq_ft=$400",
		"--set", "septic=4,500",
		"--set", "pm=total",
		"--set", "esp=$2,700,000")
	require.NoError(t, err)

	var result models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 400.0, result.Input.SalePricePerSqFt)
	assert.Equal(t, 4500.0, result.Input.SitePrepCosts.Septic)
	assert.Equal(t, models.PricingTotal, result.Input.PricingMode)
	assert.Equal(t, 2700000.0, result.Derived.ARV)
	assert.Equal(t, 4500.0, result.Derived.SitePrepTotal)
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "Unknown field", args: []string{"calc", "--set", "pool=1"}, message: `unknown field "pool"`},
		{name: "Missing equals", args: []string{"calc", "--set", "land"}, message: "expected name=value"},
		{name: "Fractional unit count", args: []string{"calc", "--set", "how_many_build=2.5"}, message: "invalid value"},
		{name: "Bad pricing mode", args: []string{"calc", "--set", "pricing_mode=perAcre"}, message: "invalid value"},
		{name: "Conflicting sources", args: []string{"calc", "--example", "--query", "qty=2"}, message: errConflictingSources.Error()},
		{name: "Missing file", args: []string{"calc", "--file", "/does/not/exist.yaml"}, message: "failed to read input file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestCalc_YAMLFile(t *testing.T) {
	path := writeFile(t, "deal.yaml", `
property_address: 9 Elm St
how_many_build: 2
proposed_sq_ft: 2000
build_cost_per_sq_ft: 150
sale_price_per_sq_ft: 300
cost_of_land: 100000
loan_points_rate: oops
site_prep_costs:
  clearing_grading: 5000
  septic: 2500
`)

	out, errOut, err := run(t, "calc", "--file", path, "--json")
	require.NoError(t, err)

	var result models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "9 Elm St", result.Input.PropertyAddress)
	assert.Equal(t, 1200000.0, result.Derived.ARV)
	assert.Equal(t, 7500.0, result.Derived.SitePrepTotal)
	assert.Equal(t, 0.0, result.Input.LoanPointsRate)
	assert.Contains(t, errOut, "Replaced invalid input fields with defaults")
}

func TestCalc_JSONFile(t *testing.T) {
	raw, err := json.Marshal(proforma.Example())
	require.NoError(t, err)
	path := writeFile(t, "deal.json", string(raw))

	out, _, err := run(t, "calc", "--file", path, "--json")
	require.NoError(t, err)

	var result models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, proforma.Example(), result.Input)
}

func TestAutofill(t *testing.T) {
	out, _, err := run(t, "autofill", "--example", "--json")
	require.NoError(t, err)

	var resp struct {
		Payments models.Payments `json:"payments"`
		Total    float64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, proforma.EstimateInterestPayments(proforma.Example()), resp.Payments)
	assert.InDelta(t, 59565, resp.Total, 1e-6)

	out, _, err = run(t, "autofill", "--example")
	require.NoError(t, err)
	assert.Contains(t, out, "Month 1")
	assert.Contains(t, out, "$5,956.50")
	assert.Contains(t, out, "$59,565.00")
}

func TestAutofill_Apply(t *testing.T) {
	out, _, err := run(t, "autofill", "--example", "--apply")
	require.NoError(t, err)

	in := sharing.DecodeString(strings.TrimSpace(out))
	assert.Equal(t, proforma.EstimateInterestPayments(proforma.Example()), in.Payments())
	assert.Equal(t, proforma.Example().CostOfLand, in.CostOfLand)
}

func TestEncodeDecode(t *testing.T) {
	out, _, err := run(t, "encode", "--example", "--set", "qty=4", "--base", "https://proforma.example.com/")
	require.NoError(t, err)
	link := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(link, "https://proforma.example.com/?"))

	out, _, err = run(t, "decode", link, "--json")
	require.NoError(t, err)
	var in models.Input
	require.NoError(t, json.Unmarshal([]byte(out), &in))

	expected := proforma.Example()
	expected.HowManyBuild = 4
	assert.Equal(t, expected, in)
}

func TestEncode_InvalidBase(t *testing.T) {
	_, _, err := run(t, "encode", "--base", "/relative")
	assert.ErrorIs(t, err, sharing.ErrInvalidBaseURL)
}

func TestDecode_YAML(t *testing.T) {
	out, _, err := run(t, "decode", "qty=7&addr=9%20Elm%20St")
	require.NoError(t, err)

	assert.Contains(t, out, "how_many_build: 7")
	assert.Contains(t, out, "property_address: 9 Elm St")
	assert.Contains(t, out, "pricing_mode: perSqFt")

	// the output is itself a valid input file
	path := writeFile(t, "decoded.yaml", out)
	out, _, err = run(t, "encode", "--file", path)
	require.NoError(t, err)
	decoded := sharing.DecodeString(strings.TrimSpace(out))
	assert.Equal(t, 7, decoded.HowManyBuild)
	assert.Equal(t, "9 Elm St", decoded.PropertyAddress)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedOut []string
		expectedErr string
	}{
		{
			name:        "Valid file",
			content:     "how_many_build: 2\ncost_of_land: 90000\npricing_mode: total\n",
			expectedOut: []string{"ok"},
		},
		{
			name: "Out of range fields",
			content: `
how_many_build: 0
interest_rate: 150
site_prep_costs:
  septic: -5
`,
			expectedOut: []string{
				"invalid value for how_many_build: 0",
				"invalid value for interest_rate: 150",
				"invalid value for septic: -5",
			},
			expectedErr: "3 invalid field(s)",
		},
		{
			name:        "Wrong type",
			content:     "cost_of_land: plenty\n",
			expectedErr: "failed to parse input file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "deal.yaml", tt.content)

			out, _, err := run(t, "validate", "--file", path)
			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
			for _, line := range tt.expectedOut {
				assert.Contains(t, out, line)
			}
		})
	}
}

func TestValidate_JSON(t *testing.T) {
	path := writeFile(t, "deal.yaml", "pricing_mode: weekly\n")

	out, _, err := run(t, "validate", "--file", path, "--json")
	require.Error(t, err)

	var errs []proforma.FieldError
	require.NoError(t, json.Unmarshal([]byte(out), &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "pricing_mode", errs[0].Field)
	assert.Equal(t, "weekly", errs[0].Value)
}

func TestValidate_Fix(t *testing.T) {
	path := writeFile(t, "deal.yaml", "how_many_build: 0\ncost_of_land: 90000\nloan_points_rate: 101\n")

	out, _, err := run(t, "validate", "--file", path, "--fix")
	require.NoError(t, err)
	assert.Contains(t, out, "how_many_build: 1")
	assert.Contains(t, out, "cost_of_land: 90000")

	// the fixed output passes validation
	fixed := writeFile(t, "fixed.yaml", out)
	out, _, err = run(t, "validate", "--file", fixed)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestValidate_RequiresFile(t *testing.T) {
	_, _, err := run(t, "validate", "--example")
	assert.ErrorIs(t, err, errFileRequired)
}

func TestDecode_RequiresArgument(t *testing.T) {
	_, _, err := run(t, "decode")
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	out, _, err := run(t, "report", "--example")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Proforma: 123 Main st"))
	assert.Contains(t, out, "http://localhost:5173/?")

	path := filepath.Join(t.TempDir(), "report.html")
	_, _, err = run(t, "report", "--example", "--html", "-o", path)
	require.NoError(t, err)
	page, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.xlsx")

	_, _, err := run(t, "export", "--example", "-o", path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "123 Main st", title)
}
