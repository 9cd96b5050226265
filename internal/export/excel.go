package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"proforma/internal/models"
	"proforma/internal/proforma"
)

const (
	SummarySheet = "Summary"
	InputsSheet  = "Inputs"

	currencyFormat = `"$"#,##0.00`
	percentFormat  = 10 // built-in 0.00%
)

type summaryRow struct {
	label   string
	value   float64
	percent bool
}

// Workbook builds an xlsx file with a Summary sheet of derived figures and an
// Inputs sheet listing every field with its share key.
func Workbook(r models.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(InputsSheet); err != nil {
		return nil, fmt.Errorf("create inputs sheet: %w", err)
	}

	if err := writeSummary(f, r); err != nil {
		return nil, err
	}
	if err := writeInputs(f, r.Input); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, r models.Result) error {
	in, d := r.Input, r.Derived
	sheet := SummarySheet

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return fmt.Errorf("set col width B: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	format := currencyFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format, Border: thinBorders()})
	if err != nil {
		return fmt.Errorf("create currency style: %w", err)
	}
	pctStyle, err := f.NewStyle(&excelize.Style{NumFmt: percentFormat, Border: thinBorders()})
	if err != nil {
		return fmt.Errorf("create percent style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return fmt.Errorf("create label style: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}

	w := &sheetWriter{f: f, sheet: sheet}
	w.value("A1", sanitizeExcelCell(title(in)))
	w.style("A1", "B1", titleStyle)
	w.value("A2", "Deal")
	w.value("B2", d.DealTier.Label())

	w.value("A4", "Metric")
	w.value("B4", "Value")
	w.style("A4", "B4", headerStyle)

	rows := []summaryRow{
		{label: "After repair value", value: d.ARV},
		{label: "Sale price per sq ft", value: d.EffectiveSalePricePerSqFt},
		{label: "Total build cost", value: d.TotalBuildCost},
		{label: "Site prep", value: d.SitePrepTotal},
		{label: "Extra expenses", value: d.ExtraExpensesTotal},
		{label: "Closing cost", value: d.EffectiveClosingCost},
		{label: "Loan base", value: d.LoanBase},
		{label: "Loan points", value: d.TotalPoints},
		{label: "Interest payments", value: d.TotalInterestPayments},
		{label: "Commission", value: d.RealEstateCommissionAmount},
		{label: "Total profit", value: d.TotalProfit},
		{label: "Profit percentage", value: d.ProfitPercentage, percent: true},
	}
	row := 5
	for _, sr := range rows {
		style := moneyStyle
		if sr.percent {
			style = pctStyle
		}
		w.labelled(row, sr.label, sr.value, labelStyle, style)
		row++
	}

	// interest schedule
	row++
	w.value(cell("A", row), "Payment")
	w.value(cell("B", row), "Amount")
	w.style(cell("A", row), cell("B", row), headerStyle)
	row++
	for i, p := range in.Payments() {
		w.labelled(row, fmt.Sprintf("Month %d", i+1), p, labelStyle, moneyStyle)
		row++
	}
	if w.err != nil {
		return fmt.Errorf("write summary sheet: %w", w.err)
	}
	return nil
}

func writeInputs(f *excelize.File, in models.Input) error {
	sheet := InputsSheet
	for col, width := range map[string]float64{"A": 32, "B": 10, "C": 24} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	w := &sheetWriter{f: f, sheet: sheet}
	w.value("A1", "Field")
	w.value("B1", "Key")
	w.value("C1", "Value")
	w.style("A1", "C1", headerStyle)

	row := 2
	for _, field := range proforma.Fields() {
		w.value(cell("A", row), field.Name)
		w.value(cell("B", row), field.Key)
		switch v := field.Value(in).(type) {
		case string:
			w.value(cell("C", row), sanitizeExcelCell(v))
		case models.PricingMode:
			w.value(cell("C", row), string(v))
		default:
			w.value(cell("C", row), v)
		}
		row++
	}
	if w.err != nil {
		return fmt.Errorf("write inputs sheet: %w", w.err)
	}
	return nil
}

// sheetWriter sets cells on one sheet and keeps the first error. Once a
// write fails the remaining calls are no-ops.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) value(ref string, v any) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellValue(w.sheet, ref, v); err != nil {
		w.err = fmt.Errorf("set %s: %w", ref, err)
	}
}

func (w *sheetWriter) style(from, to string, id int) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(w.sheet, from, to, id); err != nil {
		w.err = fmt.Errorf("style %s:%s: %w", from, to, err)
	}
}

// labelled writes a label in column A and its value in column B
func (w *sheetWriter) labelled(row int, label string, v any, labelStyle, valueStyle int) {
	w.value(cell("A", row), label)
	w.style(cell("A", row), cell("A", row), labelStyle)
	w.value(cell("B", row), v)
	w.style(cell("B", row), cell("B", row), valueStyle)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// sanitizeExcelCell prefixes formula-leading characters with a quote so user
// text is never evaluated by a spreadsheet.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
