// Package export renders a calculated proforma as a markdown summary, an
// HTML report or an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"proforma/internal/formatting"
	"proforma/internal/models"
)

const untitled = "Untitled property"

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"\n", " ",
	"\r", " ",
)

// Markdown renders a result as a GFM summary. shareURL is linked when non-empty.
func Markdown(r models.Result, shareURL string) string {
	in, d := r.Input, r.Derived
	var b strings.Builder

	fmt.Fprintf(&b, "# Proforma: %s\n\n", escape(title(in)))
	fmt.Fprintf(&b, "**%s** (%s profit)\n\n", d.DealTier.Label(), formatting.Percent(d.ProfitPercentage, 2))
	if shareURL != "" {
		fmt.Fprintf(&b, "[Open this proforma](<%s>)\n\n", shareURL)
	}

	b.WriteString("## Property\n\n")
	table(&b, "Field", "Value", [][2]string{
		{"Lot size", escape(in.LotSize)},
		{"Zoning", escape(in.LotZoning)},
		{"Homes to build", strconv.Itoa(in.HowManyBuild)},
		{"Sq ft per home", formatting.Number(in.ProposedSqFt, 0)},
		{"Total sq ft", formatting.Number(in.TotalSqFt(), 0)},
		{"Pricing", in.PricingMode.Label()},
	})

	b.WriteString("## Key figures\n\n")
	table(&b, "Metric", "Value", [][2]string{
		{"After repair value", formatting.Currency(d.ARV)},
		{"Sale price per sq ft", formatting.Currency(d.EffectiveSalePricePerSqFt)},
		{"Build cost per sq ft", formatting.Currency(in.BuildCostPerSqFt)},
		{"Loan base", formatting.Currency(d.LoanBase)},
		{"Total profit", formatting.Currency(d.TotalProfit)},
		{"Profit percentage", formatting.Percent(d.ProfitPercentage, 2)},
	})

	b.WriteString("## Costs\n\n")
	table(&b, "Item", "Amount", [][2]string{
		{"Cost of land", formatting.Currency(in.CostOfLand)},
		{"Total build cost", formatting.Currency(d.TotalBuildCost)},
		{"Site prep", formatting.Currency(d.SitePrepTotal)},
		{"Extra expenses", formatting.Currency(d.ExtraExpensesTotal)},
		{"Closing cost", closingLabel(in, d)},
		{"Loan points (" + formatting.Number(in.LoanPointsRate, 2) + "%)", formatting.Currency(d.TotalPoints)},
		{"Interest payments", formatting.Currency(d.TotalInterestPayments)},
		{"Commission (" + formatting.Number(in.RealEstateCommissionRate, 2) + "%)", formatting.Currency(d.RealEstateCommissionAmount)},
	})

	if rows := nonZero(in.SitePrepCosts.Items()); len(rows) > 0 {
		b.WriteString("## Site prep\n\n")
		table(&b, "Item", "Amount", rows)
	}
	if rows := nonZero(in.ExtraExpenses()); len(rows) > 0 {
		b.WriteString("## Extra expenses\n\n")
		table(&b, "Item", "Amount", rows)
	}

	b.WriteString("## Interest payments\n\n")
	payments := make([][2]string, 0, len(in.Payments())+1)
	for i, p := range in.Payments() {
		payments = append(payments, [2]string{"Month " + strconv.Itoa(i+1), formatting.Currency(p)})
	}
	payments = append(payments, [2]string{"**Total**", "**" + formatting.Currency(d.TotalInterestPayments) + "**"})
	table(&b, "Payment", "Amount", payments)

	return b.String()
}

// HTML renders the markdown summary as a standalone HTML page
func HTML(r models.Result, shareURL string) ([]byte, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(Markdown(r, shareURL)), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!doctype html><html><head><meta charset='utf-8'>")
	page.WriteString("<title>Proforma: " + html.EscapeString(title(r.Input)) + "</title>")
	page.WriteString("<style>" +
		"body{font-family:system-ui,sans-serif;max-width:860px;margin:2rem auto;padding:0 1rem;color:#1c1917;} " +
		"table{width:100%;border-collapse:collapse;margin-bottom:1.5rem;} " +
		"th,td{border:1px solid #d6d3d1;padding:0.35rem 0.5rem;text-align:left;} " +
		"thead th{background:#f5f5f4;} " +
		"td:last-child{text-align:right;font-variant-numeric:tabular-nums;} " +
		".deal-great h1+p{color:#15803d;} .deal-good h1+p{color:#a16207;} .deal-none h1+p{color:#b91c1c;} " +
		"</style></head>")
	page.WriteString("<body class='deal-" + tierClass(r.Derived.DealTier) + "'>")
	page.Write(content.Bytes())
	page.WriteString("</body></html>")
	return page.Bytes(), nil
}

func table(b *strings.Builder, left, right string, rows [][2]string) {
	fmt.Fprintf(b, "| %s | %s |\n| --- | ---: |\n", left, right)
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", row[0], row[1])
	}
	b.WriteString("\n")
}

func nonZero(items []models.LineItem) [][2]string {
	var rows [][2]string
	for _, item := range items {
		if item.Amount == 0 {
			continue
		}
		rows = append(rows, [2]string{item.Label, formatting.Currency(item.Amount)})
	}
	return rows
}

func closingLabel(in models.Input, d models.Derived) string {
	if in.AutoCalculateClosingCost {
		return formatting.Currency(d.EffectiveClosingCost) + " (auto)"
	}
	return formatting.Currency(d.EffectiveClosingCost)
}

func title(in models.Input) string {
	if addr := strings.TrimSpace(in.PropertyAddress); addr != "" {
		return addr
	}
	return untitled
}

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func tierClass(t models.DealTier) string {
	switch t {
	case models.DealGreat:
		return "great"
	case models.DealGood:
		return "good"
	default:
		return "none"
	}
}
