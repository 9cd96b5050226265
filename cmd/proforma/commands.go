package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"proforma/config"
	"proforma/internal/export"
	"proforma/internal/formatting"
	"proforma/internal/models"
	"proforma/internal/proforma"
	"proforma/internal/sharing"
)

const defaultShareBase = "http://localhost:5173/"

type app struct {
	input    inputOptions
	asJSON   bool
	logLevel string
	logger   *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "proforma",
		Short:         "Residential development proforma calculator",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = config.LoggingConfig{Level: a.logLevel, Format: "text"}.NewLogger(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.input.query, "query", "q", "", "share link or raw query string to decode")
	flags.StringVarP(&a.input.file, "file", "f", "", "YAML or JSON input file")
	flags.BoolVar(&a.input.example, "example", false, "start from the worked example")
	flags.StringArrayVar(&a.input.sets, "set", nil, "override a field, e.g. --set cost_of_land=$250,000")
	flags.BoolVar(&a.asJSON, "json", false, "print JSON output")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		a.calcCmd(),
		a.autofillCmd(),
		a.encodeCmd(),
		a.decodeCmd(),
		a.validateCmd(),
		a.reportCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Calculate derived values and the deal tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			result := proforma.Calculate(in)
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeSummary(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) autofillCmd() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "autofill",
		Short: "Estimate the six construction interest payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			payments := proforma.EstimateInterestPayments(in)
			a.logger.WithFields(logrus.Fields{
				"loan_base": proforma.EstimatedLoanBase(in),
				"total":     payments.Sum(),
			}).Debug("Estimated interest payments")

			if apply {
				in.ApplyPayments(payments)
				fmt.Fprintln(cmd.OutOrStdout(), sharing.EncodeString(in))
				return nil
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"payments": payments,
					"total":    payments.Sum(),
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, p := range payments {
				fmt.Fprintf(w, "Month %d\t%s\n", i+1, formatting.Currency(p))
			}
			fmt.Fprintf(w, "Total\t%s\n", formatting.Currency(payments.Sum()))
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "print the input query with the estimate applied")
	return cmd
}

func (a *app) encodeCmd() *cobra.Command {
	var base string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode the input as a share query or link",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			if base == "" {
				fmt.Fprintln(cmd.OutOrStdout(), sharing.EncodeString(in))
				return nil
			}
			link, err := sharing.ShareURL(base, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "base URL to build a full share link on")
	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <link-or-query>",
		Short: "Decode a share link into an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.input.query = args[0]
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), in)
			}
			return writeYAML(cmd.OutOrStdout(), in)
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	var fix bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a typed input file against the field constraints",
		Long: "Reads --file without coercion and lists every field outside its bounds.\n" +
			"With --fix the input is printed with those fields reset to their defaults.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.input.file == "" {
				return errFileRequired
			}
			in, err := readTypedInputFile(a.input.file)
			if err != nil {
				return err
			}

			errs := proforma.Validate(in)
			if fix {
				if len(errs) > 0 {
					a.logger.WithField("fields", len(errs)).Warn("Reset invalid fields to defaults")
				}
				return writeYAML(cmd.OutOrStdout(), proforma.Normalize(in))
			}
			if a.asJSON {
				if errs == nil {
					errs = []proforma.FieldError{}
				}
				if err := writeJSON(cmd.OutOrStdout(), errs); err != nil {
					return err
				}
			} else {
				for _, e := range errs {
					fmt.Fprintln(cmd.OutOrStdout(), e.Error())
				}
			}
			if len(errs) > 0 {
				return fmt.Errorf("%s: %d invalid field(s)", a.input.file, len(errs))
			}
			if !a.asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "print the input with invalid fields reset")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var (
		asHTML bool
		out    string
		base   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a markdown or HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			result := proforma.Calculate(in)

			link, err := sharing.ShareURL(base, in)
			if err != nil {
				a.logger.WithError(err).Warn("Failed to build share URL for report")
				link = ""
			}

			var data []byte
			if asHTML {
				if data, err = export.HTML(result, link); err != nil {
					return err
				}
			} else {
				data = []byte(export.Markdown(result, link))
			}
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render HTML instead of markdown")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&base, "base", defaultShareBase, "base URL for the share link")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input.load(a.logger)
			if err != nil {
				return err
			}
			data, err := export.Workbook(proforma.Calculate(in))
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), out, data); err != nil {
				return err
			}
			a.logger.WithField("path", out).Info("Workbook written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "proforma.xlsx", "output path")
	return cmd
}

func writeSummary(out io.Writer, r models.Result) error {
	in, d := r.Input, r.Derived
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	address := in.PropertyAddress
	if address == "" {
		address = "-"
	}
	rows := [][2]string{
		{"Property", address},
		{"Deal", fmt.Sprintf("%s (%s)", d.DealTier.Label(), formatting.Percent(d.ProfitPercentage, 2))},
		{"Homes", strconv.Itoa(in.HowManyBuild) + " x " + formatting.Number(in.ProposedSqFt, 0) + " sq ft"},
		{"After repair value", formatting.Currency(d.ARV)},
		{"Sale price per sq ft", formatting.Currency(d.EffectiveSalePricePerSqFt)},
		{"Total build cost", formatting.Currency(d.TotalBuildCost)},
		{"Site prep + extras", formatting.Currency(d.SitePrepAndExtrasTotal)},
		{"Closing cost", formatting.Currency(d.EffectiveClosingCost)},
		{"Loan base", formatting.Currency(d.LoanBase)},
		{"Loan points", formatting.Currency(d.TotalPoints)},
		{"Interest payments", formatting.Currency(d.TotalInterestPayments)},
		{"Commission", formatting.Currency(d.RealEstateCommissionAmount)},
		{"Total profit", formatting.Currency(d.TotalProfit)},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1])
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// writeOutput writes to path, or to out when path is empty or "-"
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
