package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/spreaddash-cli/internal/regression"
	"github.com/KaramelBytes/spreaddash-cli/internal/store"
	"github.com/KaramelBytes/spreaddash-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	regModels   []string
	regVars     []string
	regSEType   string
	regDecimals int
	regShowCI   bool
	regXLSX     string
)

var regtableCmd = &cobra.Command{
	Use:   "regtable",
	Short: "Render regression coefficients as a table",
	Example: `  spreaddash regtable
  spreaddash regtable --models m1,m2 --vars debt_gdp,giips --ci
  spreaddash regtable --se-type hc1 --decimals 3 --xlsx out/table.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RegressionCSV == "" {
			return fmt.Errorf("no regression source configured (set regression_csv or pass --regression)")
		}
		s, err := loadStore(cmd.Context(), store.Sources{Regression: cfg.RegressionCSV})
		if err != nil {
			return err
		}

		opt := regression.TableOptions{
			Models:    regModels,
			Variables: regVars,
			SEType:    cfg.SEType,
			Decimals:  cfg.Decimals,
			ShowCI:    regShowCI,
		}
		if cmd.Flags().Changed("se-type") {
			opt.SEType = regSEType
		}
		if cmd.Flags().Changed("decimals") {
			opt.Decimals = regDecimals
		}
		if opt.Decimals < 1 || opt.Decimals > 10 {
			return fmt.Errorf("invalid --decimals %d (use 1 to 10)", opt.Decimals)
		}
		tbl, err := regression.BuildTable(s.Coefficients.Get(), opt)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), tbl.Markdown())

		if regXLSX != "" {
			var buf bytes.Buffer
			if err := tbl.WriteXLSX(&buf); err != nil {
				return fmt.Errorf("build workbook: %w", err)
			}
			if err := utils.SafeWriteFile(regXLSX, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", regXLSX)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(regtableCmd)
	f := regtableCmd.Flags()
	f.StringSliceVar(&regModels, "models", nil, "models to show as columns (default: all, in file order)")
	f.StringSliceVar(&regVars, "vars", nil, "variables to show as rows (default: all, in file order)")
	f.StringVar(&regSEType, "se-type", regression.DefaultSEType, "standard error type to display (overrides config)")
	f.IntVar(&regDecimals, "decimals", 2, "decimal places (overrides config)")
	f.BoolVar(&regShowCI, "ci", false, "include 95% confidence intervals")
	f.StringVar(&regXLSX, "xlsx", "", "also write the table to an Excel workbook")
}
