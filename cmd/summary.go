package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/group"
	"github.com/KaramelBytes/spreaddash-cli/internal/regression"
	"github.com/KaramelBytes/spreaddash-cli/internal/stats"
	"github.com/spf13/cobra"
)

var (
	summaryIndicator string
	summaryBy        string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load the datasets and summarize an indicator by group",
	Example: `  spreaddash summary
  spreaddash summary --indicator debt_gdp --by country
  spreaddash summary --master https://example.org/master_dataset.csv --by period`,
	RunE: func(cmd *cobra.Command, args []string) error {
		field, err := dataset.IndicatorFunc(summaryIndicator)
		if err != nil {
			return err
		}
		switch summaryBy {
		case "country_group", "country", "period":
		default:
			return fmt.Errorf("invalid --by %q (use country_group, country or period)", summaryBy)
		}

		s, err := loadStore(cmd.Context(), allSources())
		if err != nil {
			return err
		}
		master := s.Master.Get()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Session %s\n", s.SessionID)
		fmt.Fprintf(out, "master rows: %d\n", len(master))
		fmt.Fprintf(out, "spread rows: %d\n", len(s.Spreads.Get()))
		fmt.Fprintf(out, "coefficients: %d\n\n", len(s.Coefficients.Get()))

		groups := group.By(master, func(r dataset.MasterRow) any {
			v, _ := r.Text(summaryBy)
			if v == "" {
				return nil
			}
			return v
		})
		fmt.Fprintf(out, "%s by %s\n", summaryIndicator, summaryBy)
		writeSummaryTable(out, summaryBy, groups, field)
		return nil
	},
}

func writeSummaryTable(out io.Writer, by string, groups *group.Groups[dataset.MasterRow], field func(dataset.MasterRow) float64) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tn\tmean\tstd\tmin\tmax\n", by)
	groups.Each(func(key string, rows []dataset.MasterRow) bool {
		d := stats.Describe(stats.Column(rows, field))
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", key, d.N,
			fmtStat(d.Mean), fmtStat(d.Std), fmtStat(d.Min), fmtStat(d.Max))
		return true
	})
	_ = tw.Flush()
}

func fmtStat(v float64) string {
	return regression.FmtCoefN(v, 2)
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryIndicator, "indicator", "spread_bps", "numeric master column to summarize")
	summaryCmd.Flags().StringVar(&summaryBy, "by", "country_group", "grouping column: country_group, country or period")
}
