package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the dashboard countries, their group and color",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "country\tgroup\tcolor")
		for _, c := range dataset.Countries {
			grp := "Core"
			if dataset.IsGIIPS(c) {
				grp = "GIIPS"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c, grp, dataset.CountryColors[c])
		}
		fmt.Fprintf(tw, "(GIIPS)\t\t%s\n", dataset.Colors.GIIPS)
		fmt.Fprintf(tw, "(Core)\t\t%s\n", dataset.Colors.Core)
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}
