package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HatiCode/wastepredict/pkg/stats"
)

func newStatsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print summary statistics of a generated dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := opts.generate()
			if err != nil {
				return err
			}
			s, err := stats.Summarize(ds)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "records\t%d\n", s.TotalRecords)
			fmt.Fprintf(tw, "time span\t%s\n", s.TimeSpan)
			fmt.Fprintf(tw, "avg waste\t%.1f t\n", s.AvgWaste)
			fmt.Fprintf(tw, "min waste\t%.1f t\n", s.MinWaste)
			fmt.Fprintf(tw, "max waste\t%.1f t\n", s.MaxWaste)
			fmt.Fprintf(tw, "waste range\t%.1f t\n", s.WasteRange)
			fmt.Fprintf(tw, "avg population\t%.0f\n", s.AvgPopulation)
			fmt.Fprintf(tw, "avg income\t%.0f\n", s.AvgIncome)
			fmt.Fprintf(tw, "avg rainfall\t%.1f mm\n", s.AvgRainfall)
			fmt.Fprintf(tw, "avg temperature\t%.1f C\n", s.AvgTemperature)
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newCorrelateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "correlate",
		Short: "Print each feature's correlation with waste, strongest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := opts.generate()
			if err != nil {
				return err
			}
			c, err := stats.Correlate(ds)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FEATURE\tR")
			for _, coef := range c.Sorted() {
				fmt.Fprintf(tw, "%s\t%+.3f\n", coef.Feature, coef.R)
			}
			return tw.Flush()
		},
	}
}
