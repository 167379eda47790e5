package cmd

import (
	"fmt"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/chart"
	"github.com/KaramelBytes/rxtrend/internal/render"
	"github.com/spf13/cobra"
)

var (
	trLoad      loadFlags
	trLevel     string
	trDescs     []string
	trOutputDir string
	trNoChart   bool
)

var trendCmd = &cobra.Command{
	Use:   "trend <file>",
	Short: "Chart the yearly prescribing rate of selected geographies",
	Long: `Pivot the prescribing rate by year for one geography level, optionally
limited to a few geographies, e.g.:

  rxtrend trend opioids.csv --level State --desc Ohio --desc Texas

Without --level the configured trend_level is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *currentConfig()
		if cmd.Flags().Changed("output-dir") {
			c.OutputDir = trOutputDir
		}
		if cmd.Flags().Changed("level") {
			c.TrendLevel = trLevel
		}
		trLoad.apply(cmd.Flags(), &c)
		if err := c.Validate(); err != nil {
			return err
		}
		s, err := c.Settings()
		if err != nil {
			return err
		}
		s.TrendDescs = trDescs
		opt, err := trLoad.options(&c)
		if err != nil {
			return err
		}
		res, err := analysis.RunFile(cmd.Context(), args[0], opt, s)
		if err != nil {
			return err
		}
		level := s.TrendLevel
		out := cmd.OutOrStdout()
		render.Pivot(out, level+" trend", res.Pivot)
		if res.Pivot.Len() == 0 {
			fmt.Fprintf(out, "⚠ no rows matched level %q\n", level)
		}
		if trNoChart {
			return nil
		}
		p, err := chart.TrendLines(res.Pivot, chart.TrendTitle(level))
		if err != nil {
			return err
		}
		path, err := chart.Save(p, c.OutputDir, chart.TrendFile(level), chart.InchOptions(c.ChartWidthIn, c.ChartHeightIn, c.ChartFormat))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote chart %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendCmd)
	trLoad.register(trendCmd.Flags())
	trendCmd.Flags().StringVar(&trLevel, "level", "", "geography level to pivot (default: config trend_level)")
	trendCmd.Flags().StringSliceVar(&trDescs, "desc", nil, "geographies to include (repeatable; all if omitted)")
	trendCmd.Flags().StringVarP(&trOutputDir, "output-dir", "o", "", "directory for the chart (overrides config output_dir)")
	trendCmd.Flags().BoolVar(&trNoChart, "no-chart", false, "print the table only")
}
