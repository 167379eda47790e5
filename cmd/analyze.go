package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	anaFlags  runFlags
	anaReport string
	anaXLSX   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the correlation, state ranking and trend analysis on one dataset",
	Long: `Run the full analysis on a CSV/TSV/XLSX dataset: rename columns, compute the
correlation matrix, rank states by prescribing rate and pivot the yearly trend.
Charts are written to the output directory; the input file defaults to the
config key "input".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := currentConfig().Input
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return errors.New("no input file: pass <file> or set config key input")
		}
		plan, err := anaFlags.plan(cmd.Flags())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		res, err := plan.execute(cmd.Context(), out, path, plan.outDir, false)
		if err != nil {
			return err
		}
		if anaReport != "" {
			if err := writeReport(anaReport, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote report to %s\n", anaReport)
		}
		if anaXLSX != "" {
			if err := writeWorkbook(anaXLSX, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote workbook to %s\n", anaXLSX)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVar(&anaReport, "report", "", "optional path to write the analysis report (Markdown)")
	analyzeCmd.Flags().StringVar(&anaXLSX, "xlsx", "", "optional path to export the derived views as an XLSX workbook")
}
