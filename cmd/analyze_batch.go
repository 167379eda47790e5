package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/rxtrend/internal/utils"
	"github.com/spf13/cobra"
)

var (
	abFlags runFlags
	abXLSX  bool
	abQuiet bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files, each into its own output sub-directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return errors.New("no input files matched")
		}
		sort.Strings(files)

		plan, err := abFlags.plan(cmd.Flags())
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(plan.outDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			base := filepath.Join(plan.outDir, utils.SafeName(utils.BaseName(path), "dataset"))
			dir := utils.UniquePath(base)
			if dir != base && !abQuiet {
				fmt.Fprintf(out, "⚠ Output directory exists, writing to %s to avoid overwrite.\n", filepath.Base(dir))
			}
			res, err := plan.execute(cmd.Context(), out, path, dir, abQuiet)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := writeReport(filepath.Join(dir, "report.md"), res); err != nil {
				return err
			}
			if abXLSX {
				if err := writeWorkbook(filepath.Join(dir, "views.xlsx"), res); err != nil {
					return err
				}
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", dir)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().BoolVar(&abXLSX, "xlsx", false, "also export each run as views.xlsx")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
