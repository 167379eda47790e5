package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/chart"
	cfgpkg "github.com/KaramelBytes/rxtrend/internal/config"
	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/KaramelBytes/rxtrend/internal/render"
	"github.com/KaramelBytes/rxtrend/internal/utils"
	"github.com/spf13/pflag"
)

// loadFlags select how an input file is read.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
}

func (f *loadFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (by extension if omitted)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (overrides config)")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (overrides config)")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&f.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// apply copies changed separator flags into c.
func (f *loadFlags) apply(fs *pflag.FlagSet, c *cfgpkg.Global) {
	if fs.Changed("decimal") {
		c.DecimalSeparator = f.decimal
	}
	if fs.Changed("thousands") {
		c.ThousandsSeparator = f.thousands
	}
}

// options builds loader options from c and the delimiter and sheet flags.
func (f *loadFlags) options(c *cfgpkg.Global) (dataset.Options, error) {
	opt, err := c.LoadOptions()
	if err != nil {
		return opt, err
	}
	if opt.Delimiter, err = cfgpkg.ParseDelimiter(f.delimiter); err != nil {
		return opt, err
	}
	opt.SheetName = f.sheetName
	opt.SheetIndex = f.sheetIndex
	return opt, nil
}

// runFlags are the analysis flags shared by analyze and analyze-batch.
type runFlags struct {
	loadFlags
	outputDir  string
	format     string
	top        int
	stateLevel string
	trendLevel string
	trendDescs []string
	duplicates string
	noCharts   bool
}

func (f *runFlags) register(fs *pflag.FlagSet) {
	f.loadFlags.register(fs)
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for charts (overrides config output_dir)")
	fs.StringVar(&f.format, "format", "", "chart format: png|svg|pdf (overrides config)")
	fs.IntVar(&f.top, "top", 0, "number of states to show in tables and reports (0 = all; overrides config top_n)")
	fs.StringVar(&f.stateLevel, "state-level", "", "geography level used for the ranking (overrides config)")
	fs.StringVar(&f.trendLevel, "trend-level", "", "geography level used for the trend (overrides config)")
	fs.StringSliceVar(&f.trendDescs, "trend-desc", nil, "limit the trend to these geographies (repeatable)")
	fs.StringVar(&f.duplicates, "duplicates", "", "duplicate (year, geography) policy: last|mean (overrides config)")
	fs.BoolVar(&f.noCharts, "no-charts", false, "skip chart rendering")
}

// runPlan is a validated configuration for one or more analysis runs.
type runPlan struct {
	settings analysis.Settings
	load     dataset.Options
	chart    chart.Options
	outDir   string
	noCharts bool
}

// plan merges flags over the loaded configuration and validates the result.
func (f *runFlags) plan(fs *pflag.FlagSet) (*runPlan, error) {
	c := *currentConfig()
	if fs.Changed("output-dir") {
		c.OutputDir = f.outputDir
	}
	if fs.Changed("format") {
		c.ChartFormat = f.format
	}
	f.apply(fs, &c)
	if fs.Changed("top") {
		c.TopN = f.top
	}
	if fs.Changed("state-level") {
		c.StateLevel = f.stateLevel
	}
	if fs.Changed("trend-level") {
		c.TrendLevel = f.trendLevel
	}
	if fs.Changed("duplicates") {
		c.DuplicatePolicy = f.duplicates
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s, err := c.Settings()
	if err != nil {
		return nil, err
	}
	s.TrendDescs = f.trendDescs
	opt, err := f.options(&c)
	if err != nil {
		return nil, err
	}
	return &runPlan{
		settings: s,
		load:     opt,
		chart:    chart.InchOptions(c.ChartWidthIn, c.ChartHeightIn, c.ChartFormat),
		outDir:   c.OutputDir,
		noCharts: f.noCharts,
	}, nil
}

// execute runs the pipeline on path, prints the views to w and writes the
// charts into outDir. Nothing is written if the pipeline fails.
func (p *runPlan) execute(ctx context.Context, w io.Writer, path, outDir string, quiet bool) (*analysis.Result, error) {
	res, err := analysis.RunFile(ctx, path, p.load, p.settings)
	if err != nil {
		return nil, err
	}
	rep := res.Report()
	if !quiet {
		render.Correlations(w, res.RateColumn(), rep.RateCorr)
		render.States(w, p.settings.StateLevel, res.States, res.Cols, p.settings.TopN)
		render.Pivot(w, p.settings.TrendLevel+" trend", res.Pivot)
		for _, warn := range rep.Warnings {
			fmt.Fprintf(w, "⚠ %s\n", warn)
		}
	}
	if p.noCharts {
		return res, nil
	}
	paths, err := chart.RenderAll(res, outDir, p.chart)
	if err != nil {
		return nil, err
	}
	for _, c := range paths {
		slog.Debug("chart written", "run_id", res.RunID, "path", c)
		if !quiet {
			fmt.Fprintf(w, "✓ Wrote chart %s\n", c)
		}
	}
	return res, nil
}

// writeReport saves the Markdown report of res to path.
func writeReport(path string, res *analysis.Result) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := utils.SafeWriteFile(path, []byte(res.Report().Markdown())); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// writeWorkbook saves the XLSX export of res to path.
func writeWorkbook(path string, res *analysis.Result) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return fmt.Errorf("workbook path must end in .xlsx: %s", path)
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create workbook dir: %w", err)
	}
	return render.WriteWorkbook(path, res)
}
