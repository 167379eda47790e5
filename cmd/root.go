package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	cfgpkg "github.com/KaramelBytes/rxtrend/internal/config"
	"github.com/KaramelBytes/rxtrend/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "rxtrend",
	Short: "rxtrend: correlation, ranking and trend charts for opioid prescribing data",
	Long: `rxtrend loads a tabular dataset of opioid prescribing statistics (CSV, TSV or XLSX),
renames coded columns to readable labels and derives three views: a correlation
matrix across numeric columns, a state ranking by prescribing rate and a yearly
national trend. Each view is rendered as a chart, a terminal table and optionally
an XLSX workbook and Markdown report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rxtrend/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	format := cfg.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	if _, err := logging.Setup(os.Stderr, level, format); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
}

// currentConfig returns the loaded configuration, or defaults if none was loaded.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}
