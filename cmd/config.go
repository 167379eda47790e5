package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/rxtrend/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set rxtrend configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		out := cmd.OutOrStdout()
		if c.Input != "" {
			fmt.Fprintf(out, "input: %s\n", c.Input)
		}
		fmt.Fprintf(out, "output_dir: %s\n", c.OutputDir)
		fmt.Fprintf(out, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(out, "chart_width_in: %g\n", c.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %g\n", c.ChartHeightIn)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", c.LogFormat)
		fmt.Fprintf(out, "geo_level_column: %s\n", c.GeoLevelColumn)
		fmt.Fprintf(out, "geo_desc_column: %s\n", c.GeoDescColumn)
		fmt.Fprintf(out, "year_column: %s\n", c.YearColumn)
		fmt.Fprintf(out, "rate_column: %s\n", c.RateColumn)
		fmt.Fprintf(out, "state_level: %s\n", c.StateLevel)
		fmt.Fprintf(out, "trend_level: %s\n", c.TrendLevel)
		fmt.Fprintf(out, "duplicate_policy: %s\n", c.DuplicatePolicy)
		fmt.Fprintf(out, "top_n: %d\n", c.TopN)
		if c.DecimalSeparator != "" {
			fmt.Fprintf(out, "decimal_separator: %q\n", c.DecimalSeparator)
		}
		if c.ThousandsSeparator != "" {
			fmt.Fprintf(out, "thousands_separator: %q\n", c.ThousandsSeparator)
		}
		fmt.Fprintln(out, "renames:")
		for _, r := range c.Renames {
			fmt.Fprintf(out, "  %s: %s\n", r.Code, r.Label)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk. Use "rename <Code>=<Label>" to add or
replace a column rename, or "rename <Code>=" to remove one.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c := *currentConfig()
		switch key {
		case "input":
			c.Input = val
		case "output_dir":
			c.OutputDir = val
		case "chart_format":
			c.ChartFormat = strings.ToLower(val)
		case "chart_width_in", "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "chart_width_in" {
				c.ChartWidthIn = f
			} else {
				c.ChartHeightIn = f
			}
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		case "log_format":
			switch strings.ToLower(val) {
			case "text", "json":
				c.LogFormat = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		case "geo_level_column":
			c.GeoLevelColumn = val
		case "geo_desc_column":
			c.GeoDescColumn = val
		case "year_column":
			c.YearColumn = val
		case "rate_column":
			c.RateColumn = val
		case "state_level":
			c.StateLevel = val
		case "trend_level":
			c.TrendLevel = val
		case "duplicate_policy":
			c.DuplicatePolicy = strings.ToLower(val)
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for top_n: %w", err)
			}
			c.TopN = i
		case "decimal_separator":
			c.DecimalSeparator = val
		case "thousands_separator":
			c.ThousandsSeparator = val
		case "rename":
			code, label, ok := strings.Cut(val, "=")
			if !ok || strings.TrimSpace(code) == "" {
				return fmt.Errorf("invalid rename: %s (use Code=Label)", val)
			}
			c.Renames = setRename(c.Renames, strings.TrimSpace(code), strings.TrimSpace(label))
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(&c, cfgFile); err != nil {
			return err
		}
		cfg = &c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

// setRename replaces or appends code's label; an empty label removes it.
func setRename(rs []cfgpkg.Rename, code, label string) []cfgpkg.Rename {
	out := make([]cfgpkg.Rename, 0, len(rs)+1)
	found := false
	for _, r := range rs {
		if r.Code != code {
			out = append(out, r)
			continue
		}
		found = true
		if label != "" {
			out = append(out, cfgpkg.Rename{Code: code, Label: label})
		}
	}
	if !found && label != "" {
		out = append(out, cfgpkg.Rename{Code: code, Label: label})
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
