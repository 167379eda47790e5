package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/KaramelBytes/rxtrend/internal/logging"
	"github.com/KaramelBytes/rxtrend/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Rename maps one column code to its display label.
type Rename struct {
	Code  string `mapstructure:"code" yaml:"code"`
	Label string `mapstructure:"label" yaml:"label"`
}

// Global configuration structure.
type Global struct {
	Input     string `mapstructure:"input" yaml:"input,omitempty"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Charts
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// Column and geography names
	GeoLevelColumn string `mapstructure:"geo_level_column" yaml:"geo_level_column"`
	GeoDescColumn  string `mapstructure:"geo_desc_column" yaml:"geo_desc_column"`
	YearColumn     string `mapstructure:"year_column" yaml:"year_column"`
	RateColumn     string `mapstructure:"rate_column" yaml:"rate_column"`
	StateLevel     string `mapstructure:"state_level" yaml:"state_level"`
	TrendLevel     string `mapstructure:"trend_level" yaml:"trend_level"`

	DuplicatePolicy    string `mapstructure:"duplicate_policy" yaml:"duplicate_policy"`
	TopN               int    `mapstructure:"top_n" yaml:"top_n"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`

	// Renames is a list rather than a map: viper lowercases map keys.
	Renames []Rename `mapstructure:"renames" yaml:"renames"`
}

// Default returns the built-in configuration.
func Default() *Global {
	names := analysis.DefaultColumnNames()
	s := analysis.DefaultSettings()
	return &Global{
		OutputDir:       "charts",
		ChartFormat:     "png",
		ChartWidthIn:    10,
		ChartHeightIn:   8,
		LogLevel:        "info",
		LogFormat:       "text",
		GeoLevelColumn:  names.GeoLevel,
		GeoDescColumn:   names.GeoDesc,
		YearColumn:      names.Year,
		RateColumn:      names.Rate,
		StateLevel:      s.StateLevel,
		TrendLevel:      s.TrendLevel,
		DuplicatePolicy: string(s.Duplicates),
		TopN:            s.TopN,
		Renames:         DefaultRenames(),
	}
}

// DefaultRenames lists the built-in rename map ordered by code.
func DefaultRenames() []Rename {
	m := dataset.DefaultRenames()
	out := make([]Rename, 0, len(m))
	for code, label := range m {
		out = append(out, Rename{Code: code, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Path resolves the config file location. If cfgFile is empty it is
// ~/.rxtrend/config.yaml.
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".rxtrend", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path, creating the
// directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by callers) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RXTREND")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("input", "")
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("chart_format", d.ChartFormat)
	v.SetDefault("chart_width_in", d.ChartWidthIn)
	v.SetDefault("chart_height_in", d.ChartHeightIn)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("geo_level_column", d.GeoLevelColumn)
	v.SetDefault("geo_desc_column", d.GeoDescColumn)
	v.SetDefault("year_column", d.YearColumn)
	v.SetDefault("rate_column", d.RateColumn)
	v.SetDefault("state_level", d.StateLevel)
	v.SetDefault("trend_level", d.TrendLevel)
	v.SetDefault("duplicate_policy", d.DuplicatePolicy)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := Path("")
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Renames) == 0 {
		c.Renames = DefaultRenames()
	}
	return &c, nil
}

// Validate reports the first invalid setting.
func (c *Global) Validate() error {
	switch strings.ToLower(c.ChartFormat) {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("invalid chart_format: %s (use png|svg|pdf)", c.ChartFormat)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g in", c.ChartWidthIn, c.ChartHeightIn)
	}
	if c.TopN < 0 {
		return fmt.Errorf("invalid top_n: %d", c.TopN)
	}
	if _, err := analysis.ParseDuplicatePolicy(c.DuplicatePolicy); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.LoadOptions(); err != nil {
		return err
	}
	codes, labels := map[string]bool{}, map[string]string{}
	for _, r := range c.Renames {
		if r.Code == "" || r.Label == "" {
			return fmt.Errorf("rename entries need both code and label, got %q -> %q", r.Code, r.Label)
		}
		if codes[r.Code] {
			return fmt.Errorf("duplicate rename code: %s", r.Code)
		}
		if prev, ok := labels[r.Label]; ok {
			return fmt.Errorf("rename label %q used by both %s and %s", r.Label, prev, r.Code)
		}
		codes[r.Code] = true
		labels[r.Label] = r.Code
	}
	return nil
}

// RenameMap converts the rename list into a dataset rename map.
func (c *Global) RenameMap() dataset.RenameMap {
	m := make(dataset.RenameMap, len(c.Renames))
	for _, r := range c.Renames {
		m[r.Code] = r.Label
	}
	return m
}

// Settings builds the analysis settings described by c.
func (c *Global) Settings() (analysis.Settings, error) {
	policy, err := analysis.ParseDuplicatePolicy(c.DuplicatePolicy)
	if err != nil {
		return analysis.Settings{}, err
	}
	return analysis.Settings{
		Columns: analysis.ColumnNames{
			GeoLevel: c.GeoLevelColumn,
			GeoDesc:  c.GeoDescColumn,
			Year:     c.YearColumn,
			Rate:     c.RateColumn,
		},
		Renames:    c.RenameMap(),
		StateLevel: c.StateLevel,
		TrendLevel: c.TrendLevel,
		Duplicates: policy,
		TopN:       c.TopN,
	}, nil
}

// LoadOptions builds loader options from the separator settings.
func (c *Global) LoadOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	d, err := ParseDecimal(c.DecimalSeparator)
	if err != nil {
		return opt, err
	}
	if d != 0 {
		opt.DecimalSeparator = d
	}
	th, err := ParseThousands(c.ThousandsSeparator)
	if err != nil {
		return opt, err
	}
	opt.ThousandsSeparator = th
	return opt, nil
}

// ParseDecimal accepts '.', 'dot', ',' or 'comma'. Empty yields 0.
func ParseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", s)
	}
}

// ParseThousands accepts ',', '.', or 'space'. Empty yields 0 (none).
func ParseThousands(s string) (rune, error) {
	if s == " " {
		return ' ', nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space":
		return ' ', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported thousands separator: %s (use ','|'.'|'space')", s)
	}
}

// ParseDelimiter accepts ',', ';', '|' and tab. Empty yields 0 (chosen by extension).
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'|'|'tab')", s)
	}
}
