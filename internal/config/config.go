// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ecms-scraper/internal/browser"
	"github.com/jonathan/ecms-scraper/internal/scraper"
	"github.com/jonathan/ecms-scraper/internal/sources"
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL    = "ECMS_BASE_URL"
	EnvChromePath = "CHROME_PATH"
)

// MinYear is the earliest execution year the portal publishes.
const MinYear = 2000

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Run
	StartYear int      `json:"start_year,omitempty" validate:"required"`
	EndYear   int      `json:"end_year,omitempty" validate:"required,gtefield=StartYear"`
	Sources   []string `json:"sources,omitempty" validate:"required,min=1,dive,ecms_source"`

	// Portal and browser
	BaseURL     string `json:"base_url,omitempty" validate:"omitempty,url"`
	ChromePath  string `json:"chrome_path,omitempty"`
	ShowBrowser bool   `json:"show_browser,omitempty"` // Run Chrome with a visible window

	// Waits and pauses, in milliseconds. Zero keeps the default.
	LinkTimeoutMs    int `json:"link_timeout_ms,omitempty" validate:"gte=0"`
	DialogTimeoutMs  int `json:"dialog_timeout_ms,omitempty" validate:"gte=0"`
	RowTimeoutMs     int `json:"row_timeout_ms,omitempty" validate:"gte=0"`
	SearchDelayMs    int `json:"search_delay_ms,omitempty" validate:"gte=0"`
	DetailDelayMs    int `json:"detail_delay_ms,omitempty" validate:"gte=0"`
	BackDelayMs      int `json:"back_delay_ms,omitempty" validate:"gte=0"`
	NextPageDelayMs  int `json:"next_page_delay_ms,omitempty" validate:"gte=0"`
	PopupDelayMs     int `json:"popup_delay_ms,omitempty" validate:"gte=0"`
	BootstrapDelayMs int `json:"bootstrap_delay_ms,omitempty" validate:"gte=0"`

	// Output
	OutputDir string   `json:"output_dir,omitempty"`
	Formats   []string `json:"formats,omitempty" validate:"dive,oneof=csv json xlsx"`
	Preview   bool     `json:"preview,omitempty"` // Print a table preview per source
	Verbose   bool     `json:"verbose,omitempty"` // Print detailed debug information
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("ecms_source", func(fl validator.FieldLevel) bool {
		_, ok := sources.Lookup(fl.Field().String())
		return ok
	}); err != nil {
		panic(fmt.Sprintf("failed to register ecms_source validation: %v", err))
	}
	return v
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills BaseURL and ChromePath from the environment when unset.
func (c *Config) ApplyEnv() {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.ChromePath == "" {
		c.ChromePath = os.Getenv(EnvChromePath)
	}
}

// Validate checks that the configuration has valid values. It should run
// after flags and file values are merged.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %s", describeValidationError(err))
	}

	if c.StartYear < MinYear {
		return fmt.Errorf("config error: 'StartYear' must be at least %d", MinYear)
	}

	if current := time.Now().Year(); c.EndYear > current {
		return fmt.Errorf("config error: 'end_year' %d is after the latest available year %d", c.EndYear, current)
	}

	return nil
}

// describeValidationError turns the first validator failure into a readable message.
func describeValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err.Error()
	}

	ve := validationErrors[0]
	switch ve.Tag() {
	case "required", "min":
		return fmt.Sprintf("'%s' is required", ve.Field())
	case "gte":
		return fmt.Sprintf("'%s' must be at least %s", ve.Field(), ve.Param())
	case "gtefield":
		return fmt.Sprintf("'%s' must not be before '%s'", ve.Field(), ve.Param())
	case "ecms_source":
		return fmt.Sprintf("unknown source %q", ve.Value())
	case "oneof":
		return fmt.Sprintf("unsupported format %q (want one of: %s)", ve.Value(), ve.Param())
	case "url":
		return fmt.Sprintf("'%s' must be a URL", ve.Field())
	default:
		return fmt.Sprintf("%s - %s", ve.Field(), ve.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.StartYear == 0 {
		result.StartYear = defaults.StartYear
	}
	if result.EndYear == 0 {
		result.EndYear = defaults.EndYear
	}
	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if len(result.Formats) == 0 {
		result.Formats = defaults.Formats
	}

	mergeInt(&result.LinkTimeoutMs, defaults.LinkTimeoutMs)
	mergeInt(&result.DialogTimeoutMs, defaults.DialogTimeoutMs)
	mergeInt(&result.RowTimeoutMs, defaults.RowTimeoutMs)
	mergeInt(&result.SearchDelayMs, defaults.SearchDelayMs)
	mergeInt(&result.DetailDelayMs, defaults.DetailDelayMs)
	mergeInt(&result.BackDelayMs, defaults.BackDelayMs)
	mergeInt(&result.NextPageDelayMs, defaults.NextPageDelayMs)
	mergeInt(&result.PopupDelayMs, defaults.PopupDelayMs)
	mergeInt(&result.BootstrapDelayMs, defaults.BootstrapDelayMs)

	// Bool fields: cannot distinguish unset from false, so either side enables them
	result.ShowBrowser = result.ShowBrowser || defaults.ShowBrowser
	result.Preview = result.Preview || defaults.Preview
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func mergeInt(dst *int, fallback int) {
	if *dst == 0 {
		*dst = fallback
	}
}

// ResolveSources maps configured names to sources, preserving order and dropping duplicates.
func (c *Config) ResolveSources() ([]sources.Source, error) {
	seen := make(map[sources.Source]bool, len(c.Sources))
	out := make([]sources.Source, 0, len(c.Sources))
	for _, name := range c.Sources {
		s, ok := sources.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// OutputFormats returns the configured formats, defaulting to CSV.
func (c *Config) OutputFormats() []string {
	if len(c.Formats) == 0 {
		return []string{FormatCSV}
	}
	return c.Formats
}

// BrowserOptions converts the config into browser session options.
func (c *Config) BrowserOptions() *browser.Options {
	opts := browser.DefaultOptions()
	if c.BaseURL != "" {
		opts.BaseURL = c.BaseURL
	}
	opts.ExecPath = c.ChromePath
	opts.Headless = !c.ShowBrowser
	opts.Verbose = c.Verbose
	setDuration(&opts.LinkTimeout, c.LinkTimeoutMs)
	setDuration(&opts.DialogTimeout, c.DialogTimeoutMs)
	setDuration(&opts.RowTimeout, c.RowTimeoutMs)
	setDuration(&opts.PopupPause, c.PopupDelayMs)
	setDuration(&opts.BootstrapPause, c.BootstrapDelayMs)
	return opts
}

// ScraperOptions converts the config into run options. OnProgress and RunID are left for the caller.
func (c *Config) ScraperOptions() *scraper.Options {
	delays := scraper.DefaultDelays()
	setDuration(&delays.Search, c.SearchDelayMs)
	setDuration(&delays.Detail, c.DetailDelayMs)
	setDuration(&delays.Back, c.BackDelayMs)
	setDuration(&delays.NextPage, c.NextPageDelayMs)

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = sources.DefaultBaseURL
	}
	return &scraper.Options{
		BaseURL: baseURL,
		Delays:  delays,
		Verbose: c.Verbose,
	}
}

func setDuration(dst *time.Duration, ms int) {
	if ms > 0 {
		*dst = time.Duration(ms) * time.Millisecond
	}
}
