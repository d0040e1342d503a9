package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ecms-scraper/internal/config"
	"github.com/jonathan/ecms-scraper/internal/sources"
)

// newTestScrapeCmd binds the scrape flags to a fresh command and parses args.
func newTestScrapeCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "scrape"}
	addScrapeFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveScrapeConfig_Defaults(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	t.Setenv(config.EnvChromePath, "")

	cfg, err := resolveScrapeConfig(newTestScrapeCmd(t))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, year, cfg.StartYear)
	assert.Equal(t, year, cfg.EndYear)
	assert.Len(t, cfg.Sources, len(sources.All()))
	assert.Equal(t, []string{config.FormatCSV}, cfg.Formats)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.False(t, cfg.ShowBrowser)
}

func TestResolveScrapeConfig_Flags(t *testing.T) {
	cmd := newTestScrapeCmd(t,
		"--start-year", "2021",
		"--end-year", "2022",
		"--source", "Executed Legal Supplements",
		"--source", "Executed Legal Work Orders",
		"--format", "csv,json",
		"--out", "results",
		"--base-url", "https://ecms.example.com/ECMS/",
		"--show-browser",
		"--preview",
	)

	cfg, err := resolveScrapeConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 2021, cfg.StartYear)
	assert.Equal(t, 2022, cfg.EndYear)
	assert.Equal(t, []string{"Executed Legal Supplements", "Executed Legal Work Orders"}, cfg.Sources)
	assert.Equal(t, []string{"csv", "json"}, cfg.Formats)
	assert.Equal(t, "results", cfg.OutputDir)
	assert.Equal(t, "https://ecms.example.com/ECMS/", cfg.BaseURL)
	assert.True(t, cfg.ShowBrowser)
	assert.True(t, cfg.Preview)
}

func TestResolveScrapeConfig_EndYearOnly(t *testing.T) {
	cfg, err := resolveScrapeConfig(newTestScrapeCmd(t, "--end-year", "2021"))
	require.NoError(t, err)

	assert.Equal(t, 2021, cfg.StartYear)
	assert.Equal(t, 2021, cfg.EndYear)
}

func TestResolveScrapeConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"start_year": 2020, "end_year": 2021, "sources": ["Executed Legal Agreements"], "formats": ["json"]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := resolveScrapeConfig(newTestScrapeCmd(t, "--config", path, "--end-year", "2022"))
	require.NoError(t, err)

	assert.Equal(t, 2020, cfg.StartYear)
	assert.Equal(t, 2022, cfg.EndYear)
	assert.Equal(t, []string{"Executed Legal Agreements"}, cfg.Sources)
	assert.Equal(t, []string{"json"}, cfg.Formats)
}

func TestResolveScrapeConfig_EnvFillsBaseURL(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "https://mirror.example.com/ECMS/")

	cfg, err := resolveScrapeConfig(newTestScrapeCmd(t))
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.com/ECMS/", cfg.BaseURL)

	cfg, err = resolveScrapeConfig(newTestScrapeCmd(t, "--base-url", "https://flag.example.com/ECMS/"))
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com/ECMS/", cfg.BaseURL)
}

func TestResolveScrapeConfig_Errors(t *testing.T) {
	next := strconv.Itoa(time.Now().Year() + 1)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown source",
			args:    []string{"--source", "Executed Legal Leases"},
			wantErr: "config error",
		},
		{
			name:    "end before start",
			args:    []string{"--start-year", "2022", "--end-year", "2021"},
			wantErr: "config error",
		},
		{
			name:    "future end year",
			args:    []string{"--start-year", "2022", "--end-year", next},
			wantErr: "latest available year",
		},
		{
			name:    "unsupported format",
			args:    []string{"--format", "pdf"},
			wantErr: "config error",
		},
		{
			name:    "missing config file",
			args:    []string{"--config", "/nonexistent/config.json"},
			wantErr: "failed to load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveScrapeConfig(newTestScrapeCmd(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "550e8400", shortID("550e8400-e29b-41d4-a716-446655440000"))
	assert.Equal(t, "abc", shortID("abc"))
}
