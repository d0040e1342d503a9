package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ecms-scraper/internal/config"
	"github.com/jonathan/ecms-scraper/internal/export"
	"github.com/jonathan/ecms-scraper/internal/observability"
	"github.com/jonathan/ecms-scraper/internal/scraper"
	"github.com/jonathan/ecms-scraper/internal/sources"
	"github.com/jonathan/ecms-scraper/internal/types"
)

// previewRows is the number of records shown per source with --preview.
const previewRows = 10

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape executed agreements for a range of years",
	Long: `Establishes a guest session, then walks each selected search source page by page, keeping rows executed within [start-year, end-year] and extracting one record per detail page.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runScrape,
}

var (
	scrapeConfigPath  string
	scrapeStartYear   int
	scrapeEndYear     int
	scrapeSources     []string
	scrapeOutputDir   string
	scrapeFormats     []string
	scrapePreview     bool
	scrapeShowBrowser bool
	scrapeChromePath  string
	scrapeBaseURL     string
	scrapeVerbose     bool
)

func init() {
	addScrapeFlags(scrapeCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func addScrapeFlags(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&scrapeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	cmd.Flags().IntVar(&scrapeStartYear, "start-year", 0, "First execution year to keep (defaults to the current year)")
	cmd.Flags().IntVar(&scrapeEndYear, "end-year", 0, "Last execution year to keep (defaults to the current year)")
	cmd.Flags().StringArrayVarP(&scrapeSources, "source", "s", nil, "Source display name, repeatable (defaults to all sources; see 'sources')")
	cmd.Flags().StringVarP(&scrapeOutputDir, "out", "o", "", "Directory for exported files (defaults to the working directory)")
	cmd.Flags().StringSliceVarP(&scrapeFormats, "format", "f", nil, "Export formats: csv, json, xlsx (defaults to csv)")
	cmd.Flags().BoolVar(&scrapePreview, "preview", false, "Print a table preview of each source")
	cmd.Flags().BoolVar(&scrapeShowBrowser, "show-browser", false, "Run Chrome with a visible window")
	cmd.Flags().StringVar(&scrapeChromePath, "chrome-path", "", "Chrome executable (optional, defaults to CHROME_PATH env var)")
	cmd.Flags().StringVar(&scrapeBaseURL, "base-url", "", "ECMS portal root (optional, defaults to ECMS_BASE_URL env var)")
	cmd.Flags().BoolVarP(&scrapeVerbose, "verbose", "v", false, "Print detailed debug information")
}

// resolveScrapeConfig layers flags over the config file over environment over defaults, then validates.
func resolveScrapeConfig(cmd *cobra.Command) (*config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if scrapeConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scrapeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("start-year") {
		cfg.StartYear = scrapeStartYear
	}
	if cmd.Flags().Changed("end-year") {
		cfg.EndYear = scrapeEndYear
	}
	if cmd.Flags().Changed("source") {
		cfg.Sources = scrapeSources
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = scrapeOutputDir
	}
	if cmd.Flags().Changed("format") {
		cfg.Formats = scrapeFormats
	}
	if cmd.Flags().Changed("preview") {
		cfg.Preview = scrapePreview
	}
	if cmd.Flags().Changed("show-browser") {
		cfg.ShowBrowser = scrapeShowBrowser
	}
	if cmd.Flags().Changed("chrome-path") {
		cfg.ChromePath = scrapeChromePath
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = scrapeBaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scrapeVerbose
	}

	// Step 3: Environment fills what neither flags nor file set
	cfg.ApplyEnv()

	// Step 4: Apply defaults for unset values
	year := time.Now().Year()
	defaults := config.Config{
		StartYear: year,
		EndYear:   year,
		OutputDir: ".",
		Formats:   []string{config.FormatCSV},
	}
	for _, s := range sources.All() {
		defaults.Sources = append(defaults.Sources, string(s))
	}
	if cfg.EndYear != 0 {
		defaults.StartYear = cfg.EndYear
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 5: Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveScrapeConfig(cmd)
	if err != nil {
		return err
	}
	srcs, err := cfg.ResolveSources()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.New()
	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintRunPlan(runID.String(), cfg.StartYear, cfg.EndYear, srcs)
	}

	opts := cfg.ScraperOptions()
	opts.RunID = runID
	opts.OnProgress = printProgress

	tables, runErr := scraper.Run(ctx, cfg.StartYear, cfg.EndYear, srcs, opts, cfg.BrowserOptions())
	var scrapeErr *scraper.Error
	if runErr != nil && (errors.As(runErr, &scrapeErr) || len(tables) == 0) {
		return fmt.Errorf("scrape failed: %w", runErr)
	}
	if runErr != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: run stopped early, exporting partial results: %v\n", runErr)
	}

	if err := exportTables(cfg, runID, tables, printer); err != nil {
		return err
	}
	return runErr
}

func exportTables(cfg *config.Config, runID uuid.UUID, tables []types.ResultTable, printer *observability.Printer) error {
	for i := range tables {
		if cfg.Preview {
			export.RenderPreview(os.Stdout, tables[i], previewRows)
		}
		if cfg.Verbose {
			printer.PrintResultTable(&tables[i])
		}
	}

	run := export.Run{ID: runID, StartYear: cfg.StartYear, EndYear: cfg.EndYear}
	written, err := export.WriteFiles(cfg.OutputDir, run, tables, cfg.OutputFormats())
	for _, path := range written {
		fmt.Printf("Wrote %s\n", path)
	}
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	printer.PrintRunSummary(tables)
	return nil
}

func printProgress(event scraper.ProgressEvent) {
	switch {
	case event.Source == "":
		fmt.Printf("[%s] %s\n", shortID(event.RunID), event.Message)
	case event.Page > 0:
		fmt.Printf("[%s] %s page %d/%d: %s (%d records)\n",
			shortID(event.RunID), event.Source, event.Page, event.TotalPages, event.Message, event.Records)
	default:
		fmt.Printf("[%s] %s: %s\n", shortID(event.RunID), event.Source, event.Message)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
