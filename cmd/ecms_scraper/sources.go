package main

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonathan/ecms-scraper/internal/export"
	"github.com/jonathan/ecms-scraper/internal/sources"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the ECMS search sources that can be scraped",
	Run: func(_ *cobra.Command, _ []string) {
		printSources(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func printSources(w io.Writer) {
	t := export.NewTable(w)
	t.AppendHeader(table.Row{"Source", "Search", "Agreement Label", "Cost Label", "Extra Columns", "Description"})
	for _, s := range sources.All() {
		cfg := s.Config()
		var extra []string
		if cfg.HasSupplement {
			extra = append(extra, "Supplement No.")
		}
		if cfg.HasWorkOrder {
			extra = append(extra, "Work Order No.")
		}
		if cfg.HasAmendment {
			extra = append(extra, "Amendment No.")
		}
		t.AppendRow(table.Row{s, cfg.URLSuffix, cfg.AgreementLabel, cfg.CostLabel, strings.Join(extra, ", "), cfg.Description})
	}
	t.Render()
}
