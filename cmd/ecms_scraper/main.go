// Package main provides the entry point for the ECMS agreement scraper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ecms_scraper",
	Short: "PennDOT ECMS executed agreement scraper",
	Long:  "ecms_scraper signs in to the PennDOT ECMS portal as a guest, walks the executed agreement searches for a range of years and exports one table per search.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
