package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ecms-scraper/internal/schemas"
	rootschemas "github.com/jonathan/ecms-scraper/schemas"
)

var validateOutputCmd = &cobra.Command{
	Use:   "validate-output",
	Short: "Validate a JSON export against the records schema",
	Long:  "Validates a JSON export written by 'scrape --format json' against schemas/records.schema.json. The embedded copy of the schema is used when --schema is not given and the file cannot be found.",
	RunE:  runValidateOutput,
}

var (
	validateOutputJSON   string
	validateOutputSchema string
)

func init() {
	validateOutputCmd.Flags().StringVarP(&validateOutputJSON, "json", "j", "", "Path to JSON export file (required)")
	validateOutputCmd.Flags().StringVar(&validateOutputSchema, "schema", "", "Path to schema file (optional)")

	if err := validateOutputCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateOutputCmd)
}

func runValidateOutput(_ *cobra.Command, _ []string) error {
	if err := validateOutput(validateOutputSchema, validateOutputJSON); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			_, _ = fmt.Fprintf(os.Stderr, "Validation failed:\n%v\n", err)
			os.Exit(1)
		}
		return err
	}

	fmt.Println("Validation passed")
	return nil
}

// validateOutput checks jsonPath against schemaPath, the schema on disk or the embedded schema, in that order.
func validateOutput(schemaPath, jsonPath string) error {
	if schemaPath == "" {
		schemaPath = schemas.ResolveSchemaPath(rootschemas.RecordsSchemaFile)
	}
	if schemaPath != "" {
		return schemas.ValidateJSON(schemaPath, jsonPath)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return schemas.ValidateExport(data)
}
