package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/company-enricher/internal/schemas"
)

var enrichValidate bool

var enrichCmd = &cobra.Command{
	Use:   "enrich <url>",
	Short: "Enrich a single website and print the record",
	Long:  "Runs the enrichment pipeline once for the given URL and prints the record as indented JSON.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrich,
}

func init() {
	enrichCmd.Flags().BoolVar(&enrichValidate, "validate", false, "Validate the record against the enrichment record JSON Schema")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	record, err := a.service.Enrich(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	if enrichValidate {
		if err := schemas.ValidateRecord(record); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
