// Package validate checks a saved configuration snapshot against the
// local schema.org validation rules.
package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/export"
	"github.com/semantika/orgforge/internal/jsonld"
)

// Command creates the validate command.
func Command(_ *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.json>",
		Short: "Validate a saved configuration snapshot",
		Long:  "Rebuild the JSON-LD document from a saved snapshot and report validation errors and warnings.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	record, links, err := export.LoadSnapshot(data)
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	findings := jsonld.Validate(jsonld.Build(record, links))
	if len(findings) == 0 {
		fmt.Println("document is valid, no findings")
		return nil
	}

	for _, f := range findings {
		fmt.Printf("%-7s %-12s %s\n", f.Severity, f.Key, f.Message)
	}

	if errs := jsonld.Errors(findings); len(errs) > 0 {
		return fmt.Errorf("%d validation error(s)", len(errs))
	}
	return nil
}
