// Package resolve runs the enrichment pipeline once from the command line:
// search, select the top candidate, resolve the parent and print or write
// the JSON-LD document.
package resolve

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/entity"
	"github.com/semantika/orgforge/internal/export"
	"github.com/semantika/orgforge/internal/jsonld"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/resolver"
	"github.com/semantika/orgforge/internal/sirene"
	"github.com/semantika/orgforge/internal/wikidata"
)

// Command creates the resolve command.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		useAssistant bool
		outputPath   string
		asSnippet    bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <organization>",
		Short: "Resolve an organization and emit its JSON-LD document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), settings, args[0], useAssistant, outputPath, asSnippet)
		},
	}

	cmd.Flags().BoolVar(&useAssistant, "assistant", false, "Invoke the Mistral fallback when claims yield no parent")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&asSnippet, "snippet", false, "Emit the page-embed snippet instead of the bare document")

	return cmd
}

func runResolve(ctx context.Context, settings *conf.Settings, query string, useAssistant bool, outputPath string, asSnippet bool) error {
	if err := conf.ValidateSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	kb := wikidata.NewClient(wikidata.ConfigFromSettings(settings))
	defer kb.Close()
	registry := sirene.NewClient(sirene.ConfigFromSettings(settings))
	defer registry.Close()
	assistant := mistral.NewClient(mistral.ConfigFromSettings(settings))
	defer assistant.Close()
	parentResolver := resolver.New(kb, registry, assistant)
	defer parentResolver.Close()

	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	record := entity.NewRecord()

	hits := kb.Search(runCtx, query)
	if len(hits) == 0 {
		// No knowledge-base candidate; fall back to the registry alone.
		companies := registry.Search(runCtx, query)
		if len(companies) == 0 {
			return fmt.Errorf("no results for %q in knowledge base or registry", query)
		}
		record.ApplyRegistry(companies[0])
		fmt.Fprintf(os.Stderr, "registry: %s (%s)\n", record.Name, record.SIREN)
	} else {
		hit := hits[0]
		record.ApplyWikidata(hit.QID, hit.Label, kb.GetEntity(runCtx, hit.QID))
		fmt.Fprintf(os.Stderr, "knowledge base: %s (%s)\n", record.Name, record.QID)

		if record.SIREN == "" {
			if companies := registry.Search(runCtx, record.Name); len(companies) > 0 {
				record.ApplyRegistry(companies[0])
			}
		}
	}

	resolveErr := parentResolver.Resolve(runCtx, record)
	if resolveErr == nil && !record.HasParent() && useAssistant {
		resolveErr = parentResolver.ResolveWithAssistant(runCtx, record)
	}
	if resolveErr != nil {
		return fmt.Errorf("parent resolution: %w", resolveErr)
	}

	if record.HasParent() {
		fmt.Fprintf(os.Stderr, "parent: %s [%s] (%s)\n",
			record.ParentOrgName, record.ParentOrgQID, record.ParentOrgSource)
	} else {
		fmt.Fprintln(os.Stderr, "parent: none found")
	}
	fmt.Fprintf(os.Stderr, "score: %d%%\n", record.Score())

	doc := jsonld.Build(record, &entity.SocialLinks{})

	var data []byte
	var err error
	if asSnippet {
		data, err = export.Snippet(doc)
	} else {
		data, err = export.JSONLD(doc)
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outputPath)
		return nil
	}

	fmt.Println(string(data))
	return nil
}
