package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/semantika/orgforge/cmd/resolve"
	"github.com/semantika/orgforge/cmd/serve"
	"github.com/semantika/orgforge/cmd/validate"
	"github.com/semantika/orgforge/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orgforge",
		Short: "Organization profile enrichment and schema.org JSON-LD export",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		serve.Command(settings),
		resolve.Command(settings),
		validate.Command(settings),
	)

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Mistral.APIKey, "mistral-key", viper.GetString("mistral.apikey"), "Mistral API key for assistant enrichment")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
