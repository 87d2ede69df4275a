// Package serve starts the HTTP API server.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/semantika/orgforge/internal/api"
	"github.com/semantika/orgforge/internal/conf"
	"github.com/semantika/orgforge/internal/mistral"
	"github.com/semantika/orgforge/internal/resolver"
	"github.com/semantika/orgforge/internal/session"
	"github.com/semantika/orgforge/internal/sirene"
	"github.com/semantika/orgforge/internal/wikidata"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the profiling API server",
		Long:  "Serve the session API: searches, selections, parent resolution, enrichment and JSON-LD export.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Server.Host, "host", viper.GetString("server.host"), "Listen address")
	cmd.Flags().IntVar(&settings.Server.Port, "port", viper.GetInt("server.port"), "Listen port")
	cmd.Flags().StringVar(&settings.Server.AccessPassword, "password", viper.GetString("server.accesspassword"), "Shared access password (empty disables the gate)")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

func runServer(settings *conf.Settings) error {
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

	sess := session.New(settings.Server.AccessPassword)

	e := echo.New()
	e.HideBanner = true

	controller := api.New(e, settings, sess, kb, registry, assistant, parentResolver, log.Default())
	defer controller.Shutdown()

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	errChan := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	log.Printf("orgforge listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
