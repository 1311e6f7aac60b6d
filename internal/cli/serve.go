package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/pipeline"
	"github.com/lgmartins/triagem/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the triage pipeline over HTTP",
	Long: `Serve starts an HTTP API around the pipeline:
  POST /v1/notices   process one notice synchronously
  GET  /healthz      liveness probe
  GET  /metrics      Prometheus metrics

Example:
  triagem serve --addr :8386 --catalog catalog.csv`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&catalogPath, "catalog", "catalog.csv", "subsidy catalog CSV path")
	serveCmd.Flags().StringVar(&validator, "validator", "", "semantic validator provider (openai, static; empty disables)")
	serveCmd.Flags().StringVar(&llmModel, "model", "gpt-4o-mini", "validator model name")
	serveCmd.Flags().StringVar(&lookupURL, "lookup-url", "", "customer lookup base URL (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if validator != "" {
		cfg.Validator.Provider = validator
		cfg.Validator.Model = llmModel
		if validator == "openai" && cfg.Validator.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if lookupURL != "" {
		cfg.Lookup.BaseURL = lookupURL
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	p := pipeline.NewPipeline(cfg, cat)
	srv := server.New(cfg.Server, p)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "⚙️  Serving on %s (catalog: %d subsidies)\n", cfg.Server.Addr, cat.Len())
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
