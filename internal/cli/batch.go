package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/model"
	"github.com/lgmartins/triagem/internal/pipeline"
	"github.com/lgmartins/triagem/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process a CSV of notices in parallel",
	Long: `Batch processes a court export file concurrently:
- Read notices from a ';'-separated CSV with a txt_arqu_juri column
- Skip rows with an empty text cell
- Process notices in parallel with configurable worker count
- Write one JSON result per row plus a closing summary

Example:
  triagem batch oficios.csv
  triagem batch oficios.csv --concurrency 8 --output-dir ./resultados
  triagem batch oficios.csv --validator openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./triagem-resultados", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&catalogPath, "catalog", "catalog.csv", "subsidy catalog CSV path")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&validator, "validator", "", "semantic validator provider (openai, static; empty disables)")
	batchCmd.Flags().StringVar(&llmModel, "model", "gpt-4o-mini", "validator model name")
	batchCmd.Flags().StringVar(&lookupURL, "lookup-url", "", "customer lookup base URL (overrides config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.IncludeFooter = !noFooter
	cfg.Concurrency.BatchWorkers = concurrency
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

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Triagem em lote\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, cat)
	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading notices from file...\n")
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Row < results[j].Row })

	fmt.Fprintf(os.Stderr, "✓ Processed %d notices with %d workers\n\n", len(results), concurrency)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	stats := map[model.RoutingDecision]int{}
	failureCount := 0
	urgentCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ row %d: %v\n", result.Row, result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, fmt.Sprintf("oficio_%04d.json", result.Row))
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ row %d: failed to write JSON: %v\n", result.Row, err)
			continue
		}

		stats[result.Result.Routing]++
		if result.Result.Urgent {
			urgentCount++
			fmt.Fprintf(os.Stderr, "! row %d: URGENTE (%s)\n", result.Row, result.Result.Routing)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ row %d: %s (%.2f)\n", result.Row, result.Result.Routing, result.Result.Confidence.Value)
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "  Total:          %d notices\n", len(results))
	fmt.Fprintf(os.Stderr, "  Automatic:      %d\n", stats[model.RouteAutomatic])
	fmt.Fprintf(os.Stderr, "  Human review:   %d\n", stats[model.RouteHumanReview])
	fmt.Fprintf(os.Stderr, "  Manual:         %d\n", stats[model.RouteManualAnalysis])
	fmt.Fprintf(os.Stderr, "  Urgent:         %d\n", urgentCount)
	fmt.Fprintf(os.Stderr, "  Failures:       %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:         %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
