package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/pipeline"
)

var (
	catalogPath string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noFooter    bool
	validator   string
	llmModel    string
	lookupURL   string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Process a single notice and print the triage result",
	Long: `Process runs one notice through the full triage pipeline:
- Classify the input (complete notice, email chain, fragment)
- Decide whether the institution is an addressee
- Extract investigated parties and verify customer relationships
- Match requested subsidies against the catalog
- Extract periods, circular letters and counterpart requirements
- Aggregate confidence and route the case

The notice text is read from the file argument, or from stdin when no
argument is given.

Example:
  triagem process oficio.txt
  triagem process oficio.txt --json result.json --md result.md
  triagem process oficio.txt --validator openai --model gpt-4o-mini
  cat oficio.txt | triagem process`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&catalogPath, "catalog", "catalog.csv", "subsidy catalog CSV path")
	processCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout summary only)")
	processCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	processCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall processing timeout")
	processCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	processCmd.Flags().StringVar(&validator, "validator", "", "semantic validator provider (openai, static; empty disables)")
	processCmd.Flags().StringVar(&llmModel, "model", "gpt-4o-mini", "validator model name")
	processCmd.Flags().StringVar(&lookupURL, "lookup-url", "", "customer lookup base URL (overrides config)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	text, err := readNotice(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.IncludeFooter = !noFooter
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
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded catalog with %d subsidies\n", cat.Len())
	}

	p := pipeline.NewPipeline(cfg, cat)

	result, err := p.Process(ctx, text)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Classified input as %s\n", result.Classification.Kind)
		fmt.Fprintf(os.Stderr, "✓ Identified %d investigated part(ies)\n", len(result.Parties))
		fmt.Fprintf(os.Stderr, "✓ Matched %d subsid(ies), %d unresolved\n", len(result.Matches), len(result.Unmatched))
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("write Markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	renderer.RenderSummary(result, os.Stdout)
	return nil
}

func readNotice(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read notice: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no input: pass a file argument or pipe the notice text to stdin")
	}
	return string(data), nil
}
