package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/pipeline"
	"github.com/claimline/claimline/internal/schemas"
)

var (
	outJSON       string
	outMD         string
	typesFile     string
	dateFormat    string
	sortOrder     string
	onDateFailure string
	noCache       bool
	noFooter      bool
	parseTimeout  time.Duration
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a single claim export into a timeline report",
	Long: `Parse normalizes one claim export file:
- Resolve claim dates (direct fields, fallbacks, days-supply calculations)
- Extract records from every configured claim type
- Aggregate into a sorted timeline with date range and metadata
- Fall back through schema discovery and heuristics on drift

Example:
  claimline parse export.json
  claimline parse export.json --json timeline.json --md timeline.md
  claimline parse export.json --types mytypes.yaml --sort newest-first
  claimline parse legacy.json --on-date-failure fallback`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	// Output flags
	parseCmd.Flags().StringVar(&outJSON, "json", "timeline.json", "output JSON path")
	parseCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// Parser flags
	parseCmd.Flags().StringVar(&typesFile, "types", "", "claim type configuration file (JSON or YAML)")
	parseCmd.Flags().StringVar(&dateFormat, "date-format", "YYYY-MM-DD", "primary date format")
	parseCmd.Flags().StringVar(&sortOrder, "sort", "oldest-first", "timeline order (oldest-first, newest-first)")
	parseCmd.Flags().StringVar(&onDateFailure, "on-date-failure", "raise", "date failure policy (raise, fallback)")
	parseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh parse)")
	parseCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 2*time.Minute, "overall parse timeout")
}

func runParse(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	types, err := loadTypes(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Parsing: %s\n", file)
		fmt.Fprintf(os.Stderr, "Claim types: %d\n", len(types))
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.NewPipeline(cfg, types)

	report, err := p.ParseFile(ctx, file)
	if err != nil {
		return renderFailure(err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims via %s\n",
			report.Timeline.Metadata.TotalClaims, report.Meta.Strategy)
		for _, warning := range report.Meta.Warnings {
			fmt.Fprintf(os.Stderr, "  warning: %s\n", warning)
		}
		fmt.Fprintln(os.Stderr)
	}

	return renderReport(p, report)
}

// buildConfig merges defaults, config file values and parse flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Parser.TypesFile = typesFile
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir()
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if dateFormat != "" {
		cfg.Parser.DateFormat = dateFormat
	}

	switch model.SortPolicy(sortOrder) {
	case "":
	case model.SortOldestFirst, model.SortNewestFirst:
		cfg.Parser.Sort = model.SortPolicy(sortOrder)
	default:
		return nil, fmt.Errorf("unknown sort order %q (use oldest-first or newest-first)", sortOrder)
	}

	switch model.DateFailurePolicy(onDateFailure) {
	case "":
	case model.DateFailureRaise, model.DateFailureFallback:
		cfg.Parser.OnDateFailure = model.DateFailurePolicy(onDateFailure)
	default:
		return nil, fmt.Errorf("unknown date failure policy %q (use raise or fallback)", onDateFailure)
	}

	return cfg, nil
}

// loadTypes returns the claim type set: the user-supplied configuration
// when one is given (schema-validated first), the built-in defaults
// otherwise.
func loadTypes(cfg *model.Config) ([]model.ClaimTypeConfig, error) {
	if cfg.Parser.TypesFile == "" {
		return model.DefaultClaimTypes(), nil
	}

	if err := schemas.ValidateClaimConfigFile(cfg.Parser.TypesFile); err != nil {
		return nil, fmt.Errorf("claim type configuration %s: %w", cfg.Parser.TypesFile, err)
	}
	return model.LoadClaimTypes(cfg.Parser.TypesFile)
}

// renderReport writes the configured outputs and prints the summary
func renderReport(p *pipeline.Pipeline, report *model.Report) error {
	renderer := p.Renderer()

	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)
	return nil
}

// renderFailure prints the user-facing message and recovery hints for a
// parse failure, then returns a terse error for the exit status.
func renderFailure(err error) error {
	fmt.Fprintf(os.Stderr, "✗ %s\n", errs.UserMessage(err))
	if suggestions := errs.RecoverySuggestions(err); len(suggestions) > 0 {
		fmt.Fprintln(os.Stderr, "\nSuggestions:")
		for _, suggestion := range suggestions {
			fmt.Fprintf(os.Stderr, "  - %s\n", suggestion)
		}
	}
	return fmt.Errorf("parse failed")
}
