package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/pipeline"
	"github.com/claimline/claimline/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter and typesFile are defined in parse.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-file>",
	Short: "Parse multiple claim exports in parallel",
	Long: `Batch processes claim export files concurrently:
- Walk a directory for JSON, CSV and XLSX exports (or take one file)
- Parse files in parallel with configurable worker count
- Generate individual timeline reports for each export

Example:
  claimline batch ./exports
  claimline batch ./exports --concurrency 8 --output-dir ./timelines
  claimline batch export.json --types mytypes.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimline-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Inherit flags from parse command
	batchCmd.Flags().StringVar(&typesFile, "types", "", "claim type configuration file (JSON or YAML)")
	batchCmd.Flags().StringVar(&sortOrder, "sort", "oldest-first", "timeline order (oldest-first, newest-first)")
	batchCmd.Flags().StringVar(&onDateFailure, "on-date-failure", "raise", "date failure policy (raise, fallback)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh parse)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency

	types, err := loadTypes(cfg)
	if err != nil {
		return err
	}

	paths, err := worker.CollectFiles(target)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no claim exports found under %s", target)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:    %s (%d files)\n", target, len(paths))
	fmt.Fprintf(os.Stderr, "  Workers:  %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.NewPipeline(cfg, types)
	processor := worker.NewBatchProcessor(p, concurrency)
	results := processor.ProcessFiles(ctx, paths)

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", result.Path, errs.UserMessage(result.Error))
			continue
		}

		successCount++

		slug := reportSlug(result.Path)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		renderer := p.Renderer()
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d claims, %s)\n",
			result.Path, result.Report.Timeline.Metadata.TotalClaims, result.Report.Meta.Strategy)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:    %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:  %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures: %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 {
		return fmt.Errorf("%d of %d files failed", failureCount, len(results))
	}
	return nil
}

// reportSlug derives an output file stem from an export path
func reportSlug(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	stem = replacer.Replace(stem)
	if len(stem) > 100 {
		stem = stem[:100]
	}
	if stem == "" {
		stem = "report"
	}
	return stem
}
