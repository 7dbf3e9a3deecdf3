package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factlab/veracity/internal/pipeline"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchFormat      string
	batchOutput      string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Check multiple claims from a file in parallel",
	Long: `Batch checks many claims concurrently:
- Read claims from the input file (one per line, # comments skipped)
- Check claims in parallel with a configurable worker count
- Resolve claims still pending at the deadline as INSUFFICIENT_EVIDENCE
- Emit a single report with results in input order

Example:
  veracity batch claims.txt
  veracity batch claims.txt --concurrency 8 --format markdown -o report.md
  veracity batch claims.txt --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (0 uses config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total deadline for the whole batch (0 uses config)")

	// Output flags
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "text", "report format (json, markdown, text)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write the report to a file instead of stdout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if batchConcurrency > 0 {
		cfg.Batch.Concurrency = batchConcurrency
	}
	if batchTimeout > 0 {
		cfg.Batch.Timeout = batchTimeout
	}
	logger := setupLogging(cfg.Log)

	claims, err := pipeline.ReadClaimsFile(file)
	if err != nil {
		return fmt.Errorf("read claims: %w", err)
	}
	if len(claims) == 0 {
		return fmt.Errorf("no claims found in %s", file)
	}

	ctx := context.Background()
	checker, err := buildChecker(ctx, cfg, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Veracity Batch Check\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Claims:       %d\n", len(claims))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Batch.Concurrency)
	if cfg.Batch.Timeout > 0 {
		fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", cfg.Batch.Timeout)
	}
	fmt.Fprintf(os.Stderr, "\n")

	// The orchestrator applies cfg.Batch.Timeout itself.
	orchestrator := pipeline.NewOrchestrator(checker, cfg.Batch, logger)
	results := orchestrator.CheckAll(ctx, claims)

	report := pipeline.BuildReport(file, results)

	fmt.Fprintf(os.Stderr, "✓ %s\n", report.Summary)
	fmt.Fprintf(os.Stderr, "\n")

	return renderReport(report, batchFormat, batchOutput)
}
