package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factlab/veracity/internal/model"
	"github.com/factlab/veracity/internal/pipeline"
)

var (
	checkTopK    int
	checkTimeout time.Duration
	checkFormat  string
	checkOutput  string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Check a single claim against web evidence",
	Long: `Check retrieves web search results for one claim, ranks them by
semantic similarity to the claim text, scores the surviving evidence
for relevance and source diversity, and prints a verdict.

Example:
  veracity check "Venus is the hottest planet in the solar system"
  veracity check "The Great Wall is visible from space" --format markdown
  veracity check "Honey never spoils" --format json -o verdict.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "report format (json, markdown, text)")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "write the report to a file instead of stdout")

	// Pipeline flags
	checkCmd.Flags().IntVar(&checkTopK, "top-k", 0, "evidence documents kept after reranking (0 uses config)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "overall check timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if checkTopK > 0 {
		cfg.Batch.TopK = checkTopK
	}
	logger := setupLogging(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	checker, err := buildChecker(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", checkTimeout)
		fmt.Fprintln(os.Stderr)
	}

	result, err := checker.Check(ctx, claim)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Retrieved %d evidence documents\n", len(result.Result.Evidence))
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s (%s confidence)\n", result.Result.Verdict, result.Result.Confidence)
		fmt.Fprintln(os.Stderr)
	}

	report := pipeline.BuildReport("", []model.ClaimResult{result})
	return renderReport(report, checkFormat, checkOutput)
}
