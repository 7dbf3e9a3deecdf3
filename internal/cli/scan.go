package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/factlab/veracity/internal/extract"
	"github.com/factlab/veracity/internal/pipeline"
)

var (
	scanFormat string
	scanOutput string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract checkable claims from prose and check them",
	Long: `Scan reads a text file, extracts sentences that look like factual
claims (origin, attribution, authority, definition and existence
statements), and runs every extracted claim through the batch checker.

Pass "-" to read from stdin.

Example:
  veracity scan article.txt
  cat article.txt | veracity scan - --format markdown
  veracity scan notes.txt --format json -o findings.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "text", "report format (json, markdown, text)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "write the report to a file instead of stdout")
}

func runScan(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogging(cfg.Log)

	source := path
	var text []byte
	if path == "-" {
		source = "stdin"
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	extractor := extract.NewClaimExtractor()
	claims := extractor.Extract(string(text))
	if len(claims) == 0 {
		return fmt.Errorf("no checkable claims found in %s", source)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", len(claims))
		for _, c := range claims {
			fmt.Fprintf(os.Stderr, "  - [%s] %s\n", c.Heuristic, c.Text)
		}
		fmt.Fprintln(os.Stderr)
	}

	texts := make([]string, len(claims))
	for i, c := range claims {
		texts[i] = c.Text
	}

	ctx := context.Background()
	checker, err := buildChecker(ctx, cfg, logger)
	if err != nil {
		return err
	}

	orchestrator := pipeline.NewOrchestrator(checker, cfg.Batch, logger)
	results := orchestrator.CheckAll(ctx, texts)

	report := pipeline.BuildReport(source, results)
	return renderReport(report, scanFormat, scanOutput)
}
