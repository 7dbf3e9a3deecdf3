package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/factlab/veracity/internal/model"
	"github.com/factlab/veracity/internal/score"
	"github.com/factlab/veracity/internal/worker"
)

// Orchestrator fans a batch of claims across a worker pool and emits
// results in input order regardless of completion order.
type Orchestrator struct {
	checker     *Checker
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewOrchestrator creates a batch orchestrator around a checker.
func NewOrchestrator(checker *Checker, cfg model.BatchConfig, logger *slog.Logger) *Orchestrator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		checker:     checker,
		concurrency: concurrency,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// claimJob verifies one claim and reports the outcome with its batch index.
type claimJob struct {
	index   int
	claim   string
	checker *Checker
}

// claimOutcome carries a finished claim back to its result slot.
type claimOutcome struct {
	index  int
	result model.ClaimResult
	err    error
}

func (o *claimOutcome) GetError() error {
	return o.err
}

func (j *claimJob) Execute(ctx context.Context) worker.Result {
	result, err := j.checker.Check(ctx, j.claim)
	return &claimOutcome{index: j.index, result: result, err: err}
}

// CheckAll verifies claims concurrently and returns one result per claim
// in input order. Claims unresolved when the batch deadline passes, and
// claims that fail validation, are reported as INSUFFICIENT_EVIDENCE so
// the batch always comes back complete.
func (o *Orchestrator) CheckAll(ctx context.Context, claims []string) []model.ClaimResult {
	if len(claims) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	runCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	pool := worker.NewPool(runCtx, o.concurrency)
	pool.Start()
	for i, text := range claims {
		pool.Submit(&claimJob{index: i, claim: text, checker: o.checker})
	}

	// Result slots indexed by input position. Completion order fills them
	// arbitrarily; emission reads them in order.
	slots := make([]*model.ClaimResult, len(claims))
	for _, res := range pool.Wait() {
		outcome := res.(*claimOutcome)
		if outcome.err != nil {
			o.logger.Warn("claim resolved as insufficient evidence",
				"index", outcome.index,
				"error", outcome.err)
			rejected := o.unresolved(claims[outcome.index],
				fmt.Sprintf("Claim failed validation: %v", outcome.err))
			slots[outcome.index] = &rejected
			continue
		}
		result := outcome.result
		slots[outcome.index] = &result
	}

	results := make([]model.ClaimResult, len(claims))
	for i, slot := range slots {
		if slot != nil {
			results[i] = *slot
			continue
		}
		results[i] = o.unresolved(claims[i], "Batch deadline exceeded before this claim was checked")
	}
	return results
}

// unresolved builds the terminal result for a claim that never produced one,
// carrying the reasoning for why it went unchecked.
func (o *Orchestrator) unresolved(text, reasoning string) model.ClaimResult {
	result := o.checker.classifier.Classify(score.Aggregation{}, nil)
	result.Reasoning = reasoning
	return model.ClaimResult{
		Claim:    model.Claim{Text: strings.TrimSpace(text)},
		Variant:  string(o.checker.embedder.Variant()),
		Degraded: true,
		Result:   result,
	}
}

// BuildReport assembles the batch output with counts and a summary line.
func BuildReport(source string, results []model.ClaimResult) *model.Report {
	report := &model.Report{
		Source:    source,
		CheckedAt: time.Now().UTC(),
		Results:   results,
	}
	report.Summarize()
	return report
}

// ReadClaimsFile reads one claim per line. Blank lines and lines starting
// with '#' are skipped; duplicate claims are checked once.
func ReadClaimsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open claims file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read claims file: %w", err)
	}

	return claims, nil
}
