package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/factlab/veracity/internal/embed"
	"github.com/factlab/veracity/internal/model"
)

func TestOrchestrator_CheckAll_PreservesOrder(t *testing.T) {
	searchClient, embedder := venusFixture()
	// Completion order scrambled: later claims finish first.
	searchClient.delays = map[string]time.Duration{
		"claim one":   40 * time.Millisecond,
		"claim two":   10 * time.Millisecond,
		"claim three": 0,
		"claim four":  20 * time.Millisecond,
	}
	checker := newTestChecker(t, searchClient, embedder)
	orch := NewOrchestrator(checker, model.BatchConfig{Concurrency: 4}, nil)

	claims := []string{"claim one", "claim two", "claim three", "claim four"}
	results := orch.CheckAll(context.Background(), claims)

	if len(results) != len(claims) {
		t.Fatalf("expected %d results, got %d", len(claims), len(results))
	}
	for i, cr := range results {
		if cr.Claim.Text != claims[i] {
			t.Errorf("result %d: expected claim %q, got %q", i, claims[i], cr.Claim.Text)
		}
		if cr.Result.Verdict == "" {
			t.Errorf("result %d: verdict not set", i)
		}
	}
}

func TestOrchestrator_CheckAll_DegradedClaimIsolated(t *testing.T) {
	searchClient, embedder := venusFixture()
	embedder.failOn = "claim three"
	checker := newTestChecker(t, searchClient, embedder)
	orch := NewOrchestrator(checker, model.BatchConfig{Concurrency: 4}, nil)

	claims := []string{"claim one", "claim two", "claim three", "claim four"}
	results := orch.CheckAll(context.Background(), claims)

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, cr := range results {
		if cr.Claim.Text != claims[i] {
			t.Errorf("result %d: expected claim %q, got %q", i, claims[i], cr.Claim.Text)
		}
		if cr.Result.Verdict == "" || cr.Result.Confidence == "" {
			t.Errorf("result %d: incomplete verdict", i)
		}
		for _, sd := range cr.Result.Evidence {
			if sd.Similarity < 0 || sd.Similarity > 1 {
				t.Errorf("result %d: similarity %.4f out of [0,1]", i, sd.Similarity)
			}
		}
	}

	if !results[2].Degraded {
		t.Error("expected claim three to be degraded")
	}
	if results[2].Variant != string(embed.LexicalFallback) {
		t.Errorf("expected lexical fallback for claim three, got %s", results[2].Variant)
	}
	for _, i := range []int{0, 1, 3} {
		if results[i].Degraded {
			t.Errorf("claim %d unexpectedly degraded", i)
		}
		if results[i].Variant != string(embed.RemoteSemantic) {
			t.Errorf("claim %d: expected remote variant, got %s", i, results[i].Variant)
		}
	}
}

func TestOrchestrator_CheckAll_DeadlineResolvesPending(t *testing.T) {
	searchClient, embedder := venusFixture()
	searchClient.delays = map[string]time.Duration{
		"slow one":   300 * time.Millisecond,
		"slow two":   300 * time.Millisecond,
		"slow three": 300 * time.Millisecond,
	}
	checker := newTestChecker(t, searchClient, embedder)
	orch := NewOrchestrator(checker, model.BatchConfig{
		Concurrency: 1,
		Timeout:     30 * time.Millisecond,
	}, nil)

	claims := []string{"slow one", "slow two", "slow three"}
	started := time.Now()
	results := orch.CheckAll(context.Background(), claims)
	elapsed := time.Since(started)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if elapsed > 2*time.Second {
		t.Errorf("deadline did not cut the batch short, took %v", elapsed)
	}
	for i, cr := range results {
		if cr.Result.Verdict != model.VerdictInsufficientEvidence {
			t.Errorf("result %d: expected INSUFFICIENT_EVIDENCE, got %s", i, cr.Result.Verdict)
		}
		if cr.Result.Confidence != model.ConfidenceLow {
			t.Errorf("result %d: expected LOW confidence, got %s", i, cr.Result.Confidence)
		}
		if len(cr.Result.Evidence) != 0 {
			t.Errorf("result %d: expected empty evidence", i)
		}
	}
}

func TestOrchestrator_CheckAll_InvalidClaimResolved(t *testing.T) {
	searchClient, embedder := venusFixture()
	checker := newTestChecker(t, searchClient, embedder)
	orch := NewOrchestrator(checker, model.BatchConfig{Concurrency: 2}, nil)

	results := orch.CheckAll(context.Background(), []string{"real claim", "   ", "another claim"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Result.Verdict != model.VerdictInsufficientEvidence {
		t.Errorf("expected INSUFFICIENT_EVIDENCE for blank claim, got %s", results[1].Result.Verdict)
	}
	if results[0].Result.Verdict != model.VerdictVerifiable {
		t.Errorf("expected sibling claim unaffected, got %s", results[0].Result.Verdict)
	}
}

func TestOrchestrator_CheckAll_Empty(t *testing.T) {
	searchClient, embedder := venusFixture()
	checker := newTestChecker(t, searchClient, embedder)
	orch := NewOrchestrator(checker, model.BatchConfig{}, nil)

	if results := orch.CheckAll(context.Background(), nil); results != nil {
		t.Errorf("expected nil for empty batch, got %d results", len(results))
	}
}

func TestBuildReport(t *testing.T) {
	results := []model.ClaimResult{
		{Claim: model.Claim{Text: "a"}, Result: model.VerdictResult{Verdict: model.VerdictVerifiable}},
		{Claim: model.Claim{Text: "b"}, Result: model.VerdictResult{Verdict: model.VerdictUnverifiable}},
		{Claim: model.Claim{Text: "c"}, Result: model.VerdictResult{Verdict: model.VerdictInsufficientEvidence}},
	}

	report := BuildReport("claims.txt", results)

	if report.Source != "claims.txt" {
		t.Errorf("expected source claims.txt, got %s", report.Source)
	}
	if report.ClaimsChecked != 3 {
		t.Errorf("expected 3 claims checked, got %d", report.ClaimsChecked)
	}
	if report.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be set")
	}
	want := "1 verifiable, 1 unverifiable, 1 insufficient evidence"
	if report.Summary != want {
		t.Errorf("expected summary %q, got %q", want, report.Summary)
	}
}

func TestReadClaimsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.txt")
	content := `# comment line
First claim about Venus

Second claim about Mars
First claim about Venus
  Third claim with padding
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	claims, err := ReadClaimsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"First claim about Venus", "Second claim about Mars", "Third claim with padding"}
	if len(claims) != len(want) {
		t.Fatalf("expected %d claims, got %d: %v", len(want), len(claims), claims)
	}
	for i, claim := range claims {
		if claim != want[i] {
			t.Errorf("claim %d: expected %q, got %q", i, want[i], claim)
		}
	}
}

func TestReadClaimsFile_Missing(t *testing.T) {
	if _, err := ReadClaimsFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
