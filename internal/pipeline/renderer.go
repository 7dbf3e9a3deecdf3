package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/factlab/veracity/internal/model"
)

// Renderer writes reports in the supported output formats.
type Renderer struct{}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document.
func (r *Renderer) RenderMarkdown(w io.Writer, report *model.Report) error {
	var b strings.Builder

	b.WriteString("# Fact-Check Report\n\n")
	if report.Source != "" {
		fmt.Fprintf(&b, "- **Source**: %s\n", report.Source)
	}
	fmt.Fprintf(&b, "- **Checked**: %s\n", report.CheckedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Claims**: %d\n", report.ClaimsChecked)
	fmt.Fprintf(&b, "- **Summary**: %s\n", report.Summary)

	for i, cr := range report.Results {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", i+1, cr.Claim.Text)
		fmt.Fprintf(&b, "**%s** (%s confidence)", cr.Result.Verdict, cr.Result.Confidence)
		if cr.Degraded {
			b.WriteString(" *(degraded run)*")
		}
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "%s\n\n", cr.Result.Reasoning)
		fmt.Fprintf(&b, "- Credibility: %.2f\n", cr.Result.Credibility)
		fmt.Fprintf(&b, "- Relevance: %.2f\n", cr.Result.Relevance)
		if cr.Variant != "" {
			fmt.Fprintf(&b, "- Embedding: %s\n", cr.Variant)
		}

		if len(cr.Result.Evidence) > 0 {
			b.WriteString("\n| # | Similarity | Source | Title |\n")
			b.WriteString("|---|-----------|--------|-------|\n")
			for j, sd := range cr.Result.Evidence {
				source := sd.Host()
				if sd.Authority != model.TierUnknown {
					source = fmt.Sprintf("%s (%s)", source, sd.Authority)
				}
				fmt.Fprintf(&b, "| %d | %.3f | %s | [%s](%s) |\n",
					j+1, sd.Similarity, source, escapePipes(sd.Title), sd.Link)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderText writes a compact human-readable summary, one block per claim.
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	var b strings.Builder

	for i, cr := range report.Results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Claim: %s\n", cr.Claim.Text)
		fmt.Fprintf(&b, "Verdict: %s (%s confidence)\n", cr.Result.Verdict, cr.Result.Confidence)
		fmt.Fprintf(&b, "Credibility: %.2f  Relevance: %.2f\n", cr.Result.Credibility, cr.Result.Relevance)
		fmt.Fprintf(&b, "Reasoning: %s\n", cr.Result.Reasoning)
		if cr.Degraded {
			fmt.Fprintf(&b, "Note: degraded run (%s)\n", cr.Variant)
		}
		for j, sd := range cr.Result.Evidence {
			fmt.Fprintf(&b, "  %d. [%.3f] %s\n     %s\n", j+1, sd.Similarity, sd.Title, sd.Link)
		}
	}
	if report.ClaimsChecked > 1 {
		fmt.Fprintf(&b, "\nChecked %d claims: %s\n", report.ClaimsChecked, report.Summary)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapePipes keeps result titles from breaking Markdown table cells.
func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
