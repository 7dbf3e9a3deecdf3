package extract

import (
	"strings"
	"testing"

	"github.com/factlab/veracity/internal/model"
)

func TestClaimExtractor_BasicExtraction(t *testing.T) {
	extractor := NewClaimExtractor()

	text := `Laksa originated in Malaysia in the 15th century based on documentation.
According to historians, this culinary tradition spread to coastal regions.
This is just a regular sentence without anything checkable in it.`

	claims := extractor.Extract(text)

	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}

	if !strings.Contains(claims[0].Text, "originated in Malaysia") {
		t.Errorf("Expected first claim about origin, got %q", claims[0].Text)
	}
	if claims[0].Heuristic != "origin:originated" {
		t.Errorf("Expected heuristic origin:originated, got %q", claims[0].Heuristic)
	}
	if claims[1].Heuristic != "attribution:according to" {
		t.Errorf("Expected heuristic attribution:according to, got %q", claims[1].Heuristic)
	}
}

func TestClaimExtractor_KeywordGroups(t *testing.T) {
	extractor := NewClaimExtractor()

	tests := []struct {
		sentence  string
		heuristic string
	}{
		{"The compass was invented in China during the Han dynasty era.", "origin:invented"},
		{"The foundation was established by a group of researchers in 1952.", "attribution:established"},
		{"Under the law, every contract requires mutual consent to be valid.", "authority:under the law"},
		{"A planet is defined as a body that has cleared its orbital path.", "definition:is defined as"},
		{"There is no scientific evidence supporting the flat earth model.", "existence:there is no"},
	}

	for _, tt := range tests {
		t.Run(tt.heuristic, func(t *testing.T) {
			claims := extractor.Extract(tt.sentence)
			if len(claims) != 1 {
				t.Fatalf("Expected 1 claim, got %d", len(claims))
			}
			if claims[0].Heuristic != tt.heuristic {
				t.Errorf("Expected heuristic %q, got %q", tt.heuristic, claims[0].Heuristic)
			}
		})
	}
}

func TestClaimExtractor_OneMatchPerSentence(t *testing.T) {
	extractor := NewClaimExtractor()

	// Contains both "originated" and "according to"; only the first
	// group hit is recorded.
	claims := extractor.Extract("According to legend, the dish originated in a coastal village long ago.")
	if len(claims) != 1 {
		t.Fatalf("Expected 1 claim, got %d", len(claims))
	}
	if claims[0].Heuristic != "origin:originated" {
		t.Errorf("Expected origin group to win, got %q", claims[0].Heuristic)
	}
}

func TestClaimExtractor_LengthFiltering(t *testing.T) {
	extractor := NewClaimExtractor()

	long := strings.Repeat("clause mentioning originated without a terminator anywhere ", 12) + "."
	text := "Short originated. This sentence is long enough and contains the keyword originated for extraction. " + long

	claims := extractor.Extract(text)

	for _, claim := range claims {
		if len(claim.Text) < minSentenceLen {
			t.Errorf("Claim too short (%d chars): %s", len(claim.Text), claim.Text)
		}
		if len(claim.Text) > maxSentenceLen {
			t.Errorf("Claim too long (%d chars)", len(claim.Text))
		}
	}
	if len(claims) != 1 {
		t.Errorf("Expected 1 claim within bounds, got %d", len(claims))
	}
}

func TestClaimExtractor_Deduplication(t *testing.T) {
	extractor := NewClaimExtractor()

	text := `The system was first introduced in 1990 by engineers.
The system was first introduced in 1990 by engineers.
THE SYSTEM WAS FIRST INTRODUCED IN 1990 BY ENGINEERS.`

	claims := extractor.Extract(text)
	if len(claims) != 1 {
		t.Errorf("Expected 1 unique claim after deduplication, got %d", len(claims))
	}
}

func TestClaimExtractor_NoKeywords(t *testing.T) {
	extractor := NewClaimExtractor()

	text := `This is just a regular paragraph with nothing special in it.
Another paragraph describing something in plain unremarkable words.`

	if claims := extractor.Extract(text); len(claims) != 0 {
		t.Errorf("Expected 0 claims when no keywords present, got %d", len(claims))
	}
}

func TestClaimExtractor_Empty(t *testing.T) {
	extractor := NewClaimExtractor()

	if claims := extractor.Extract(""); len(claims) != 0 {
		t.Errorf("Expected 0 claims from empty text, got %d", len(claims))
	}
}

func TestClaimExtractor_SentenceIndex(t *testing.T) {
	extractor := NewClaimExtractor()

	text := `The first sentence here mentions nothing worth checking at all.
The printing press was invented by Gutenberg in the fifteenth century.`

	claims := extractor.Extract(text)
	if len(claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(claims))
	}
	// "first" matches the opening sentence too; indices follow sentence order.
	if claims[0].Sentence != 0 || claims[1].Sentence != 1 {
		t.Errorf("Expected sentence indices 0 and 1, got %d and %d", claims[0].Sentence, claims[1].Sentence)
	}
}

func TestSplitSentences_BasicSplitting(t *testing.T) {
	text := "This is the first sentence that is long enough to be extracted by the filter. This is the second sentence that also meets the minimum length requirement! And this is the third sentence that satisfies the character limit?"

	sentences := splitSentences(text)

	if len(sentences) != 3 {
		t.Fatalf("Expected 3 sentences, got %d", len(sentences))
	}
	for _, sentence := range sentences {
		if sentence != strings.TrimSpace(sentence) {
			t.Errorf("Expected sentence to be trimmed: %q", sentence)
		}
	}
}

func TestSplitSentences_MinMaxLength(t *testing.T) {
	short := "Short."
	good := "This sentence is long enough to be considered valid for extraction purposes."
	long := strings.Repeat("This is a very long sentence without a terminator anywhere inside it ", 10) + "."

	sentences := splitSentences(short + " " + good + " " + long)

	if len(sentences) != 1 {
		t.Fatalf("Expected 1 sentence within bounds, got %d", len(sentences))
	}
	if sentences[0] != good {
		t.Errorf("Expected %q, got %q", good, sentences[0])
	}
}

func TestDedupeClaims(t *testing.T) {
	claims := []model.Claim{
		{Text: "This claim was first introduced in 1990."},
		{Text: "This claim was first introduced in 1990."},
		{Text: "THIS CLAIM WAS FIRST INTRODUCED IN 1990."},
		{Text: "Different claim that was established later."},
	}

	unique := dedupeClaims(claims)
	if len(unique) != 2 {
		t.Errorf("Expected 2 unique claims, got %d", len(unique))
	}
}
