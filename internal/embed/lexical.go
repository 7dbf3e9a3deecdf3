package embed

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// LexicalEmbedder is the local fallback variant. One vocabulary is built
// from the whole batch (claim and documents together), sorted for
// determinism, and each text becomes its term-frequency vector over that
// vocabulary. Frequencies are normalized by the text's most frequent term.
// No external calls; embedding the same batch twice yields identical
// vectors.
type LexicalEmbedder struct{}

// NewLexicalEmbedder creates the lexical fallback embedder.
func NewLexicalEmbedder() *LexicalEmbedder {
	return &LexicalEmbedder{}
}

// Name returns the provider name
func (e *LexicalEmbedder) Name() string { return "lexical" }

// Variant reports the embedding family
func (e *LexicalEmbedder) Variant() Variant { return LexicalFallback }

// IsAvailable always succeeds; the fallback has no external dependencies.
func (e *LexicalEmbedder) IsAvailable(ctx context.Context) bool { return true }

// EmbedTexts builds the shared vocabulary and returns one TF vector per
// text. All vectors from one call share the vocabulary dimension.
func (e *LexicalEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	tokenized := make([][]string, len(texts))
	vocabSet := make(map[string]struct{})
	for i, text := range texts {
		tokens := tokenize(text)
		tokenized[i] = tokens
		for _, tok := range tokens {
			vocabSet[tok] = struct{}{}
		}
	}

	vocab := make([]string, 0, len(vocabSet))
	for term := range vocabSet {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	vectors := make([][]float64, len(texts))
	for i, tokens := range tokenized {
		vec := make([]float64, len(vocab))
		vectors[i] = vec
		if len(tokens) == 0 {
			continue
		}

		counts := make(map[string]int, len(tokens))
		maxFreq := 0
		for _, tok := range tokens {
			counts[tok]++
			if counts[tok] > maxFreq {
				maxFreq = counts[tok]
			}
		}
		for term, count := range counts {
			vec[index[term]] = float64(count) / float64(maxFreq)
		}
	}

	return vectors, nil
}

// tokenize lowercases text and splits it into maximal letter/digit runs.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
