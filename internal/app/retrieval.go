package app

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"researchhub/internal/model"
)

// Retrieval policy. These are deliberate product constants, not knobs.
const (
	similarityThreshold = 0.2  // papers must score strictly above this
	maxContextPapers    = 3    // context window holds the top three papers
	embedSnippetLimit   = 1000 // characters of paper text fed to the embedder
	contextSnippetLimit = 3000 // characters of full text per context block
	minFullTextLen      = 100  // shorter full texts fall back to the abstract
)

type scoredPaper struct {
	Paper model.Paper
	Score float32
}

// cosineSimilarity returns dot(a,b)/(|a|*|b|). Zero-norm or mismatched
// vectors score 0 instead of producing NaN.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// embeddingInput is the text a paper is embedded from: the head of the full
// text, or the abstract when no full text was extracted.
func embeddingInput(p model.Paper) string {
	content := p.FullText
	if content == "" {
		content = p.Abstract
	}
	return truncateRunes(content, embedSnippetLimit)
}

// rankPapers keeps papers scoring strictly above the threshold, sorted
// descending with stored order as the tie-break. When nothing clears the
// threshold it falls back to the first maxContextPapers papers in stored
// order with score 0, and reports that via the second return value. The
// result is capped at maxContextPapers either way.
func rankPapers(papers []model.Paper, scores []float32) ([]scoredPaper, bool) {
	kept := make([]scoredPaper, 0, len(papers))
	for i, p := range papers {
		if scores[i] > similarityThreshold {
			kept = append(kept, scoredPaper{Paper: p, Score: scores[i]})
		}
	}

	fellBack := false
	if len(kept) == 0 {
		fellBack = true
		for _, p := range papers {
			if len(kept) == maxContextPapers {
				break
			}
			kept = append(kept, scoredPaper{Paper: p, Score: 0})
		}
	} else {
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Score > kept[j].Score
		})
	}

	if len(kept) > maxContextPapers {
		kept = kept[:maxContextPapers]
	}
	return kept, fellBack
}

// buildContext renders one block per selected paper, separated by blank
// lines. Papers with substantial full text contribute its head; the rest
// contribute their abstract.
func buildContext(ranked []scoredPaper) string {
	blocks := make([]string, 0, len(ranked))
	for i, sp := range ranked {
		p := sp.Paper
		if len(p.FullText) > minFullTextLen {
			content := truncateRunes(p.FullText, contextSnippetLimit)
			blocks = append(blocks, fmt.Sprintf("Paper %d:\nTitle: %s\nAuthors: %s\nContent: %s...",
				i+1, p.Title, p.Authors, content))
		} else {
			blocks = append(blocks, fmt.Sprintf("Paper %d:\nTitle: %s\nAuthors: %s\nAbstract: %s",
				i+1, p.Title, p.Authors, p.Abstract))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
