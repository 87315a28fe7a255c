package priorart

import "math"

// Blend weights and the score ceiling are fixed product constants.
const (
	SemanticWeight = 0.7
	KeywordWeight  = 0.3
	MaxCombined    = 0.95
)

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b TokenSet) float64 {
	small, large := a, b
	if small.Len() > large.Len() {
		small, large = large, small
	}
	inter := 0
	for _, t := range small.order {
		if large.Contains(t) {
			inter++
		}
	}
	union := a.Len() + b.Len() - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// KeywordScore tokenizes both texts and returns their Jaccard similarity.
func KeywordScore(query, candidate string) float64 {
	return Jaccard(Tokenize(query), Tokenize(candidate))
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// Mismatched lengths, empty vectors and zero-norm vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	c := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// Combine blends keyword and semantic similarity into the user-facing score.
// Without semantic scoring for the search the keyword score is used alone.
// The result is capped at MaxCombined and rounded to three decimals.
func Combine(keyword, semantic float64, semanticAvailable bool) float64 {
	combined := keyword
	if semanticAvailable {
		combined = SemanticWeight*semantic + KeywordWeight*keyword
	}
	if combined > MaxCombined {
		combined = MaxCombined
	}
	if combined < 0 {
		combined = 0
	}
	return round3(combined)
}

// Score assembles the full score triple for one candidate.
func Score(keyword, semantic float64, semanticAvailable bool) Scores {
	if !semanticAvailable {
		semantic = 0
	}
	return Scores{
		Keyword:           keyword,
		Semantic:          semantic,
		SemanticAvailable: semanticAvailable,
		Combined:          Combine(keyword, semantic, semanticAvailable),
	}
}
