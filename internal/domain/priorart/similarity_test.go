package priorart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	cases := []struct {
		name string
		a, b TokenSet
		want float64
	}{
		{"identical", NewTokenSet("coil", "pad"), NewTokenSet("pad", "coil"), 1},
		{"disjoint", NewTokenSet("coil"), NewTokenSet("battery"), 0},
		{"half", NewTokenSet("coil", "pad"), NewTokenSet("coil", "pad", "fod", "qi"), 0.5},
		{"one third", NewTokenSet("coil", "pad"), NewTokenSet("coil", "fod"), 1.0 / 3.0},
		{"both empty", NewTokenSet(), NewTokenSet(), 0},
		{"one empty", NewTokenSet("coil"), NewTokenSet(), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Jaccard(tc.a, tc.b), 1e-9)
			assert.InDelta(t, tc.want, Jaccard(tc.b, tc.a), 1e-9, "symmetric")
		})
	}
}

func TestKeywordScore_RangeAndSelfSimilarity(t *testing.T) {
	for _, q := range tokenizerCorpus {
		for _, c := range tokenizerCorpus {
			s := KeywordScore(q, c)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
		if Tokenize(q).Len() > 0 {
			assert.Equal(t, 1.0, KeywordScore(q, q), q)
		} else {
			assert.Equal(t, 0.0, KeywordScore(q, q), "empty union scores zero")
		}
	}
}

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite clamps to zero", []float32{1, 0}, []float32{-1, 0}, 0},
		{"partial", []float32{1, 1}, []float32{1, 0}, 1 / math.Sqrt2},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Cosine(tc.a, tc.b), 1e-6)
		})
	}
}

func TestCombine(t *testing.T) {
	cases := []struct {
		name      string
		kw, sem   float64
		available bool
		want      float64
	}{
		{"blend", 0.5, 0.8, true, 0.71},
		{"keyword only", 0.4567, 0.9, false, 0.457},
		{"capped blend", 1, 1, true, MaxCombined},
		{"capped keyword", 1, 0, false, MaxCombined},
		{"zero", 0, 0, true, 0},
		{"rounding", 0.1234, 0.4321, true, 0.339},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Combine(tc.kw, tc.sem, tc.available), 1e-9)
		})
	}
}

func TestCombine_NeverExceedsCap(t *testing.T) {
	for kw := 0.0; kw <= 1.0; kw += 0.05 {
		for sem := 0.0; sem <= 1.0; sem += 0.05 {
			assert.LessOrEqual(t, Combine(kw, sem, true), MaxCombined)
			assert.LessOrEqual(t, Combine(kw, sem, false), MaxCombined)
		}
	}
}

func TestScore_KeywordOnlyEqualsKeyword(t *testing.T) {
	s := Score(0.25, 0.9, false)
	assert.False(t, s.SemanticAvailable)
	assert.Equal(t, 0.0, s.Semantic)
	assert.Equal(t, 0.25, s.Combined)
}
