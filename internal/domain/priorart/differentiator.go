package priorart

import (
	"fmt"
	"math/rand"
	"sync"
)

// MaxClaims caps each differentiator list.
const MaxClaims = 5

const (
	FallbackOverlap    = "General technological approach"
	FallbackDifference = "Specific implementation details"
)

var (
	overlapTemplates = []string{
		`Uses "%s" technology`,
		`Similar %s approach`,
		`Shares %s methodology`,
		`Comparable %s implementation`,
	}
	differenceTemplates = []string{
		"Your novel %s implementation",
		"Unique %s approach",
		"Distinct %s architecture",
		"Custom %s integration",
	}
)

// TemplateSelector chooses which phrasing template wraps a token.
// Pick must return a value in [0, n).
type TemplateSelector interface {
	Pick(n int) int
}

// FixedSelector always picks the same template index (modulo n).
type FixedSelector int

func (f FixedSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(f) % n
	if i < 0 {
		i += n
	}
	return i
}

// RoundRobinSelector cycles through the templates in order.
type RoundRobinSelector struct {
	mu   sync.Mutex
	next int
}

func (r *RoundRobinSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.next % n
	r.next++
	return i
}

// RandomSelector varies phrasing between results. Safe for concurrent use.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomSelector) Pick(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// SystemFacts are known facts about the user's own system that are always
// worth listing as differences.
type SystemFacts struct {
	TableCount    int
	FunctionCount int
}

// FactsFromAnalysis extracts system facts from a session's backend analysis.
func FactsFromAnalysis(ba BackendAnalysis) SystemFacts {
	return SystemFacts{TableCount: ba.TableCount, FunctionCount: ba.FunctionCount}
}

// Phrases renders the facts, at most two.
func (f SystemFacts) Phrases() []string {
	var out []string
	if f.TableCount > 0 {
		out = append(out, fmt.Sprintf("Custom database with %d specialized tables", f.TableCount))
	}
	if f.FunctionCount > 0 {
		out = append(out, fmt.Sprintf("%d custom backend functions", f.FunctionCount))
	}
	return out
}

// Differentiators are the talking points attached to one result.
type Differentiators struct {
	Overlap    []string
	Difference []string
}

// DifferentiatorExtractor turns token-set overlap and difference into
// human-readable phrases.
type DifferentiatorExtractor struct {
	selector TemplateSelector
}

// NewDifferentiatorExtractor returns an extractor using sel. A nil selector
// means FixedSelector(0).
func NewDifferentiatorExtractor(sel TemplateSelector) *DifferentiatorExtractor {
	if sel == nil {
		sel = FixedSelector(0)
	}
	return &DifferentiatorExtractor{selector: sel}
}

// Extract always returns 1..MaxClaims entries in each list.
func (e *DifferentiatorExtractor) Extract(query, candidate TokenSet, facts SystemFacts) Differentiators {
	overlap := e.phrases(query.Shared(candidate), overlapTemplates, MaxClaims)
	if len(overlap) == 0 {
		overlap = []string{FallbackOverlap}
	}

	factPhrases := facts.Phrases()
	difference := e.phrases(query.Missing(candidate), differenceTemplates, MaxClaims-len(factPhrases))
	difference = append(difference, factPhrases...)
	if len(difference) == 0 {
		difference = []string{FallbackDifference}
	}

	return Differentiators{Overlap: overlap, Difference: difference}
}

func (e *DifferentiatorExtractor) phrases(tokens []string, templates []string, limit int) []string {
	if limit > len(tokens) {
		limit = len(tokens)
	}
	if limit <= 0 {
		return nil
	}
	out := make([]string, 0, limit)
	for _, tok := range tokens[:limit] {
		tpl := templates[e.selector.Pick(len(templates))]
		out = append(out, fmt.Sprintf(tpl, tok))
	}
	return out
}
