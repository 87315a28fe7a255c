package priorart

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxContextChars bounds the query sent to the retrieval provider.
const DefaultMaxContextChars = 10000

// ContextInput is everything the search context can be assembled from.
type ContextInput struct {
	// ExplicitQuery, when non-blank, replaces all other fields.
	ExplicitQuery     string
	IdeaPrompt        string
	TechnicalAnalysis string
	QAPairs           []QAPair
	BackendSummary    string
	PatentCategory    string
}

// NewContextInput collects the context fields for a search on session.
// A non-empty patentType from the request overrides the stored category.
func NewContextInput(session *Session, qa []QAPair, explicitQuery, patentType string) ContextInput {
	in := ContextInput{ExplicitQuery: explicitQuery, QAPairs: qa, PatentCategory: patentType}
	if session != nil {
		in.IdeaPrompt = session.IdeaPrompt
		in.TechnicalAnalysis = session.TechnicalAnalysis
		in.BackendSummary = ParseBackendAnalysis(session.BackendAnalysis).Summary
		if strings.TrimSpace(in.PatentCategory) == "" {
			in.PatentCategory = session.PatentCategory
		}
	}
	return in
}

// BuildContext assembles the search context. It never fails: the worst case
// is an empty string.
func BuildContext(in ContextInput, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}

	if q := strings.TrimSpace(in.ExplicitQuery); q != "" {
		return truncateRunes(q, maxChars)
	}

	parts := make([]string, 0, 5)
	for _, p := range []string{
		in.IdeaPrompt,
		in.TechnicalAnalysis,
		formatQA(in.QAPairs),
		in.BackendSummary,
		in.PatentCategory,
	} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return truncateRunes(strings.Join(parts, "\n"), maxChars)
}

func formatQA(pairs []QAPair) string {
	var b strings.Builder
	for _, qa := range pairs {
		answer := strings.TrimSpace(qa.Answer)
		if answer == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Q: ")
		b.WriteString(strings.TrimSpace(qa.Question))
		b.WriteString("\nA: ")
		b.WriteString(answer)
	}
	return b.String()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
