package priorart

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MinTokenLength is the shortest token kept; shorter ones carry no signal.
const MinTokenLength = 3

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"all": {}, "any": {}, "can": {}, "had": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "has": {}, "have": {}, "him": {}, "his": {}, "how": {},
	"its": {}, "may": {}, "new": {}, "now": {}, "own": {}, "she": {}, "too": {},
	"use": {}, "way": {}, "who": {}, "why": {}, "did": {}, "get": {}, "let": {},
	"put": {}, "say": {}, "via": {}, "per": {}, "yet": {}, "also": {}, "been": {},
	"being": {}, "both": {}, "each": {}, "from": {}, "into": {}, "just": {},
	"more": {}, "most": {}, "much": {}, "must": {}, "only": {}, "other": {},
	"over": {}, "same": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "under": {}, "very": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "will": {},
	"with": {}, "within": {}, "without": {}, "would": {}, "your": {}, "yours": {},
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "before": {},
	"below": {}, "between": {}, "could": {}, "does": {}, "doing": {}, "during": {},
	"further": {}, "here": {}, "itself": {}, "should": {}, "until": {}, "upon": {},
	"using": {}, "used": {}, "uses": {}, "based": {}, "wherein": {}, "thereof": {},
	"herein": {}, "said": {},
}

// IsStopword reports whether tok is ignored by the tokenizer.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// TokenSet is an ordered set of significant words. Order is first occurrence
// in the source text, which keeps phrase generation deterministic.
type TokenSet struct {
	order []string
	index map[string]struct{}
}

// NewTokenSet builds a set from already-normalised tokens.
func NewTokenSet(tokens ...string) TokenSet {
	ts := TokenSet{index: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		ts.add(t)
	}
	return ts
}

func (s *TokenSet) add(tok string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, dup := s.index[tok]; dup {
		return
	}
	s.index[tok] = struct{}{}
	s.order = append(s.order, tok)
}

func (s TokenSet) Len() int { return len(s.order) }

func (s TokenSet) Contains(tok string) bool {
	_, ok := s.index[tok]
	return ok
}

// Tokens returns a copy of the tokens in first-occurrence order.
func (s TokenSet) Tokens() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Shared returns tokens of s also present in other, in s's order.
func (s TokenSet) Shared(other TokenSet) []string {
	var out []string
	for _, t := range s.order {
		if other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Missing returns tokens of s absent from other, in s's order.
func (s TokenSet) Missing(other TokenSet) []string {
	var out []string
	for _, t := range s.order {
		if !other.Contains(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tokenize lowercases text, turns every non-alphanumeric rune into a space,
// splits on whitespace and drops short tokens and stopwords. Compatibility
// forms and accents are folded first so "Ｗｉ-Ｆｉ" and "wi fi" agree.
func Tokenize(text string) TokenSet {
	folded := foldText(text)
	ts := TokenSet{index: make(map[string]struct{})}
	for _, tok := range strings.Fields(folded) {
		if utf8.RuneCountInString(tok) < MinTokenLength {
			continue
		}
		if IsStopword(tok) {
			continue
		}
		ts.add(tok)
	}
	return ts
}

func foldText(text string) string {
	decomposed := norm.NFKD.String(strings.ToLower(text))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
