package retrieval

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
)

// ErrUnparseable is returned when the text holds no JSON array of objects.
var ErrUnparseable = errors.New("retrieval: no JSON array of candidates in response")

var fieldAliases = map[string][]string{
	"number":   {"number", "patent_number", "publication_number", "patentNumber", "id"},
	"title":    {"title", "name"},
	"abstract": {"abstract", "summary", "description"},
	"date":     {"date", "publication_date", "publicationDate", "filing_date"},
	"assignee": {"assignee", "organization", "applicant", "owner"},
}

// DecodeCandidates extracts candidates from free-form provider output. It
// looks for the first well-formed JSON array whose elements are objects,
// skipping surrounding prose, code fences and citation markers like "[1]".
// Field values are coerced to strings. Entries with neither a number nor a
// title are dropped.
func DecodeCandidates(text string) ([]priorart.Candidate, error) {
	raw, ok := findObjectArray(text)
	if !ok {
		return nil, ErrUnparseable
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrUnparseable
	}

	out := make([]priorart.Candidate, 0, len(items))
	for _, item := range items {
		c := priorart.Candidate{
			Number:   lookup(item, "number"),
			Title:    lookup(item, "title"),
			Abstract: lookup(item, "abstract"),
			Date:     lookup(item, "date"),
			Assignee: lookup(item, "assignee"),
		}
		if c.Number == "" && c.Title == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// findObjectArray returns the first balanced [...] span that parses as an
// array of objects (an empty array counts).
func findObjectArray(text string) ([]byte, bool) {
	for start := strings.IndexByte(text, '['); start >= 0; {
		if end, ok := matchBracket(text, start); ok {
			span := []byte(text[start : end+1])
			if isObjectArray(span) {
				return span, true
			}
		}
		next := strings.IndexByte(text[start+1:], '[')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchBracket finds the ']' closing the '[' at start, ignoring brackets
// inside JSON strings.
func matchBracket(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func isObjectArray(span []byte) bool {
	var elems []json.RawMessage
	if err := json.Unmarshal(span, &elems); err != nil {
		return false
	}
	for _, e := range elems {
		if len(e) == 0 || e[0] != '{' {
			return false
		}
	}
	return true
}

func lookup(item map[string]json.RawMessage, field string) string {
	for _, key := range fieldAliases[field] {
		if v, ok := item[key]; ok {
			if s := coerce(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// coerce renders a JSON value as a trimmed string: numbers keep their
// literal text, null is "", lists of scalars are joined with ", ".
func coerce(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if json.Unmarshal(v, &s) != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case 'n':
		return ""
	case 't', 'f':
		var b bool
		if json.Unmarshal(v, &b) != nil {
			return ""
		}
		return strconv.FormatBool(b)
	case '[':
		var list []json.RawMessage
		if json.Unmarshal(v, &list) != nil {
			return ""
		}
		parts := make([]string, 0, len(list))
		for _, e := range list {
			if s := coerce(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case '{':
		return ""
	default:
		var n json.Number
		if json.Unmarshal(v, &n) != nil {
			return ""
		}
		return n.String()
	}
}
