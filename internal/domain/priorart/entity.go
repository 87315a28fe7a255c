// Package priorart holds the prior-art search domain: the drafting session
// the search reads from, the candidates it retrieves, the scoring rules and
// the result records it stores.
package priorart

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the subset of a drafting session the search reads.
type Session struct {
	ID                string
	IdeaPrompt        string
	TechnicalAnalysis string
	// BackendAnalysis is the raw blob stored by the analysis step. It is
	// usually JSON but older sessions hold plain text.
	BackendAnalysis string
	PatentCategory  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// QAPair is one answered (or unanswered) interview question.
type QAPair struct {
	Ordinal  int
	Question string
	Answer   string
}

// BackendAnalysis is the decoded form of Session.BackendAnalysis.
type BackendAnalysis struct {
	Summary       string `json:"summary"`
	TableCount    int    `json:"table_count"`
	FunctionCount int    `json:"function_count"`
}

// ParseBackendAnalysis decodes raw leniently. JSON objects are read for a
// summary and system facts (several key spellings are accepted); anything
// else that is not JSON is treated as a plain-text summary.
func ParseBackendAnalysis(raw string) BackendAnalysis {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BackendAnalysis{}
	}

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		var text string
		if json.Unmarshal([]byte(raw), &text) == nil {
			return BackendAnalysis{Summary: strings.TrimSpace(text)}
		}
		if json.Valid([]byte(raw)) {
			return BackendAnalysis{}
		}
		return BackendAnalysis{Summary: raw}
	}

	var ba BackendAnalysis
	ba.Summary = firstString(m, "summary", "analysis", "overview")
	ba.TableCount = firstCount(m, "table_count", "tables", "custom_tables", "tableCount")
	ba.FunctionCount = firstCount(m, "function_count", "functions", "custom_functions", "functionCount")
	return ba
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstCount accepts a number or a list (whose length is the count).
func firstCount(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v > 0 {
				return int(v)
			}
		case []interface{}:
			if len(v) > 0 {
				return len(v)
			}
		}
	}
	return 0
}

// Candidate is one prior-art document returned by the retriever.
type Candidate struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Date     string `json:"date,omitempty"`
	Assignee string `json:"assignee,omitempty"`
}

// Text is the candidate text compared against the query.
func (c Candidate) Text() string {
	switch {
	case c.Title == "":
		return c.Abstract
	case c.Abstract == "":
		return c.Title
	default:
		return c.Title + "\n" + c.Abstract
	}
}

var patentNumberNoise = regexp.MustCompile(`[\s,]+`)

// URL links the candidate to its public patent page, or "" without a number.
func (c Candidate) URL() string {
	n := patentNumberNoise.ReplaceAllString(strings.TrimSpace(c.Number), "")
	if n == "" {
		return ""
	}
	return "https://patents.google.com/patent/" + n
}

// Scores is the similarity triple computed for one candidate.
type Scores struct {
	Keyword           float64
	Semantic          float64
	SemanticAvailable bool
	Combined          float64
}

// Result is the persisted, ranked, annotated form of a candidate.
type Result struct {
	ID               uuid.UUID `json:"id"`
	SessionID        string    `json:"session_id"`
	Rank             int       `json:"rank"`
	Title            string    `json:"title"`
	ExternalID       string    `json:"external_id"`
	Summary          string    `json:"summary"`
	CombinedScore    float64   `json:"combined_score"`
	SemanticScore    float64   `json:"semantic_score"`
	KeywordScore     float64   `json:"keyword_score"`
	Assignee         string    `json:"assignee,omitempty"`
	PublicationDate  string    `json:"publication_date,omitempty"`
	URL              string    `json:"url,omitempty"`
	OverlapClaims    []string  `json:"overlap_claims"`
	DifferenceClaims []string  `json:"difference_claims"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewResult builds an unranked result for sessionID from a scored candidate.
func NewResult(sessionID string, c Candidate, s Scores, d Differentiators, source string, now time.Time) *Result {
	return &Result{
		ID:               uuid.New(),
		SessionID:        sessionID,
		Title:            c.Title,
		ExternalID:       c.Number,
		Summary:          c.Abstract,
		CombinedScore:    s.Combined,
		SemanticScore:    round3(s.Semantic),
		KeywordScore:     round3(s.Keyword),
		Assignee:         c.Assignee,
		PublicationDate:  c.Date,
		URL:              c.URL(),
		OverlapClaims:    d.Overlap,
		DifferenceClaims: d.Difference,
		Source:           source,
		CreatedAt:        now.UTC(),
	}
}

// SearchRequest is the input of one prior-art search.
type SearchRequest struct {
	SessionID   string
	SearchQuery string
	PatentType  string
}

// SearchOutcome summarises a completed search.
type SearchOutcome struct {
	SessionID       string
	ResultsFound    int
	Message         string
	SemanticEnabled bool
	TopScore        float64
	Duration        time.Duration
}

const (
	MessageNoPriorArt = "No prior art found - this is a strong novelty indicator for your invention."
	messageFoundFmt   = "Found %d potentially relevant patents. Review the overlaps and differences to assess novelty."
)

// OutcomeMessage is the user-facing message for a search that found n results.
// Zero results are framed as good news rather than a failure.
func OutcomeMessage(n int) string {
	if n == 0 {
		return MessageNoPriorArt
	}
	return fmt.Sprintf(messageFoundFmt, n)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
