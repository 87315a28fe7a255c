// Package priorart holds the wire types of the prior-art search API. They are
// shared by the HTTP handlers and the Go client.
package priorart

import (
	"strings"
	"time"
)

// Error strings returned by the search endpoint.
const (
	ErrSessionIDRequired   = "session_id is required"
	ErrInvalidRequestBody  = "invalid request body"
	ErrSessionNotFound     = "Session not found"
	ErrSearchInProgress    = "Search already in progress"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests"
)

// SearchRequest is the body of POST /api/v1/prior-art/search.
type SearchRequest struct {
	SessionID   string `json:"session_id"`
	SearchQuery string `json:"search_query,omitempty"`
	PatentType  string `json:"patent_type,omitempty"`
}

// Validate reports the only request-level failure: a blank session id.
func (r SearchRequest) Validate() bool {
	return strings.TrimSpace(r.SessionID) != ""
}

// SearchResponse is returned on success and on session or server failures.
// Plain validation failures use ErrorResponse instead.
type SearchResponse struct {
	Success      bool   `json:"success"`
	ResultsFound int    `json:"results_found"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	Details      string `json:"details,omitempty"`
}

// ErrorResponse is the minimal error body for malformed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ResultDTO is one stored prior-art result.
type ResultDTO struct {
	ID               string    `json:"id"`
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

// ResultsResponse is the body of GET /api/v1/prior-art/sessions/{id}/results.
type ResultsResponse struct {
	SessionID string      `json:"session_id"`
	Count     int         `json:"count"`
	Results   []ResultDTO `json:"results"`
}
