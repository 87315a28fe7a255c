package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/turtacn/PatentBot-AI/pkg/errors"
	"github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

const (
	searchPath        = "/api/v1/prior-art/search"
	resultsPathPrefix = "/api/v1/prior-art/sessions/"
	resultsPathSuffix = "/results"
)

// RunSearch starts a prior-art search for a session and waits for it to
// finish. The server replaces any results stored for the session.
func (c *Client) RunSearch(ctx context.Context, req *priorart.SearchRequest) (*priorart.SearchResponse, error) {
	if req == nil || !req.Validate() {
		return nil, errors.InvalidParam(priorart.ErrSessionIDRequired)
	}
	var resp priorart.SearchResponse
	if err := c.do(ctx, http.MethodPost, searchPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListResults returns the stored results of a session in rank order.
func (c *Client) ListResults(ctx context.Context, sessionID string) (*priorart.ResultsResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.InvalidParam(priorart.ErrSessionIDRequired)
	}
	var resp priorart.ResultsResponse
	path := resultsPathPrefix + url.PathEscape(sessionID) + resultsPathSuffix
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []priorart.ResultDTO{}
	}
	return &resp, nil
}
