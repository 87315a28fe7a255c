package priorart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequest_Validate(t *testing.T) {
	assert.True(t, SearchRequest{SessionID: "abc"}.Validate())
	assert.False(t, SearchRequest{}.Validate())
	assert.False(t, SearchRequest{SessionID: "  \t"}.Validate())
}

func TestSearchResponse_OmitsEmptyFields(t *testing.T) {
	raw, err := json.Marshal(SearchResponse{Success: true, ResultsFound: 0, Message: "none"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"results_found":0,"message":"none"}`, string(raw))
}

func TestResultsResponse_EmptyClaimsStayArrays(t *testing.T) {
	raw, err := json.Marshal(ResultDTO{OverlapClaims: []string{}, DifferenceClaims: []string{}})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overlap_claims":[]`)
	assert.Contains(t, string(raw), `"difference_claims":[]`)
}
