package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	app "github.com/turtacn/PatentBot-AI/internal/application/priorart"
	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
	dto "github.com/turtacn/PatentBot-AI/pkg/types/priorart"
)

const (
	msgSessionNotFound = "No drafting session exists with this id."
	msgSearchRunning   = "A prior-art search is already running for this session. Try again when it finishes."
	msgSearchFailed    = "Prior-art search failed. Please try again later."
	msgSearchCancelled = "Prior-art search was cancelled before results were stored."
)

// PriorArtHandler serves the prior-art search and results endpoints.
type PriorArtHandler struct {
	svc    app.Service
	logger logging.Logger
}

func NewPriorArtHandler(svc app.Service, logger logging.Logger) *PriorArtHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PriorArtHandler{svc: svc, logger: logger}
}

// Search handles POST /api/v1/prior-art/search and its legacy function path.
func (h *PriorArtHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, dto.ErrInvalidRequestBody)
		return
	}
	if !req.Validate() {
		writeError(w, http.StatusBadRequest, dto.ErrSessionIDRequired)
		return
	}

	out, err := h.svc.Search(r.Context(), &domain.SearchRequest{
		SessionID:   strings.TrimSpace(req.SessionID),
		SearchQuery: req.SearchQuery,
		PatentType:  req.PatentType,
	})
	if err != nil {
		h.writeSearchError(w, r, req.SessionID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SearchResponse{
		Success:      true,
		ResultsFound: out.ResultsFound,
		Message:      out.Message,
	})
}

func (h *PriorArtHandler) writeSearchError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	fields := []logging.Field{
		logging.SessionID(sessionID),
		logging.RequestID(chimw.GetReqID(r.Context())),
		logging.String("code", errors.GetCode(err).String()),
		logging.Err(err),
	}

	switch {
	case errors.IsCode(err, errors.ErrCodeBadRequest):
		writeError(w, http.StatusBadRequest, dto.ErrSessionIDRequired)
	case errors.IsNotFound(err):
		h.logger.Warn("prior-art search for unknown session", fields...)
		writeJSON(w, http.StatusNotFound, dto.SearchResponse{
			Error:   dto.ErrSessionNotFound,
			Details: sessionID,
			Message: msgSessionNotFound,
		})
	case errors.IsCode(err, errors.ErrCodeSearchInProgress):
		h.logger.Warn("prior-art search rejected, another search is running", fields...)
		writeJSON(w, http.StatusConflict, dto.SearchResponse{
			Error:   dto.ErrSearchInProgress,
			Message: msgSearchRunning,
		})
	default:
		h.logger.Error("prior-art search failed", fields...)
		writeJSON(w, http.StatusInternalServerError, dto.SearchResponse{
			Error:   dto.ErrInternalServerError,
			Details: err.Error(),
			Message: failureMessage(err),
		})
	}
}

// failureMessage explains a 500 to the caller. A missing credential names
// the setting the operator has to provide.
func failureMessage(err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) && appErr.Code == errors.ErrCodeConfigMissing {
		return fmt.Sprintf("Prior-art search is not configured: set %s.", appErr.Detail)
	}
	if errors.IsCode(err, errors.ErrCodeSearchCancelled) {
		return msgSearchCancelled
	}
	return msgSearchFailed
}

// ListResults handles GET /api/v1/prior-art/sessions/{sessionID}/results.
func (h *PriorArtHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, dto.ErrSessionIDRequired)
		return
	}

	results, err := h.svc.ListResults(r.Context(), sessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			writeError(w, http.StatusNotFound, dto.ErrSessionNotFound)
			return
		}
		if errors.IsCode(err, errors.ErrCodeBadRequest) {
			writeError(w, http.StatusBadRequest, dto.ErrSessionIDRequired)
			return
		}
		h.logger.Error("failed to list prior-art results",
			logging.SessionID(sessionID),
			logging.RequestID(chimw.GetReqID(r.Context())),
			logging.Err(err))
		writeError(w, http.StatusInternalServerError, dto.ErrInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, NewResultsResponse(sessionID, results))
}

// NewResultsResponse renders stored results in their wire form.
func NewResultsResponse(sessionID string, results []*domain.Result) dto.ResultsResponse {
	resp := dto.ResultsResponse{
		SessionID: sessionID,
		Count:     len(results),
		Results:   make([]dto.ResultDTO, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, toResultDTO(res))
	}
	return resp
}

func toResultDTO(r *domain.Result) dto.ResultDTO {
	return dto.ResultDTO{
		ID:               r.ID.String(),
		SessionID:        r.SessionID,
		Rank:             r.Rank,
		Title:            r.Title,
		ExternalID:       r.ExternalID,
		Summary:          r.Summary,
		CombinedScore:    r.CombinedScore,
		SemanticScore:    r.SemanticScore,
		KeywordScore:     r.KeywordScore,
		Assignee:         r.Assignee,
		PublicationDate:  r.PublicationDate,
		URL:              r.URL,
		OverlapClaims:    nonNil(r.OverlapClaims),
		DifferenceClaims: nonNil(r.DifferenceClaims),
		Source:           r.Source,
		CreatedAt:        r.CreatedAt,
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
