package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3", NamedCheck("postgres", func(context.Context) error {
		return errors.New("must not be called")
	}))
	w := httptest.NewRecorder()

	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_Readiness_NoCheckers(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler("dev").Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
}

func TestHealthHandler_Readiness_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	h := NewHealthHandler("dev", NamedCheck("postgres", ok), NamedCheck("redis", ok))
	w := httptest.NewRecorder()

	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Len(t, resp.Components, 2)
	assert.Equal(t, statusHealthy, resp.Components["redis"].Status)
}

func TestHealthHandler_Readiness_DependencyDown(t *testing.T) {
	h := NewHealthHandler("dev",
		NamedCheck("postgres", func(context.Context) error { return errors.New("connection refused") }),
		NamedCheck("minio", func(context.Context) error { return nil }),
	)
	w := httptest.NewRecorder()

	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, statusUnhealthy, resp.Components["postgres"].Status)
	assert.Equal(t, "connection refused", resp.Components["postgres"].Error)
	assert.Equal(t, statusHealthy, resp.Components["minio"].Status)
}

func TestHealthHandler_Detailed_Degraded(t *testing.T) {
	h := NewHealthHandler("dev", NamedCheck("redis", func(context.Context) error { return errors.New("timeout") }))
	w := httptest.NewRecorder()

	h.Detailed(w, httptest.NewRequest(http.MethodGet, "/healthz/detail", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp DetailedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "dev", resp.Version)
}
