package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.CodeInternal, "unexpected failure"},
		{"session missing", errors.ErrCodeSessionNotFound, "session 42 not found"},
		{"invalid param", errors.CodeInvalidParam, "session_id is required"},
		{"search busy", errors.ErrCodeSearchInProgress, "search already running"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	t.Parallel()

	root := stderrors.New("connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeDatabaseError, "failed to replace results")

	require.NotNil(t, wrapped)
	assert.True(t, stderrors.Is(wrapped, root))
	assert.Equal(t, errors.ErrCodeDatabaseError, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Contains(t, wrapped.Error(), "[COMMON_012]")
}

func TestWrap_UnknownCodeInheritsInner(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSessionNotFound, "session not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "loading search context")
	assert.Equal(t, errors.ErrCodeSessionNotFound, outer.Code)

	plain := errors.Wrap(fmt.Errorf("boom"), errors.CodeUnknown, "context")
	assert.Equal(t, errors.CodeInternal, plain.Code)
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	base := errors.New(errors.CodeInternal, "base")
	detailed := base.WithDetail("session=abc")

	assert.Empty(t, base.Detail)
	assert.Equal(t, "session=abc", detailed.Detail)
	assert.Equal(t, "[COMMON_001] base: session=abc", detailed.Error())

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeConfigMissing, "missing key")
	outer := errors.Wrap(inner, errors.CodeInternal, "search failed")
	std := fmt.Errorf("handler: %w", outer)

	assert.True(t, errors.IsCode(std, errors.CodeInternal))
	assert.True(t, errors.IsCode(std, errors.ErrCodeConfigMissing))
	assert.False(t, errors.IsCode(std, errors.ErrCodeDatabaseError))
	assert.False(t, errors.IsCode(nil, errors.CodeInternal))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic", errors.NotFound("not found"), true},
		{"session", errors.New(errors.ErrCodeSessionNotFound, "missing"), true},
		{"results", errors.New(errors.ErrCodeResultsNotFound, "missing"), true},
		{"wrapped", fmt.Errorf("outer: %w", errors.NotFound("inner")), true},
		{"internal", errors.Internal("boom"), false},
		{"plain", fmt.Errorf("plain"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, errors.IsNotFound(tc.err))
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.ErrCodeSearchInProgress, errors.GetCode(errors.New(errors.ErrCodeSearchInProgress, "busy")))
}

func TestConfigMissing_NamesSetting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigMissing("PATENTBOT_SEARCH_RETRIEVAL_API_KEY")
	assert.Equal(t, errors.ErrCodeConfigMissing, err.Code)
	assert.Contains(t, err.Message, "PATENTBOT_SEARCH_RETRIEVAL_API_KEY")
	assert.Equal(t, "PATENTBOT_SEARCH_RETRIEVAL_API_KEY", err.Detail)
}
