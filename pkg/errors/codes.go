package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeConfigMissing      ErrorCode = "COMMON_015"
	ErrCodeStorageError       ErrorCode = "COMMON_016"
	ErrCodeMessagingError     ErrorCode = "COMMON_017"
)

// Aliases used throughout the handlers and repositories.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
)

// Session Module Error Codes
const (
	ErrCodeSessionNotFound      ErrorCode = "SES_001"
	ErrCodeSessionInvalid       ErrorCode = "SES_002"
	ErrCodeSessionQuestionsRead ErrorCode = "SES_003"
)

// Prior-Art Search Module Error Codes
const (
	ErrCodeSearchInProgress    ErrorCode = "SRCH_001"
	ErrCodeSearchPersistFailed ErrorCode = "SRCH_002"
	ErrCodeSearchCancelled     ErrorCode = "SRCH_003"
	ErrCodeResultsNotFound     ErrorCode = "SRCH_004"
)

// AI Provider Error Codes
const (
	ErrCodeRetrievalFailed      ErrorCode = "AI_001"
	ErrCodeRetrievalUnparseable ErrorCode = "AI_002"
	ErrCodeEmbeddingFailed      ErrorCode = "AI_003"
	ErrCodeProviderRateLimited  ErrorCode = "AI_004"
	ErrCodeProviderUnavailable  ErrorCode = "AI_005"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeConfigMissing:      http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,

	ErrCodeSessionNotFound:      http.StatusNotFound,
	ErrCodeSessionInvalid:       http.StatusBadRequest,
	ErrCodeSessionQuestionsRead: http.StatusInternalServerError,

	ErrCodeSearchInProgress:    http.StatusConflict,
	ErrCodeSearchPersistFailed: http.StatusInternalServerError,
	ErrCodeSearchCancelled:     http.StatusRequestTimeout,
	ErrCodeResultsNotFound:     http.StatusNotFound,

	ErrCodeRetrievalFailed:      http.StatusBadGateway,
	ErrCodeRetrievalUnparseable: http.StatusBadGateway,
	ErrCodeEmbeddingFailed:      http.StatusBadGateway,
	ErrCodeProviderRateLimited:  http.StatusTooManyRequests,
	ErrCodeProviderUnavailable:  http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps ErrorCodes to default human-readable messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeConfigMissing:      "required configuration is missing",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessagingError:     "message broker error",

	ErrCodeSessionNotFound:      "session not found",
	ErrCodeSessionInvalid:       "invalid session",
	ErrCodeSessionQuestionsRead: "failed to read session questions",

	ErrCodeSearchInProgress:    "a search is already running for this session",
	ErrCodeSearchPersistFailed: "failed to store search results",
	ErrCodeSearchCancelled:     "search cancelled",
	ErrCodeResultsNotFound:     "no stored results for session",

	ErrCodeRetrievalFailed:      "patent retrieval failed",
	ErrCodeRetrievalUnparseable: "patent retrieval response could not be parsed",
	ErrCodeEmbeddingFailed:      "embedding request failed",
	ErrCodeProviderRateLimited:  "AI provider rate limited",
	ErrCodeProviderUnavailable:  "AI provider unavailable",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
