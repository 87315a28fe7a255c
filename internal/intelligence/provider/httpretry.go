// Package provider holds the plumbing shared by the AI provider clients:
// HTTP retries, status errors and the breaker/limiter guard.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff step; it doubles per attempt.
// Tests override it to avoid real sleeps.
var RetryBaseDelay = 500 * time.Millisecond

// maxRetryAfter bounds how long a Retry-After header may make us wait.
const maxRetryAfter = 30 * time.Second

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable reports whether the status is worth another attempt.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry sends req and retries on 429 and transient 5xx responses with
// exponential backoff, honouring Retry-After when present. Request bodies are
// replayed through req.GetBody. After maxRetries the last response is
// returned unread so the caller can inspect it. Cancellation of ctx during a
// backoff wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfter {
			d = maxRetryAfter
		}
		return d
	}
	return RetryBaseDelay << uint(attempt)
}

// ReadError drains a failed response into a StatusError, keeping at most
// 512 bytes of the body.
func ReadError(providerName string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Provider: providerName, StatusCode: resp.StatusCode, Body: string(body)}
}
