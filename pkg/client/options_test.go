package client

import (
	"net/http"
	"testing"
	"time"
)

func TestWithHTTPClient(t *testing.T) {
	customClient := &http.Client{Timeout: 60 * time.Second}
	c := &Client{}

	WithHTTPClient(customClient)(c)

	if c.httpClient != customClient {
		t.Error("WithHTTPClient did not set custom HTTP client")
	}
}

func TestWithTimeout(t *testing.T) {
	c := &Client{httpClient: &http.Client{Timeout: time.Second}}

	WithTimeout(0)(c)
	if c.httpClient.Timeout != time.Second {
		t.Errorf("zero timeout must be ignored, got %v", c.httpClient.Timeout)
	}

	WithTimeout(2 * time.Minute)(c)
	if c.httpClient.Timeout != 2*time.Minute {
		t.Errorf("WithTimeout: got %v", c.httpClient.Timeout)
	}
}

func TestWithLogger(t *testing.T) {
	logger := &testLogger{}
	c := &Client{}

	WithLogger(logger)(c)

	if c.logger != logger {
		t.Error("WithLogger did not set custom logger")
	}
}

func TestWithRetryMax(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive value", 5, 5},
		{"zero value", 0, 0},
		{"negative value ignored", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryMax: 3}
			WithRetryMax(tt.input)(c)
			if c.retryMax != tt.expected {
				t.Errorf("WithRetryMax(%d): got %d, want %d", tt.input, c.retryMax, tt.expected)
			}
		})
	}
}

func TestWithRetryWait(t *testing.T) {
	tests := []struct {
		name        string
		min, max    time.Duration
		expectedMin time.Duration
		expectedMax time.Duration
	}{
		{"valid range", time.Second, 10 * time.Second, time.Second, 10 * time.Second},
		{"max below min keeps max", 2 * time.Second, time.Second, 2 * time.Second, 5 * time.Second},
		{"non-positive min ignored", 0, time.Second, 500 * time.Millisecond, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{retryWaitMin: 500 * time.Millisecond, retryWaitMax: 5 * time.Second}
			WithRetryWait(tt.min, tt.max)(c)
			if c.retryWaitMin != tt.expectedMin || c.retryWaitMax != tt.expectedMax {
				t.Errorf("got (%v, %v), want (%v, %v)", c.retryWaitMin, c.retryWaitMax, tt.expectedMin, tt.expectedMax)
			}
		})
	}
}

func TestWithUserAgent(t *testing.T) {
	c := &Client{userAgent: "default"}

	WithUserAgent("")(c)
	if c.userAgent != "default" {
		t.Error("empty user agent must be ignored")
	}

	WithUserAgent("patentbot-cli/1.0")(c)
	if c.userAgent != "patentbot-cli/1.0" {
		t.Errorf("WithUserAgent: got %q", c.userAgent)
	}
}

func TestWithAPIKey(t *testing.T) {
	c := &Client{}
	WithAPIKey("k")(c)
	if c.apiKey != "k" {
		t.Errorf("WithAPIKey: got %q", c.apiKey)
	}
}
