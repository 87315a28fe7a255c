package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/turtacn/PatentBot-AI/internal/intelligence/provider"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/PatentBot-AI/pkg/errors"
)

// ErrMissingAPIKey is returned when the client has no credential.
var ErrMissingAPIKey = errors.New("retrieval: API key not configured")

const providerName = "perplexity"

// PerplexityConfig configures PerplexityClient.
type PerplexityConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// MaxRetries applies to 429 and transient 5xx responses.
	MaxRetries  int
	Temperature float64
	MaxTokens   int
	Source      string
}

// PerplexityClient asks an OpenAI-compatible chat-completions endpoint with
// web search for prior art.
type PerplexityClient struct {
	cfg    PerplexityConfig
	client *http.Client
	guard  *provider.Guard
	logger logging.Logger
}

// Option customises a PerplexityClient.
type Option func(*PerplexityClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *PerplexityClient) { p.client = c }
}

// WithGuard routes every call through g.
func WithGuard(g *provider.Guard) Option {
	return func(p *PerplexityClient) { p.guard = g }
}

func NewPerplexityClient(cfg PerplexityConfig, logger logging.Logger, opts ...Option) *PerplexityClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.perplexity.ai"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "sonar"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Source == "" {
		cfg.Source = "Perplexity AI Search"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	p := &PerplexityClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("retrieval"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Retrieve runs one search. A response that cannot be decoded still returns
// the raw text alongside the error so it can be archived.
func (p *PerplexityClient) Retrieve(ctx context.Context, searchContext string) (*Retrieval, error) {
	if p.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, span := otel.Tracer("patentbot/retrieval").Start(ctx, "perplexity.Retrieve")
	defer span.End()
	span.SetAttributes(
		attribute.String("retrieval.model", p.cfg.Model),
		attribute.Int("retrieval.context_chars", len(searchContext)),
	)

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var content string
	call := func(ctx context.Context) error {
		var err error
		content, err = p.complete(ctx, searchContext)
		return err
	}

	var err error
	if p.guard != nil {
		err = p.guard.Do(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, classify(err)
	}

	out := &Retrieval{Raw: content, Source: p.cfg.Source}
	candidates, err := DecodeCandidates(content)
	if err != nil {
		span.RecordError(err)
		return out, apperrors.Wrap(err, apperrors.ErrCodeRetrievalUnparseable, "retrieval response carried no candidates")
	}
	out.Candidates = candidates
	span.SetAttributes(attribute.Int("retrieval.candidates", len(candidates)))

	p.logger.Debug("retrieval completed",
		logging.Int("candidates", len(candidates)),
		logging.Int("raw_bytes", len(content)))
	return out, nil
}

func (p *PerplexityClient) complete(ctx context.Context, searchContext string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, searchContext)},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := provider.DoWithRetry(ctx, p.client, req, p.cfg.MaxRetries)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", provider.ReadError(providerName, resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func classify(err error) error {
	if _, ok := err.(*apperrors.AppError); ok {
		return err
	}
	var se *provider.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return apperrors.Wrap(err, apperrors.ErrCodeProviderRateLimited, "retrieval provider rate limited")
	}
	return apperrors.Wrap(err, apperrors.ErrCodeRetrievalFailed, "retrieval request failed")
}
