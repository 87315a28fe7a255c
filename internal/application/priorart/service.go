// Package priorart orchestrates a prior-art search: it builds the search
// context from the drafting session, retrieves candidates, scores and
// annotates them, and replaces the session's stored results.
package priorart

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turtacn/PatentBot-AI/internal/config"
	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/embedding"
	"github.com/turtacn/PatentBot-AI/internal/intelligence/retrieval"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

const (
	DefaultEmbeddingConcurrency = 5
	DefaultSourceLabel          = "Perplexity AI Search"

	lockReleaseTimeout = 5 * time.Second
)

// Search outcome labels used for metrics.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeConfig    = "config"
	OutcomeConflict  = "conflict"
	OutcomeNotFound  = "not_found"
	OutcomeCancelled = "cancelled"
	OutcomePersist   = "persist"
	OutcomeError     = "error"
)

// Config carries the switches that change pipeline behaviour. It is passed
// to the constructor; the pipeline never reads the environment itself.
type Config struct {
	RetrievalAPIKey      string
	EmbeddingAPIKey      string
	EmbeddingConcurrency int
	MaxContextChars      int
	SourceLabel          string
}

// ConfigFrom maps the loaded search configuration.
func ConfigFrom(sc config.SearchConfig) Config {
	return Config{
		RetrievalAPIKey:      sc.RetrievalAPIKey,
		EmbeddingAPIKey:      sc.EmbeddingAPIKey,
		EmbeddingConcurrency: sc.EmbeddingConcurrency,
		MaxContextChars:      sc.MaxContextChars,
		SourceLabel:          sc.SourceLabel,
	}
}

// Service runs prior-art searches and reads their stored results.
type Service interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchOutcome, error)
	ListResults(ctx context.Context, sessionID string) ([]*domain.Result, error)
}

// Deps holds all dependencies. Sessions, Results and Retriever are required;
// a nil Embedder means keyword-only scoring.
type Deps struct {
	Config    Config
	Sessions  domain.SessionRepository
	Results   domain.ResultRepository
	Retriever retrieval.Retriever
	Embedder  embedding.Embedder
	Publisher EventPublisher
	Archiver  ResponseArchiver
	Locker    SearchLocker
	Metrics   Metrics
	Selector  domain.TemplateSelector
	Logger    logging.Logger
	Now       func() time.Time
}

type serviceImpl struct {
	cfg       Config
	sessions  domain.SessionRepository
	results   domain.ResultRepository
	retriever retrieval.Retriever
	embedder  embedding.Embedder
	publisher EventPublisher
	archiver  ResponseArchiver
	locker    SearchLocker
	metrics   Metrics
	extractor *domain.DifferentiatorExtractor
	logger    logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(deps Deps) Service {
	cfg := deps.Config
	if cfg.EmbeddingConcurrency <= 0 {
		cfg.EmbeddingConcurrency = DefaultEmbeddingConcurrency
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = domain.DefaultMaxContextChars
	}
	if cfg.SourceLabel == "" {
		cfg.SourceLabel = DefaultSourceLabel
	}

	s := &serviceImpl{
		cfg:       cfg,
		sessions:  deps.Sessions,
		results:   deps.Results,
		retriever: deps.Retriever,
		embedder:  deps.Embedder,
		publisher: deps.Publisher,
		archiver:  deps.Archiver,
		locker:    deps.Locker,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		tracer:    otel.Tracer("patentbot/priorart"),
		now:       deps.Now,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.archiver == nil {
		s.archiver = noopArchiver{}
	}
	if s.locker == nil {
		s.locker = NoopLocker{}
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	sel := deps.Selector
	if sel == nil {
		sel = domain.NewRandomSelector(time.Now().UnixNano())
	}
	s.extractor = domain.NewDifferentiatorExtractor(sel)
	return s
}

func (s *serviceImpl) semanticConfigured() bool {
	return s.embedder != nil && s.cfg.EmbeddingAPIKey != ""
}

// Search runs the full pipeline for one session. Retrieval and embedding
// failures degrade the result; a missing retrieval credential, an unknown
// session or a persistence failure abort it.
func (s *serviceImpl) Search(ctx context.Context, req *domain.SearchRequest) (out *domain.SearchOutcome, err error) {
	start := s.now()
	outcome, semantic, candidates := OutcomeError, false, 0
	defer func() {
		if err == nil {
			s.metrics.ObserveSearch(OutcomeSuccess, out.SemanticEnabled, candidates, out.ResultsFound, out.TopScore, out.Duration)
			return
		}
		s.metrics.ObserveSearch(outcome, semantic, candidates, 0, 0, s.now().Sub(start))
	}()

	if req == nil || strings.TrimSpace(req.SessionID) == "" {
		outcome = OutcomeInvalid
		return nil, errors.New(errors.ErrCodeBadRequest, "session_id is required")
	}
	sessionID := strings.TrimSpace(req.SessionID)

	if strings.TrimSpace(s.cfg.RetrievalAPIKey) == "" {
		outcome = OutcomeConfig
		s.logger.Error("retrieval credential missing", logging.SessionID(sessionID))
		return nil, errors.ConfigMissing(config.EnvRetrievalAPIKey)
	}

	ctx, span := s.tracer.Start(ctx, "priorart.Search", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	release, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		outcome = OutcomeConflict
		if !errors.IsCode(err, errors.ErrCodeSearchInProgress) {
			outcome = OutcomeError
		}
		return nil, err
	}
	defer func() {
		rctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
		defer cancel()
		if rerr := release(rctx); rerr != nil {
			s.logger.Warn("failed to release search lock", logging.SessionID(sessionID), logging.Err(rerr))
		}
	}()

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.IsNotFound(err) {
			outcome = OutcomeNotFound
		}
		return nil, err
	}
	qa, qerr := s.sessions.ListQuestions(ctx, sessionID)
	if qerr != nil {
		s.logger.Warn("session questions unavailable, continuing without them",
			logging.SessionID(sessionID), logging.Err(qerr))
		qa = nil
	}

	searchContext := domain.BuildContext(
		domain.NewContextInput(session, qa, req.SearchQuery, req.PatentType),
		s.cfg.MaxContextChars,
	)
	span.SetAttributes(attribute.Int("search.context_chars", len(searchContext)))

	found := s.retrieve(ctx, sessionID, searchContext)
	candidates = len(found)

	var scored []scoredCandidate
	scored, semantic = s.scoreCandidates(ctx, sessionID, searchContext, found, s.semanticConfigured())
	if cerr := ctx.Err(); cerr != nil {
		outcome = OutcomeCancelled
		return nil, errors.Wrap(cerr, errors.ErrCodeSearchCancelled, "search cancelled")
	}

	facts := domain.FactsFromAnalysis(domain.ParseBackendAnalysis(session.BackendAnalysis))
	queryTokens := domain.Tokenize(searchContext)
	now := s.now()
	results := make([]*domain.Result, 0, len(scored))
	for _, sc := range scored {
		diff := s.extractor.Extract(queryTokens, sc.tokens, facts)
		results = append(results, domain.NewResult(sessionID, sc.candidate, sc.scores, diff, s.cfg.SourceLabel, now))
	}
	domain.Rank(results)

	if err := s.persist(ctx, sessionID, results); err != nil {
		outcome = OutcomePersist
		return nil, err
	}

	out = &domain.SearchOutcome{
		SessionID:       sessionID,
		ResultsFound:    len(results),
		Message:         domain.OutcomeMessage(len(results)),
		SemanticEnabled: semantic,
		Duration:        s.now().Sub(start),
	}
	if len(results) > 0 {
		out.TopScore = results[0].CombinedScore
	}
	span.SetAttributes(
		attribute.Int("search.results", out.ResultsFound),
		attribute.Bool("search.semantic", semantic),
	)

	s.publish(ctx, out, results)

	s.logger.Info("prior-art search completed",
		logging.SessionID(sessionID),
		logging.Int("candidates", candidates),
		logging.Int("results", out.ResultsFound),
		logging.Bool("semantic", semantic),
		logging.Float64("top_score", out.TopScore),
		logging.Duration("duration", out.Duration))
	return out, nil
}

// retrieve never fails the search: provider errors and unparseable answers
// both yield zero candidates.
func (s *serviceImpl) retrieve(ctx context.Context, sessionID, searchContext string) []domain.Candidate {
	ctx, span := s.tracer.Start(ctx, "priorart.retrieve")
	defer span.End()

	start := s.now()
	res, err := s.retriever.Retrieve(ctx, searchContext)
	status := "ok"
	switch {
	case err == nil:
	case errors.IsCode(err, errors.ErrCodeRetrievalUnparseable):
		status = "unparseable"
	default:
		status = "error"
	}
	s.metrics.ObserveRetrieval(status, s.now().Sub(start))

	if res != nil && res.Raw != "" {
		s.archive(ctx, sessionID, res)
	}
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("retrieval failed, continuing with no candidates",
			logging.SessionID(sessionID),
			logging.String("status", status),
			logging.Err(err))
		return nil
	}
	if res == nil {
		return nil
	}
	span.SetAttributes(attribute.Int("retrieval.candidates", len(res.Candidates)))
	return res.Candidates
}

func (s *serviceImpl) archive(ctx context.Context, sessionID string, res *retrieval.Retrieval) {
	source := res.Source
	if source == "" {
		source = s.cfg.SourceLabel
	}
	key, err := s.archiver.Archive(ctx, sessionID, source, res.Raw)
	s.metrics.IncArchiveWrite(err)
	if err != nil {
		s.logger.Warn("failed to archive retrieval response", logging.SessionID(sessionID), logging.Err(err))
		return
	}
	if key != "" {
		s.logger.Debug("retrieval response archived", logging.SessionID(sessionID), logging.String("key", key))
	}
}

func (s *serviceImpl) persist(ctx context.Context, sessionID string, results []*domain.Result) error {
	ctx, span := s.tracer.Start(ctx, "priorart.persist", trace.WithAttributes(attribute.Int("results", len(results))))
	defer span.End()

	if err := s.results.ReplaceForSession(ctx, sessionID, results); err != nil {
		span.RecordError(err)
		s.logger.Error("failed to store prior-art results", logging.SessionID(sessionID), logging.Err(err))
		return errors.Wrap(err, errors.ErrCodeSearchPersistFailed, "failed to store search results")
	}
	return nil
}

func (s *serviceImpl) publish(ctx context.Context, out *domain.SearchOutcome, results []*domain.Result) {
	evt := domain.NewSearchCompletedEvent(out, results)
	err := s.publisher.PublishSearchCompleted(ctx, evt)
	s.metrics.IncEventPublished(evt.EventType(), err)
	if err != nil {
		s.logger.Warn("failed to publish search event",
			logging.SessionID(out.SessionID),
			logging.String("event_id", evt.EventID()),
			logging.Err(err))
	}
}

// ListResults returns the stored results of an existing session by rank.
func (s *serviceImpl) ListResults(ctx context.Context, sessionID string) ([]*domain.Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errors.New(errors.ErrCodeBadRequest, "session_id is required")
	}
	if _, err := s.sessions.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.results.ListBySession(ctx, sessionID)
}
