package priorart

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	domain "github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
)

type scoredCandidate struct {
	candidate domain.Candidate
	tokens    domain.TokenSet
	scores    domain.Scores
}

// scoreCandidates computes keyword and, when available, semantic similarity
// for every candidate. The query is embedded once; if that fails the whole
// search falls back to keyword scoring. A failed candidate embedding only
// zeroes that candidate's semantic score. Output order matches input order.
func (s *serviceImpl) scoreCandidates(ctx context.Context, sessionID, query string, cands []domain.Candidate, semantic bool) ([]scoredCandidate, bool) {
	ctx, span := s.tracer.Start(ctx, "priorart.score")
	defer span.End()

	queryTokens := domain.Tokenize(query)
	out := make([]scoredCandidate, len(cands))
	for i, c := range cands {
		out[i] = scoredCandidate{candidate: c, tokens: domain.Tokenize(c.Text())}
	}

	var semanticScores []float64
	if semantic && len(cands) > 0 {
		qv, err := s.embedder.Embed(ctx, query)
		if err != nil || len(qv) == 0 {
			s.metrics.IncEmbeddingFailure("query")
			s.logger.Warn("query embedding failed, using keyword scoring only",
				logging.SessionID(sessionID), logging.Err(err))
			semantic = false
		} else {
			semanticScores = s.semanticScores(ctx, sessionID, qv, cands)
		}
	}

	for i := range out {
		keyword := domain.Jaccard(queryTokens, out[i].tokens)
		var sem float64
		if semantic {
			sem = semanticScores[i]
		}
		out[i].scores = domain.Score(keyword, sem, semantic)
	}

	span.SetAttributes(
		attribute.Int("score.candidates", len(cands)),
		attribute.Bool("score.semantic", semantic),
	)
	return out, semantic
}

// semanticScores embeds candidates with at most EmbeddingConcurrency calls
// in flight. Each goroutine writes only its own slot.
func (s *serviceImpl) semanticScores(ctx context.Context, sessionID string, qv []float32, cands []domain.Candidate) []float64 {
	scores := make([]float64, len(cands))

	var g errgroup.Group
	g.SetLimit(s.cfg.EmbeddingConcurrency)
	for i := range cands {
		i := i
		text := cands[i].Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			v, err := s.embedder.Embed(ctx, text)
			if err != nil {
				s.metrics.IncEmbeddingFailure("candidate")
				s.logger.Warn("candidate embedding failed, semantic score set to 0",
					logging.SessionID(sessionID),
					logging.String("external_id", cands[i].Number),
					logging.Err(err))
				return nil
			}
			scores[i] = domain.Cosine(qv, v)
			return nil
		})
	}
	_ = g.Wait()
	return scores
}
