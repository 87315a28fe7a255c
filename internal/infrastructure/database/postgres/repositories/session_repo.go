package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

type postgresSessionRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

func NewPostgresSessionRepo(conn *postgres.Connection, log logging.Logger) priorart.SessionRepository {
	return &postgresSessionRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
	}
}

func (r *postgresSessionRepo) GetSession(ctx context.Context, id string) (*priorart.Session, error) {
	query := `
		SELECT id, COALESCE(idea_prompt, ''), COALESCE(technical_analysis, ''),
			COALESCE(backend_analysis, ''), COALESCE(patent_category, ''),
			created_at, updated_at
		FROM sessions WHERE id = $1
	`
	var s priorart.Session
	err := r.executor.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.IdeaPrompt, &s.TechnicalAnalysis,
		&s.BackendAnalysis, &s.PatentCategory,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeSessionNotFound, "Session not found").WithDetail(id)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load session")
	}
	return &s, nil
}

func (r *postgresSessionRepo) ListQuestions(ctx context.Context, sessionID string) ([]priorart.QAPair, error) {
	query := `
		SELECT ordinal, question, COALESCE(answer, '')
		FROM session_questions
		WHERE session_id = $1
		ORDER BY ordinal ASC, id ASC
	`
	rows, err := r.executor.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSessionQuestionsRead, "failed to load session questions")
	}
	defer rows.Close()

	var out []priorart.QAPair
	for rows.Next() {
		var qa priorart.QAPair
		if err := rows.Scan(&qa.Ordinal, &qa.Question, &qa.Answer); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSessionQuestionsRead, "failed to scan session question")
		}
		out = append(out, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSessionQuestionsRead, "failed to iterate session questions")
	}
	return out, nil
}
