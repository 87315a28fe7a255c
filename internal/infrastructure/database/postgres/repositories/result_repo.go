package repositories

import (
	"context"

	"github.com/turtacn/PatentBot-AI/internal/domain/priorart"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/database/postgres"
	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

const resultColumns = `id, session_id, rank, title, external_id, summary,
	combined_score, semantic_score, keyword_score, assignee, publication_date, url,
	overlap_claims, difference_claims, source, created_at`

type postgresResultRepo struct {
	conn     *postgres.Connection
	log      logging.Logger
	executor queryExecutor
}

func NewPostgresResultRepo(conn *postgres.Connection, log logging.Logger) priorart.ResultRepository {
	return &postgresResultRepo{
		conn:     conn,
		log:      log,
		executor: conn.DB(),
	}
}

// ReplaceForSession deletes the session's previous results and inserts the
// new set in a single transaction, so readers see either set in full.
func (r *postgresResultRepo) ReplaceForSession(ctx context.Context, sessionID string, results []*priorart.Result) error {
	tx, err := r.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `DELETE FROM prior_art_results WHERE session_id = $1`, sessionID)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to clear previous results")
	}
	deleted, _ := res.RowsAffected()

	query := `INSERT INTO prior_art_results (` + resultColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	for _, pr := range results {
		_, err := tx.ExecContext(ctx, query,
			pr.ID, sessionID, pr.Rank, pr.Title, pr.ExternalID, pr.Summary,
			pr.CombinedScore, pr.SemanticScore, pr.KeywordScore, pr.Assignee, pr.PublicationDate, pr.URL,
			encodeStrings(pr.OverlapClaims), encodeStrings(pr.DifferenceClaims), pr.Source, pr.CreatedAt,
		)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert result").WithDetail(pr.ExternalID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to commit transaction")
	}

	r.log.Debug("Replaced prior-art results",
		logging.SessionID(sessionID),
		logging.Int64("deleted", deleted),
		logging.Int("inserted", len(results)))
	return nil
}

func (r *postgresResultRepo) ListBySession(ctx context.Context, sessionID string) ([]*priorart.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM prior_art_results WHERE session_id = $1 ORDER BY rank ASC`
	rows, err := r.executor.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list results")
	}
	defer rows.Close()

	out := []*priorart.Result{}
	for rows.Next() {
		pr, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate results")
	}
	return out, nil
}

func scanResult(row scanner) (*priorart.Result, error) {
	var (
		pr              priorart.Result
		overlap, differ []byte
	)
	err := row.Scan(
		&pr.ID, &pr.SessionID, &pr.Rank, &pr.Title, &pr.ExternalID, &pr.Summary,
		&pr.CombinedScore, &pr.SemanticScore, &pr.KeywordScore, &pr.Assignee, &pr.PublicationDate, &pr.URL,
		&overlap, &differ, &pr.Source, &pr.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan result")
	}
	pr.OverlapClaims = decodeStrings(overlap)
	pr.DifferenceClaims = decodeStrings(differ)
	return &pr, nil
}
