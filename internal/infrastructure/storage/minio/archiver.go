package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/PatentBot-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentBot-AI/pkg/errors"
)

const archivePrefix = "retrievals/"

// ArchivedRetrieval is the document stored for each raw provider response.
type ArchivedRetrieval struct {
	SessionID  string    `json:"session_id"`
	Source     string    `json:"source"`
	ArchivedAt time.Time `json:"archived_at"`
	Raw        string    `json:"raw"`
}

// RetrievalArchiver keeps the raw text of every retrieval response so that
// decoder failures can be replayed later.
type RetrievalArchiver struct {
	client *MinIOClient
	logger logging.Logger
	now    func() time.Time
}

func NewRetrievalArchiver(client *MinIOClient, log logging.Logger) *RetrievalArchiver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &RetrievalArchiver{client: client, logger: log, now: time.Now}
}

// ObjectKey is retrievals/<session>/<utc timestamp>.json.
func ObjectKey(sessionID string, at time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", archivePrefix, sanitizeSegment(sessionID), at.UTC().Format("20060102T150405.000000000Z"))
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "_"
	}
	return strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(s)
}

// Archive stores raw under a new key and returns it.
func (a *RetrievalArchiver) Archive(ctx context.Context, sessionID, source, raw string) (string, error) {
	if a.client.isClosed() {
		return "", ErrMinIOClientClosed
	}

	now := a.now()
	doc := ArchivedRetrieval{SessionID: sessionID, Source: source, ArchivedAt: now.UTC(), Raw: raw}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode retrieval archive")
	}

	key := ObjectKey(sessionID, now)
	_, err = a.client.client.PutObject(ctx, a.client.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"session-id": sessionID,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "failed to archive retrieval response").WithDetail(key)
	}

	a.logger.Debug("Archived retrieval response",
		logging.SessionID(sessionID),
		logging.String("key", key),
		logging.Int("bytes", len(body)))
	return key, nil
}

// Exists reports whether key is present in the archive bucket.
func (a *RetrievalArchiver) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.client.StatObject(ctx, a.client.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat archived object")
}
