package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type CaptureStore struct {
	db *sqlx.DB
}

func NewCaptureStore(db *sqlx.DB) *CaptureStore {
	return &CaptureStore{db: db}
}

// Upsert writes one capture row keyed by (document, content fingerprint).
// The fingerprint pins the snapshot's content; everything else about how
// and where it was taken may be corrected by a re-run.
func (s *CaptureStore) Upsert(ctx context.Context, documentID, capturedBy uuid.UUID, c *domain.Capture) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO captures (
			capture_id, document_id, captured_by, capture_ts, kind,
			http_status, file_path, content_hash, text_excerpt, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (` + conflictTarget("captures") + `) DO UPDATE SET
			capture_ts = EXCLUDED.capture_ts,
			kind = EXCLUDED.kind,
			http_status = EXCLUDED.http_status,
			file_path = EXCLUDED.file_path,
			text_excerpt = EXCLUDED.text_excerpt,
			notes = EXCLUDED.notes
		RETURNING capture_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		documentID,
		capturedBy,
		c.CaptureTS,
		string(c.Kind),
		c.HTTPStatus,
		c.FilePath,
		c.ContentHash,
		c.TextExcerpt,
		c.Notes,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert capture", err)
	}

	return id, inserted, nil
}
