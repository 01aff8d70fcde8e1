package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type EvidenceStore struct {
	db *sqlx.DB
}

func NewEvidenceStore(db *sqlx.DB) *EvidenceStore {
	return &EvidenceStore{db: db}
}

// Upsert writes one evidence row. documentID and captureID are the
// optional linkage tiers; their null-safe counterparts document_key and
// capture_key carry the sentinel when absent so that two evidence items
// with the same missing reference collide instead of duplicating.
func (s *EvidenceStore) Upsert(ctx context.Context, siteID uuid.UUID, documentID, captureID *uuid.UUID, ev *domain.EvidenceItem) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO evidence_items (
			evidence_id, site_id, document_id, capture_id, rule, evidence_type,
			evidence_date, access_date, description, document_key, capture_key
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (` + conflictTarget("evidence_items") + `) DO UPDATE SET
			evidence_date = EXCLUDED.evidence_date,
			access_date = EXCLUDED.access_date,
			description = EXCLUDED.description
		RETURNING evidence_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		siteID,
		documentID,
		captureID,
		string(ev.Rule),
		ev.EvidenceType,
		ev.EvidenceDate,
		ev.AccessDate,
		ev.Description,
		ConflictKey(documentID),
		ConflictKey(captureID),
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert evidence item", err)
	}

	return id, inserted, nil
}
