package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"site_ingest/internal/domain"
)

func TestEvidenceStore_Upsert_SentinelForAbsentRefs(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewEvidenceStore(db)
	ctx := context.Background()

	siteID := uuid.New()
	evidenceID := uuid.New()

	// no document, no capture: both nullable FKs go in as NULL, both
	// conflict keys go in as the sentinel
	mock.ExpectQuery("INSERT INTO evidence_items").
		WithArgs(
			sqlmock.AnyArg(), siteID, nil, nil,
			"R1", "r1_institution_history", nil, nil, "confirms institution",
			uuid.Nil, uuid.Nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"evidence_id", "was_inserted"}).AddRow(evidenceID.String(), true))

	id, inserted, err := store.Upsert(ctx, siteID, nil, nil, &domain.EvidenceItem{
		Rule:         domain.RuleR1,
		EvidenceType: "r1_institution_history",
		Description:  "confirms institution",
	})

	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, evidenceID, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvidenceStore_Upsert_CaptureLinked(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewEvidenceStore(db)
	ctx := context.Background()

	siteID := uuid.New()
	docID := uuid.New()
	capID := uuid.New()
	evidenceID := uuid.New()

	// linked refs appear twice: once as the real FK, once as the key
	mock.ExpectQuery("ON CONFLICT \\(site_id, rule, evidence_type, document_key, capture_key\\) DO UPDATE").
		WithArgs(
			sqlmock.AnyArg(), siteID, &docID, &capID,
			"R3", "r3_media_coverage", nil, nil, "third-party writeup",
			docID, capID,
		).
		WillReturnRows(sqlmock.NewRows([]string{"evidence_id", "was_inserted"}).AddRow(evidenceID.String(), false))

	id, inserted, err := store.Upsert(ctx, siteID, &docID, &capID, &domain.EvidenceItem{
		Rule:         domain.RuleR3,
		EvidenceType: "r3_media_coverage",
		Description:  "third-party writeup",
	})

	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, evidenceID, id)
	require.NoError(t, mock.ExpectationsWereMet())
}
