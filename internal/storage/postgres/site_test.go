package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"site_ingest/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestSiteStore_Upsert_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSiteStore(db)
	ctx := context.Background()

	siteID := uuid.New()
	notes := "field visit pending"

	mock.ExpectQuery("INSERT INTO sites").
		WithArgs(sqlmock.AnyArg(), "Example Asylum", "https://example.org", nil, nil, nil, nil, &notes).
		WillReturnRows(sqlmock.NewRows([]string{"site_id", "was_inserted"}).AddRow(siteID.String(), true))

	id, inserted, err := store.Upsert(ctx, &domain.Site{
		SiteName:        "Example Asylum",
		OfficialSiteURL: "https://example.org",
		Notes:           &notes,
	})

	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, siteID, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteStore_Upsert_ConflictUpdates(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewSiteStore(db)
	ctx := context.Background()

	siteID := uuid.New()

	// the existing identifier survives the conflict
	mock.ExpectQuery("ON CONFLICT \\(official_site_url\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "Example Asylum", "https://example.org", nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"site_id", "was_inserted"}).AddRow(siteID.String(), false))

	id, inserted, err := store.Upsert(ctx, &domain.Site{
		SiteName:        "Example Asylum",
		OfficialSiteURL: "https://example.org",
	})

	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, siteID, id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAliasStore_UpsertBatch(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAliasStore(db)
	ctx := context.Background()

	siteID := uuid.New()

	mock.ExpectExec("INSERT INTO site_aliases").
		WithArgs(
			sqlmock.AnyArg(), siteID, "Old Sanatorium",
			sqlmock.AnyArg(), siteID, "The Ridges",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := store.UpsertBatch(ctx, siteID, []string{"Old Sanatorium", "The Ridges"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAliasStore_UpsertBatch_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewAliasStore(db)

	require.NoError(t, store.UpsertBatch(context.Background(), uuid.New(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
