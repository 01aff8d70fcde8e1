package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type DocumentStore struct {
	db *sqlx.DB
}

func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Upsert writes one document row keyed by (site, url) and returns its
// identifier. The provenance category and official subcategory are
// mutable: a resubmission reclassifying a document wins.
func (s *DocumentStore) Upsert(ctx context.Context, siteID uuid.UUID, doc *domain.Document) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO documents (
			document_id, site_id, source, url, title, publisher, published_date, official_category
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (` + conflictTarget("documents") + `) DO UPDATE SET
			source = EXCLUDED.source,
			title = EXCLUDED.title,
			publisher = EXCLUDED.publisher,
			published_date = EXCLUDED.published_date,
			official_category = EXCLUDED.official_category
		RETURNING document_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		siteID,
		string(doc.Source),
		doc.URL,
		doc.Title,
		doc.Publisher,
		doc.PublishedDate,
		doc.OfficialCategory,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert document", err)
	}

	return id, inserted, nil
}

// DocumentRef is the subset of a document row the capture sync tool
// needs for filename resolution.
type DocumentRef struct {
	DocumentID       uuid.UUID `db:"document_id"`
	URL              string    `db:"url"`
	Title            *string   `db:"title"`
	OfficialCategory *string   `db:"official_category"`
}

// FindBySiteFolder lists documents whose owning site matches a local
// captures folder name, e.g. "trans-allegheny".
func (s *DocumentStore) FindBySiteFolder(ctx context.Context, folder string) ([]DocumentRef, error) {
	query := `
		SELECT d.document_id, d.url, d.title, d.official_category
		FROM documents d
		JOIN sites s ON s.site_id = d.site_id
		WHERE s.site_name ILIKE $1
		   OR s.official_site_url ILIKE $2
		ORDER BY d.official_category NULLS LAST, d.url`

	var refs []DocumentRef
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &refs, query,
		"%"+strings.ReplaceAll(folder, "-", " ")+"%",
		"%"+folder+"%",
	)
	if err != nil {
		return nil, wrapErr("find documents by site folder", err)
	}
	return refs, nil
}
