package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type SiteStore struct {
	db *sqlx.DB
}

func NewSiteStore(db *sqlx.DB) *SiteStore {
	return &SiteStore{db: db}
}

// Upsert writes the site row keyed by its canonical URL and reports
// whether a new row was created. updated_at is refreshed on every
// re-ingestion, changed values or not.
func (s *SiteStore) Upsert(ctx context.Context, site *domain.Site) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO sites (
			site_id, site_name, official_site_url, country, region, city, address, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (` + conflictTarget("sites") + `) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			country = EXCLUDED.country,
			region = EXCLUDED.region,
			city = EXCLUDED.city,
			address = EXCLUDED.address,
			notes = EXCLUDED.notes,
			updated_at = now()
		RETURNING site_id, (xmax = 0) AS was_inserted`

	var id uuid.UUID
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New(),
		site.SiteName,
		site.OfficialSiteURL,
		site.Country,
		site.Region,
		site.City,
		site.Address,
		site.Notes,
	).Scan(&id, &inserted)
	if err != nil {
		return uuid.Nil, false, wrapErr("upsert site", err)
	}

	return id, inserted, nil
}
