package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"site_ingest/internal/domain"
)

type ReviewProfileStore struct {
	db *sqlx.DB
}

func NewReviewProfileStore(db *sqlx.DB) *ReviewProfileStore {
	return &ReviewProfileStore{db: db}
}

// Upsert writes one review-profile row. Every column is part of the
// natural key, so a collision inserts nothing and the existing identifier
// is fetched instead.
func (s *ReviewProfileStore) Upsert(ctx context.Context, siteID uuid.UUID, rp *domain.ReviewProfile) (uuid.UUID, bool, error) {
	query := `
		INSERT INTO review_profiles (profile_id, site_id, platform_id, profile_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (` + conflictTarget("review_profiles") + `) DO NOTHING
		RETURNING profile_id`

	ex := GetExecutor(ctx, s.db)

	var id uuid.UUID
	err := ex.QueryRowxContext(ctx, query, uuid.New(), siteID, rp.PlatformID, rp.ProfileURL).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, wrapErr("upsert review profile", err)
	}

	err = ex.QueryRowxContext(ctx,
		`SELECT profile_id FROM review_profiles
		 WHERE site_id = $1 AND platform_id = $2 AND profile_url = $3`,
		siteID, rp.PlatformID, rp.ProfileURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, wrapErr("resolve review profile", err)
	}

	return id, false, nil
}
