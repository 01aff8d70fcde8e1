package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LookupStore resolves references into the externally-seeded lookup
// tables. The engine only ever reads these.
type LookupStore struct {
	db *sqlx.DB
}

func NewLookupStore(db *sqlx.DB) *LookupStore {
	return &LookupStore{db: db}
}

func (s *LookupStore) ResearcherExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM researchers WHERE researcher_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("resolve researcher", err)
	}
	return exists, nil
}

func (s *LookupStore) PlatformExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM review_platforms WHERE platform_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("resolve review platform", err)
	}
	return exists, nil
}
