package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AliasStore struct {
	db *sqlx.DB
}

func NewAliasStore(db *sqlx.DB) *AliasStore {
	return &AliasStore{db: db}
}

// UpsertBatch inserts the site's aliases in one statement. An alias has
// no mutable columns beyond its natural key, so collisions are no-ops.
func (s *AliasStore) UpsertBatch(ctx context.Context, siteID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO site_aliases (alias_id, site_id, alias_name) VALUES ")
	args := make([]interface{}, 0, len(names)*3)

	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, uuid.New(), siteID, name)
	}
	sb.WriteString(" ON CONFLICT (" + conflictTarget("site_aliases") + ") DO NOTHING")

	if _, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...); err != nil {
		return wrapErr("upsert aliases", err)
	}
	return nil
}
