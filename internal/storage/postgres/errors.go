package postgres

import (
	"errors"

	"github.com/lib/pq"

	"site_ingest/internal/domain"
)

// wrapErr classifies a driver error at the store boundary. Integrity
// violations mean the upsert logic and the schema disagree about a
// natural key; everything else is infrastructural.
func wrapErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23502", "23503", "23505", "23514":
			return domain.ConstraintError(op, err)
		}
	}
	return domain.StoreError(op, err)
}
