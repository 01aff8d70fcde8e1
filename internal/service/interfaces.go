package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"site_ingest/internal/domain"
)

type SiteStore interface {
	Upsert(ctx context.Context, site *domain.Site) (uuid.UUID, bool, error)
}

type AliasStore interface {
	UpsertBatch(ctx context.Context, siteID uuid.UUID, names []string) error
}

type DocumentStore interface {
	Upsert(ctx context.Context, siteID uuid.UUID, doc *domain.Document) (uuid.UUID, bool, error)
}

type CaptureStore interface {
	Upsert(ctx context.Context, documentID, capturedBy uuid.UUID, c *domain.Capture) (uuid.UUID, bool, error)
}

type EvidenceStore interface {
	Upsert(ctx context.Context, siteID uuid.UUID, documentID, captureID *uuid.UUID, ev *domain.EvidenceItem) (uuid.UUID, bool, error)
}

type TVEpisodeStore interface {
	Upsert(ctx context.Context, siteID uuid.UUID, ep *domain.TVEpisode) (uuid.UUID, bool, error)
}

type VideoAssetStore interface {
	Upsert(ctx context.Context, siteID uuid.UUID, v *domain.VideoAsset) (uuid.UUID, bool, error)
}

type ReviewProfileStore interface {
	Upsert(ctx context.Context, siteID uuid.UUID, rp *domain.ReviewProfile) (uuid.UUID, bool, error)
}

type LookupStore interface {
	ResearcherExists(ctx context.Context, id uuid.UUID) (bool, error)
	PlatformExists(ctx context.Context, id int) (bool, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.SiteIngested) error
	Close() error
}
