package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"site_ingest/internal/domain"
)

// IngestService materializes one validated payload into the store. It
// walks the tree parent-before-child inside a single transaction, so
// every child write sees its parent's resolved identifier and a failure
// anywhere rolls back everything.
type IngestService struct {
	sites     SiteStore
	aliases   AliasStore
	documents DocumentStore
	captures  CaptureStore
	evidence  EvidenceStore
	episodes  TVEpisodeStore
	videos    VideoAssetStore
	profiles  ReviewProfileStore
	lookups   LookupStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
}

func NewIngestService(
	sites SiteStore,
	aliases AliasStore,
	documents DocumentStore,
	captures CaptureStore,
	evidence EvidenceStore,
	episodes TVEpisodeStore,
	videos VideoAssetStore,
	profiles ReviewProfileStore,
	lookups LookupStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		sites:     sites,
		aliases:   aliases,
		documents: documents,
		captures:  captures,
		evidence:  evidence,
		episodes:  episodes,
		videos:    videos,
		profiles:  profiles,
		lookups:   lookups,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest runs one ingestion call end to end and always returns an
// envelope, never a raw fault. On success the whole payload committed;
// on failure nothing was written.
func (s *IngestService) Ingest(ctx context.Context, p *domain.IngestPayload) domain.Result {
	start := time.Now()

	exists, err := s.lookups.ResearcherExists(ctx, p.ResearcherID)
	if err != nil {
		return domain.Failure(err)
	}
	if !exists {
		return domain.Failure(domain.Validationf("researcher_id: unknown researcher %s", p.ResearcherID))
	}

	for i := range p.ReviewProfiles {
		exists, err := s.lookups.PlatformExists(ctx, p.ReviewProfiles[i].PlatformID)
		if err != nil {
			return domain.Failure(err)
		}
		if !exists {
			return domain.Failure(domain.Validationf(
				"review_profiles[%d].platform_id: unknown platform %d", i, p.ReviewProfiles[i].PlatformID))
		}
	}

	var siteID uuid.UUID
	stats := &domain.IngestStats{}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.walk(txCtx, p, &siteID, stats)
	})
	if err != nil {
		s.logger.Error("ingestion rolled back",
			"site_url", p.Site.OfficialSiteURL,
			"error", err,
		)
		return domain.Failure(err)
	}

	stats.Duration = time.Since(start)
	s.logger.Info("ingestion committed",
		"site_id", siteID,
		"site_new", stats.SiteCreated,
		"created", stats.Created,
		"updated", stats.Updated,
		"duration", stats.Duration,
	)

	// Post-commit side channel: a publish failure must not fail an
	// ingestion that already committed.
	if s.publisher != nil {
		event := &domain.SiteIngested{
			SiteID:   siteID,
			SiteName: p.Site.SiteName,
			New:      stats.SiteCreated,
			Stats:    *stats,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("publish site-ingested event", "site_id", siteID, "error", err)
		}
	}

	return domain.Success(siteID)
}

// walk visits the payload in dependency order: site first, then every
// collection that hangs off it. Empty collections are zero iterations.
func (s *IngestService) walk(ctx context.Context, p *domain.IngestPayload, siteID *uuid.UUID, stats *domain.IngestStats) error {
	id, created, err := s.sites.Upsert(ctx, &p.Site)
	if err != nil {
		return err
	}
	*siteID = id
	stats.SiteCreated = created
	stats.Record(created)

	if err := s.aliases.UpsertBatch(ctx, id, p.Aliases); err != nil {
		return err
	}

	for i := range p.Documents {
		if err := s.walkDocument(ctx, id, p.ResearcherID, &p.Documents[i], stats); err != nil {
			return err
		}
	}

	for i := range p.TVEpisodes {
		_, created, err := s.episodes.Upsert(ctx, id, &p.TVEpisodes[i])
		if err != nil {
			return err
		}
		stats.Record(created)
	}

	for i := range p.VideoAssets {
		_, created, err := s.videos.Upsert(ctx, id, &p.VideoAssets[i])
		if err != nil {
			return err
		}
		stats.Record(created)
	}

	for i := range p.ReviewProfiles {
		rp := &p.ReviewProfiles[i]
		_, created, err := s.profiles.Upsert(ctx, id, rp)
		if err != nil {
			return err
		}
		stats.Record(created)

		// Profile documents reuse the document walk unchanged; their
		// official subcategory was already dropped at the boundary.
		for j := range rp.Documents {
			if err := s.walkDocument(ctx, id, p.ResearcherID, &rp.Documents[j], stats); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *IngestService) walkDocument(ctx context.Context, siteID, researcherID uuid.UUID, doc *domain.Document, stats *domain.IngestStats) error {
	docID, created, err := s.documents.Upsert(ctx, siteID, doc)
	if err != nil {
		return err
	}
	stats.Record(created)

	for i := range doc.Captures {
		c := &doc.Captures[i]
		capID, created, err := s.captures.Upsert(ctx, docID, researcherID, c)
		if err != nil {
			return err
		}
		stats.Record(created)

		for j := range c.Evidence {
			_, created, err := s.evidence.Upsert(ctx, siteID, &docID, &capID, &c.Evidence[j])
			if err != nil {
				return err
			}
			stats.Record(created)
		}
	}

	for i := range doc.Evidence {
		_, created, err := s.evidence.Upsert(ctx, siteID, &docID, nil, &doc.Evidence[i])
		if err != nil {
			return err
		}
		stats.Record(created)
	}

	return nil
}
