package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"site_ingest/internal/domain"
	"site_ingest/internal/service/mocks"
)

type IngestServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	sites     *mocks.MockSiteStore
	aliases   *mocks.MockAliasStore
	documents *mocks.MockDocumentStore
	captures  *mocks.MockCaptureStore
	evidence  *mocks.MockEvidenceStore
	episodes  *mocks.MockTVEpisodeStore
	videos    *mocks.MockVideoAssetStore
	profiles  *mocks.MockReviewProfileStore
	lookups   *mocks.MockLookupStore
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher

	service *IngestService
	logger  *slog.Logger

	researcherID uuid.UUID
}

func (s *IngestServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.sites = mocks.NewMockSiteStore(s.ctrl)
	s.aliases = mocks.NewMockAliasStore(s.ctrl)
	s.documents = mocks.NewMockDocumentStore(s.ctrl)
	s.captures = mocks.NewMockCaptureStore(s.ctrl)
	s.evidence = mocks.NewMockEvidenceStore(s.ctrl)
	s.episodes = mocks.NewMockTVEpisodeStore(s.ctrl)
	s.videos = mocks.NewMockVideoAssetStore(s.ctrl)
	s.profiles = mocks.NewMockReviewProfileStore(s.ctrl)
	s.lookups = mocks.NewMockLookupStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.researcherID = uuid.New()

	s.service = NewIngestService(
		s.sites,
		s.aliases,
		s.documents,
		s.captures,
		s.evidence,
		s.episodes,
		s.videos,
		s.profiles,
		s.lookups,
		s.txManager,
		s.publisher,
		s.logger,
	)
}

func (s *IngestServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestIngestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceTestSuite))
}

func (s *IngestServiceTestSuite) expectTransaction() {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *IngestServiceTestSuite) TestIngest_FullTree() {
	ctx := context.Background()
	ts := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example Asylum", OfficialSiteURL: "https://example.org"},
		Aliases:      []string{"Old Example Sanatorium"},
		Documents: []domain.Document{
			{
				Source: domain.SourceOfficial,
				URL:    "https://example.org/history",
				Captures: []domain.Capture{
					{
						CaptureTS:   ts,
						Kind:        domain.KindPDF,
						FilePath:    "captures/example/history.pdf",
						ContentHash: "AB12",
						Evidence: []domain.EvidenceItem{
							{Rule: domain.RuleR1, EvidenceType: "r1_institution_history", Description: "confirms institution"},
						},
					},
				},
				Evidence: []domain.EvidenceItem{
					{Rule: domain.RuleR2, EvidenceType: "r2_visitor_access", Description: "booking page"},
				},
			},
		},
		TVEpisodes: []domain.TVEpisode{
			{ShowName: "Ghost Hunters", SeasonNumber: 3, EpisodeNumber: 7},
		},
		VideoAssets: []domain.VideoAsset{
			{URL: "https://video.example/watch?v=1"},
		},
		ReviewProfiles: []domain.ReviewProfile{
			{
				PlatformID: 1,
				ProfileURL: "https://reviews.example/example-asylum",
				Documents: []domain.Document{
					{Source: domain.SourceReview, URL: "https://reviews.example/example-asylum/page-1"},
				},
			},
		},
	}

	siteID := uuid.New()
	docID := uuid.New()
	capID := uuid.New()
	reviewDocID := uuid.New()

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(true, nil)
	s.lookups.EXPECT().PlatformExists(ctx, 1).Return(true, nil)

	s.expectTransaction()

	gomock.InOrder(
		s.sites.EXPECT().Upsert(gomock.Any(), &payload.Site).Return(siteID, true, nil),
		s.aliases.EXPECT().UpsertBatch(gomock.Any(), siteID, payload.Aliases).Return(nil),
		s.documents.EXPECT().Upsert(gomock.Any(), siteID, &payload.Documents[0]).Return(docID, true, nil),
		s.captures.EXPECT().Upsert(gomock.Any(), docID, s.researcherID, &payload.Documents[0].Captures[0]).Return(capID, true, nil),
		s.evidence.EXPECT().Upsert(gomock.Any(), siteID, &docID, &capID, &payload.Documents[0].Captures[0].Evidence[0]).Return(uuid.New(), true, nil),
		s.evidence.EXPECT().Upsert(gomock.Any(), siteID, &docID, nil, &payload.Documents[0].Evidence[0]).Return(uuid.New(), true, nil),
		s.episodes.EXPECT().Upsert(gomock.Any(), siteID, &payload.TVEpisodes[0]).Return(uuid.New(), true, nil),
		s.videos.EXPECT().Upsert(gomock.Any(), siteID, &payload.VideoAssets[0]).Return(uuid.New(), true, nil),
		s.profiles.EXPECT().Upsert(gomock.Any(), siteID, &payload.ReviewProfiles[0]).Return(uuid.New(), true, nil),
		s.documents.EXPECT().Upsert(gomock.Any(), siteID, &payload.ReviewProfiles[0].Documents[0]).Return(reviewDocID, true, nil),
	)

	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.SiteIngested) error {
			s.Equal(siteID, event.SiteID)
			s.True(event.New)
			return nil
		},
	)

	res := s.service.Ingest(ctx, payload)

	s.True(res.OK)
	s.Equal(siteID, res.SiteID)
	s.Empty(res.Error)
}

func (s *IngestServiceTestSuite) TestIngest_UnknownResearcher() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
	}

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(false, nil)

	res := s.service.Ingest(ctx, payload)

	s.False(res.OK)
	s.Equal(domain.CodeValidation, res.Code)
	s.Contains(res.Error, "unknown researcher")
}

func (s *IngestServiceTestSuite) TestIngest_UnknownPlatform() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID:   s.researcherID,
		Site:           domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
		ReviewProfiles: []domain.ReviewProfile{{PlatformID: 42, ProfileURL: "https://reviews.example/x"}},
	}

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(true, nil)
	s.lookups.EXPECT().PlatformExists(ctx, 42).Return(false, nil)

	res := s.service.Ingest(ctx, payload)

	s.False(res.OK)
	s.Equal(domain.CodeValidation, res.Code)
	s.Contains(res.Error, "unknown platform")
}

func (s *IngestServiceTestSuite) TestIngest_EmptyCollections() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
	}

	siteID := uuid.New()

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(true, nil)
	s.expectTransaction()
	s.sites.EXPECT().Upsert(gomock.Any(), &payload.Site).Return(siteID, false, nil)
	s.aliases.EXPECT().UpsertBatch(gomock.Any(), siteID, gomock.Nil()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	res := s.service.Ingest(ctx, payload)

	s.True(res.OK)
	s.Equal(siteID, res.SiteID)
}

func (s *IngestServiceTestSuite) TestIngest_AbortMidWalk() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
		Documents: []domain.Document{
			{Source: domain.SourceOfficial, URL: "https://example.org/a"},
			{Source: domain.SourceNews, URL: "https://news.example/b"},
		},
	}

	siteID := uuid.New()
	cause := domain.ConstraintError("upsert document", errors.New("duplicate key"))

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(true, nil)
	s.expectTransaction()
	s.sites.EXPECT().Upsert(gomock.Any(), &payload.Site).Return(siteID, true, nil)
	s.aliases.EXPECT().UpsertBatch(gomock.Any(), siteID, gomock.Nil()).Return(nil)
	s.documents.EXPECT().Upsert(gomock.Any(), siteID, &payload.Documents[0]).Return(uuid.New(), true, nil)
	s.documents.EXPECT().Upsert(gomock.Any(), siteID, &payload.Documents[1]).Return(uuid.Nil, false, cause)

	// no publish after a rollback
	res := s.service.Ingest(ctx, payload)

	s.False(res.OK)
	s.Equal(domain.CodeConstraint, res.Code)
	s.Equal(uuid.Nil, res.SiteID)
}

func (s *IngestServiceTestSuite) TestIngest_PublishFailureKeepsSuccess() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
	}

	siteID := uuid.New()

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(true, nil)
	s.expectTransaction()
	s.sites.EXPECT().Upsert(gomock.Any(), &payload.Site).Return(siteID, true, nil)
	s.aliases.EXPECT().UpsertBatch(gomock.Any(), siteID, gomock.Nil()).Return(nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("broker down"))

	res := s.service.Ingest(ctx, payload)

	s.True(res.OK)
	s.Equal(siteID, res.SiteID)
}

func (s *IngestServiceTestSuite) TestIngest_StoreFailureIsClassified() {
	ctx := context.Background()
	payload := &domain.IngestPayload{
		ResearcherID: s.researcherID,
		Site:         domain.Site{SiteName: "Example", OfficialSiteURL: "https://example.org"},
	}

	s.lookups.EXPECT().ResearcherExists(ctx, s.researcherID).Return(false, errors.New("connection refused"))

	res := s.service.Ingest(ctx, payload)

	s.False(res.OK)
	s.Equal(domain.CodeStore, res.Code)
}
