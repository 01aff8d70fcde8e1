package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentSource is the provenance category of a document.
type DocumentSource string

const (
	SourceOfficial DocumentSource = "official"
	SourceArchive  DocumentSource = "archive"
	SourceNews     DocumentSource = "news"
	SourceAcademic DocumentSource = "academic"
	SourceReview   DocumentSource = "review"
)

// CaptureKind describes how a document snapshot was taken.
type CaptureKind string

const (
	KindPDF        CaptureKind = "pdf"
	KindHTML       CaptureKind = "html"
	KindScreenshot CaptureKind = "screenshot"
	KindWayback    CaptureKind = "wayback"
)

// Rule is one of the three fixed evidence rule classifications.
type Rule string

const (
	RuleR1 Rule = "R1" // institution history
	RuleR2 Rule = "R2" // access / authorization
	RuleR3 Rule = "R3" // third-party corroboration
)

// IngestPayload is the validated form of one ingestion request. All dates
// are parsed and all enumerated values checked before this type exists;
// downstream code never re-validates.
type IngestPayload struct {
	ResearcherID   uuid.UUID
	Site           Site
	Aliases        []string
	Documents      []Document
	TVEpisodes     []TVEpisode
	VideoAssets    []VideoAsset
	ReviewProfiles []ReviewProfile
}

type Site struct {
	SiteName        string
	OfficialSiteURL string
	Country         *string
	Region          *string
	City            *string
	Address         *string
	Notes           *string
}

type Document struct {
	Source           DocumentSource
	URL              string
	Title            *string
	Publisher        *string
	PublishedDate    *time.Time
	OfficialCategory *string
	Captures         []Capture
	Evidence         []EvidenceItem // document-level, no capture linkage
}

type Capture struct {
	CaptureTS   time.Time
	Kind        CaptureKind
	HTTPStatus  *int
	FilePath    string
	ContentHash string
	TextExcerpt *string
	Notes       *string
	Evidence    []EvidenceItem
}

type EvidenceItem struct {
	Rule         Rule
	EvidenceType string
	EvidenceDate *time.Time
	AccessDate   *time.Time
	Description  string
}

type TVEpisode struct {
	ShowName      string
	SeasonNumber  int
	EpisodeNumber int
	EpisodeTitle  *string
	AirDate       *time.Time
	Synopsis      *string
	Channel       *string
	Viewers       *int64
	IMDBRating    *float64
	IMDBQuantity  *int64
}

type VideoAsset struct {
	URL                string
	Title              *string
	ChannelName        *string
	UploadDate         *time.Time
	ViewCount          *int64
	LikeCount          *int64
	CommentCount       *int64
	DescriptionText    *string
	Duration           *int
	Category           *string
	ChannelSubscribers *int64
}

type ReviewProfile struct {
	PlatformID int
	ProfileURL string
	Documents  []Document
}
