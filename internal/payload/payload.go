// Package payload defines the wire shape of an ingestion request and
// validates it, once, into the domain tree. Downstream stages assume a
// well-formed payload and never re-check fields.
package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"site_ingest/internal/domain"
)

type Payload struct {
	ResearcherID   string          `json:"researcher_id"`
	Site           Site            `json:"site"`
	Aliases        []string        `json:"aliases"`
	Documents      []Document      `json:"documents"`
	TVEpisodes     []TVEpisode     `json:"tv_episodes"`
	VideoAssets    []VideoAsset    `json:"video_assets"`
	ReviewProfiles []ReviewProfile `json:"review_profiles"`
}

type Site struct {
	SiteName        string  `json:"site_name"`
	OfficialSiteURL string  `json:"official_site_url"`
	Country         *string `json:"country"`
	Region          *string `json:"region"`
	City            *string `json:"city"`
	Address         *string `json:"address"`
	Notes           *string `json:"notes"`
}

type Document struct {
	Source           string     `json:"source"`
	URL              string     `json:"url"`
	Title            *string    `json:"title"`
	Publisher        *string    `json:"publisher"`
	PublishedDate    *string    `json:"published_date"`
	OfficialCategory *string    `json:"official_category"`
	Captures         []Capture  `json:"captures"`
	Evidence         []Evidence `json:"evidence"`
}

type Capture struct {
	CaptureTS   string     `json:"capture_ts"`
	Kind        string     `json:"kind"`
	HTTPStatus  *int       `json:"http_status"`
	FilePath    string     `json:"file_path"`
	ContentHash string     `json:"content_hash"`
	TextExcerpt *string    `json:"text_excerpt"`
	Notes       *string    `json:"notes"`
	Evidence    []Evidence `json:"evidence"`
}

type Evidence struct {
	Rule         string  `json:"rule"`
	EvidenceType string  `json:"evidence_type"`
	EvidenceDate *string `json:"evidence_date"`
	AccessDate   *string `json:"access_date"`
	Description  string  `json:"description"`
}

type TVEpisode struct {
	ShowName      string   `json:"show_name"`
	SeasonNumber  *int     `json:"season_number"`
	EpisodeNumber *int     `json:"episode_number"`
	EpisodeTitle  *string  `json:"episode_title"`
	AirDate       *string  `json:"air_date"`
	Synopsis      *string  `json:"synopsis"`
	Channel       *string  `json:"channel"`
	Viewers       *int64   `json:"viewers"`
	IMDBRating    *float64 `json:"imdb_rating"`
	IMDBQuantity  *int64   `json:"imdb_quantity"`
}

type VideoAsset struct {
	URL                string  `json:"url"`
	Title              *string `json:"title"`
	ChannelName        *string `json:"channel_name"`
	UploadDate         *string `json:"upload_date"`
	ViewCount          *int64  `json:"view_count"`
	LikeCount          *int64  `json:"like_count"`
	CommentCount       *int64  `json:"comment_count"`
	DescriptionText    *string `json:"description_text"`
	Duration           *int    `json:"duration"`
	Category           *string `json:"category"`
	ChannelSubscribers *int64  `json:"channel_subscribers"`
}

type ReviewProfile struct {
	PlatformID *int       `json:"platform_id"`
	ProfileURL string     `json:"profile_url"`
	Documents  []Document `json:"documents"`
}

const dateLayout = "2006-01-02"

var documentSources = map[string]domain.DocumentSource{
	"official": domain.SourceOfficial,
	"archive":  domain.SourceArchive,
	"news":     domain.SourceNews,
	"academic": domain.SourceAcademic,
	"review":   domain.SourceReview,
}

var captureKinds = map[string]domain.CaptureKind{
	"pdf":        domain.KindPDF,
	"html":       domain.KindHTML,
	"screenshot": domain.KindScreenshot,
	"wayback":    domain.KindWayback,
}

var rules = map[string]domain.Rule{
	"R1": domain.RuleR1,
	"R2": domain.RuleR2,
	"R3": domain.RuleR3,
}

// Validate checks the payload and converts it into the domain tree.
// The first violation aborts with a validation error naming the field by
// its path into the nested document.
func (p *Payload) Validate() (*domain.IngestPayload, error) {
	if p.ResearcherID == "" {
		return nil, domain.Validationf("researcher_id is required")
	}
	researcherID, err := uuid.Parse(p.ResearcherID)
	if err != nil {
		return nil, domain.Validationf("researcher_id: not a valid identifier")
	}

	if p.Site.SiteName == "" {
		return nil, domain.Validationf("site.site_name is required")
	}
	if p.Site.OfficialSiteURL == "" {
		return nil, domain.Validationf("site.official_site_url is required")
	}

	out := &domain.IngestPayload{
		ResearcherID: researcherID,
		Site: domain.Site{
			SiteName:        p.Site.SiteName,
			OfficialSiteURL: p.Site.OfficialSiteURL,
			Country:         p.Site.Country,
			Region:          p.Site.Region,
			City:            p.Site.City,
			Address:         p.Site.Address,
			Notes:           p.Site.Notes,
		},
	}

	for i, alias := range p.Aliases {
		if strings.TrimSpace(alias) == "" {
			return nil, domain.Validationf("aliases[%d]: must not be blank", i)
		}
		out.Aliases = append(out.Aliases, alias)
	}

	for i := range p.Documents {
		doc, err := p.Documents[i].validate(fmt.Sprintf("documents[%d]", i), false)
		if err != nil {
			return nil, err
		}
		out.Documents = append(out.Documents, *doc)
	}

	for i := range p.TVEpisodes {
		ep, err := p.TVEpisodes[i].validate(fmt.Sprintf("tv_episodes[%d]", i))
		if err != nil {
			return nil, err
		}
		out.TVEpisodes = append(out.TVEpisodes, *ep)
	}

	for i := range p.VideoAssets {
		v, err := p.VideoAssets[i].validate(fmt.Sprintf("video_assets[%d]", i))
		if err != nil {
			return nil, err
		}
		out.VideoAssets = append(out.VideoAssets, *v)
	}

	for i := range p.ReviewProfiles {
		rp, err := p.ReviewProfiles[i].validate(fmt.Sprintf("review_profiles[%d]", i))
		if err != nil {
			return nil, err
		}
		out.ReviewProfiles = append(out.ReviewProfiles, *rp)
	}

	return out, nil
}

func (d *Document) validate(path string, reviewOwned bool) (*domain.Document, error) {
	source, ok := documentSources[d.Source]
	if !ok {
		return nil, domain.Validationf("%s.source: unknown value %q", path, d.Source)
	}
	if d.URL == "" {
		return nil, domain.Validationf("%s.url is required", path)
	}

	publishedDate, err := parseDate(d.PublishedDate, path+".published_date")
	if err != nil {
		return nil, err
	}

	// The official-page subcategory only means something for official
	// documents. Review-owned documents drop it silently; elsewhere a
	// stray value is a caller mistake.
	category := d.OfficialCategory
	if reviewOwned {
		category = nil
	} else if category != nil && source != domain.SourceOfficial {
		return nil, domain.Validationf("%s.official_category: only valid when source is %q", path, domain.SourceOfficial)
	}

	out := &domain.Document{
		Source:           source,
		URL:              d.URL,
		Title:            d.Title,
		Publisher:        d.Publisher,
		PublishedDate:    publishedDate,
		OfficialCategory: category,
	}

	for i := range d.Captures {
		cpt, err := d.Captures[i].validate(fmt.Sprintf("%s.captures[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out.Captures = append(out.Captures, *cpt)
	}

	for i := range d.Evidence {
		ev, err := d.Evidence[i].validate(fmt.Sprintf("%s.evidence[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out.Evidence = append(out.Evidence, *ev)
	}

	return out, nil
}

func (c *Capture) validate(path string) (*domain.Capture, error) {
	if c.ContentHash == "" {
		return nil, domain.Validationf("%s.content_hash is required", path)
	}
	if c.FilePath == "" {
		return nil, domain.Validationf("%s.file_path is required", path)
	}
	kind, ok := captureKinds[c.Kind]
	if !ok {
		return nil, domain.Validationf("%s.kind: unknown value %q", path, c.Kind)
	}
	if c.CaptureTS == "" {
		return nil, domain.Validationf("%s.capture_ts is required", path)
	}
	ts, err := time.Parse(time.RFC3339, c.CaptureTS)
	if err != nil {
		return nil, domain.Validationf("%s.capture_ts: not a valid RFC 3339 timestamp", path)
	}

	out := &domain.Capture{
		CaptureTS:   ts,
		Kind:        kind,
		HTTPStatus:  c.HTTPStatus,
		FilePath:    c.FilePath,
		ContentHash: strings.ToUpper(c.ContentHash),
		TextExcerpt: c.TextExcerpt,
		Notes:       c.Notes,
	}

	for i := range c.Evidence {
		ev, err := c.Evidence[i].validate(fmt.Sprintf("%s.evidence[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out.Evidence = append(out.Evidence, *ev)
	}

	return out, nil
}

func (e *Evidence) validate(path string) (*domain.EvidenceItem, error) {
	rule, ok := rules[e.Rule]
	if !ok {
		return nil, domain.Validationf("%s.rule: unknown value %q", path, e.Rule)
	}
	if e.EvidenceType == "" {
		return nil, domain.Validationf("%s.evidence_type is required", path)
	}
	if !strings.HasPrefix(e.EvidenceType, strings.ToLower(string(rule))+"_") {
		return nil, domain.Validationf("%s.evidence_type: %q does not belong to rule %s", path, e.EvidenceType, rule)
	}
	if e.Description == "" {
		return nil, domain.Validationf("%s.description is required", path)
	}

	evidenceDate, err := parseDate(e.EvidenceDate, path+".evidence_date")
	if err != nil {
		return nil, err
	}
	accessDate, err := parseDate(e.AccessDate, path+".access_date")
	if err != nil {
		return nil, err
	}

	return &domain.EvidenceItem{
		Rule:         rule,
		EvidenceType: e.EvidenceType,
		EvidenceDate: evidenceDate,
		AccessDate:   accessDate,
		Description:  e.Description,
	}, nil
}

func (t *TVEpisode) validate(path string) (*domain.TVEpisode, error) {
	if t.ShowName == "" {
		return nil, domain.Validationf("%s.show_name is required", path)
	}
	if t.SeasonNumber == nil || t.EpisodeNumber == nil {
		return nil, domain.Validationf("%s: season_number and episode_number are required", path)
	}
	airDate, err := parseDate(t.AirDate, path+".air_date")
	if err != nil {
		return nil, err
	}

	return &domain.TVEpisode{
		ShowName:      t.ShowName,
		SeasonNumber:  *t.SeasonNumber,
		EpisodeNumber: *t.EpisodeNumber,
		EpisodeTitle:  t.EpisodeTitle,
		AirDate:       airDate,
		Synopsis:      t.Synopsis,
		Channel:       t.Channel,
		Viewers:       t.Viewers,
		IMDBRating:    t.IMDBRating,
		IMDBQuantity:  t.IMDBQuantity,
	}, nil
}

func (v *VideoAsset) validate(path string) (*domain.VideoAsset, error) {
	if v.URL == "" {
		return nil, domain.Validationf("%s.url is required", path)
	}
	uploadDate, err := parseDate(v.UploadDate, path+".upload_date")
	if err != nil {
		return nil, err
	}

	return &domain.VideoAsset{
		URL:                v.URL,
		Title:              v.Title,
		ChannelName:        v.ChannelName,
		UploadDate:         uploadDate,
		ViewCount:          v.ViewCount,
		LikeCount:          v.LikeCount,
		CommentCount:       v.CommentCount,
		DescriptionText:    v.DescriptionText,
		Duration:           v.Duration,
		Category:           v.Category,
		ChannelSubscribers: v.ChannelSubscribers,
	}, nil
}

func (r *ReviewProfile) validate(path string) (*domain.ReviewProfile, error) {
	if r.PlatformID == nil {
		return nil, domain.Validationf("%s.platform_id is required", path)
	}
	if r.ProfileURL == "" {
		return nil, domain.Validationf("%s.profile_url is required", path)
	}

	out := &domain.ReviewProfile{
		PlatformID: *r.PlatformID,
		ProfileURL: r.ProfileURL,
	}

	for i := range r.Documents {
		doc, err := r.Documents[i].validate(fmt.Sprintf("%s.documents[%d]", path, i), true)
		if err != nil {
			return nil, err
		}
		out.Documents = append(out.Documents, *doc)
	}

	return out, nil
}

func parseDate(s *string, path string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, domain.Validationf("%s: not a valid YYYY-MM-DD date", path)
	}
	return &t, nil
}
