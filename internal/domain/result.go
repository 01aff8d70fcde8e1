package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Result is the envelope returned for every ingestion call. It is binary:
// either the whole payload committed and SiteID is set, or nothing was
// written and Error/Code describe the failure.
type Result struct {
	OK     bool      `json:"ok"`
	SiteID uuid.UUID `json:"site_id,omitzero"`
	Error  string    `json:"error,omitempty"`
	Code   ErrorCode `json:"code,omitempty"`
}

// Success builds the envelope for a committed ingestion.
func Success(siteID uuid.UUID) Result {
	return Result{OK: true, SiteID: siteID}
}

// Failure converts any error raised during the walk into a failure
// envelope. Unclassified errors are treated as store failures.
func Failure(err error) Result {
	var ie *IngestError
	if errors.As(err, &ie) {
		return Result{OK: false, Error: ie.Error(), Code: ie.Code}
	}
	return Result{OK: false, Error: err.Error(), Code: CodeStore}
}

// IngestStats holds per-call counters, mirrored into the log line and the
// post-commit event.
type IngestStats struct {
	SiteCreated bool
	Created     int
	Updated     int
	Duration    time.Duration
}

// Record tallies one upsert outcome.
func (s *IngestStats) Record(inserted bool) {
	if inserted {
		s.Created++
	} else {
		s.Updated++
	}
}

// SiteIngested is the event published after a successful commit.
type SiteIngested struct {
	SiteID   uuid.UUID
	SiteName string
	New      bool
	Stats    IngestStats
}
