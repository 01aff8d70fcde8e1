// Package capsync syncs PDFs from a local captures folder into the
// store. For each PDF under <base>/<site>/<date>/ it computes the
// SHA-256 fingerprint, resolves the filename to a document via the
// site's mapping.json, and upserts the capture row. Safe to re-run.
package capsync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"site_ingest/internal/domain"
	"site_ingest/internal/storage/postgres"
)

type DocumentFinder interface {
	FindBySiteFolder(ctx context.Context, folder string) ([]postgres.DocumentRef, error)
}

type CaptureUpserter interface {
	Upsert(ctx context.Context, documentID, capturedBy uuid.UUID, c *domain.Capture) (uuid.UUID, bool, error)
}

type Options struct {
	BaseDir      string
	Site         string
	Date         string
	ResearcherID uuid.UUID
	DryRun       bool
	// Assign pre-seeds mapping entries (stem -> document URL) and is
	// persisted to mapping.json, replacing the old interactive prompt.
	Assign map[string]string
}

type Stats struct {
	Inserted int
	Updated  int
	Skipped  int
}

type Syncer struct {
	documents DocumentFinder
	captures  CaptureUpserter
	logger    *slog.Logger
}

func NewSyncer(documents DocumentFinder, captures CaptureUpserter, logger *slog.Logger) *Syncer {
	return &Syncer{
		documents: documents,
		captures:  captures,
		logger:    logger,
	}
}

func (s *Syncer) Sync(ctx context.Context, opts Options) (*Stats, error) {
	siteDir := filepath.Join(opts.BaseDir, opts.Site)
	dateDir := filepath.Join(siteDir, opts.Date)

	pdfs, err := filepath.Glob(filepath.Join(dateDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scan capture folder: %w", err)
	}
	if len(pdfs) == 0 {
		return nil, fmt.Errorf("no PDFs found in %s", dateDir)
	}
	sort.Strings(pdfs)

	docs, err := s.documents.FindBySiteFolder(ctx, opts.Site)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents in the store for site %q; ingest the site first", opts.Site)
	}

	mapping, err := LoadMapping(siteDir)
	if err != nil {
		return nil, err
	}
	if len(opts.Assign) > 0 {
		for stem, url := range opts.Assign {
			mapping[stem] = url
		}
		if !opts.DryRun {
			if err := SaveMapping(siteDir, mapping); err != nil {
				return nil, err
			}
		}
	}

	captureTS, err := time.Parse("2006-01-02", opts.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: not a valid YYYY-MM-DD date", opts.Date)
	}
	captureTS = captureTS.Add(12 * time.Hour).UTC()

	byURL := make(map[string]postgres.DocumentRef, len(docs))
	for _, d := range docs {
		byURL[d.URL] = d
	}

	stats := &Stats{}
	for _, pdf := range pdfs {
		stem := strings.TrimSuffix(filepath.Base(pdf), filepath.Ext(pdf))

		url, mapped := mapping[stem]
		if !mapped {
			s.logger.Warn("unmapped capture file, skipping",
				"file", filepath.Base(pdf),
				"hint", "add an --assign "+stem+"=<document-url> flag",
			)
			stats.Skipped++
			continue
		}
		doc, found := byURL[url]
		if !found {
			s.logger.Warn("mapped document not in store, skipping",
				"file", filepath.Base(pdf),
				"url", url,
			)
			stats.Skipped++
			continue
		}

		hash, err := fileSHA256(pdf)
		if err != nil {
			return stats, fmt.Errorf("fingerprint %s: %w", pdf, err)
		}

		if opts.DryRun {
			s.logger.Info("dry run, would upsert capture",
				"file", filepath.Base(pdf),
				"document_id", doc.DocumentID,
				"content_hash", hash,
			)
			stats.Inserted++
			continue
		}

		httpStatus := 200
		_, wasInserted, err := s.captures.Upsert(ctx, doc.DocumentID, opts.ResearcherID, &domain.Capture{
			CaptureTS:   captureTS,
			Kind:        domain.KindPDF,
			HTTPStatus:  &httpStatus,
			FilePath:    portablePath(pdf),
			ContentHash: hash,
		})
		if err != nil {
			return stats, err
		}

		if wasInserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
		s.logger.Info("synced capture",
			"file", filepath.Base(pdf),
			"document_id", doc.DocumentID,
			"inserted", wasInserted,
		)
	}

	return stats, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// portablePath stores the capture location relative to the home
// directory, forward slashes regardless of platform.
func portablePath(path string) string {
	home, err := os.UserHomeDir()
	if err == nil {
		if rel, relErr := filepath.Rel(home, path); relErr == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
