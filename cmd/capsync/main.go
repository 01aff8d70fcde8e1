package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"site_ingest/internal/capsync"
	"site_ingest/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	var (
		site       = flag.String("site", "", "site folder name, e.g. trans-allegheny")
		date       = flag.String("date", "", "date folder, e.g. 2026-02-16")
		base       = flag.String("base", "", "captures base directory (default ~/Documents/PhD/Captures)")
		researcher = flag.String("researcher", os.Getenv("RESEARCHER_ID"), "capturing researcher id (or RESEARCHER_ID env)")
		dryRun     = flag.Bool("dry-run", false, "print what would happen without writing")
	)
	assign := map[string]string{}
	flag.Func("assign", "map a filename stem to a document URL, stem=url (repeatable)", func(v string) error {
		stem, url, ok := strings.Cut(v, "=")
		if !ok {
			return fmt.Errorf("expected stem=url, got %q", v)
		}
		assign[stem] = url
		return nil
	})
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *site == "" || *date == "" {
		logger.Error("both -site and -date are required")
		os.Exit(1)
	}

	researcherID, err := uuid.Parse(*researcher)
	if err != nil {
		logger.Error("-researcher must be a valid identifier", "error", err)
		os.Exit(1)
	}

	if *base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.Error("resolve home directory", "error", err)
			os.Exit(1)
		}
		*base = filepath.Join(home, "Documents", "PhD", "Captures")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	syncer := capsync.NewSyncer(
		postgres.NewDocumentStore(db),
		postgres.NewCaptureStore(db),
		logger,
	)

	stats, err := syncer.Sync(context.Background(), capsync.Options{
		BaseDir:      *base,
		Site:         *site,
		Date:         *date,
		ResearcherID: researcherID,
		DryRun:       *dryRun,
		Assign:       assign,
	})
	if err != nil {
		logger.Error("capture sync failed", "error", err)
		os.Exit(1)
	}

	logger.Info("capture sync done",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"dry_run", *dryRun,
	)
}
