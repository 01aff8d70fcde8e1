package postgres

import (
	"strings"

	"github.com/google/uuid"
)

// naturalKeys is the per-table column set that identifies the same
// real-world entity across repeated submissions. Each store builds its
// ON CONFLICT target from this map, and the map must match the UNIQUE
// constraints in migrations/; keys_test.go checks the two against each
// other.
var naturalKeys = map[string][]string{
	"sites":           {"official_site_url"},
	"site_aliases":    {"site_id", "alias_name"},
	"documents":       {"site_id", "url"},
	"captures":        {"document_id", "content_hash"},
	"evidence_items":  {"site_id", "rule", "evidence_type", "document_key", "capture_key"},
	"tv_episodes":     {"site_id", "show_name", "season_number", "episode_number"},
	"video_assets":    {"url"},
	"review_profiles": {"site_id", "platform_id", "profile_url"},
}

func conflictTarget(table string) string {
	return strings.Join(naturalKeys[table], ", ")
}

// absentRef is the reserved identifier standing in for a missing optional
// reference. uuid.New() produces version-4 values, so the zero UUID is
// never issued to a real row and two absences compare equal under it.
var absentRef = uuid.Nil

// ConflictKey derives the null-safe conflict column value for an optional
// foreign key: the referenced identifier when present, absentRef when not.
// It is applied on every write so both sides of a conflict comparison see
// the same substitution.
func ConflictKey(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return absentRef
	}
	return *id
}
