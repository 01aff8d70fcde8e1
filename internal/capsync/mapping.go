package capsync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const mappingFile = "mapping.json"

// Mapping relates a capture filename stem to the URL of the document it
// snapshots. It lives next to the site's capture folders and is reused
// across runs.
type Mapping map[string]string

func LoadMapping(siteDir string) (Mapping, error) {
	data, err := os.ReadFile(filepath.Join(siteDir, mappingFile))
	if os.IsNotExist(err) {
		return Mapping{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}

	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}
	return m, nil
}

func SaveMapping(siteDir string, m Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, mappingFile), data, 0o644); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}
