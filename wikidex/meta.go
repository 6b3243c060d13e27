package wikidex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Meta is the small build-time summary search needs at startup: total page
// count (N, for idf) and the batch size used to lay out title files. It
// has no counterpart in spec.md's file-system layout; it exists because
// the search CLI's external contract takes only an indexFolder argument,
// so N and B must be recoverable from the index directory itself.
type Meta struct {
	TotalPages int `json:"totalPages"`
	BatchSize  int `json:"batchSize"`
}

// WriteMeta persists m to indexFolder/meta.json.
func WriteMeta(dir string, m Meta) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("wikidex: encode meta: %w", err)
	}
	path := filepath.Join(dir, "meta.json")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("wikidex: write meta file %s: %w", path, err)
	}
	return nil
}

// ReadMeta loads indexFolder/meta.json.
func ReadMeta(dir string) (Meta, error) {
	path := filepath.Join(dir, "meta.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("wikidex: read meta file %s: %w", path, err)
	}
	var m Meta
	if err := json.Unmarshal(raw, &m); err != nil {
		return Meta{}, fmt.Errorf("wikidex: decode meta file %s: %w", path, err)
	}
	return m, nil
}
