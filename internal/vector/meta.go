package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Meta is the sidecar record stored per indexed place. A search hit whose id
// no longer matches a catalog entry is still returnable from this metadata.
type Meta struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Snippet  string `json:"snippet"`
}

// SaveMeta writes the sidecar metadata list as JSON.
func SaveMeta(path string, metas []Meta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create meta dir: %w", err)
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// LoadMeta reads the sidecar metadata keyed by place id. A missing file
// returns an empty map.
func LoadMeta(path string) (map[string]Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Meta{}, nil
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}
	var metas []Meta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("parse meta: %w", err)
	}
	out := make(map[string]Meta, len(metas))
	for _, m := range metas {
		out[m.ID] = m
	}
	return out, nil
}
