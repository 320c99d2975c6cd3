package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyperlocal/bhraman/internal/models"
)

// JSONSource loads places from a JSON file containing a list of records.
type JSONSource struct {
	Path string
}

// Load reads and normalizes the file. A missing file yields an empty catalog
// rather than an error; a record with malformed fields degrades to defaults.
func (s *JSONSource) Load(ctx context.Context) ([]models.Place, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Place{}, nil
		}
		return nil, fmt.Errorf("read catalog data: %w", err)
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog data: %w", err)
	}
	places := make([]models.Place, 0, len(raw))
	for _, r := range raw {
		places = append(places, FromRaw(r))
	}
	return places, nil
}
