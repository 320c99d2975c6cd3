package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/scoring"
)

// Similar returns up to k places similar to the given item, excluding the
// item itself. The vector mode embeds the item's concatenated text; the
// fallback scores tag/category/city overlap.
func (e *Engine) Similar(ctx context.Context, itemID string, k int) ([]models.ScoredPlace, error) {
	if k < 0 {
		return nil, fmt.Errorf("k must be non-negative, got %d", k)
	}
	if k == 0 {
		k = 8
	}
	base, ok := e.catalog.ByID(itemID)
	if !ok {
		return []models.ScoredPlace{}, nil
	}

	if e.semantic {
		results, err := e.similarByVector(ctx, &base, k)
		if err == nil {
			return results, nil
		}
		e.logger.Debug("vector similar failed, falling back to overlap", zap.Error(err))
	}
	return e.similarByOverlap(&base, k), nil
}

func (e *Engine) similarByVector(ctx context.Context, base *models.Place, k int) ([]models.ScoredPlace, error) {
	vec, err := e.embedder.Embed(ctx, base.SearchText())
	if err != nil {
		return nil, err
	}
	n := k * 3
	if n < k {
		n = k
	}
	hits, err := e.index.Search(ctx, vec, n)
	if err != nil {
		return nil, err
	}
	results := make([]models.ScoredPlace, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == base.ID {
			continue
		}
		place, ok := e.resolveHit(hit.ID)
		if !ok || place.ID == base.ID {
			continue
		}
		results = append(results, models.Scored(place, hit.Score))
	}
	scoring.SortByScore(results)
	return scoring.TopN(results, k), nil
}

// similarByOverlap scores every other catalog item: one point per shared tag,
// +1 when the top-level category prefix (before ":") matches, +0.5 for the
// same city.
func (e *Engine) similarByOverlap(base *models.Place, k int) []models.ScoredPlace {
	baseTags := make(map[string]bool)
	for _, t := range base.LowerTags() {
		baseTags[t] = true
	}
	basePrefix := categoryPrefix(base.Category)

	results := make([]models.ScoredPlace, 0, e.catalog.Len())
	for _, p := range e.catalog.Places() {
		if p.ID == base.ID {
			continue
		}
		overlap := 0.0
		seen := make(map[string]bool)
		for _, t := range p.LowerTags() {
			if baseTags[t] && !seen[t] {
				seen[t] = true
				overlap += 1.0
			}
		}
		if basePrefix != "" && categoryPrefix(p.Category) == basePrefix {
			overlap += 1.0
		}
		if strings.EqualFold(base.City, p.City) {
			overlap += 0.5
		}
		results = append(results, models.Scored(p, overlap))
	}
	scoring.SortByScore(results)
	return scoring.TopN(results, k)
}

func categoryPrefix(category string) string {
	if category == "" {
		return ""
	}
	return strings.SplitN(category, ":", 2)[0]
}

// sortByDistance orders items ascending by DistanceKm; items without a
// distance sort last. Stable so prior order survives ties.
func sortByDistance(items []models.ScoredPlace) {
	sort.SliceStable(items, func(i, j int) bool {
		di, dj := items[i].DistanceKm, items[j].DistanceKm
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}
