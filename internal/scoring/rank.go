package scoring

import (
	"sort"

	"github.com/hyperlocal/bhraman/internal/models"
)

// SortByScore orders candidates by descending score. The sort is stable:
// equal scores keep their incoming (catalog) order.
func SortByScore(items []models.ScoredPlace) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// TopN truncates to the first n items.
func TopN(items []models.ScoredPlace, n int) []models.ScoredPlace {
	if n >= len(items) {
		return items
	}
	return items[:n]
}
