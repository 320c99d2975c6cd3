// Package retrieval implements dual-mode candidate retrieval: vector
// similarity when the semantic capability is available, keyword overlap
// otherwise.
package retrieval

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/embedding"
	"github.com/hyperlocal/bhraman/internal/geo"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/scoring"
	"github.com/hyperlocal/bhraman/internal/vector"
)

// Engine retrieves ranked candidate places. The semantic mode flag is decided
// once at construction; the per-request path is a plain branch, with a
// per-request embedding failure still degrading to the keyword path.
type Engine struct {
	catalog  *catalog.Store
	embedder embedding.Embedder
	index    vector.Index
	meta     map[string]vector.Meta
	semantic bool
	cfg      *config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates an engine. embedder and index may be nil; the engine then
// always uses the keyword path.
func NewEngine(
	store *catalog.Store,
	embedder embedding.Embedder,
	index vector.Index,
	meta map[string]vector.Meta,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if meta == nil {
		meta = map[string]vector.Meta{}
	}
	semantic := embedder != nil && index != nil && index.Size() > 0
	if !semantic {
		logger.Info("semantic retrieval unavailable, using keyword fallback")
	}
	return &Engine{
		catalog:  store,
		embedder: embedder,
		index:    index,
		meta:     meta,
		semantic: semantic,
		cfg:      cfg,
		logger:   logger,
	}
}

// SemanticAvailable reports whether the vector path is active.
func (e *Engine) SemanticAvailable() bool {
	return e.semantic
}

// Search retrieves up to req.K candidates. The pipeline is: retrieve
// (vector or keyword) -> city/type post-filter -> optional distance re-rank
// -> truncate to k.
func (e *Engine) Search(ctx context.Context, req models.SearchRequest) ([]models.ScoredPlace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var results []models.ScoredPlace
	if e.semantic {
		hits, err := e.vectorSearch(ctx, req.Query, req.K)
		if err != nil {
			// Degrade deterministically to the keyword path.
			e.logger.Debug("vector search failed, falling back to keyword", zap.Error(err))
			results = e.keywordSearch(req)
		} else {
			results = filterCityType(hits, req.City, req.Type)
		}
	} else {
		results = e.keywordSearch(req)
	}

	if req.HasUserLocation() {
		rerankByDistance(results, *req.UserLat, *req.UserLng)
	}

	return scoring.TopN(results, req.K), nil
}

// vectorSearch embeds the query (the empty string is a valid query and yields
// a similarity-ranked default ordering) and joins index hits back to catalog
// records.
func (e *Engine) vectorSearch(ctx context.Context, query string, k int) ([]models.ScoredPlace, error) {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	n := k * e.cfg.CandidateMultiplier
	if n < k {
		n = k
	}
	hits, err := e.index.Search(ctx, vec, n)
	if err != nil {
		return nil, err
	}
	results := make([]models.ScoredPlace, 0, len(hits))
	for _, hit := range hits {
		place, ok := e.resolveHit(hit.ID)
		if !ok {
			continue
		}
		results = append(results, models.Scored(place, hit.Score))
	}
	return results, nil
}

// resolveHit joins an index hit to a catalog record: by id, then by the
// indexed name (case-insensitive), and finally from the sidecar metadata
// alone so a stale index entry is still returnable.
func (e *Engine) resolveHit(id string) (models.Place, bool) {
	if p, ok := e.catalog.ByID(id); ok {
		return p, true
	}
	meta, ok := e.meta[id]
	if !ok {
		return models.Place{}, false
	}
	if p, ok := e.catalog.ByName(meta.Name); ok {
		return p, true
	}
	return models.Place{
		ID:           meta.ID,
		Name:         meta.Name,
		Category:     meta.Category,
		Description:  meta.Snippet,
		Tags:         []string{},
		Images:       []string{},
		City:         catalog.DefaultCity,
		Type:         catalog.DefaultType,
		NearbyStalls: []models.NearbyStall{},
	}, true
}

// keywordSearch is the deterministic fallback: an empty query returns the
// first k filtered catalog items in stored order; otherwise items are ranked
// by the number of query tokens appearing as substrings of their text.
func (e *Engine) keywordSearch(req models.SearchRequest) []models.ScoredPlace {
	pool := filterPlaces(e.catalog.Places(), req.City, req.Type)

	q := strings.ToLower(strings.TrimSpace(req.Query))
	if q == "" {
		n := req.K
		if n > len(pool) {
			n = len(pool)
		}
		results := make([]models.ScoredPlace, 0, n)
		for _, p := range pool[:n] {
			results = append(results, models.Scored(p, 0))
		}
		return results
	}

	tokens := strings.Fields(q)
	var results []models.ScoredPlace
	for _, p := range pool {
		text := p.SearchText()
		count := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				count++
			}
		}
		if count > 0 {
			results = append(results, models.Scored(p, float64(count)))
		}
	}
	// Stable: equal overlap counts keep catalog order.
	scoring.SortByScore(results)
	return results
}

func matchesFilter(p *models.Place, city, typ string) bool {
	if city != "" && !strings.EqualFold(p.City, city) {
		return false
	}
	if typ != "" && !strings.EqualFold(p.Type, typ) {
		return false
	}
	return true
}

func filterPlaces(places []models.Place, city, typ string) []models.Place {
	if city == "" && typ == "" {
		return places
	}
	out := make([]models.Place, 0, len(places))
	for _, p := range places {
		if matchesFilter(&p, city, typ) {
			out = append(out, p)
		}
	}
	return out
}

func filterCityType(items []models.ScoredPlace, city, typ string) []models.ScoredPlace {
	if city == "" && typ == "" {
		return items
	}
	out := make([]models.ScoredPlace, 0, len(items))
	for _, it := range items {
		if matchesFilter(&it.Place, city, typ) {
			out = append(out, it)
		}
	}
	return out
}

// rerankByDistance attaches the great-circle distance to the user and
// re-sorts ascending, overriding the retrieval order. Places without real
// coordinates get no distance and sort last, keeping their relative order.
func rerankByDistance(items []models.ScoredPlace, userLat, userLng float64) {
	for i := range items {
		if !items[i].HasLocation() {
			continue
		}
		d := scoring.Round2(geo.HaversineKm(items[i].Lat, items[i].Lng, userLat, userLng))
		items[i].DistanceKm = &d
	}
	sortByDistance(items)
}
