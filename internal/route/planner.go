// Package route plans recommended stops along the corridor between two
// coordinates.
package route

import (
	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/geo"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/scoring"
)

// Planner filters the catalog to a corridor around the route segment and
// ranks the survivors with the route scoring formula.
type Planner struct {
	catalog *catalog.Store
	logger  *zap.Logger
}

// NewPlanner creates a corridor planner over the catalog.
func NewPlanner(store *catalog.Store, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{catalog: store, logger: logger}
}

// Plan returns the top-k stops along the corridor, each carrying its segment
// distance and route score. Catalog items without real coordinates are
// skipped.
func (pl *Planner) Plan(req models.RouteRequest, pref prefs.Preferences) ([]models.ScoredPlace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	threshold := req.WalkingToleranceKm
	if req.ThresholdKm != nil {
		threshold = *req.ThresholdKm
	}

	type corridorItem struct {
		place models.Place
		seg   float64
	}
	var near []corridorItem
	for _, p := range pl.catalog.Places() {
		if !p.HasLocation() {
			continue
		}
		seg := geo.PointSegmentDistanceKm(
			req.OriginLat, req.OriginLng,
			req.DestLat, req.DestLng,
			p.Lat, p.Lng,
		)
		if seg <= threshold {
			near = append(near, corridorItem{place: p, seg: seg})
		}
	}

	detourCap := scoring.DetourCap(req.TransportMode, req.AvailableMinutes)
	sctx := scoring.Context{Weather: req.Weather, Hour: req.Hour, TempC: req.TempC}

	results := make([]models.ScoredPlace, 0, len(near))
	for _, item := range near {
		p := item.place
		// Detour is measured from the origin, not from the nearest point on
		// the segment: "how far out of the way from the start".
		detourKm := geo.HaversineKm(req.OriginLat, req.OriginLng, p.Lat, p.Lng)
		detourTerm := scoring.DetourTerm(detourKm, detourCap)

		psc := scoring.Personalization(&p, &pref)
		csc := scoring.ContextScore(&p, sctx)
		isc := scoring.Intent(&p, req.Intent)
		crowd := scoring.CrowdPenalty(&p, pref.Mood)

		total := scoring.RouteTotal(item.seg, detourTerm, psc, csc, isc, crowd)

		sp := models.Scored(p, scoring.Round3(total))
		seg := scoring.Round2(item.seg)
		sp.RouteDistanceKm = &seg
		results = append(results, sp)
	}

	scoring.SortByScore(results)
	results = scoring.TopN(results, req.K)

	pl.logger.Debug("route corridor planned",
		zap.Int("corridor_size", len(near)),
		zap.Int("returned", len(results)),
		zap.Float64("threshold_km", threshold),
	)
	return results, nil
}
