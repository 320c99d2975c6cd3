package models

// ScoredPlace is a Place enriched with a ranking score and, depending on the
// scenario, a distance. It is always a fresh copy; the underlying catalog
// entry is never mutated.
type ScoredPlace struct {
	Place
	Score float64 `json:"score"`
	// DistanceKm is the great-circle distance to the user, set only when a
	// user location was supplied to search.
	DistanceKm *float64 `json:"distance_km,omitempty"`
	// RouteDistanceKm is the perpendicular distance to the route segment,
	// set only in route mode.
	RouteDistanceKm *float64 `json:"route_distance_km,omitempty"`
}

// Scored wraps the place in a ScoredPlace copy with the given score.
func Scored(p Place, score float64) ScoredPlace {
	return ScoredPlace{Place: p, Score: score}
}
