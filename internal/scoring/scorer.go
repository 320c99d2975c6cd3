package scoring

import (
	"math"
	"strings"

	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/prefs"
)

// Scenario combination weights. These are part of the scoring contract, not
// tunables.
const (
	chatPersonalizationWeight = 0.9
	chatIntentWeight          = 0.5
	chatContextWeight         = 0.3

	routeProximityWeight       = 1.4
	routePersonalizationWeight = 0.9
	routeContextWeight         = 0.7
	routeIntentWeight          = 0.5

	detourTermMax = 0.6
	crowdPenalty  = 0.5
)

// Personalization scores a place against the user's preference record.
// Interest matches are substring checks against the joined tag string, so
// "museum" also matches the tag "art-museum".
func Personalization(p *models.Place, pref *prefs.Preferences) float64 {
	s := 0.0
	joined := p.JoinedTags()
	for _, interest := range pref.LowerInterests() {
		if interest != "" && strings.Contains(joined, interest) {
			s += 1.0
		}
	}
	if strings.TrimSpace(pref.TimePreference) != "" {
		s += 0.2
	}
	if strings.TrimSpace(pref.Mood) != "" {
		s += 0.2
	}
	switch strings.ToLower(pref.Companion) {
	case "family", "kids":
		if p.HasAnyTag("family", "kids", "educational") {
			s += 0.5
		}
	case "couple", "friends":
		if p.HasAnyTag("romantic", "nightlife", "cafe") {
			s += 0.4
		}
	}
	if pref.Dietary.VegOnly && strings.Contains(joined, "non-veg") {
		s -= 0.6
	}
	if pref.Dietary.StreetFoodOK && strings.Contains(joined, "street-food") {
		s += 0.3
	}
	return s
}

// ContextScore scores a place against the situational context. Absent or
// unparsable signals contribute zero.
func ContextScore(p *models.Place, ctx Context) float64 {
	s := 0.0
	joined := p.JoinedTags()
	if strings.Contains(strings.ToLower(ctx.Weather), "rain") && p.HasAnyTag("indoor", "cafe", "museum") {
		s += 0.7
	}
	if ctx.Hour != nil {
		h := *ctx.Hour
		if (h >= 20 || h < 6) && (p.HasTag("open_late") || strings.Contains(joined, "tea stall")) {
			s += 0.5
		}
	}
	if ctx.TempC != nil && *ctx.TempC > 35 && p.HasAnyTag("waterfront", "shade", "indoor") {
		s += 0.5
	}
	return s
}

// Intent scores a place against a declared intent from the fixed intent
// vocabulary. An empty or unknown intent scores zero. Food intent uses a
// substring check against the joined tag string (so "tea" matches
// "tea-stall"); the others are exact tag membership.
func Intent(p *models.Place, intent string) float64 {
	switch strings.ToLower(intent) {
	case "food":
		joined := p.JoinedTags()
		for _, kw := range []string{"street-food", "cafe", "tea", "restaurant"} {
			if strings.Contains(joined, kw) {
				return 0.6
			}
		}
		return 0.0
	case "photography":
		if p.HasAnyTag("iconic", "heritage", "river-view", "architecture") {
			return 0.6
		}
	case "history":
		if p.HasAnyTag("heritage", "historical", "museum") {
			return 0.6
		}
	case "quiet":
		if p.HasAnyTag("peaceful", "quiet", "park", "open-space") {
			return 0.6
		}
	}
	return 0.0
}

// ChatTotal combines the sub-scores for conversational ranking.
func ChatTotal(personalization, context, intent float64) float64 {
	return chatPersonalizationWeight*personalization +
		chatIntentWeight*intent +
		chatContextWeight*context
}

// DetourCap returns the acceptable detour in km for a transport mode,
// tightened when little time is available.
func DetourCap(transportMode string, availableMinutes int) float64 {
	var limit float64
	switch strings.ToLower(transportMode) {
	case "walk", "scooter":
		limit = 0.6
	case "car":
		limit = 1.2
	default:
		limit = 0.8
	}
	if availableMinutes < 20 {
		limit *= 0.7
	}
	return limit
}

// DetourTerm is maximal (0.6) while the detour stays within the cap and
// decays hyperbolically beyond it.
func DetourTerm(detourKm, detourCap float64) float64 {
	return detourTermMax / (1.0 + math.Max(0.0, detourKm-detourCap))
}

// CrowdPenalty penalizes busy spots for users in a calm mood.
func CrowdPenalty(p *models.Place, mood string) float64 {
	if strings.ToLower(mood) == "calm" && p.HasAnyTag("busy", "crowd", "nightlife") {
		return crowdPenalty
	}
	return 0.0
}

// RouteTotal combines proximity, detour, sub-scores and the crowd penalty for
// route ranking.
func RouteTotal(segmentKm, detourTerm, personalization, context, intent, crowdPenalty float64) float64 {
	return routeProximityWeight/(1.0+segmentKm) +
		detourTerm +
		routePersonalizationWeight*personalization +
		routeContextWeight*context +
		routeIntentWeight*intent -
		crowdPenalty
}

// Round3 rounds a total to 3 decimal places for output.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round2 rounds a distance to 2 decimal places for output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
