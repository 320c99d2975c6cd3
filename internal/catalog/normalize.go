// Package catalog loads and serves the read-only place catalog.
package catalog

import (
	"strconv"
	"strings"

	"github.com/hyperlocal/bhraman/internal/models"
)

// Field defaults applied during normalization.
const (
	DefaultCity = "Kolkata"
	DefaultType = "place"
)

// consumedKeys are source fields with a dedicated Place column; everything
// else lands in Extra.
var consumedKeys = map[string]bool{
	"id": true, "name": true, "category": true, "description": true,
	"history": true, "story": true, "personal_tips": true,
	"tags": true, "sentiment_tags": true,
	"images": true, "image_urls": true, "image": true,
	"lat": true, "lng": true, "city": true, "type": true,
	"opening_hours": true, "price": true, "best_time": true,
	"nearby_tea_stalls": true,
}

// FromRaw builds a normalized Place from a free-form source record. It never
// fails: a malformed field degrades to its type-correct empty default.
// Normalizing an already-normalized record is a no-op.
func FromRaw(raw map[string]interface{}) models.Place {
	p := models.Place{
		ID:           asString(raw["id"]),
		Name:         asString(raw["name"]),
		Category:     asString(raw["category"]),
		Description:  asString(raw["description"]),
		History:      asString(raw["history"]),
		PersonalTips: asString(raw["personal_tips"]),
		Lat:          asFloat(raw["lat"]),
		Lng:          asFloat(raw["lng"]),
		City:         asString(raw["city"]),
		Type:         asString(raw["type"]),
		OpeningHours: asString(raw["opening_hours"]),
		Price:        asString(raw["price"]),
		BestTime:     asString(raw["best_time"]),
	}

	// Tags come from "tags" or, in older exports, "sentiment_tags".
	p.Tags = lowerAll(asStringSlice(raw["tags"]))
	if len(p.Tags) == 0 {
		p.Tags = lowerAll(asStringSlice(raw["sentiment_tags"]))
	}

	// Images come from "images" or "image_urls"; the primary image defaults
	// to the first of the list.
	p.Images = asStringSlice(raw["images"])
	if len(p.Images) == 0 {
		p.Images = asStringSlice(raw["image_urls"])
	}
	p.Image = asString(raw["image"])
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}

	// "story" is an alias used by older records for description/history.
	if story := asString(raw["story"]); story != "" {
		if p.Description == "" {
			p.Description = story
		}
		if p.History == "" {
			p.History = story
		}
	}

	if p.City == "" {
		p.City = DefaultCity
	}
	if p.Type == "" {
		p.Type = DefaultType
	}

	p.NearbyStalls = asStalls(raw["nearby_tea_stalls"])
	if p.NearbyStalls == nil {
		p.NearbyStalls = []models.NearbyStall{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	for k, v := range raw {
		if consumedKeys[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]interface{})
		}
		p.Extra[k] = v
	}

	return p
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if t := strings.TrimSpace(e); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if t := asString(e); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		return nil
	}
}

func lowerAll(s []string) []string {
	for i := range s {
		s[i] = strings.ToLower(s[i])
	}
	return s
}

func asStalls(v interface{}) []models.NearbyStall {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.NearbyStall, 0, len(list))
	for _, e := range list {
		switch stall := e.(type) {
		case string:
			if t := strings.TrimSpace(stall); t != "" {
				out = append(out, models.NearbyStall{Name: t})
			}
		case map[string]interface{}:
			s := models.NearbyStall{
				Name:      asString(stall["name"]),
				DistanceM: asFloat(stall["distance_m"]),
				Specialty: asString(stall["specialty"]),
			}
			if s.Name != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
