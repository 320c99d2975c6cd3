package models

import "fmt"

// SearchRequest is a retrieval request with optional filters and user location.
type SearchRequest struct {
	Query   string   `json:"query"`
	K       int      `json:"k,omitempty"`
	City    string   `json:"city,omitempty"`
	Type    string   `json:"type,omitempty"`
	UserLat *float64 `json:"user_lat,omitempty"`
	UserLng *float64 `json:"user_lng,omitempty"`
}

// Validate rejects contract violations and applies defaults. A negative K is
// a programmer error and fails fast; zero K gets the default.
func (r *SearchRequest) Validate() error {
	if r.K < 0 {
		return fmt.Errorf("k must be non-negative, got %d", r.K)
	}
	if r.K == 0 {
		r.K = 8
	}
	if r.K > 100 {
		r.K = 100
	}
	return nil
}

// HasUserLocation reports whether both user coordinates were supplied.
func (r *SearchRequest) HasUserLocation() bool {
	return r.UserLat != nil && r.UserLng != nil
}

// ChatRequest is a conversational recommendation request.
type ChatRequest struct {
	Message string   `json:"message"`
	UserID  string   `json:"user_id,omitempty"`
	City    string   `json:"city,omitempty"`
	UserLat *float64 `json:"user_lat,omitempty"`
	UserLng *float64 `json:"user_lng,omitempty"`
	Hour    *int     `json:"hour,omitempty"`
	Intent  string   `json:"intent,omitempty"`
	// Pace is accepted for wire compatibility but does not affect scoring.
	Pace     string `json:"pace,omitempty"`
	Language string `json:"language,omitempty"`
}

// Validate applies defaults.
func (r *ChatRequest) Validate() error {
	if r.UserID == "" {
		r.UserID = "anon"
	}
	return nil
}

// RouteRequest asks for stops along the corridor between two coordinates.
type RouteRequest struct {
	UserID           string   `json:"user_id,omitempty"`
	OriginLat        float64  `json:"user_lat"`
	OriginLng        float64  `json:"user_lng"`
	DestLat          float64  `json:"dest_lat"`
	DestLng          float64  `json:"dest_lng"`
	TransportMode    string   `json:"transport_mode,omitempty"`
	AvailableMinutes int      `json:"available_time_min,omitempty"`
	// WalkingToleranceKm is the corridor half-width when ThresholdKm is unset.
	WalkingToleranceKm float64  `json:"walking_distance_km,omitempty"`
	ThresholdKm        *float64 `json:"threshold_km,omitempty"`
	Weather            string   `json:"weather,omitempty"`
	Hour               *int     `json:"hour,omitempty"`
	TempC              *float64 `json:"temp_c,omitempty"`
	Intent             string   `json:"intent,omitempty"`
	// Pace is accepted for wire compatibility but does not affect scoring.
	Pace string `json:"pace,omitempty"`
	K    int    `json:"k,omitempty"`
}

// Validate rejects contract violations and applies defaults.
func (r *RouteRequest) Validate() error {
	if r.K < 0 {
		return fmt.Errorf("k must be non-negative, got %d", r.K)
	}
	if r.K == 0 {
		r.K = 5
	}
	if r.TransportMode == "" {
		r.TransportMode = "car"
	}
	if r.AvailableMinutes == 0 {
		r.AvailableMinutes = 30
	}
	if r.WalkingToleranceKm == 0 {
		r.WalkingToleranceKm = 1.2
	}
	return nil
}
