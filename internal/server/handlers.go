package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/scoring"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"semantic": s.service.SemanticAvailable(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("k", req.K))
	results, err := s.service.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// handlePlaces lists the catalog through the search pipeline so the same
// city/type filters apply.
func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	req := models.SearchRequest{
		Query: "",
		K:     100,
		City:  r.URL.Query().Get("city"),
		Type:  r.URL.Query().Get("type"),
	}
	results, err := s.service.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("places listing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"cities": s.service.Cities()})
}

// chatWire accepts hour as a number or string; unparsable values are treated
// as absent.
type chatWire struct {
	Message  string      `json:"message"`
	UserID   string      `json:"user_id"`
	City     string      `json:"city"`
	UserLat  *float64    `json:"user_lat"`
	UserLng  *float64    `json:"user_lng"`
	Hour     interface{} `json:"hour"`
	Intent   string      `json:"intent"`
	Pace     string      `json:"pace"`
	Language string      `json:"language"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var wire chatWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req := models.ChatRequest{
		Message:  wire.Message,
		UserID:   wire.UserID,
		City:     wire.City,
		UserLat:  wire.UserLat,
		UserLng:  wire.UserLng,
		Hour:     scoring.ParseHour(wire.Hour),
		Intent:   wire.Intent,
		Pace:     wire.Pace,
		Language: wire.Language,
	}
	s.logger.Debug("chat request", zap.String("user_id", req.UserID), zap.String("message", req.Message))
	result, err := s.service.Chat(r.Context(), req)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// answer/context plus the response/suggestions aliases kept for older clients.
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"answer":      result.Answer,
		"context":     result.Context,
		"response":    result.Answer,
		"suggestions": result.Context,
	})
}

type routeWire struct {
	UserID             string      `json:"user_id"`
	OriginLat          float64     `json:"user_lat"`
	OriginLng          float64     `json:"user_lng"`
	DestLat            float64     `json:"dest_lat"`
	DestLng            float64     `json:"dest_lng"`
	TransportMode      string      `json:"transport_mode"`
	AvailableMinutes   int         `json:"available_time_min"`
	WalkingToleranceKm float64     `json:"walking_distance_km"`
	ThresholdKm        *float64    `json:"threshold_km"`
	Weather            string      `json:"weather"`
	Hour               interface{} `json:"hour"`
	TempC              interface{} `json:"temp_c"`
	Intent             string      `json:"intent"`
	Pace               string      `json:"pace"`
	K                  int         `json:"k"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var wire routeWire
	if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req := models.RouteRequest{
		UserID:             wire.UserID,
		OriginLat:          wire.OriginLat,
		OriginLng:          wire.OriginLng,
		DestLat:            wire.DestLat,
		DestLng:            wire.DestLng,
		TransportMode:      wire.TransportMode,
		AvailableMinutes:   wire.AvailableMinutes,
		WalkingToleranceKm: wire.WalkingToleranceKm,
		ThresholdKm:        wire.ThresholdKm,
		Weather:            wire.Weather,
		Hour:               scoring.ParseHour(wire.Hour),
		TempC:              scoring.ParseTemp(wire.TempC),
		Intent:             wire.Intent,
		Pace:               wire.Pace,
		K:                  wire.K,
	}
	s.logger.Debug("route request",
		zap.String("user_id", req.UserID),
		zap.String("transport_mode", req.TransportMode),
		zap.Int("k", req.K),
	)
	result, err := s.service.RecommendAlongRoute(r.Context(), req)
	if err != nil {
		s.logger.Error("route planning failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": result.Suggestions,
		"narration":   result.Narration,
	})
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid k")
			return
		}
		k = n
	}
	results, err := s.service.Similar(r.Context(), id, k)
	if err != nil {
		s.logger.Error("similar failed", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	p := s.service.GetPreferences(userID)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"prefs": p})
}

type prefsUpdateRequest struct {
	UserID      string       `json:"user_id"`
	Preferences prefs.Update `json:"preferences"`
}

func (s *Server) handleSetPrefs(w http.ResponseWriter, r *http.Request) {
	var req prefsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := s.service.SetPreferences(req.UserID, req.Preferences)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "prefs": p})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
