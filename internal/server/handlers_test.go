package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/narrate"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/recommend"
	"github.com/hyperlocal/bhraman/internal/retrieval"
	"github.com/hyperlocal/bhraman/internal/route"

	"go.uber.org/zap"
)

func testServer(t *testing.T) (*Server, *chi.Mux) {
	t.Helper()
	places := []models.Place{
		{ID: "p1", Name: "Prinsep Ghat", City: "Kolkata", Type: "place",
			Description: "riverside promenade",
			Tags:        []string{"riverside", "quiet", "heritage"},
			Lat:         22.5560, Lng: 88.3320},
		{ID: "p2", Name: "Indian Museum", City: "Kolkata", Type: "place",
			Description: "oldest museum in India",
			Tags:        []string{"museum", "heritage", "indoor"},
			Lat:         22.5579, Lng: 88.3511},
		{ID: "p3", Name: "Tea Corner", City: "Howrah", Type: "food",
			Description: "street tea stall",
			Tags:        []string{"tea", "street-food"},
			Lat:         22.58, Lng: 88.31},
	}
	store := catalog.NewStore(places, nil)
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Narration.Endpoint = "http://127.0.0.1:1"
	cfg.Narration.TimeoutSec = 0.2

	engine := retrieval.NewEngine(store, nil, nil, nil, &cfg.Search, nil)
	planner := route.NewPlanner(store, nil)
	narrator := narrate.New(&cfg.Narration, nil)
	service := recommend.NewService(store, engine, planner, narrator, prefs.NewStore(), cfg, nil)

	s := NewServer(service, &cfg.Server, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/places", s.handlePlaces)
	r.Get("/api/v1/cities", s.handleCities)
	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/route", s.handleRoute)
	r.Get("/api/v1/similar/{id}", s.handleSimilar)
	r.Get("/api/v1/prefs", s.handleGetPrefs)
	r.Post("/api/v1/prefs", s.handleSetPrefs)
	return s, r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v\n%s", err, w.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Status   string `json:"status"`
		Semantic bool   `json:"semantic"`
	}
	decode(t, w, &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Semantic {
		t.Error("semantic should be false without an embedder")
	}
}

func TestHandleSearch(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query": "tea", "k": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Results []models.ScoredPlace `json:"results"`
	}
	decode(t, w, &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != "p3" {
		t.Errorf("results = %v", resp.Results)
	}
}

func TestHandleSearch_BadBody(t *testing.T) {
	_, r := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", bytes.NewBufferString("{broken"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleSearch_NegativeK(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/search", map[string]interface{}{
		"query": "tea", "k": -1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandlePlaces_Filtered(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/places?city=Howrah", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Results []models.ScoredPlace `json:"results"`
	}
	decode(t, w, &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != "p3" {
		t.Errorf("results = %v", resp.Results)
	}
}

func TestHandleCities(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/cities", nil)
	var resp struct {
		Cities []string `json:"cities"`
	}
	decode(t, w, &resp)
	if len(resp.Cities) != 2 || resp.Cities[0] != "Howrah" || resp.Cities[1] != "Kolkata" {
		t.Errorf("cities = %v", resp.Cities)
	}
}

func TestHandleChat_LooseHourCoercion(t *testing.T) {
	_, r := testServer(t)
	// hour as a string must be accepted and coerced.
	w := doJSON(t, r, http.MethodPost, "/api/v1/chat", map[string]interface{}{
		"message": "late night tea",
		"user_id": "u1",
		"hour":    "22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Answer      string               `json:"answer"`
		Context     []models.ScoredPlace `json:"context"`
		Response    string               `json:"response"`
		Suggestions []models.ScoredPlace `json:"suggestions"`
	}
	decode(t, w, &resp)
	if resp.Answer == "" {
		t.Error("empty answer")
	}
	if resp.Response != resp.Answer {
		t.Error("response alias should mirror answer")
	}
	if len(resp.Suggestions) != len(resp.Context) {
		t.Error("suggestions alias should mirror context")
	}
}

func TestHandleRoute(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/route", map[string]interface{}{
		"user_lat": 22.54, "user_lng": 88.33,
		"dest_lat": 22.57, "dest_lng": 88.35,
		"transport_mode": "walk",
		"temp_c":         "38",
		"k":              3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Suggestions []models.ScoredPlace `json:"suggestions"`
		Narration   string               `json:"narration"`
	}
	decode(t, w, &resp)
	if len(resp.Suggestions) == 0 {
		t.Error("no suggestions")
	}
	if resp.Narration == "" {
		t.Error("empty narration")
	}
}

func TestHandleSimilar(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/similar/p1?k=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Results []models.ScoredPlace `json:"results"`
	}
	decode(t, w, &resp)
	if len(resp.Results) != 2 {
		t.Errorf("got %d results, want 2", len(resp.Results))
	}
	for _, res := range resp.Results {
		if res.ID == "p1" {
			t.Error("base item in similar results")
		}
	}
}

func TestHandleSimilar_InvalidK(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/similar/p1?k=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandlePrefs_UpdateAndGet(t *testing.T) {
	_, r := testServer(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/prefs", map[string]interface{}{
		"user_id": "u1",
		"preferences": map[string]interface{}{
			"mood":      "calm",
			"interests": []string{"heritage"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		OK    bool              `json:"ok"`
		Prefs prefs.Preferences `json:"prefs"`
	}
	decode(t, w, &resp)
	if !resp.OK || resp.Prefs.Mood != "calm" {
		t.Errorf("update response = %+v", resp)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/prefs?user_id=u1", nil)
	var got struct {
		Prefs prefs.Preferences `json:"prefs"`
	}
	decode(t, w, &got)
	if got.Prefs.Mood != "calm" || len(got.Prefs.Interests) != 1 {
		t.Errorf("get response = %+v", got.Prefs)
	}
}
