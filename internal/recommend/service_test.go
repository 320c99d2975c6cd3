package recommend

import (
	"context"
	"strings"
	"testing"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/narrate"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/retrieval"
	"github.com/hyperlocal/bhraman/internal/route"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// Unreachable endpoint forces template narration in tests.
	cfg.Narration.Endpoint = "http://127.0.0.1:1"
	cfg.Narration.TimeoutSec = 0.2
	return cfg
}

func testService() (*Service, *prefs.Store) {
	places := []models.Place{
		{ID: "p1", Name: "Prinsep Ghat", City: "Kolkata", Type: "place",
			Description: "riverside promenade", History: "built in 1841",
			PersonalTips: "go at sunset",
			Tags:         []string{"riverside", "quiet", "heritage"},
			Lat:          22.5560, Lng: 88.3320},
		{ID: "p2", Name: "Indian Museum", City: "Kolkata", Type: "place",
			Description: "oldest museum in India",
			Tags:        []string{"museum", "heritage", "indoor"},
			Lat:         22.5579, Lng: 88.3511},
		{ID: "p3", Name: "Tea Corner", City: "Kolkata", Type: "food",
			Description: "street tea stall",
			Tags:        []string{"tea", "street-food", "busy"},
			Lat:         22.5367, Lng: 88.3450},
	}
	store := catalog.NewStore(places, nil)
	cfg := testConfig()
	engine := retrieval.NewEngine(store, nil, nil, nil, &cfg.Search, nil)
	planner := route.NewPlanner(store, nil)
	narrator := narrate.New(&cfg.Narration, nil)
	prefStore := prefs.NewStore()
	return NewService(store, engine, planner, narrator, prefStore, cfg, nil), prefStore
}

func TestChat_RanksWithPreferencesAndNarrates(t *testing.T) {
	svc, prefStore := testService()
	prefStore.SetPreferences("u1", prefs.Update{Interests: &[]string{"museum"}})

	result, err := svc.Chat(context.Background(), models.ChatRequest{
		Message: "heritage places to visit",
		UserID:  "u1",
		Intent:  "history",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Context) == 0 {
		t.Fatal("no context candidates")
	}
	// Both p1 and p2 carry the heritage tag and score the history intent, but
	// only p2 matches the museum interest, so it ranks first.
	if result.Context[0].ID != "p2" {
		t.Errorf("top candidate = %s, want p2", result.Context[0].ID)
	}
	if result.Answer == "" {
		t.Error("empty answer")
	}
	if !strings.Contains(result.Answer, "Indian Museum") {
		t.Errorf("answer should mention top candidate: %q", result.Answer)
	}
}

func TestChat_RecordsInteraction(t *testing.T) {
	svc, prefStore := testService()
	_, err := svc.Chat(context.Background(), models.ChatRequest{
		Message: "quiet heritage walk",
		UserID:  "u2",
	})
	if err != nil {
		t.Fatal(err)
	}
	p := prefStore.Get("u2")
	if len(p.LastQueries) != 1 || p.LastQueries[0] != "quiet heritage walk" {
		t.Errorf("LastQueries = %v", p.LastQueries)
	}
	if p.TagCounts.Get("quiet") < 1 || p.TagCounts.Get("historic") < 1 {
		t.Errorf("counters not reinforced: %v", p.TagCounts.Snapshot())
	}
}

func TestRecordInteraction_Direct(t *testing.T) {
	svc, prefStore := testService()
	svc.RecordInteraction("u3", "quiet tea near the river", "You might like Prinsep Ghat.")
	p := prefStore.Get("u3")
	if len(p.LastQueries) != 1 || p.LastQueries[0] != "quiet tea near the river" {
		t.Errorf("LastQueries = %v", p.LastQueries)
	}
	if p.TagCounts.Get("riverside") < 1 {
		t.Errorf("counters not reinforced: %v", p.TagCounts.Snapshot())
	}

	// Empty user id falls back to the anonymous record.
	svc.RecordInteraction("", "late night snack", "")
	if got := prefStore.Get("anon").LastQueries; len(got) != 1 {
		t.Errorf("anon LastQueries = %v", got)
	}
}

func TestChat_DefaultsAnonymousUser(t *testing.T) {
	svc, prefStore := testService()
	_, err := svc.Chat(context.Background(), models.ChatRequest{Message: "tea"})
	if err != nil {
		t.Fatal(err)
	}
	p := prefStore.Get("anon")
	if len(p.LastQueries) != 1 {
		t.Errorf("anon LastQueries = %v", p.LastQueries)
	}
}

func TestChat_TopNLimit(t *testing.T) {
	svc, _ := testService()
	result, err := svc.Chat(context.Background(), models.ChatRequest{Message: ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Context) > 4 {
		t.Errorf("context has %d candidates, want at most 4", len(result.Context))
	}
}

func TestRecommendAlongRoute_NarratesStops(t *testing.T) {
	svc, _ := testService()
	result, err := svc.RecommendAlongRoute(context.Background(), models.RouteRequest{
		OriginLat: 22.53, OriginLng: 88.34,
		DestLat: 22.56, DestLng: 88.34,
		TransportMode: "walk",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Suggestions) == 0 {
		t.Fatal("no route suggestions")
	}
	if !strings.Contains(result.Narration, "On your way you can stop by") {
		t.Errorf("narration = %q", result.Narration)
	}
	for _, s := range result.Suggestions {
		if s.RouteDistanceKm == nil {
			t.Errorf("%s missing route distance", s.ID)
		}
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	svc, _ := testService()
	mood := "calm"
	got := svc.SetPreferences("u1", prefs.Update{Mood: &mood})
	if got.Mood != "calm" {
		t.Errorf("Mood = %q", got.Mood)
	}
	if svc.GetPreferences("u1").Mood != "calm" {
		t.Error("preference not persisted")
	}
}

func TestSearchAndCatalogPassthrough(t *testing.T) {
	svc, _ := testService()
	results, err := svc.Search(context.Background(), models.SearchRequest{Query: "tea"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].ID != "p3" {
		t.Errorf("search results = %v", results)
	}
	if len(svc.Places()) != 3 {
		t.Errorf("Places() = %d, want 3", len(svc.Places()))
	}
	if cities := svc.Cities(); len(cities) != 1 || cities[0] != "Kolkata" {
		t.Errorf("Cities() = %v", cities)
	}
	if svc.SemanticAvailable() {
		t.Error("semantic should be off without an embedder")
	}
}
