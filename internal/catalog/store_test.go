package catalog

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperlocal/bhraman/internal/models"
)

func testPlaces() []models.Place {
	return []models.Place{
		{ID: "p1", Name: "Prinsep Ghat", City: "Kolkata"},
		{ID: "p2", Name: "Indian Museum", City: "Kolkata"},
		{ID: "p3", Name: "Belur Math", City: "Howrah"},
	}
}

func TestStore_PreservesOrder(t *testing.T) {
	s := NewStore(testPlaces(), nil)
	got := s.Places()
	if got[0].ID != "p1" || got[1].ID != "p2" || got[2].ID != "p3" {
		t.Errorf("stored order changed: %v", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestStore_ByID(t *testing.T) {
	s := NewStore(testPlaces(), nil)
	p, ok := s.ByID("p2")
	if !ok || p.Name != "Indian Museum" {
		t.Errorf("ByID(p2) = %+v, %v", p, ok)
	}
	if _, ok := s.ByID("missing"); ok {
		t.Error("ByID(missing) reported found")
	}
}

func TestStore_ByNameCaseInsensitive(t *testing.T) {
	s := NewStore(testPlaces(), nil)
	p, ok := s.ByName("belur math")
	if !ok || p.ID != "p3" {
		t.Errorf("ByName lowercase = %+v, %v", p, ok)
	}
	p, ok = s.ByName("PRINSEP GHAT")
	if !ok || p.ID != "p1" {
		t.Errorf("ByName uppercase = %+v, %v", p, ok)
	}
}

func TestStore_DuplicateNameFirstWins(t *testing.T) {
	places := []models.Place{
		{ID: "a", Name: "Ghat"},
		{ID: "b", Name: "ghat"},
	}
	s := NewStore(places, nil)
	p, ok := s.ByName("Ghat")
	if !ok || p.ID != "a" {
		t.Errorf("duplicate name lookup = %+v, want first entry", p)
	}
}

func TestStore_CitiesSortedUnique(t *testing.T) {
	s := NewStore(testPlaces(), nil)
	if want := []string{"Howrah", "Kolkata"}; !reflect.DeepEqual(s.Cities(), want) {
		t.Errorf("Cities() = %v, want %v", s.Cities(), want)
	}
}

func TestJSONSource_MissingFileEmptyCatalog(t *testing.T) {
	src := &JSONSource{Path: filepath.Join(t.TempDir(), "absent.json")}
	places, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("places = %v, want empty", places)
	}
}

func TestJSONSource_LoadsAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "places.json")
	data := `[
		{"id": "p1", "name": "Prinsep Ghat", "tags": ["Riverside", "Quiet"]},
		{"id": "p2", "name": "Kumartuli", "city": "Kolkata"}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	src := &JSONSource{Path: path}
	places, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("loaded %d places, want 2", len(places))
	}
	if want := []string{"riverside", "quiet"}; !reflect.DeepEqual(places[0].Tags, want) {
		t.Errorf("tags = %v, want %v", places[0].Tags, want)
	}
	if places[1].City != "Kolkata" || places[1].Type != "place" {
		t.Errorf("defaults not applied: %+v", places[1])
	}
}
