package catalog

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/models"
)

// Source supplies raw place records at startup.
type Source interface {
	Load(ctx context.Context) ([]models.Place, error)
}

// Store is the in-memory place catalog. It is loaded once at startup and
// read-only afterwards; reloading requires a process restart.
type Store struct {
	places []models.Place
	byID   map[string]int
	byName map[string]int
	logger *zap.Logger
}

// NewStore builds a store over the given normalized places. Stored order is
// preserved; it is the tie-break order for every ranking in the system.
func NewStore(places []models.Place, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		places: places,
		byID:   make(map[string]int, len(places)),
		byName: make(map[string]int, len(places)),
		logger: logger,
	}
	for i, p := range places {
		if p.ID != "" {
			if _, dup := s.byID[p.ID]; !dup {
				s.byID[p.ID] = i
			}
		}
		key := strings.ToLower(p.Name)
		if key != "" {
			if _, dup := s.byName[key]; !dup {
				s.byName[key] = i
			} else {
				logger.Debug("duplicate place name in catalog", zap.String("name", p.Name))
			}
		}
	}
	return s
}

// Load reads all places from src and builds a store.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Store, error) {
	places, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(places, logger), nil
}

// Places returns the catalog in stored order. Callers must treat the slice
// as read-only.
func (s *Store) Places() []models.Place {
	return s.places
}

// Len returns the number of catalog entries.
func (s *Store) Len() int {
	return len(s.places)
}

// ByID returns the place with the given id.
func (s *Store) ByID(id string) (models.Place, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Place{}, false
	}
	return s.places[i], true
}

// ByName returns the first place whose name matches case-insensitively.
// Duplicate names collide; the first catalog entry wins.
func (s *Store) ByName(name string) (models.Place, bool) {
	i, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return models.Place{}, false
	}
	return s.places[i], true
}

// Cities returns the sorted set of distinct city names in the catalog.
func (s *Store) Cities() []string {
	seen := make(map[string]bool)
	var cities []string
	for _, p := range s.places {
		city := p.City
		if city == "" {
			city = DefaultCity
		}
		if !seen[city] {
			seen[city] = true
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)
	return cities
}
