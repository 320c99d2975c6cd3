// Package recommend is the application facade: it composes retrieval, chat
// ranking, route planning, narration and preference learning into the
// operations the server exposes.
package recommend

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/narrate"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/retrieval"
	"github.com/hyperlocal/bhraman/internal/route"
	"github.com/hyperlocal/bhraman/internal/scoring"
)

// Service wires the engine, planner, narrator and preference store together.
type Service struct {
	catalog  *catalog.Store
	engine   *retrieval.Engine
	planner  *route.Planner
	narrator *narrate.Narrator
	prefs    *prefs.Store
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService creates the facade over already-constructed components.
func NewService(
	store *catalog.Store,
	engine *retrieval.Engine,
	planner *route.Planner,
	narrator *narrate.Narrator,
	prefStore *prefs.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:  store,
		engine:   engine,
		planner:  planner,
		narrator: narrator,
		prefs:    prefStore,
		cfg:      cfg,
		logger:   logger,
	}
}

// ChatResult carries the generated answer and the candidates it is grounded in.
type ChatResult struct {
	Answer  string
	Context []models.ScoredPlace
}

// RouteResult carries ranked route stops and their narration.
type RouteResult struct {
	Suggestions []models.ScoredPlace
	Narration   string
}

// Search retrieves ranked places.
func (s *Service) Search(ctx context.Context, req models.SearchRequest) ([]models.ScoredPlace, error) {
	return s.engine.Search(ctx, req)
}

// Similar returns places similar to the given catalog item.
func (s *Service) Similar(ctx context.Context, itemID string, k int) ([]models.ScoredPlace, error) {
	return s.engine.Similar(ctx, itemID, k)
}

// Places returns the whole catalog.
func (s *Service) Places() []models.Place {
	return s.catalog.Places()
}

// Cities returns the distinct catalog cities.
func (s *Service) Cities() []string {
	return s.catalog.Cities()
}

// SemanticAvailable reports whether vector retrieval is active.
func (s *Service) SemanticAvailable() bool {
	return s.engine.SemanticAvailable()
}

// Chat runs the conversational pipeline: retrieve a pool, re-rank it with the
// chat scoring formula, narrate the top slice, then learn from the exchange.
func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (ChatResult, error) {
	if err := req.Validate(); err != nil {
		return ChatResult{}, err
	}

	pool, err := s.engine.Search(ctx, models.SearchRequest{
		Query:   req.Message,
		K:       s.cfg.Search.ChatPoolK,
		City:    req.City,
		UserLat: req.UserLat,
		UserLng: req.UserLng,
	})
	if err != nil {
		return ChatResult{}, err
	}

	pref := s.prefs.Get(req.UserID)
	sctx := scoring.Context{Hour: req.Hour}
	for i := range pool {
		p := &pool[i].Place
		psc := scoring.Personalization(p, &pref)
		csc := scoring.ContextScore(p, sctx)
		isc := scoring.Intent(p, req.Intent)
		pool[i].Score = scoring.Round3(scoring.ChatTotal(psc, csc, isc))
	}
	scoring.SortByScore(pool)
	top := scoring.TopN(pool, s.cfg.Search.ChatTopN)

	answer := s.narrator.ChatAnswer(ctx, req.Message, top, pref, req.Hour, req.Language)

	s.RecordInteraction(req.UserID, req.Message, answer)

	return ChatResult{Answer: answer, Context: top}, nil
}

// RecordInteraction learns implicitly from an exchange. It never fails;
// callers outside Chat can invoke it directly to feed external conversations
// into the same preference record.
func (s *Service) RecordInteraction(userID, query, answer string) {
	if userID == "" {
		userID = "anon"
	}
	s.prefs.RecordInteraction(userID, query, answer)
}

// RecommendAlongRoute plans corridor stops for the user and narrates them.
func (s *Service) RecommendAlongRoute(ctx context.Context, req models.RouteRequest) (RouteResult, error) {
	if req.UserID == "" {
		req.UserID = "anon"
	}
	pref := s.prefs.Get(req.UserID)

	stops, err := s.planner.Plan(req, pref)
	if err != nil {
		return RouteResult{}, err
	}

	narration := s.narrator.RouteNarration(ctx, stops, pref, req.Weather, req.Hour, req.TempC)
	return RouteResult{Suggestions: stops, Narration: narration}, nil
}

// GetPreferences returns the user's preference record, creating it if absent.
func (s *Service) GetPreferences(userID string) prefs.Preferences {
	if userID == "" {
		userID = "anon"
	}
	return s.prefs.Get(userID)
}

// SetPreferences applies an explicit preference update and returns the result.
func (s *Service) SetPreferences(userID string, update prefs.Update) prefs.Preferences {
	if userID == "" {
		userID = "anon"
	}
	return s.prefs.SetPreferences(userID, update)
}
