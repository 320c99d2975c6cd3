// Package main is the Bhraman CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/cli"
	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/embedding"
	"github.com/hyperlocal/bhraman/internal/ingest"
	"github.com/hyperlocal/bhraman/internal/models"
	"github.com/hyperlocal/bhraman/internal/narrate"
	"github.com/hyperlocal/bhraman/internal/prefs"
	"github.com/hyperlocal/bhraman/internal/recommend"
	"github.com/hyperlocal/bhraman/internal/retrieval"
	"github.com/hyperlocal/bhraman/internal/route"
	"github.com/hyperlocal/bhraman/internal/scoring"
	"github.com/hyperlocal/bhraman/internal/server"
	"github.com/hyperlocal/bhraman/internal/vector"
	"github.com/hyperlocal/bhraman/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/bhraman/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "bhraman server" from the project dir uses the
// project's config (including debug).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "route":
		runRoute()
	case "ingest":
		runIngest()
	case "build-index":
		runBuildIndex()
	case "version", "--version", "-v":
		fmt.Printf("bhraman version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	var watch *catalog.Watcher
	if cfg.Catalog.Watch && cfg.Catalog.Source == "json" {
		watch, err = catalog.NewWatcher(cfg.Catalog.DataPath, logger)
		if err != nil {
			logger.Warn("catalog watch unavailable", zap.Error(err))
		}
	}
	if watch != nil {
		defer watch.Close()
	}

	srv := server.NewServer(components.Service, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	k := fs.Int("k", 0, "number of results (0 = config default)")
	city := fs.String("city", "", "filter by city")
	typ := fs.String("type", "", "filter by type")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bhraman search [flags] <query>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	results, err := components.Service.Search(context.Background(), models.SearchRequest{
		Query: query,
		K:     *k,
		City:  *city,
		Type:  *typ,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteResults(os.Stdout, results, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runRoute() {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	originLat := fs.Float64("from-lat", 0, "origin latitude")
	originLng := fs.Float64("from-lng", 0, "origin longitude")
	destLat := fs.Float64("to-lat", 0, "destination latitude")
	destLng := fs.Float64("to-lng", 0, "destination longitude")
	mode := fs.String("mode", "car", "transport mode: walk, scooter, car")
	minutes := fs.Int("minutes", 0, "available time in minutes")
	tolerance := fs.Float64("tolerance", 0, "corridor width in km (0 = config default)")
	intent := fs.String("intent", "", "intent: food, photography, history, quiet, explore")
	hourFlag := fs.String("hour", "", "hour of day (0-23)")
	weather := fs.String("weather", "", "weather description")
	k := fs.Int("k", 0, "number of stops (0 = default)")
	userID := fs.String("user", "anon", "user id for personalization")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	result, err := components.Service.RecommendAlongRoute(context.Background(), models.RouteRequest{
		UserID:             *userID,
		OriginLat:          *originLat,
		OriginLng:          *originLng,
		DestLat:            *destLat,
		DestLng:            *destLng,
		TransportMode:      *mode,
		AvailableMinutes:   *minutes,
		WalkingToleranceKm: *tolerance,
		Weather:            *weather,
		Hour:               scoring.ParseHour(*hourFlag),
		Intent:             *intent,
		K:                  *k,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Route planning failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRouteResults(os.Stdout, result.Suggestions, result.Narration, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: bhraman ingest [flags] <file.json|file.xlsx>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	in := ingest.NewIngester(cfg.Catalog.DatabasePath, logger)
	n, err := in.IngestFile(context.Background(), path)
	if err != nil {
		fmt.Printf("Ingest failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Ingested %d place(s) from %s into %s\n", n, path, cfg.Catalog.DatabasePath)
}

func runBuildIndex() {
	fs := flag.NewFlagSet("build-index", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	store, err := catalog.Load(ctx, catalogSource(cfg), logger)
	if err != nil {
		fmt.Printf("Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		fmt.Printf("Failed to create embedder: %v\n", err)
		os.Exit(1)
	}
	if embedder == nil {
		fmt.Println("Embedding provider is \"none\"; nothing to index")
		os.Exit(1)
	}
	defer embedder.Close()

	n, err := ingest.BuildIndex(ctx, store, embedder, cfg.Vector.IndexPath, cfg.Vector.MetaPath, logger)
	if err != nil {
		fmt.Printf("Index build failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d place(s) into %s\n", n, cfg.Vector.IndexPath)
}

// Components holds initialized services.
type Components struct {
	Catalog  *catalog.Store
	Embedder embedding.Embedder
	Index    vector.Index
	Service  *recommend.Service
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

func catalogSource(cfg *config.Config) catalog.Source {
	if cfg.Catalog.Source == "sqlite" {
		return &catalog.SQLiteSource{Path: cfg.Catalog.DatabasePath}
	}
	return &catalog.JSONSource{Path: cfg.Catalog.DataPath}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	ctx := context.Background()
	store, err := catalog.Load(ctx, catalogSource(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Int("places", store.Len()))

	// An embedder failure is not fatal: the engine degrades to keyword
	// retrieval, matching the startup capability decision.
	var embedder embedding.Embedder
	embedder, err = embedding.New(&cfg.Embedding)
	if err != nil {
		logger.Warn("embedder unavailable, semantic retrieval disabled", zap.Error(err))
		embedder = nil
	}

	var index vector.Index
	var meta map[string]vector.Meta
	if embedder != nil {
		memIdx, idxErr := vector.NewMemoryIndex(embedder.Dimensions())
		if idxErr != nil {
			return nil, fmt.Errorf("failed to create vector index: %w", idxErr)
		}
		if loadErr := memIdx.Load(cfg.Vector.IndexPath); loadErr != nil {
			logger.Warn("vector index load skipped", zap.String("path", cfg.Vector.IndexPath), zap.Error(loadErr))
		}
		index = memIdx
		meta, err = vector.LoadMeta(cfg.Vector.MetaPath)
		if err != nil {
			logger.Warn("vector meta load skipped", zap.String("path", cfg.Vector.MetaPath), zap.Error(err))
			meta = map[string]vector.Meta{}
		}
	}

	engine := retrieval.NewEngine(store, embedder, index, meta, &cfg.Search, logger)
	planner := route.NewPlanner(store, logger)
	narrator := narrate.New(&cfg.Narration, logger)
	prefStore := prefs.NewStore()
	service := recommend.NewService(store, engine, planner, narrator, prefStore, cfg, logger)

	return &Components{
		Catalog:  store,
		Embedder: embedder,
		Index:    index,
		Service:  service,
	}, nil
}

func printUsage() {
	fmt.Println(`bhraman - Hyperlocal place recommendation engine

Usage:
  bhraman server [flags]            Start the HTTP server
  bhraman search [flags] <query>    Search places
  bhraman route [flags]             Plan stops along a route
  bhraman ingest [flags] <file>     Import places into the catalog database
  bhraman build-index [flags]       Build the vector index from the catalog
  bhraman version                   Show version
  bhraman help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/bhraman/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path
  --k int            Number of results
  --city string      Filter by city
  --type string      Filter by type
  --output string    Output format: text or json (default: text)

Route Flags:
  --config string    Config file path
  --from-lat, --from-lng, --to-lat, --to-lng   Route endpoints
  --mode string      Transport mode: walk, scooter, car (default: car)
  --minutes int      Available time in minutes
  --tolerance float  Corridor width in km
  --intent string    Intent: food, photography, history, quiet, explore
  --user string      User id for personalization (default: anon)
  --output string    Output format: text or json (default: text)

Examples:
  bhraman server
  bhraman search "quiet riverside tea stall"
  bhraman search --city Kolkata --k 5 heritage
  bhraman route --from-lat 22.5726 --from-lng 88.3639 --to-lat 22.5958 --to-lng 88.2636 --mode walk
  bhraman ingest places.xlsx
  bhraman build-index`)
}
