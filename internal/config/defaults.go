package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = "json"
	}
	if cfg.Catalog.DataPath == "" {
		cfg.Catalog.DataPath = "./data/kolkata_places.json"
	}
	if cfg.Catalog.DatabasePath == "" {
		cfg.Catalog.DatabasePath = "./data/places.db"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "./data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Endpoint == "" {
		cfg.Embedding.Endpoint = "http://127.0.0.1:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "all-minilm"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Vector.IndexPath == "" {
		cfg.Vector.IndexPath = "./data/index/places.vec"
	}
	if cfg.Vector.MetaPath == "" {
		cfg.Vector.MetaPath = "./data/index/places_meta.json"
	}
	if cfg.Narration.Endpoint == "" {
		cfg.Narration.Endpoint = "http://127.0.0.1:11434/api/generate"
	}
	if cfg.Narration.Model == "" {
		cfg.Narration.Model = "tinyllama"
	}
	if cfg.Narration.TimeoutSec == 0 {
		cfg.Narration.TimeoutSec = 6.0
	}
	if cfg.Narration.Language == "" {
		cfg.Narration.Language = "en"
	}
	if cfg.Search.DefaultK == 0 {
		cfg.Search.DefaultK = 8
	}
	if cfg.Search.MaxK == 0 {
		cfg.Search.MaxK = 100
	}
	if cfg.Search.CandidateMultiplier == 0 {
		cfg.Search.CandidateMultiplier = 4
	}
	if cfg.Search.ChatPoolK == 0 {
		cfg.Search.ChatPoolK = 8
	}
	if cfg.Search.ChatTopN == 0 {
		cfg.Search.ChatTopN = 4
	}
	if cfg.Route.DefaultK == 0 {
		cfg.Route.DefaultK = 5
	}
	if cfg.Route.WalkingToleranceKm == 0 {
		cfg.Route.WalkingToleranceKm = 1.2
	}
	if cfg.Route.DefaultAvailableMin == 0 {
		cfg.Route.DefaultAvailableMin = 30
	}
}
