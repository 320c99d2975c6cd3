// Package config provides configuration loading and structs for the Bhraman server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`
	Narration NarrationConfig `yaml:"narration"`
	Search    SearchConfig    `yaml:"search"`
	Route     RouteConfig     `yaml:"route"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig selects and locates the catalog data source.
type CatalogConfig struct {
	// Source is "json" or "sqlite".
	Source       string `yaml:"source"`
	DataPath     string `yaml:"data_path"`
	DatabasePath string `yaml:"database_path"`
	// Watch enables a change notice on the data file (restart still required).
	Watch bool `yaml:"watch"`
}

// EmbeddingConfig selects and configures the embedder.
type EmbeddingConfig struct {
	// Provider is "onnx", "ollama", "mock", or "none".
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// VectorConfig locates the persisted vector index.
type VectorConfig struct {
	IndexPath string `yaml:"index_path"`
	MetaPath  string `yaml:"meta_path"`
}

// NarrationConfig configures the text-generation call.
type NarrationConfig struct {
	Endpoint   string  `yaml:"endpoint"`
	Model      string  `yaml:"model"`
	TimeoutSec float64 `yaml:"timeout_sec"`
	Language   string  `yaml:"language"`
}

// SearchConfig holds retrieval defaults.
type SearchConfig struct {
	DefaultK int `yaml:"default_k"`
	MaxK     int `yaml:"max_k"`
	// CandidateMultiplier oversizes the vector candidate pool for post-filtering.
	CandidateMultiplier int `yaml:"candidate_multiplier"`
	ChatPoolK           int `yaml:"chat_pool_k"`
	ChatTopN            int `yaml:"chat_top_n"`
}

// RouteConfig holds corridor planner defaults.
type RouteConfig struct {
	DefaultK           int     `yaml:"default_k"`
	WalkingToleranceKm float64 `yaml:"walking_tolerance_km"`
	DefaultAvailableMin int    `yaml:"default_available_min"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.DataPath = expandPath(cfg.Catalog.DataPath, configDir)
	cfg.Catalog.DatabasePath = expandPath(cfg.Catalog.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Vector.IndexPath = expandPath(cfg.Vector.IndexPath, configDir)
	cfg.Vector.MetaPath = expandPath(cfg.Vector.MetaPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
