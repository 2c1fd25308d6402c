package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cartfill API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Data      DataConfig      `yaml:"data"`
	Mining    MiningConfig    `yaml:"mining"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Insights  InsightsConfig  `yaml:"insights"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DataConfig holds artifact and transaction storage settings.
type DataConfig struct {
	Dir string `yaml:"dir"` // directory for CSV/JSON artifacts (default: ./data)
}

// MiningConfig holds association-rule mining thresholds.
type MiningConfig struct {
	MinSupport      float64 `yaml:"min_support"`      // pair support threshold
	MinConfidence   float64 `yaml:"min_confidence"`   // per-direction confidence threshold
	FloorSupport    float64 `yaml:"floor_support"`    // curated complement support floor
	FloorConfidence float64 `yaml:"floor_confidence"` // curated complement confidence floor
}

// ScoringConfig holds candidate admission gates and score blending weights.
type ScoringConfig struct {
	StrongSupportMin    float64 `yaml:"strong_support_min"`    // association-candidate support gate
	StrongConfidenceMin float64 `yaml:"strong_confidence_min"` // association-candidate confidence gate
	ConfidenceWeight    float64 `yaml:"confidence_weight"`     // blend weight for normalized confidence
	SimilarityWeight    float64 `yaml:"similarity_weight"`     // blend weight for rescaled similarity

	// Display floors so an admitted candidate never shows literal zeros.
	ItemFloorConfidence     float64 `yaml:"item_floor_confidence"`
	ItemFloorSupport        float64 `yaml:"item_floor_support"`
	CustomerFloorConfidence float64 `yaml:"customer_floor_confidence"`
	CustomerFloorSupport    float64 `yaml:"customer_floor_support"`
}

// EmbeddingConfig holds offline embedding-training settings.
type EmbeddingConfig struct {
	Dim               int   `yaml:"dim"`                  // vector dimensionality
	Epochs            int   `yaml:"epochs"`               // training epochs
	MaxPairsPerBasket int   `yaml:"max_pairs_per_basket"` // positive pair cap per basket
	Seed              int64 `yaml:"seed"`                 // RNG seed for reproducible training
}

// CacheConfig holds the optional Redis-backed result cache settings.
// Empty addrs disables caching entirely.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// InsightsConfig holds the text-generation collaborator settings.
// An empty api_key leaves the service in the unavailable state.
type InsightsConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "data"
	}
	if c.Mining.MinSupport <= 0 {
		c.Mining.MinSupport = 0.015
	}
	if c.Mining.MinConfidence <= 0 {
		c.Mining.MinConfidence = 0.08
	}
	if c.Mining.FloorSupport <= 0 {
		c.Mining.FloorSupport = 0.05
	}
	if c.Mining.FloorConfidence <= 0 {
		c.Mining.FloorConfidence = 0.25
	}
	if c.Scoring.StrongSupportMin <= 0 {
		c.Scoring.StrongSupportMin = 0.02
	}
	if c.Scoring.StrongConfidenceMin <= 0 {
		c.Scoring.StrongConfidenceMin = 0.12
	}
	if c.Scoring.ConfidenceWeight <= 0 {
		c.Scoring.ConfidenceWeight = 0.7
	}
	if c.Scoring.SimilarityWeight <= 0 {
		c.Scoring.SimilarityWeight = 0.3
	}
	if c.Scoring.ItemFloorConfidence <= 0 {
		c.Scoring.ItemFloorConfidence = 0.22
	}
	if c.Scoring.ItemFloorSupport <= 0 {
		c.Scoring.ItemFloorSupport = 0.04
	}
	if c.Scoring.CustomerFloorConfidence <= 0 {
		c.Scoring.CustomerFloorConfidence = 0.2
	}
	if c.Scoring.CustomerFloorSupport <= 0 {
		c.Scoring.CustomerFloorSupport = 0.05
	}
	if c.Embedding.Dim <= 0 {
		c.Embedding.Dim = 16
	}
	if c.Embedding.Epochs <= 0 {
		c.Embedding.Epochs = 6
	}
	if c.Embedding.MaxPairsPerBasket <= 0 {
		c.Embedding.MaxPairsPerBasket = 24
	}
	if c.Embedding.Seed == 0 {
		c.Embedding.Seed = 7
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Insights.Model == "" {
		c.Insights.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Mining.MinSupport > 1 {
		return fmt.Errorf("mining.min_support must be at most 1, got %g", c.Mining.MinSupport)
	}
	if c.Mining.MinConfidence > 1 {
		return fmt.Errorf("mining.min_confidence must be at most 1, got %g", c.Mining.MinConfidence)
	}
	if c.Mining.FloorSupport > 1 || c.Mining.FloorConfidence > 1 {
		return fmt.Errorf("mining floors must be at most 1, got %g/%g",
			c.Mining.FloorSupport, c.Mining.FloorConfidence)
	}
	sum := c.Scoring.ConfidenceWeight + c.Scoring.SimilarityWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1, got %g", sum)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
