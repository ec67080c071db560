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

// Config holds the pandect API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Rerank    RerankConfig    `yaml:"rerank"`
	Cache     CacheConfig     `yaml:"cache"`
	Session   SessionConfig   `yaml:"session"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Prompts   PromptsConfig   `yaml:"prompts"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AuthConfig holds API authentication settings. An empty key list disables
// authentication.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
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

// DatabaseConfig holds key-value store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds the external search engine settings.
type SearchConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// LLMConfig holds model provider settings.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TimeoutSec  int     `yaml:"timeout_sec"`
}

// RetrievalConfig holds hybrid retrieval and rank fusion settings.
type RetrievalConfig struct {
	OverfetchLimit int     `yaml:"overfetch_limit"`
	FusionConstant int     `yaml:"fusion_constant"`
	LexicalWeight  float64 `yaml:"lexical_weight"`
	SemanticWeight float64 `yaml:"semantic_weight"`
}

// RerankConfig holds heuristic reranking settings.
type RerankConfig struct {
	TopK                int     `yaml:"top_k"`
	MinScore            float64 `yaml:"min_score"`
	KeywordWeight       float64 `yaml:"keyword_weight"`
	RecencyWeight       float64 `yaml:"recency_weight"`
	RecencyHorizonYears int     `yaml:"recency_horizon_years"`
}

// CacheConfig holds answer cache settings.
type CacheConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MinConfidence float64 `yaml:"min_confidence"`
	TTLSec        int     `yaml:"ttl_sec"`
}

// SessionConfig holds conversation session settings.
type SessionConfig struct {
	TTLSec       int `yaml:"ttl_sec"`
	HistoryLimit int `yaml:"history_limit"`
}

// AnalyticsConfig holds usage analytics settings.
type AnalyticsConfig struct {
	Enabled        bool `yaml:"enabled"`
	RetentionHours int  `yaml:"retention_hours"`
}

// PromptsConfig holds per-language prompt template overrides. An empty value
// falls back to the built-in template for that language. Templates use the
// {{question}} and {{sources}} placeholders.
type PromptsConfig struct {
	FR string `yaml:"fr"`
	DE string `yaml:"de"`
	EN string `yaml:"en"`
}

// StorageConfig holds key namespace settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
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
		// Streaming holds the connection open far longer than a plain
		// query round-trip.
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 10
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 120
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.Retrieval.OverfetchLimit <= 0 {
		c.Retrieval.OverfetchLimit = 50
	}
	if c.Retrieval.FusionConstant <= 0 {
		c.Retrieval.FusionConstant = 60
	}
	if c.Retrieval.LexicalWeight <= 0 {
		c.Retrieval.LexicalWeight = 0.6
	}
	if c.Retrieval.SemanticWeight <= 0 {
		c.Retrieval.SemanticWeight = 0.4
	}
	if c.Rerank.TopK <= 0 {
		c.Rerank.TopK = 5
	}
	if c.Rerank.KeywordWeight <= 0 {
		c.Rerank.KeywordWeight = 0.3
	}
	if c.Rerank.RecencyWeight <= 0 {
		c.Rerank.RecencyWeight = 0.1
	}
	if c.Rerank.RecencyHorizonYears <= 0 {
		c.Rerank.RecencyHorizonYears = 50
	}
	if c.Cache.MinConfidence <= 0 {
		c.Cache.MinConfidence = 0.7
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Session.TTLSec <= 0 {
		c.Session.TTLSec = 1800
	}
	if c.Session.HistoryLimit <= 0 {
		c.Session.HistoryLimit = 6
	}
	if c.Analytics.RetentionHours <= 0 {
		c.Analytics.RetentionHours = 48
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "pandect:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.Cache.MinConfidence > 1 {
		return fmt.Errorf("cache.min_confidence must be in (0, 1], got %g", c.Cache.MinConfidence)
	}
	if c.Rerank.MinScore < 0 {
		return fmt.Errorf("rerank.min_score must be >= 0, got %g", c.Rerank.MinScore)
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
