package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			Addrs: []string{"localhost:6379"},
		},
		Search: SearchConfig{
			BaseURL: "http://localhost:7700",
		},
		LLM: LLMConfig{
			Model: "test-model",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port

		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d: expected error", port)
		}
	}
}

func TestValidate_MissingDatabaseAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_MissingSearchBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.Search.BaseURL = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing search base_url")
	}
}

func TestValidate_MissingLLMModel(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Model = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing llm model")
	}
}

func TestValidate_MinConfidenceAboveOne(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.MinConfidence = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_confidence > 1")
	}
}

func TestValidate_NegativeMinScore(t *testing.T) {
	cfg := validConfig()
	cfg.Rerank.MinScore = -0.1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative rerank min_score")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.TimeoutSec != 120 {
		t.Errorf("expected LLM TimeoutSec=120, got %d", cfg.LLM.TimeoutSec)
	}
	if cfg.Retrieval.OverfetchLimit != 50 {
		t.Errorf("expected OverfetchLimit=50, got %d", cfg.Retrieval.OverfetchLimit)
	}
	if cfg.Retrieval.FusionConstant != 60 {
		t.Errorf("expected FusionConstant=60, got %d", cfg.Retrieval.FusionConstant)
	}
	if cfg.Retrieval.LexicalWeight != 0.6 {
		t.Errorf("expected LexicalWeight=0.6, got %g", cfg.Retrieval.LexicalWeight)
	}
	if cfg.Retrieval.SemanticWeight != 0.4 {
		t.Errorf("expected SemanticWeight=0.4, got %g", cfg.Retrieval.SemanticWeight)
	}
	if cfg.Rerank.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Rerank.TopK)
	}
	if cfg.Cache.MinConfidence != 0.7 {
		t.Errorf("expected MinConfidence=0.7, got %g", cfg.Cache.MinConfidence)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected Cache TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Session.TTLSec != 1800 {
		t.Errorf("expected Session TTLSec=1800, got %d", cfg.Session.TTLSec)
	}
	if cfg.Session.HistoryLimit != 6 {
		t.Errorf("expected HistoryLimit=6, got %d", cfg.Session.HistoryLimit)
	}
	if cfg.Analytics.RetentionHours != 48 {
		t.Errorf("expected RetentionHours=48, got %d", cfg.Analytics.RetentionHours)
	}
	if cfg.Storage.KeyPrefix != "pandect:" {
		t.Errorf("expected KeyPrefix='pandect:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{ReadinessTimeout: 15},
		Retrieval: RetrievalConfig{OverfetchLimit: 25, FusionConstant: 30, LexicalWeight: 0.5, SemanticWeight: 0.5},
		Rerank:    RerankConfig{TopK: 3},
		Session:   SessionConfig{TTLSec: 600, HistoryLimit: 2},
		Storage:   StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Retrieval.OverfetchLimit != 25 {
		t.Errorf("expected OverfetchLimit=25, got %d", cfg.Retrieval.OverfetchLimit)
	}
	if cfg.Retrieval.LexicalWeight != 0.5 {
		t.Errorf("expected LexicalWeight=0.5, got %g", cfg.Retrieval.LexicalWeight)
	}
	if cfg.Rerank.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Rerank.TopK)
	}
	if cfg.Session.TTLSec != 600 {
		t.Errorf("expected TTLSec=600, got %d", cfg.Session.TTLSec)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PANDECT_TEST_PASSWORD", "s3cret")
	os.Unsetenv("PANDECT_TEST_UNSET")

	in := []byte("password: ${PANDECT_TEST_PASSWORD}\nmodel: ${PANDECT_TEST_UNSET:-default-model}\nempty: ${PANDECT_TEST_UNSET}\n")
	got := string(expandEnvVars(in))

	want := "password: s3cret\nmodel: default-model\nempty: \n"
	if got != want {
		t.Errorf("expanded config:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}

	content := `
http:
  port: 9090
database:
  addrs:
    - localhost:6379
  password: ${PANDECT_TEST_DB_PASSWORD:-fallback}
search:
  base_url: http://localhost:7700
llm:
  model: test-model
auth:
  api_keys:
    - key-1
`
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Database.Password != "fallback" {
		t.Errorf("password = %q, want the env default", cfg.Database.Password)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "key-1" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	// Defaults applied on top of the file.
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("write timeout = %d, want the 120 default", cfg.HTTP.WriteTimeoutSec)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}

	// No llm.model.
	content := `
http:
  port: 8080
database:
  addrs:
    - localhost:6379
search:
  base_url: http://localhost:7700
`
	if err := os.WriteFile(filepath.Join(dir, "config", "broken.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	if _, err := Load("broken"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("default env = %q, want local", env)
	}

	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("env = %q, want prod", env)
	}
}
