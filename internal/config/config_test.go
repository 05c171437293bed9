package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected development default")
	}
	if cfg.Upload.MaxSizeMB != 10 {
		t.Fatalf("expected 10MB default upload cap, got %d", cfg.Upload.MaxSizeMB)
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("expected 10MB in bytes, got %d", cfg.MaxUploadBytes())
	}
	if len(cfg.Upload.AllowedTypes) != 5 {
		t.Fatalf("expected 5 default allowed types, got %v", cfg.Upload.AllowedTypes)
	}
	if cfg.CacheTTL() != 0 {
		t.Fatalf("expected no cache TTL by default, got %v", cfg.CacheTTL())
	}
	if cfg.AI.MaxJSONRetries != 0 {
		t.Fatalf("expected 0 JSON retries by default, got %d", cfg.AI.MaxJSONRetries)
	}
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
redis_url: redis://localhost:6379/0
allowed_origins:
  - study.example.com
  - "*.example.org"
cache:
  ttl_minutes: 120
upload:
  max_size_mb: 5
  allowed_types:
    - image/png
    - image/jpeg
ai:
  max_json_retries: 2
  vision_model:
    provider_id: openai
    model: gpt-4o
  providers:
    - id: openai
      name: OpenAI
      type: OpenAI
      api_key: sk-test
      default_model: gpt-4o-mini
    - id: local
      type: OpenAI-Compatible
      endpoint: http://127.0.0.1:11434
      api_key: unused
      enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDev() {
		t.Fatalf("expected production mode")
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis url %q", cfg.RedisURL)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 allowed origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.CacheTTL() != 2*time.Hour {
		t.Fatalf("expected 2h cache TTL, got %v", cfg.CacheTTL())
	}
	if cfg.Upload.MaxSizeMB != 5 || len(cfg.Upload.AllowedTypes) != 2 {
		t.Fatalf("unexpected upload config %+v", cfg.Upload)
	}
	if cfg.AI.MaxJSONRetries != 2 {
		t.Fatalf("expected 2 JSON retries, got %d", cfg.AI.MaxJSONRetries)
	}
	if cfg.AI.VisionModel == nil || cfg.AI.VisionModel.Model != "gpt-4o" {
		t.Fatalf("unexpected vision model %+v", cfg.AI.VisionModel)
	}
	if len(cfg.AI.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cfg.AI.Providers))
	}
	if !cfg.AI.Providers[0].Enabled {
		t.Fatalf("expected providers enabled by default")
	}
	if cfg.AI.Providers[1].Enabled {
		t.Fatalf("expected explicit enabled: false to stick")
	}
}

func TestLoadResolvesAPIKeyFromEnv(t *testing.T) {
	t.Setenv("STUDY_TEST_API_KEY", "from-env")
	t.Setenv("OPENAI_API_KEY", "openai-env")

	path := writeConfig(t, `
ai:
  providers:
    - id: custom
      type: OpenAI-Compatible
      endpoint: http://127.0.0.1:8080
      api_key_env: STUDY_TEST_API_KEY
    - id: openai
      type: OpenAI
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AI.Providers[0].APIKey != "from-env" {
		t.Fatalf("expected api_key_env lookup, got %q", cfg.AI.Providers[0].APIKey)
	}
	if cfg.AI.Providers[1].APIKey != "openai-env" {
		t.Fatalf("expected OPENAI_API_KEY fallback, got %q", cfg.AI.Providers[1].APIKey)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"port":       "port: 70000\n",
		"upload":     "upload:\n  max_size_mb: 0\n",
		"cache":      "cache:\n  ttl_minutes: -5\n",
		"retries":    "ai:\n  max_json_retries: -1\n",
		"unknownKey": "nonsense_key: true\n",
	}

	for name, content := range cases {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error for %q", name, content)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
