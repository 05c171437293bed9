package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 8000
	defaultEnv            = "development"
	defaultMaxUploadMB    = 10
	defaultCacheTTL       = 0
	defaultMaxJSONRetries = 0
)

func defaultAllowedTypes() []string {
	return []string{"image/png", "image/jpeg", "image/jpg", "image/webp", "image/gif"}
}

type rawAppConfig struct {
	Port               int             `yaml:"port"`
	Env                string          `yaml:"env"`
	RedisURL           string          `yaml:"redis_url"`
	AllowedOrigins     []string        `yaml:"allowed_origins"`
	CORSAllowedOrigins []string        `yaml:"cors_allowed_origins"`
	Cache              rawCacheConfig  `yaml:"cache"`
	Upload             rawUploadConfig `yaml:"upload"`
	AI                 rawAIConfig     `yaml:"ai"`
}

type rawCacheConfig struct {
	TTLMinutes *int `yaml:"ttl_minutes"`
}

type rawUploadConfig struct {
	MaxSizeMB    *int     `yaml:"max_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

type rawAIConfig struct {
	Providers       []rawAIProvider    `yaml:"providers"`
	VisionModel     *AIModelAssignment `yaml:"vision_model"`
	SummaryModel    *AIModelAssignment `yaml:"summary_model"`
	GenerationModel *AIModelAssignment `yaml:"generation_model"`
	MaxJSONRetries  *int               `yaml:"max_json_retries"`
}

type rawAIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	APIKey       string `yaml:"api_key"`
	APIKeyEnv    string `yaml:"api_key_env"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      *bool  `yaml:"enabled"`
}

// Load reads, normalizes and validates the YAML config file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	resolveProviderAPIKeys(&cfg)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %q, expected 1-65535", cfg.Port, path)
	}
	if cfg.Upload.MaxSizeMB < 1 {
		return nil, fmt.Errorf("invalid upload.max_size_mb %d in %q, expected >= 1", cfg.Upload.MaxSizeMB, path)
	}
	if cfg.Cache.TTLMinutes < 0 {
		return nil, fmt.Errorf("invalid cache.ttl_minutes %d in %q, expected >= 0", cfg.Cache.TTLMinutes, path)
	}
	if cfg.AI.MaxJSONRetries < 0 {
		return nil, fmt.Errorf("invalid ai.max_json_retries %d in %q, expected >= 0", cfg.AI.MaxJSONRetries, path)
	}

	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Cache: CacheConfig{
			TTLMinutes: defaultCacheTTL,
		},
		Upload: UploadConfig{
			MaxSizeMB:    defaultMaxUploadMB,
			AllowedTypes: defaultAllowedTypes(),
		},
		AI: AIConfig{
			MaxJSONRetries: defaultMaxJSONRetries,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if env := strings.TrimSpace(raw.Env); env != "" {
		cfg.Env = strings.ToLower(env)
	}
	if url := strings.TrimSpace(raw.RedisURL); url != "" {
		cfg.RedisURL = url
	}

	origins := raw.AllowedOrigins
	if len(origins) == 0 {
		origins = raw.CORSAllowedOrigins
	}
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	if raw.Cache.TTLMinutes != nil {
		cfg.Cache.TTLMinutes = *raw.Cache.TTLMinutes
	}
	if raw.Upload.MaxSizeMB != nil {
		cfg.Upload.MaxSizeMB = *raw.Upload.MaxSizeMB
	}
	if len(raw.Upload.AllowedTypes) > 0 {
		types := make([]string, 0, len(raw.Upload.AllowedTypes))
		for _, t := range raw.Upload.AllowedTypes {
			if trimmed := strings.ToLower(strings.TrimSpace(t)); trimmed != "" {
				types = append(types, trimmed)
			}
		}
		if len(types) > 0 {
			cfg.Upload.AllowedTypes = types
		}
	}

	cfg.AI.VisionModel = raw.AI.VisionModel
	cfg.AI.SummaryModel = raw.AI.SummaryModel
	cfg.AI.GenerationModel = raw.AI.GenerationModel
	if raw.AI.MaxJSONRetries != nil {
		cfg.AI.MaxJSONRetries = *raw.AI.MaxJSONRetries
	}
	for _, p := range raw.AI.Providers {
		provider := AIProvider{
			ID:           strings.TrimSpace(p.ID),
			Name:         strings.TrimSpace(p.Name),
			Type:         strings.TrimSpace(p.Type),
			APIKey:       strings.TrimSpace(p.APIKey),
			APIKeyEnv:    strings.TrimSpace(p.APIKeyEnv),
			Endpoint:     strings.TrimSpace(p.Endpoint),
			DefaultModel: strings.TrimSpace(p.DefaultModel),
			Enabled:      true,
		}
		if p.Enabled != nil {
			provider.Enabled = *p.Enabled
		}
		cfg.AI.Providers = append(cfg.AI.Providers, provider)
	}
}

// resolveProviderAPIKeys fills empty api keys from the environment, either
// the per-provider api_key_env or a conventional variable for the type.
func resolveProviderAPIKeys(cfg *AppConfig) {
	for i := range cfg.AI.Providers {
		p := &cfg.AI.Providers[i]
		if p.APIKey != "" {
			continue
		}
		if p.APIKeyEnv != "" {
			p.APIKey = strings.TrimSpace(os.Getenv(p.APIKeyEnv))
			continue
		}
		switch normalizeProviderType(p.Type) {
		case "anthropic":
			p.APIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
		case "openrouter":
			p.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
		default:
			p.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		}
	}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

// CacheTTL returns the text cache TTL. Zero means no expiry.
func (c *AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// MaxUploadBytes returns the upload size cap in bytes.
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}
