package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int          `yaml:"port"`
	Env            string       `yaml:"env"` // "development" | "production"
	RedisURL       string       `yaml:"redis_url"`
	AllowedOrigins []string     `yaml:"allowed_origins"`
	Cache          CacheConfig  `yaml:"cache"`
	Upload         UploadConfig `yaml:"upload"`
	AI             AIConfig     `yaml:"ai"`
}

// CacheConfig controls how long extracted text stays addressable.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"` // 0 = entries never expire
}

// UploadConfig bounds incoming image uploads.
type UploadConfig struct {
	MaxSizeMB    int      `yaml:"max_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// AIConfig selects providers and per-operation model assignments.
type AIConfig struct {
	Providers       []AIProvider       `yaml:"providers"`
	VisionModel     *AIModelAssignment `yaml:"vision_model,omitempty"`
	SummaryModel    *AIModelAssignment `yaml:"summary_model,omitempty"`
	GenerationModel *AIModelAssignment `yaml:"generation_model,omitempty"`
	MaxJSONRetries  int                `yaml:"max_json_retries"`
}

// AIModelAssignment pins an operation to a provider and optional model override.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key"`
	APIKeyEnv    string `yaml:"api_key_env,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}
