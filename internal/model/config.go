package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Citations CitationsConfig `yaml:"citations" mapstructure:"citations"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	RateLimit RateLimitConfig `yaml:"ratelimit" mapstructure:"ratelimit"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls the verification result cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Dir     string        `yaml:"dir" mapstructure:"dir"` // Disk layer; empty disables it
}

// SourceConfig configures one knowledge source
type SourceConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// SourcesConfig configures the knowledge sources used for claim verification
type SourcesConfig struct {
	Wikipedia  SourceConfig `yaml:"wikipedia" mapstructure:"wikipedia"`
	DuckDuckGo SourceConfig `yaml:"duckduckgo" mapstructure:"duckduckgo"`
	News       SourceConfig `yaml:"news" mapstructure:"news"`
}

// VerifyConfig bounds the verification phase
type VerifyConfig struct {
	ClaimTimeout   time.Duration `yaml:"claim_timeout" mapstructure:"claim_timeout"`
	PhaseTimeout   time.Duration `yaml:"phase_timeout" mapstructure:"phase_timeout"`
	Workers        int           `yaml:"workers" mapstructure:"workers"`
	RetryOnTimeout bool          `yaml:"retry_on_timeout" mapstructure:"retry_on_timeout"`
}

// CitationsConfig controls citation URL validation
type CitationsConfig struct {
	Enabled       bool `yaml:"enabled" mapstructure:"enabled"`
	Workers       int  `yaml:"workers" mapstructure:"workers"`
	RespectRobots bool `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// ScoringWeights are the component weights of the confidence score.
// They should sum to 1.0.
type ScoringWeights struct {
	Fact        float64 `yaml:"fact" mapstructure:"fact"`
	Consistency float64 `yaml:"consistency" mapstructure:"consistency"`
	Citation    float64 `yaml:"citation" mapstructure:"citation"`
	Compliance  float64 `yaml:"compliance" mapstructure:"compliance"`
	Clarity     float64 `yaml:"clarity" mapstructure:"clarity"`
}

// ScoringConfig holds every tunable scoring constant. These bands were
// manually tuned in the source system; exposing them here keeps them
// calibratable without code changes.
type ScoringConfig struct {
	Weights            ScoringWeights `yaml:"weights" mapstructure:"weights"`
	UnverifiedNeutral  float64        `yaml:"unverified_neutral" mapstructure:"unverified_neutral"`
	NoClaimFactScore   float64        `yaml:"no_claim_fact_score" mapstructure:"no_claim_fact_score"`
	DefaultConsistency float64        `yaml:"default_consistency" mapstructure:"default_consistency"`
	ConsistencyFloor   float64        `yaml:"consistency_floor" mapstructure:"consistency_floor"`
	DefaultClarity     float64        `yaml:"default_clarity" mapstructure:"default_clarity"`
	FlagThreshold      float64        `yaml:"flag_threshold" mapstructure:"flag_threshold"`
	BlockThreshold     float64        `yaml:"block_threshold" mapstructure:"block_threshold"`
}

// RateLimitConfig bounds request rates per external domain
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// StoreConfig configures the audit trail store
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

// RulesConfig points at an optional YAML fixture of rules and policies,
// used when no database-backed store is configured
type RulesConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LLMConfig configures the optional generative correction provider
type LLMConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // openai, ollama, or empty (disabled)
	Model     string        `yaml:"model" mapstructure:"model"`
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig configures the HTTP API surface
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "TruthGuard/1.0 (+https://github.com/truthguard/truthguard)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Sources: SourcesConfig{
			Wikipedia:  SourceConfig{Enabled: true, BaseURL: "https://en.wikipedia.org"},
			DuckDuckGo: SourceConfig{Enabled: true, BaseURL: "https://api.duckduckgo.com"},
			News:       SourceConfig{Enabled: false, BaseURL: "https://newsapi.org"},
		},
		Verify: VerifyConfig{
			ClaimTimeout:   5 * time.Second,
			PhaseTimeout:   30 * time.Second,
			Workers:        8,
			RetryOnTimeout: true,
		},
		Citations: CitationsConfig{
			Enabled:       true,
			Workers:       10,
			RespectRobots: true,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Fact:        0.25,
				Consistency: 0.10,
				Citation:    0.15,
				Compliance:  0.25,
				Clarity:     0.20,
			},
			UnverifiedNeutral:  0.6,
			NoClaimFactScore:   0.7,
			DefaultConsistency: 0.9,
			ConsistencyFloor:   0.4,
			DefaultClarity:     0.8,
			FlagThreshold:      0.6,
			BlockThreshold:     0.3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "truthguard.db",
		},
		LLM: LLMConfig{
			Timeout:   30 * time.Second,
			MaxTokens: 500,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
