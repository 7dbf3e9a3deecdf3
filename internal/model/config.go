package model

import "time"

// Config is the complete runtime configuration tree. Values are resolved by
// the CLI layer from defaults, config file, VERACITY_ environment variables
// and flags, in that order of precedence.
type Config struct {
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`
	Score     ScoreConfig     `mapstructure:"score" yaml:"score"`
	Batch     BatchConfig     `mapstructure:"batch" yaml:"batch"`
	Rate      RateConfig      `mapstructure:"rate" yaml:"rate"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Proxy     ProxyConfig     `mapstructure:"proxy" yaml:"proxy,omitempty"`
	Authority AuthorityConfig `mapstructure:"authority" yaml:"authority"`
}

// SearchConfig configures the web search client.
type SearchConfig struct {
	Provider      string        `mapstructure:"provider" yaml:"provider"`             // "google"
	APIKey        string        `mapstructure:"api_key" yaml:"api_key"`               // Programmable Search API key
	CX            string        `mapstructure:"cx" yaml:"cx"`                         // Programmable Search engine ID
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`               // Per-call timeout
	RetryAttempts int           `mapstructure:"retry_attempts" yaml:"retry_attempts"` // Total tries before degrading
	RetryBase     time.Duration `mapstructure:"retry_base" yaml:"retry_base"`         // Backoff base delay
	DailyQuota    int           `mapstructure:"daily_quota" yaml:"daily_quota"`       // API calls per UTC day, <=0 disables the guard
	CacheTTL      time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`           // Search response cache lifetime
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	Provider        string        `mapstructure:"provider" yaml:"provider"` // "openai", "ollama" or "lexical"
	APIKey          string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url"`
	Model           string        `mapstructure:"model" yaml:"model"`
	Dimensions      int           `mapstructure:"dimensions" yaml:"dimensions"` // 0 uses the model default
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	FallbackEnabled bool          `mapstructure:"fallback_enabled" yaml:"fallback_enabled"` // Allow lexical fallback when remote is down
}

// ScoreConfig holds the aggregation weights and verdict thresholds.
// The weights are a documented policy default, tunable rather than
// load-bearing; tests pin the default behavior.
type ScoreConfig struct {
	RelevanceWeight   float64 `mapstructure:"relevance_weight" yaml:"relevance_weight"`
	DiversityWeight   float64 `mapstructure:"diversity_weight" yaml:"diversity_weight"`
	HighCredibility   float64 `mapstructure:"high_credibility" yaml:"high_credibility"`     // >= -> VERIFIABLE/HIGH
	MediumCredibility float64 `mapstructure:"medium_credibility" yaml:"medium_credibility"` // >= -> VERIFIABLE/MEDIUM
	LowCredibility    float64 `mapstructure:"low_credibility" yaml:"low_credibility"`       // >= -> UNVERIFIABLE/LOW
}

// BatchConfig configures concurrent claim processing.
type BatchConfig struct {
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"` // Worker count
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`         // Whole-batch deadline, 0 means none
	TopK        int           `mapstructure:"top_k" yaml:"top_k"`             // Evidence items kept after rerank
}

// RateConfig configures the shared token buckets for outbound services.
type RateConfig struct {
	SearchRPS    float64 `mapstructure:"search_rps" yaml:"search_rps"`
	EmbeddingRPS float64 `mapstructure:"embedding_rps" yaml:"embedding_rps"`
	Burst        int     `mapstructure:"burst" yaml:"burst"`
}

// CacheConfig configures the on-disk cache location.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"` // Empty resolves to ~/.veracity/cache
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// ProxyConfig configures outbound HTTP proxies. Empty values fall back to
// the standard proxy environment variables.
type ProxyConfig struct {
	HTTP  string `mapstructure:"http" yaml:"http,omitempty"`
	HTTPS string `mapstructure:"https" yaml:"https,omitempty"`
}

// AuthorityConfig configures source authority classification.
type AuthorityConfig struct {
	PrimaryDomains   []string          `mapstructure:"primary_domains" yaml:"primary_domains"`
	SecondaryDomains []string          `mapstructure:"secondary_domains" yaml:"secondary_domains"`
	DomainMap        map[string]string `mapstructure:"domain_map" yaml:"domain_map,omitempty"` // Explicit host -> tier overrides
}

// DefaultConfig returns the full configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Provider:      "google",
			Timeout:       10 * time.Second,
			RetryAttempts: 3,
			RetryBase:     time.Second,
			DailyQuota:    100,
			CacheTTL:      time.Hour,
		},
		Embedding: EmbeddingConfig{
			Provider:        "openai",
			Model:           "text-embedding-3-small",
			Timeout:         10 * time.Second,
			FallbackEnabled: true,
		},
		Score: ScoreConfig{
			RelevanceWeight:   0.6,
			DiversityWeight:   0.4,
			HighCredibility:   0.85,
			MediumCredibility: 0.60,
			LowCredibility:    0.35,
		},
		Batch: BatchConfig{
			Concurrency: 4,
			TopK:        5,
		},
		Rate: RateConfig{
			SearchRPS:    1,
			EmbeddingRPS: 2,
			Burst:        1,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"nasa.gov",
				"nih.gov",
				"noaa.gov",
				"who.int",
				"nature.com",
				"science.org",
			},
			SecondaryDomains: []string{
				"wikipedia.org",
				"britannica.com",
				"reuters.com",
				"apnews.com",
				"bbc.com",
				"smithsonianmag.com",
			},
		},
	}
}
