package model

import "time"

// Config enumerates every tunable the pipeline consumes. Values come from
// defaults, the config file, TRIAGEM_* environment variables, and flags, in
// ascending priority. The core never reads the environment directly.
type Config struct {
	Institution  InstitutionConfig  `yaml:"institution" mapstructure:"institution"`
	Matching     MatchingConfig     `yaml:"matching" mapstructure:"matching"`
	Confidence   ConfidenceConfig   `yaml:"confidence" mapstructure:"confidence"`
	Routing      RoutingConfig      `yaml:"routing" mapstructure:"routing"`
	Validator    ValidatorConfig    `yaml:"validator" mapstructure:"validator"`
	Lookup       LookupConfig       `yaml:"lookup" mapstructure:"lookup"`
	Availability AvailabilityConfig `yaml:"availability" mapstructure:"availability"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
}

// InstitutionConfig names the institution the filter scopes for
type InstitutionConfig struct {
	Name string `yaml:"name" mapstructure:"name"` // e.g. "Banco X"
}

// MatchingConfig tunes the subsidy catalog matcher
type MatchingConfig struct {
	Threshold       float64 `yaml:"threshold" mapstructure:"threshold"`               // lexical-only match threshold
	RecallThreshold float64 `yaml:"recall_threshold" mapstructure:"recall_threshold"` // lower bar when a validator reviews the matches
	MinFragmentLen  int     `yaml:"min_fragment_len" mapstructure:"min_fragment_len"`
	CatalogExcerpt  int     `yaml:"catalog_excerpt" mapstructure:"catalog_excerpt"` // entries sent to the validator, caps payload size
}

// ConfidenceConfig tunes the per-stage deltas
type ConfidenceConfig struct {
	CustomerBonus      float64 `yaml:"customer_bonus" mapstructure:"customer_bonus"`             // per verified customer
	NonCustomerPenalty float64 `yaml:"non_customer_penalty" mapstructure:"non_customer_penalty"` // applied once when no party is a customer
	UnmatchedWeight    float64 `yaml:"unmatched_weight" mapstructure:"unmatched_weight"`         // scales the completeness penalty
	ComplementFactor   float64 `yaml:"complement_factor" mapstructure:"complement_factor"`       // scale for complement notices
}

// RoutingConfig holds the decision thresholds
type RoutingConfig struct {
	AutoThreshold   float64 `yaml:"auto_threshold" mapstructure:"auto_threshold"`
	ReviewThreshold float64 `yaml:"review_threshold" mapstructure:"review_threshold"`
}

// ValidatorConfig configures the semantic validator collaborator
type ValidatorConfig struct {
	Provider   string        `yaml:"provider" mapstructure:"provider"` // "openai", "static" or "" (disabled)
	Model      string        `yaml:"model" mapstructure:"model"`
	APIKey     string        `yaml:"-" mapstructure:"api_key"` // never serialized
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens  int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LookupConfig configures the customer-relationship lookup collaborator
type LookupConfig struct {
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey     string        `yaml:"-" mapstructure:"api_key"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries int           `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst      int           `yaml:"burst" mapstructure:"burst"`
	CacheTTL   time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// AvailabilityConfig configures the optional subsidy-availability store
type AvailabilityConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"-" mapstructure:"password"`
	SSLMode  string `yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	BatchWorkers   int  `yaml:"batch_workers" mapstructure:"batch_workers"`
	ParallelStages bool `yaml:"parallel_stages" mapstructure:"parallel_stages"` // fan out parties/dates/Stage A
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ServerConfig configures the HTTP serving mode
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the documented defaults for every tunable
func DefaultConfig() *Config {
	return &Config{
		Institution: InstitutionConfig{Name: "Banco X"},
		Matching: MatchingConfig{
			Threshold:       0.75,
			RecallThreshold: 0.50,
			MinFragmentLen:  10,
			CatalogExcerpt:  50,
		},
		Confidence: ConfidenceConfig{
			CustomerBonus:      0.10,
			NonCustomerPenalty: 0.40,
			UnmatchedWeight:    0.25,
			ComplementFactor:   0.90,
		},
		Routing: RoutingConfig{
			AutoThreshold:   0.75,
			ReviewThreshold: 0.50,
		},
		Validator: ValidatorConfig{
			Provider:   "", // disabled by default; Stage A stands alone
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			MaxTokens:  2048,
			MaxRetries: 1,
		},
		Lookup: LookupConfig{
			Timeout:    5 * time.Second,
			MaxRetries: 2,
			RatePerSec: 10,
			Burst:      5,
			CacheTTL:   15 * time.Minute,
		},
		Availability: AvailabilityConfig{
			Enabled: false,
			Port:    5432,
			SSLMode: "require",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:   4,
			ParallelStages: true,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Server: ServerConfig{Addr: ":8386"},
	}
}
