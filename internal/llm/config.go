package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects the tutor's model vendor and how calls to it are guarded.
type Config struct {
	// Provider is one of "openai", "anthropic", "gemini", "openrouter",
	// "mock" or "none".
	Provider string `yaml:"provider"`

	Anthropic  VendorConfig `yaml:"anthropic"`
	OpenAI     VendorConfig `yaml:"openai"`
	Gemini     VendorConfig `yaml:"gemini"`
	OpenRouter VendorConfig `yaml:"openrouter"`

	Retry   RetryConfig   `yaml:"retry"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// VendorConfig is the account of one vendor. BaseURL only applies to the
// OpenAI-compatible vendors.
type VendorConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig bounds re-sending a prompt after a transient failure.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// BreakerConfig configures the circuit breaker in front of the provider.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker. Zero disables it.
	ConsecutiveFailures uint32 `yaml:"consecutive_failures"`
	// OpenFor is how long the breaker stays open before letting one call through.
	OpenFor time.Duration `yaml:"open_for"`
	// MaxConcurrent caps in-flight requests. Zero means no cap.
	MaxConcurrent int `yaml:"max_concurrent"`
}

// vendor describes one supported vendor. Order matters for Discover.
type vendor struct {
	name string
	// env is the prefix of the SLOVO_<env>_API_KEY style overrides.
	env string
	// keyEnv is the vendor's own API key variable.
	keyEnv       string
	defaultModel string
	// aliases maps short model names accepted in config to vendor IDs.
	aliases map[string]string
	account func(*Config) *VendorConfig
}

var vendors = []vendor{
	{
		name: "openai", env: "OPENAI", keyEnv: "OPENAI_API_KEY",
		defaultModel: "gpt-4o-mini",
		account:      func(c *Config) *VendorConfig { return &c.OpenAI },
	},
	{
		name: "anthropic", env: "ANTHROPIC", keyEnv: "ANTHROPIC_API_KEY",
		defaultModel: "claude-haiku",
		aliases: map[string]string{
			"claude-haiku":  "claude-haiku-4-5-20251001",
			"claude-sonnet": "claude-sonnet-4-5",
		},
		account: func(c *Config) *VendorConfig { return &c.Anthropic },
	},
	{
		name: "gemini", env: "GEMINI", keyEnv: "GEMINI_API_KEY",
		defaultModel: "gemini-flash",
		aliases: map[string]string{
			"gemini-flash":      "gemini-2.5-flash",
			"gemini-flash-lite": "gemini-2.5-flash-lite",
		},
		account: func(c *Config) *VendorConfig { return &c.Gemini },
	},
	{
		name: "openrouter", env: "OPENROUTER", keyEnv: "OPENROUTER_API_KEY",
		defaultModel: "google/gemini-2.0-flash-001",
		account:      func(c *Config) *VendorConfig { return &c.OpenRouter },
	},
}

func lookupVendor(name string) (vendor, bool) {
	for _, v := range vendors {
		if v.name == name {
			return v, true
		}
	}
	return vendor{}, false
}

// model resolves the configured model name of v.
func (v vendor) model(cfg VendorConfig) string {
	name := cfg.Model
	if name == "" {
		name = v.defaultModel
	}
	if id, ok := v.aliases[name]; ok {
		return id
	}
	return name
}

// DefaultConfig retries once and opens the breaker after three straight
// failures, so a dead vendor costs a learner at most a few slow replies.
func DefaultConfig() Config {
	cfg := Config{
		Provider: "openai",
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Breaker: BreakerConfig{
			ConsecutiveFailures: 3,
			OpenFor:             time.Minute,
			MaxConcurrent:       8,
		},
	}
	for _, v := range vendors {
		v.account(&cfg).Model = v.defaultModel
	}
	return cfg
}

// ApplyEnv overrides cfg with SLOVO_LLM_PROVIDER and the
// SLOVO_<VENDOR>_API_KEY, _MODEL and _BASE_URL variables.
func ApplyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Provider, "SLOVO_LLM_PROVIDER")
	for _, v := range vendors {
		acc := v.account(cfg)
		set(&acc.APIKey, "SLOVO_"+v.env+"_API_KEY")
		set(&acc.Model, "SLOVO_"+v.env+"_MODEL")
		set(&acc.BaseURL, "SLOVO_"+v.env+"_BASE_URL")
	}
}

// Discover fills in the selected vendor's key from its standard variable,
// e.g. OPENAI_API_KEY. If the selected vendor has no key anywhere, the
// first vendor with one is chosen instead. It reports whether a usable
// provider was found.
func Discover(cfg *Config) bool {
	if cfg.Provider == "mock" || cfg.Provider == "none" {
		return true
	}
	if v, ok := lookupVendor(cfg.Provider); ok {
		acc := v.account(cfg)
		if acc.APIKey == "" {
			acc.APIKey = os.Getenv(v.keyEnv)
		}
		if acc.APIKey != "" {
			return true
		}
	}
	for _, v := range vendors {
		if key := os.Getenv(v.keyEnv); key != "" {
			cfg.Provider = v.name
			v.account(cfg).APIKey = key
			return true
		}
	}
	return false
}

// Validate checks that the selected vendor has an API key.
func (c Config) Validate() error {
	switch c.Provider {
	case "mock", "none":
		return nil
	}
	v, ok := lookupVendor(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if v.account(&c).APIKey == "" {
		return fmt.Errorf("SLOVO_%s_API_KEY is required for the %s provider", v.env, v.name)
	}
	return nil
}

// resolveModel maps cfg.Model through the alias table of the named vendor.
// Unknown names pass through as vendor model IDs.
func resolveModel(vendorName string, cfg VendorConfig) string {
	v, _ := lookupVendor(vendorName)
	return v.model(cfg)
}
