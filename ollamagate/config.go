package ollamagate

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the gateway configuration surface. Everything comes from the
// environment; there is no CLI surface.
type Config struct {
	// BaseURL is the backend's base URL; the generate endpoint and the
	// liveness probe both derive from it.
	BaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	// Model is the default model identifier used when a call does not name
	// one. It is validated against the allow-list like any other.
	Model string `env:"OLLAMA_MODEL" envDefault:"gemma3:4b"`
	// AllowedModelPrefixes is the allow-list of accepted identifier prefixes.
	AllowedModelPrefixes []string `env:"OLLAMA_ALLOWED_MODELS" envSeparator:"," envDefault:"gemma,llama,yuiseki/sarashina"`
	// MaxRetries is the total attempt ceiling per call.
	MaxRetries int `env:"OLLAMA_MAX_RETRIES" envDefault:"3"`
	// BaseDelay is the first backoff delay; attempt k waits BaseDelay × 2^(k−1).
	BaseDelay time.Duration `env:"OLLAMA_RETRY_BASE_DELAY" envDefault:"500ms"`
	// ShortTimeout bounds conversational attempts; LongTimeout bounds the
	// heavier analysis and summary attempts.
	ShortTimeout time.Duration `env:"OLLAMA_SHORT_TIMEOUT" envDefault:"60s"`
	LongTimeout  time.Duration `env:"OLLAMA_LONG_TIMEOUT" envDefault:"180s"`
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		BaseURL:              "http://localhost:11434",
		Model:                "gemma3:4b",
		AllowedModelPrefixes: []string{"gemma", "llama", "yuiseki/sarashina"},
		MaxRetries:           3,
		BaseDelay:            500 * time.Millisecond,
		ShortTimeout:         60 * time.Second,
		LongTimeout:          180 * time.Second,
	}
}

// ConfigFromEnv loads configuration from the environment, reading a .env
// file first when one is present next to the working directory.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, &GatewayError{Message: "parsing environment configuration", Cause: err}
	}
	return cfg, nil
}
