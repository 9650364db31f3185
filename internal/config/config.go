package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	ProviderExtractive  = "extractive"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	// Server
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	Logging LoggingConfig

	// Inference
	InferenceProvider string        `env:"INFERENCE_PROVIDER" envDefault:"extractive"`
	AnswerDelay       time.Duration `env:"ANSWER_DELAY" envDefault:"1s"`

	HFEndpoint string `env:"HF_ENDPOINT" envDefault:"https://router.huggingface.co/hf-inference/models"`
	HFModel    string `env:"HF_MODEL" envDefault:"deepset/roberta-base-squad2"`
	HFAPIToken string `env:"HF_API_TOKEN"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Sessions
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL      string        `env:"REDIS_URL"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSecret string        `env:"SESSION_SECRET"`

	// GeneratedSecret is set when SessionSecret was generated for this process
	// only; sessions will not survive a restart.
	GeneratedSecret bool

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
}

type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Encoding    string `env:"LOG_ENCODING" envDefault:"console"`
	ServiceName string `env:"LOG_SERVICE_NAME" envDefault:"vark-assistant"`
	Development bool   `env:"LOG_DEVELOPMENT"`
}

// Load reads .env (if present) and the process environment for the server.
func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" && cfg.IsDevelopment() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInference is Load for processes that only answer questions, such as
// the terminal client: session and HTTP settings are parsed but not checked.
func LoadInference() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateInference(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.InferenceProvider = strings.ToLower(strings.TrimSpace(c.InferenceProvider))
	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	c.HFEndpoint = strings.TrimRight(strings.TrimSpace(c.HFEndpoint), "/")
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var v validation
	c.checkInference(&v)

	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			v.missing = append(v.missing, "REDIS_URL")
		}
	default:
		v.problems = append(v.problems, fmt.Sprintf("unsupported SESSION_STORE %q", c.SessionStore))
	}

	if c.SessionSecret == "" {
		v.missing = append(v.missing, "SESSION_SECRET")
	}
	if c.RateLimitPerMinute <= 0 {
		v.problems = append(v.problems, "RATE_LIMIT_PER_MINUTE must be positive")
	}

	return v.err()
}

// ValidateInference checks only the provider settings and ANSWER_DELAY.
func (c *Config) ValidateInference() error {
	var v validation
	c.checkInference(&v)
	return v.err()
}

func (c *Config) checkInference(v *validation) {
	switch c.InferenceProvider {
	case ProviderExtractive:
	case ProviderHuggingFace:
		if c.HFAPIToken == "" {
			v.missing = append(v.missing, "HF_API_TOKEN")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			v.missing = append(v.missing, "GEMINI_API_KEY")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			v.missing = append(v.missing, "OPENAI_API_KEY")
		}
	default:
		v.problems = append(v.problems, fmt.Sprintf("unsupported INFERENCE_PROVIDER %q", c.InferenceProvider))
	}

	if c.AnswerDelay < 0 {
		v.problems = append(v.problems, "ANSWER_DELAY must not be negative")
	}
}

type validation struct {
	missing  []string
	problems []string
}

func (v *validation) err() error {
	problems := v.problems
	if len(v.missing) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(v.missing, ", "))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
