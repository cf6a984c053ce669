package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Provider    string            `mapstructure:"provider" validate:"oneof=openai gemini ollama"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Ollama      OllamaConfig      `mapstructure:"ollama"`
	Resilience  ResilienceConfig  `mapstructure:"resilience"`
	Translation TranslationConfig `mapstructure:"translation"`
	History     HistoryConfig     `mapstructure:"history"`
	Server      ServerConfig      `mapstructure:"server"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"min=0"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type ResilienceConfig struct {
	MaxRetries     int           `mapstructure:"max_retries" validate:"min=1"`
	RetryDelay     time.Duration `mapstructure:"retry_delay" validate:"min=0"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay" validate:"min=0"`
	CacheExpire    time.Duration `mapstructure:"cache_expire" validate:"min=0"`
	EnableCache    bool          `mapstructure:"enable_cache"`
	EnableFallback bool          `mapstructure:"enable_fallback"`
}

type TranslationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type HistoryConfig struct {
	// DatabaseFile is the sqlite path for the ask history.
	// Empty disables recording.
	DatabaseFile string `mapstructure:"database_file"`
}

type ServerConfig struct {
	Address       string `mapstructure:"address" validate:"required"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/jeeves")
	}

	v.SetDefault("provider", "gemini")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.2")
	v.SetDefault("resilience.max_retries", 3)
	v.SetDefault("resilience.retry_delay", "2s")
	v.SetDefault("resilience.rate_limit_delay", "1s")
	v.SetDefault("resilience.cache_expire", "1h")
	v.SetDefault("resilience.enable_cache", true)
	v.SetDefault("resilience.enable_fallback", true)
	v.SetDefault("translation.enabled", true)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origin", "http://localhost:3000")

	// Provider credentials come from the environment only, never from the
	// config file.
	envBindings := map[string]string{
		"provider":                    "JEEVES_PROVIDER",
		"openai.api_key":              "OPENAI_API_KEY",
		"openai.model":                "OPENAI_MODEL",
		"gemini.api_key":              "GOOGLE_API_KEY",
		"resilience.max_retries":      "MAX_RETRIES",
		"resilience.retry_delay":      "RETRY_DELAY",
		"resilience.rate_limit_delay": "RATE_LIMIT_DELAY",
		"resilience.cache_expire":     "CACHE_EXPIRE_TIME",
		"resilience.enable_cache":     "ENABLE_CACHE",
		"resilience.enable_fallback":  "ENABLE_FALLBACK",
		"translation.enabled":         "ENABLE_TRANSLATION",
	}
	for key, envName := range envBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", envName, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	return &cfg, nil
}
