package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jeeves-ai/jeeves/internal/assistant"
	"github.com/jeeves-ai/jeeves/internal/config"
	"github.com/jeeves-ai/jeeves/internal/history"
	"github.com/jeeves-ai/jeeves/internal/inference"
	"github.com/jeeves-ai/jeeves/internal/inference/gemini"
	"github.com/jeeves-ai/jeeves/internal/inference/ollama"
	"github.com/jeeves-ai/jeeves/internal/inference/openai"
	"github.com/jeeves-ai/jeeves/internal/resilience"
	"github.com/jeeves-ai/jeeves/internal/server"
	"github.com/jeeves-ai/jeeves/internal/translate"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	client, closeClient, err := newInferenceClient(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeClient()
	}()

	registry := prometheus.NewRegistry()
	orchestrator, err := resilience.NewOrchestrator(client, resilience.Options{
		CacheTTL:       cfg.Resilience.CacheExpire,
		MinInterval:    cfg.Resilience.RateLimitDelay,
		MaxAttempts:    uint(cfg.Resilience.MaxRetries),
		BaseDelay:      cfg.Resilience.RetryDelay,
		EnableCache:    cfg.Resilience.EnableCache,
		EnableFallback: cfg.Resilience.EnableFallback,
		Metrics:        resilience.NewMetrics(registry),
	})
	if err != nil {
		return fmt.Errorf("resilience.NewOrchestrator > %w", err)
	}

	var translator translate.Translator
	if cfg.Translation.Enabled {
		googleClient := translate.NewGoogleClient()
		translator = googleClient
		defer func() {
			_ = googleClient.Close()
		}()
	}
	jeeves := assistant.New(orchestrator, translate.NewDetector(), translator)

	var store *history.Store
	if cfg.History.DatabaseFile != "" {
		store, err = history.Open(cfg.History.DatabaseFile)
		if err != nil {
			return fmt.Errorf("history.Open > %w", err)
		}
		defer func() {
			_ = store.Close()
		}()
	}

	handler := server.NewHandler(jeeves, store)
	router := handler.Router(registry)

	slog.Default().Info("starting server",
		"address", cfg.Server.Address,
		"provider", cfg.Provider,
	)
	return http.ListenAndServe(cfg.Server.Address, server.CORSMiddleware(cfg.Server.AllowedOrigin, router))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(os.Getenv("JEEVES_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("config.Load > %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newInferenceClient(cfg *config.Config) (inference.Client, func() error, error) {
	switch cfg.Provider {
	case "openai":
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature)
		return client, client.Close, nil
	case "gemini":
		client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
		return client, client.Close, nil
	case "ollama":
		client := ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model)
		return client, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}
