package main

import (
	"fmt"
	"io"

	"github.com/jeeves-ai/jeeves/internal/assistant"
	"github.com/jeeves-ai/jeeves/internal/config"
	"github.com/jeeves-ai/jeeves/internal/inference"
	"github.com/jeeves-ai/jeeves/internal/inference/gemini"
	"github.com/jeeves-ai/jeeves/internal/inference/ollama"
	"github.com/jeeves-ai/jeeves/internal/inference/openai"
	"github.com/jeeves-ai/jeeves/internal/resilience"
	"github.com/jeeves-ai/jeeves/internal/translate"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load > %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newInferenceClient(cfg *config.Config) (inference.Client, io.Closer, error) {
	switch cfg.Provider {
	case "openai":
		client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature)
		return client, closerFunc(client.Close), nil
	case "gemini":
		client := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
		return client, closerFunc(client.Close), nil
	case "ollama":
		client := ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model)
		return client, closerFunc(client.Close), nil
	}
	return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

func newAssistant(cfg *config.Config, metrics *resilience.Metrics) (*assistant.Assistant, io.Closer, error) {
	client, clientCloser, err := newInferenceClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	orchestrator, err := resilience.NewOrchestrator(client, resilience.Options{
		CacheTTL:       cfg.Resilience.CacheExpire,
		MinInterval:    cfg.Resilience.RateLimitDelay,
		MaxAttempts:    uint(cfg.Resilience.MaxRetries),
		BaseDelay:      cfg.Resilience.RetryDelay,
		EnableCache:    cfg.Resilience.EnableCache,
		EnableFallback: cfg.Resilience.EnableFallback,
		Metrics:        metrics,
	})
	if err != nil {
		_ = clientCloser.Close()
		return nil, nil, fmt.Errorf("resilience.NewOrchestrator > %w", err)
	}

	var translator translate.Translator
	closers := []io.Closer{clientCloser}
	if cfg.Translation.Enabled {
		googleClient := translate.NewGoogleClient()
		translator = googleClient
		closers = append(closers, closerFunc(googleClient.Close))
	}

	return assistant.New(orchestrator, translate.NewDetector(), translator), multiCloser(closers), nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

type multiCloser []io.Closer

func (closers multiCloser) Close() error {
	var firstErr error
	for _, closer := range closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
