// Package resilience wraps an unreliable, rate-limited remote completion
// call with a TTL response cache, a minimum-spacing rate limiter, an
// exponential-backoff retry policy for quota failures, and a locale-aware
// fallback answer once retries are exhausted.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

// Answer is the result of an orchestrated call. Degraded marks a canned
// fallback answer so callers can render degraded mode distinctly.
type Answer struct {
	Text     string
	Degraded bool
	Cached   bool
}

// Options tune the orchestrator. Zero values fall back to the defaults the
// original deployment used.
type Options struct {
	CacheTTL       time.Duration
	MinInterval    time.Duration
	MaxAttempts    uint
	BaseDelay      time.Duration
	EnableCache    bool
	EnableFallback bool
	Metrics        *Metrics
}

func DefaultOptions() Options {
	return Options{
		CacheTTL:       time.Hour,
		MinInterval:    time.Second,
		MaxAttempts:    inference.DefaultMaxRetryAttempts,
		BaseDelay:      2 * time.Second,
		EnableCache:    true,
		EnableFallback: true,
	}
}

// Orchestrator composes cache, limiter, retry policy, and fallback around a
// single remote completion client. One instance is constructed per process
// and shared by every caller; all timing coordination funnels through its
// limiter.
type Orchestrator struct {
	client         inference.Client
	cache          *ResponseCache
	limiter        *Limiter
	policy         Policy
	fallbacks      *Fallbacks
	enableCache    bool
	enableFallback bool
	metrics        *Metrics
}

func NewOrchestrator(client inference.Client, opts Options) (*Orchestrator, error) {
	fallbacks, err := NewFallbacks()
	if err != nil {
		return nil, fmt.Errorf("NewFallbacks > %w", err)
	}

	return &Orchestrator{
		client:         client,
		cache:          NewResponseCache(opts.CacheTTL),
		limiter:        NewLimiter(opts.MinInterval),
		policy:         NewPolicy(opts.MaxAttempts, opts.BaseDelay),
		fallbacks:      fallbacks,
		enableCache:    opts.EnableCache,
		enableFallback: opts.EnableFallback,
		metrics:        opts.Metrics,
	}, nil
}

// Ask resolves a request through the resilient call path:
// cache lookup, rate-limit gate, retried remote call, cache write.
// Quota exhaustion yields the locale's fallback answer with Degraded set;
// every other failure propagates unchanged.
func (o *Orchestrator) Ask(ctx context.Context, text, locale string) (Answer, error) {
	started := time.Now()
	defer func() {
		o.metrics.observeAskDuration(time.Since(started).Seconds())
	}()

	fingerprint := Fingerprint(text)
	if o.enableCache {
		if cached, ok := o.cache.Get(fingerprint); ok {
			o.metrics.incCacheHit()
			slog.Default().Debug("cache hit", "fingerprint", fingerprint)
			return Answer{Text: cached, Cached: true}, nil
		}
		o.metrics.incCacheMiss()
	}

	if err := o.limiter.Acquire(ctx); err != nil {
		return Answer{}, err
	}

	var attempts int
	response, err := o.policy.Execute(ctx, func(ctx context.Context) (string, error) {
		attempts++
		if attempts > 1 {
			o.metrics.incRetry()
		}
		o.metrics.incRemoteCall()
		return o.client.Complete(ctx, text)
	})
	if err != nil {
		if o.enableFallback && errors.Is(err, ErrQuotaExceeded) {
			o.metrics.incFallback()
			slog.Default().Warn("quota exhausted, serving fallback answer",
				"locale", locale,
				"error", err,
			)
			return Answer{Text: o.fallbacks.Generate(locale), Degraded: true}, nil
		}
		return Answer{}, err
	}

	if o.enableCache {
		o.cache.Put(fingerprint, response)
	}
	return Answer{Text: response}, nil
}
