package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes orchestrator counters. A nil *Metrics is valid and
// records nothing, so callers without a registry can pass nil.
type Metrics struct {
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	RemoteCalls  prometheus.Counter
	Retries      prometheus.Counter
	Fallbacks    prometheus.Counter
	AskDurations prometheus.Histogram
}

func NewMetrics(registerer prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeves_cache_hits_total",
			Help: "Number of questions answered from the response cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeves_cache_misses_total",
			Help: "Number of questions that required a remote call.",
		}),
		RemoteCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeves_remote_calls_total",
			Help: "Number of remote completion attempts issued, including retries.",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeves_retries_total",
			Help: "Number of remote completion attempts issued after a quota failure.",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jeeves_fallbacks_total",
			Help: "Number of degraded answers served after quota exhaustion.",
		}),
		AskDurations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jeeves_ask_duration_seconds",
			Help:    "End to end latency of orchestrated calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registerer.MustRegister(
		metrics.CacheHits,
		metrics.CacheMisses,
		metrics.RemoteCalls,
		metrics.Retries,
		metrics.Fallbacks,
		metrics.AskDurations,
	)
	return metrics
}

func (m *Metrics) incCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) incCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) incRemoteCall() {
	if m != nil {
		m.RemoteCalls.Inc()
	}
}

func (m *Metrics) incRetry() {
	if m != nil {
		m.Retries.Inc()
	}
}

func (m *Metrics) incFallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) observeAskDuration(seconds float64) {
	if m != nil {
		m.AskDurations.Observe(seconds)
	}
}
