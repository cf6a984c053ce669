package resilience

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jeeves-ai/jeeves/internal/inference"
	mock_inference "github.com/jeeves-ai/jeeves/internal/mocks/inference"
)

func TestOrchestrator_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return("answer", nil).
		Times(1)

	registry := prometheus.NewRegistry()
	opts := testOptions()
	opts.Metrics = NewMetrics(registry)
	orchestrator, err := NewOrchestrator(mockClient, opts)
	require.NoError(t, err)

	_, err = orchestrator.Ask(context.Background(), "what is pix?", "en")
	require.NoError(t, err)
	_, err = orchestrator.Ask(context.Background(), "what is pix?", "en")
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(opts.Metrics.CacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(opts.Metrics.CacheMisses))
	assert.Equal(t, float64(1), testutil.ToFloat64(opts.Metrics.RemoteCalls))
	assert.Equal(t, float64(0), testutil.ToFloat64(opts.Metrics.Retries))
	assert.Equal(t, float64(0), testutil.ToFloat64(opts.Metrics.Fallbacks))
}

func TestOrchestrator_Metrics_retriesAndFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return("", &inference.StatusError{Code: http.StatusTooManyRequests, Body: "quota exceeded"}).
		Times(3)

	registry := prometheus.NewRegistry()
	opts := testOptions()
	opts.Metrics = NewMetrics(registry)
	orchestrator, err := NewOrchestrator(mockClient, opts)
	require.NoError(t, err)

	answer, err := orchestrator.Ask(context.Background(), "what is pix?", "en")
	require.NoError(t, err)
	require.True(t, answer.Degraded)

	assert.Equal(t, float64(3), testutil.ToFloat64(opts.Metrics.RemoteCalls))
	// The first attempt is not a retry.
	assert.Equal(t, float64(2), testutil.ToFloat64(opts.Metrics.Retries))
	assert.Equal(t, float64(1), testutil.ToFloat64(opts.Metrics.Fallbacks))
}

func TestOrchestrator_Metrics_cacheDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mock_inference.NewMockClient(ctrl)
	mockClient.EXPECT().
		Complete(gomock.Any(), gomock.Any()).
		Return("answer", nil).
		Times(2)

	registry := prometheus.NewRegistry()
	opts := testOptions()
	opts.EnableCache = false
	opts.Metrics = NewMetrics(registry)
	orchestrator, err := NewOrchestrator(mockClient, opts)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = orchestrator.Ask(context.Background(), "what is pix?", "en")
		require.NoError(t, err)
	}

	assert.Equal(t, float64(0), testutil.ToFloat64(opts.Metrics.CacheHits))
	assert.Equal(t, float64(0), testutil.ToFloat64(opts.Metrics.CacheMisses))
	assert.Equal(t, float64(2), testutil.ToFloat64(opts.Metrics.RemoteCalls))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var metrics *Metrics
	metrics.incCacheHit()
	metrics.incCacheMiss()
	metrics.incRemoteCall()
	metrics.incRetry()
	metrics.incFallback()
	metrics.observeAskDuration(0.1)
}
