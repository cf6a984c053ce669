package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{
			name: "nil error",
			err:  nil,
			want: ClassNonRetryable,
		},
		{
			name: "http 429 status error",
			err:  &inference.StatusError{Code: http.StatusTooManyRequests, Body: "slow down"},
			want: ClassRetryable,
		},
		{
			name: "wrapped http 429 status error",
			err:  fmt.Errorf("httpClient.Post > %w", &inference.StatusError{Code: http.StatusTooManyRequests, Body: "slow down"}),
			want: ClassRetryable,
		},
		{
			name: "http 500 status error",
			err:  &inference.StatusError{Code: http.StatusInternalServerError, Body: "boom"},
			want: ClassNonRetryable,
		},
		{
			name: "http 400 mentioning quota in the body still has a non-quota status",
			err:  &inference.StatusError{Code: http.StatusBadRequest, Body: "bad request"},
			want: ClassNonRetryable,
		},
		{
			name: "quota message without status",
			err:  errors.New("googleapi: Error: Quota exceeded for quota metric"),
			want: ClassRetryable,
		},
		{
			name: "rate limit message without status",
			err:  errors.New("provider rate limit reached, try later"),
			want: ClassRetryable,
		},
		{
			name: "resource exhausted message",
			err:  errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"),
			want: ClassRetryable,
		},
		{
			name: "network error",
			err:  errors.New("dial tcp: connection refused"),
			want: ClassNonRetryable,
		},
		{
			name: "context cancellation",
			err:  context.Canceled,
			want: ClassNonRetryable,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: ClassNonRetryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func quotaError() error {
	return &inference.StatusError{Code: http.StatusTooManyRequests, Body: "quota exceeded"}
}

func TestPolicy_Execute(t *testing.T) {
	tests := []struct {
		name        string
		maxAttempts uint
		results     []error

		wantResult       string
		wantAttempts     int
		wantErr          bool
		wantQuotaErr     bool
		wantNoExtraDelay bool
	}{
		{
			name:         "success on first attempt",
			maxAttempts:  3,
			results:      []error{nil},
			wantResult:   "answer",
			wantAttempts: 1,
		},
		{
			name:         "retryable failure then success",
			maxAttempts:  3,
			results:      []error{quotaError(), nil},
			wantResult:   "answer",
			wantAttempts: 2,
		},
		{
			name:             "non-retryable failure propagates immediately",
			maxAttempts:      3,
			results:          []error{errors.New("malformed input")},
			wantAttempts:     1,
			wantErr:          true,
			wantNoExtraDelay: true,
		},
		{
			name:         "retryable failures exhaust into quota exceeded",
			maxAttempts:  3,
			results:      []error{quotaError(), quotaError(), quotaError()},
			wantAttempts: 3,
			wantErr:      true,
			wantQuotaErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewPolicy(tt.maxAttempts, time.Millisecond)

			attempts := 0
			started := time.Now()
			result, err := policy.Execute(context.Background(), func(ctx context.Context) (string, error) {
				opErr := tt.results[attempts]
				attempts++
				if opErr != nil {
					return "", opErr
				}
				return "answer", nil
			})
			elapsed := time.Since(started)

			assert.Equal(t, tt.wantAttempts, attempts)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantQuotaErr {
					assert.ErrorIs(t, err, ErrQuotaExceeded)
				} else {
					assert.NotErrorIs(t, err, ErrQuotaExceeded)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantResult, result)
			}
			if tt.wantNoExtraDelay {
				assert.Less(t, elapsed, 100*time.Millisecond)
			}
		})
	}
}

func TestPolicy_ExecuteBackoffSchedule(t *testing.T) {
	// base=40ms, 3 attempts: waits of 40ms and 80ms between attempts,
	// none after the last.
	const baseDelay = 40 * time.Millisecond
	policy := NewPolicy(3, baseDelay)

	attempts := 0
	started := time.Now()
	_, err := policy.Execute(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		return "", quotaError()
	})
	elapsed := time.Since(started)

	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 3, attempts)
	assert.GreaterOrEqual(t, elapsed, 3*baseDelay)
	assert.Less(t, elapsed, 8*baseDelay)
}

func TestPolicy_ExecuteCancelDuringBackoff(t *testing.T) {
	policy := NewPolicy(3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	started := time.Now()
	_, err := policy.Execute(ctx, func(ctx context.Context) (string, error) {
		attempts++
		return "", quotaError()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(started), time.Second)
}
