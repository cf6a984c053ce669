package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

// ErrQuotaExceeded is the terminal error returned once every attempt has
// failed with a quota-classified error. Callers select the fallback path on
// this error and on no other.
var ErrQuotaExceeded = errors.New("provider quota exceeded after retries")

// Class is the retry classification of a remote-call failure.
type Class int

const (
	// ClassNonRetryable covers every failure outside the quota family:
	// malformed input, unrelated network faults, provider-internal errors.
	ClassNonRetryable Class = iota
	// ClassRetryable covers transient provider-side exhaustion only.
	ClassRetryable
)

// Classify decides whether a remote-call failure belongs to the quota /
// rate-limit family. All classification logic lives here; providers only
// need to surface the HTTP status or an error message.
func Classify(err error) Class {
	if err == nil {
		return ClassNonRetryable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ClassNonRetryable
	}

	var statusErr *inference.StatusError
	if errors.As(err, &statusErr) && statusErr.Code != http.StatusTooManyRequests {
		return ClassNonRetryable
	}

	errStr := strings.ToLower(err.Error())
	for _, marker := range []string{
		"response error 429",
		"too many requests",
		"rate limit",
		"quota",
		"resource exhausted",
	} {
		if strings.Contains(errStr, marker) {
			return ClassRetryable
		}
	}
	return ClassNonRetryable
}

// Policy retries quota-classified failures with exponential backoff.
// The delay before attempt n (n >= 2) is BaseDelay * 2^(n-2); there is no
// delay after the final attempt.
type Policy struct {
	MaxAttempts uint
	BaseDelay   time.Duration
}

func NewPolicy(maxAttempts uint, baseDelay time.Duration) Policy {
	if maxAttempts == 0 {
		maxAttempts = 1
	}
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
	}
}

// Execute runs op at most MaxAttempts times. Non-retryable failures
// propagate immediately. When the final attempt still fails with a
// retryable error, the result is ErrQuotaExceeded wrapping the cause.
func (policy Policy) Execute(ctx context.Context, op func(ctx context.Context) (string, error)) (string, error) {
	var result string
	err := retry.Do(
		func() error {
			response, err := op(ctx)
			if err != nil {
				if Classify(err) != ClassRetryable {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(policy.MaxAttempts),
		retry.Delay(policy.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Default().Info("retrying remote call",
				"attempt", attempt+1,
				"maxAttempts", policy.MaxAttempts,
				"error", err,
			)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if Classify(err) == ClassRetryable {
			return "", fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		return "", err
	}
	return result, nil
}
