package inference

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the contract for a remote completion provider.
// Completions are assumed idempotent: re-issuing the same prompt is acceptable.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StatusError is returned by HTTP providers when the API responds with a
// non-2xx status. The quota classification in the resilience package relies
// on the status code being preserved here.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.Code, e.Body)
}

const (
	DefaultMaxRetryAttempts = 3
)
