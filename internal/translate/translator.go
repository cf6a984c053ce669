// Package translate holds the external translation collaborators: offline
// language detection and a thin client for the public Google translate
// endpoint. Translation quality is the provider's concern, not ours.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resty.dev/v3"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

//go:generate mockgen -source=translator.go -destination=../mocks/translate/mock_translator.go -package=mock_translate

// Translator converts text between languages. "auto" is accepted as source.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// GoogleClient calls the unauthenticated gtx endpoint that the original
// deployment used. Not an official API; good enough for a demo front-end.
type GoogleClient struct {
	httpClient *resty.Client
}

func NewGoogleClient() *GoogleClient {
	client := resty.New()
	client.SetBaseURL("https://translate.googleapis.com")

	return &GoogleClient{httpClient: client}
}

func (client *GoogleClient) Close() error {
	return client.httpClient.Close()
}

// SetBaseURL overrides the endpoint. Used for tests.
func (client *GoogleClient) SetBaseURL(baseURL string) {
	client.httpClient.SetBaseURL(baseURL)
}

// Translate returns text converted from source to target. Identical source
// and target short-circuit without a network call.
func (client *GoogleClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target || strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source == "" {
		source = "auto"
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client": "gtx",
			"sl":     source,
			"tl":     target,
			"dt":     "t",
			"q":      text,
		}).
		Get("/translate_a/single")
	if err != nil {
		return "", fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return "", &inference.StatusError{Code: response.StatusCode(), Body: response.String()}
	}

	translated, err := parseTranslation(response.Bytes())
	if err != nil {
		return "", fmt.Errorf("parseTranslation > %w", err)
	}
	return translated, nil
}

// parseTranslation extracts the joined translated segments from the gtx
// response, which is a nested JSON array rather than an object.
func parseTranslation(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("json.Unmarshal(%s) > %w", string(body), err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation payload: %s", string(body))
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("json.Unmarshal segments > %w", err)
	}

	var builder strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(segment[0], &piece); err != nil {
			return "", fmt.Errorf("json.Unmarshal segment > %w", err)
		}
		builder.WriteString(piece)
	}
	if builder.Len() == 0 {
		return "", fmt.Errorf("no translated segments in payload: %s", string(body))
	}
	return builder.String(), nil
}
