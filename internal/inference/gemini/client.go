package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"resty.dev/v3"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

type Client struct {
	httpClient *resty.Client
	model      string
}

func NewClient(apiKey, model string) *Client {
	client := resty.New()
	client.SetBaseURL("https://generativelanguage.googleapis.com/v1beta")
	client.SetHeader("Content-Type", "application/json")
	client.SetQueryParam("key", apiKey)

	return &Client{
		httpClient: client,
		model:      model,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// SetBaseURL overrides the API endpoint. Used for tests.
func (client *Client) SetBaseURL(baseURL string) {
	client.httpClient.SetBaseURL(baseURL)
}

type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

// Complete implements the inference.Client interface
func (client *Client) Complete(ctx context.Context, prompt string) (string, error) {
	requestBody := GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&GenerateContentResponse{}).
		Post(fmt.Sprintf("/models/%s:generateContent", client.model))
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", &inference.StatusError{Code: response.StatusCode(), Body: response.String()}
	}

	responseBody := response.Result().(*GenerateContentResponse)
	if responseBody == nil || len(responseBody.Candidates) == 0 {
		return "", fmt.Errorf("empty response body or candidates: %s", response.String())
	}

	parts := responseBody.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("gemini response content",
		"model", client.model,
		"finishReason", responseBody.Candidates[0].FinishReason,
	)

	return parts[0].Text, nil
}
