package ollama

import (
	"context"
	"fmt"

	"resty.dev/v3"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

const DefaultBaseURL = "http://localhost:11434"

type Client struct {
	httpClient *resty.Client
	model      string
}

func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		model:      model,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete implements the inference.Client interface
func (client *Client) Complete(ctx context.Context, prompt string) (string, error) {
	requestBody := GenerateRequest{
		Model:  client.model,
		Prompt: prompt,
		Stream: false,
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&GenerateResponse{}).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", &inference.StatusError{Code: response.StatusCode(), Body: response.String()}
	}

	responseBody := response.Result().(*GenerateResponse)
	if responseBody == nil || responseBody.Response == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}

	return responseBody.Response, nil
}
