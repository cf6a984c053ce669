package gemini

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-ai/jeeves/internal/inference"
)

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name              string
		mockServerHandler func(t *testing.T, w http.ResponseWriter, r *http.Request)

		wantResponse    string
		wantError       bool
		wantStatusError int
	}{
		{
			name: "successful generation",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))

				var reqBody GenerateContentRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
				require.Len(t, reqBody.Contents, 1)
				require.Len(t, reqBody.Contents[0].Parts, 1)
				assert.Equal(t, "What is PIX?", reqBody.Contents[0].Parts[0].Text)

				mockResponse := GenerateContentResponse{
					Candidates: []Candidate{
						{
							Content:      Content{Role: "model", Parts: []Part{{Text: "PIX is Brazil's instant payment system."}}},
							FinishReason: "STOP",
						},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(mockResponse))
			},
			wantResponse: "PIX is Brazil's instant payment system.",
		},
		{
			name: "resource exhausted surfaces the status code",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": {"status": "RESOURCE_EXHAUSTED"}}`))
			},
			wantError:       true,
			wantStatusError: http.StatusTooManyRequests,
		},
		{
			name: "empty candidates is an error",
			mockServerHandler: func(t *testing.T, w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				require.NoError(t, json.NewEncoder(w).Encode(GenerateContentResponse{}))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.mockServerHandler(t, w, r)
			}))
			defer mockServer.Close()

			client := NewClient("test-key", "gemini-1.5-flash")
			client.SetBaseURL(mockServer.URL)
			defer func() {
				_ = client.Close()
			}()

			response, err := client.Complete(t.Context(), "What is PIX?")
			if tt.wantError {
				require.Error(t, err)
				if tt.wantStatusError != 0 {
					var statusErr *inference.StatusError
					require.True(t, errors.As(err, &statusErr))
					assert.Equal(t, tt.wantStatusError, statusErr.Code)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResponse, response)
		})
	}
}
