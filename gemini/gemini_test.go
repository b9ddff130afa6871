package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FibresApp/vibecode-ai-backend/llm"
	"github.com/FibresApp/vibecode-ai-backend/models"
)

func TestComplete(t *testing.T) {
	var received geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""},{"text":"{\"overall\":\"ok\"}"}]}}]}`))
	}))
	defer server.Close()

	client := NewClient("g-key", "gemini-2.5-flash", server.URL+"/v1beta", nil)
	text, err := client.Complete(context.Background(), llm.Request{
		Prompt: "describe",
		Images: []models.ImagePayload{
			{Data: []byte("previous"), MediaType: "image/png", Role: models.RolePrevious},
			{Data: []byte("current"), Role: models.RoleCurrent},
		},
		MaxTokens: 1000,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"overall":"ok"}`, text)

	assert.Equal(t, "application/json", received.GenerationConfig.ResponseMimeType)
	assert.Equal(t, 1000, received.GenerationConfig.MaxOutputTokens)
	require.Len(t, received.Contents, 1)
	parts := received.Contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "describe", parts[0].Text)
	assert.Equal(t, "image/png", parts[1].InlineData.MimeType)
	assert.Equal(t, "cHJldmlvdXM=", parts[1].InlineData.Data)
	assert.Equal(t, "image/jpeg", parts[2].InlineData.MimeType)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-success status",
			status: http.StatusInternalServerError,
			body:   `{"error":"boom"}`,
			check: func(t *testing.T, err error) {
				var apiErr *llm.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "Gemini", apiErr.Provider)
			},
		},
		{
			name:   "no candidates",
			status: http.StatusOK,
			body:   `{"candidates":[]}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrEmptyResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("g-key", "gemini-2.5-flash", server.URL, nil)
			_, err := client.Complete(context.Background(), llm.Request{Prompt: "x"})
			tt.check(t, err)
		})
	}
}
