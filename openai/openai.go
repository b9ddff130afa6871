package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/FibresApp/vibecode-ai-backend/llm"
)

type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ImageContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

type ChatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates a new OpenAI client. baseURL is the API root, e.g.
// https://api.openai.com/v1.
func NewClient(apiKey, model, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
		client:   httpClient,
	}
}

// SourceName identifies this provider in logs and metrics
func (c *Client) SourceName() string {
	return "OpenAI"
}

// BuildChatRequest lays out the prompt as one user message: the instruction
// text first, then each image as an inline data URI in request order.
func (c *Client) BuildChatRequest(req llm.Request) ChatRequest {
	content := make([]any, 0, len(req.Images)+1)
	content = append(content, TextContent{Type: "text", Text: req.Prompt})
	for _, img := range req.Images {
		content = append(content, ImageContent{
			Type:     "image_url",
			ImageURL: ImageURL{URL: llm.DataURI(img)},
		})
	}

	return ChatRequest{
		Model:     c.model,
		Messages:  []Message{{Role: "user", Content: content}},
		MaxTokens: req.MaxTokens,
	}
}

// Complete sends a single chat completion request and returns the reply text
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	jsonData, err := json.Marshal(c.BuildChatRequest(req))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &llm.APIError{Provider: c.SourceName(), StatusCode: resp.StatusCode, Body: string(body)}
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}

	// Extract the text content from the response
	content := chatResp.Choices[0].Message.Content
	switch v := content.(type) {
	case string:
		if v == "" {
			return "", llm.ErrEmptyResponse
		}
		return v, nil
	case nil:
		return "", llm.ErrEmptyResponse
	}

	// If content is not a string, try to marshal it back to JSON
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("failed to marshal content: %w", err)
	}
	return string(contentJSON), nil
}
