package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/FibresApp/vibecode-ai-backend/models"
)

// ErrEmptyResponse is returned when the provider answered without any text.
var ErrEmptyResponse = errors.New("no text in provider response")

// Request is a provider-agnostic multimodal prompt: one instruction followed
// by the images in the order the model should see them.
type Request struct {
	Prompt    string
	Images    []models.ImagePayload
	MaxTokens int
}

// Client abstracts the inference provider.
// Implementations must be safe for concurrent use; handlers share one.
type Client interface {
	// Complete sends the request once and returns the raw reply text.
	Complete(ctx context.Context, req Request) (string, error)
	// SourceName returns a short provider label for logs and metrics.
	SourceName() string
}

// APIError is a non-success HTTP answer from the provider. Body is kept for
// diagnostics and must not be sent back to callers.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// DataURI encodes an image as data:<mediaType>;base64,<bytes>
func DataURI(img models.ImagePayload) string {
	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = models.DefaultMediaType
	}
	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(img.Data))
}
