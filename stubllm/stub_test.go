package stubllm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FibresApp/vibecode-ai-backend/llm"
	"github.com/FibresApp/vibecode-ai-backend/models"
	"github.com/FibresApp/vibecode-ai-backend/parser"
	"github.com/FibresApp/vibecode-ai-backend/prompt"
)

func TestComplete_Deterministic(t *testing.T) {
	c := NewClient()
	req := llm.Request{Prompt: prompt.Analysis(false), Images: []models.ImagePayload{{Data: []byte("img")}}}

	first, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	second, err := c.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	obj, err := parser.ParseObject(first)
	require.NoError(t, err)
	assert.Len(t, obj, 7)
}

func TestComplete_Comparison(t *testing.T) {
	c := NewClient()

	text, err := c.Complete(context.Background(), llm.Request{Prompt: prompt.Comparison(true)})
	require.NoError(t, err)

	obj, err := parser.ParseObject(text)
	require.NoError(t, err)
	assert.Len(t, obj["muscles"], 6)
	assert.Contains(t, obj["overallSummary"], "body fat")
	assert.NotContains(t, obj, "focusAreas")
}

func TestComplete_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Complete(ctx, llm.Request{Prompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}
