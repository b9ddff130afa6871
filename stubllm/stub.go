package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FibresApp/vibecode-ai-backend/llm"
	"github.com/FibresApp/vibecode-ai-backend/models"
	"github.com/FibresApp/vibecode-ai-backend/prompt"
)

// Client is a deterministic, no-network provider intended for CI and local
// end-to-end runs. Replies are wrapped in a sentence of prose so the JSON
// extraction path is exercised as well.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) SourceName() string { return "Stub" }

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(req.Prompt))
	for _, img := range req.Images {
		h.Write(img.Data)
	}
	short := hex.EncodeToString(h.Sum(nil)[:4])

	var out any
	if prompt.IsComparison(req.Prompt) {
		out = comparison(short, prompt.RequestsBodyFat(req.Prompt))
	} else {
		out = analysis(short)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return "Here is the analysis you asked for:\n" + string(b), nil
}

func analysis(short string) map[string]string {
	out := make(map[string]string, len(prompt.BodyRegions)+1)
	for _, region := range prompt.BodyRegions {
		out[region] = fmt.Sprintf("Stubbed %s observation (%s).", region, short)
	}
	out["overall"] = fmt.Sprintf("Stubbed overall observation (%s).", short)
	return out
}

func comparison(short string, bodyFat bool) map[string]any {
	muscles := make([]models.MuscleComparison, 0, len(prompt.MuscleGroups))
	for _, group := range prompt.MuscleGroups {
		muscles = append(muscles, models.MuscleComparison{
			Name:        group,
			Winner:      "same",
			Observation: fmt.Sprintf("Stubbed %s comparison.", strings.ToLower(group)),
		})
	}

	summary := fmt.Sprintf("Stubbed comparison summary (%s).", short)
	if bodyFat {
		summary += " Estimated body fat roughly 18-20% before and 15-17% after."
	}

	// focusAreas and daysApart are left out on purpose; the service fills them
	return map[string]any{
		"muscles":        muscles,
		"overallSummary": summary,
		"recommendations": []models.Recommendation{
			{Text: "Keep progressive overload on compound lifts.", Priority: "high"},
			{Text: "Take photos in the same lighting.", Priority: "low"},
		},
	}
}
