package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/apex/log"

	"github.com/FibresApp/vibecode-ai-backend/imaging"
	"github.com/FibresApp/vibecode-ai-backend/llm"
	"github.com/FibresApp/vibecode-ai-backend/metrics"
	"github.com/FibresApp/vibecode-ai-backend/models"
	"github.com/FibresApp/vibecode-ai-backend/parser"
	"github.com/FibresApp/vibecode-ai-backend/prompt"
)

const (
	OperationAnalyze  = "analyze"
	OperationCompare  = "compare"
	OperationDescribe = "describe"
)

var (
	// ErrNotConfigured means the service was built without a provider
	ErrNotConfigured = errors.New("inference provider not configured")
	// ErrMissingImage means a required photo was empty
	ErrMissingImage = errors.New("required image missing")
)

// Options tune the per-request behaviour of the analyzer
type Options struct {
	SingleMaxTokens   int
	CompareMaxTokens  int
	Timeout           time.Duration
	MaxImageDimension int
}

// Analyzer turns photos into structured results with one provider call each.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	client llm.Client
	opts   Options
}

// NewAnalyzer creates an analyzer. A nil client yields ErrNotConfigured on every call.
func NewAnalyzer(client llm.Client, opts Options) *Analyzer {
	return &Analyzer{client: client, opts: opts}
}

// AnalyzePhoto describes each body region of current. With a previous photo
// the description is of the change between the two.
func (a *Analyzer) AnalyzePhoto(ctx context.Context, current models.ImagePayload, previous *models.ImagePayload) (map[string]any, error) {
	if len(current.Data) == 0 || (previous != nil && len(previous.Data) == 0) {
		return nil, ErrMissingImage
	}

	current.Role = models.RoleCurrent
	images := []models.ImagePayload{current}
	if previous != nil {
		prev := *previous
		prev.Role = models.RolePrevious
		images = []models.ImagePayload{prev, current}
	}

	text, err := a.infer(ctx, OperationAnalyze, llm.Request{
		Prompt:    prompt.Analysis(previous != nil),
		Images:    images,
		MaxTokens: a.opts.SingleMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	obj, err := a.extract(OperationAnalyze, text)
	if err != nil {
		return nil, err
	}
	return parser.NormalizeAnalysis(obj), nil
}

// ComparePhotos judges each muscle group between before and after.
// frontPose adds the body fat estimate clause to the prompt.
func (a *Analyzer) ComparePhotos(ctx context.Context, before, after models.ImagePayload, frontPose bool) (map[string]any, error) {
	if len(before.Data) == 0 || len(after.Data) == 0 {
		return nil, ErrMissingImage
	}

	before.Role = models.RoleBefore
	after.Role = models.RoleAfter

	text, err := a.infer(ctx, OperationCompare, llm.Request{
		Prompt:    prompt.Comparison(frontPose),
		Images:    []models.ImagePayload{before, after},
		MaxTokens: a.opts.CompareMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	obj, err := a.extract(OperationCompare, text)
	if err != nil {
		return nil, err
	}
	return parser.NormalizeComparison(obj), nil
}

// DescribePhoto runs the baseline prompt and returns the provider text as is.
func (a *Analyzer) DescribePhoto(ctx context.Context, photo models.ImagePayload) (string, error) {
	if len(photo.Data) == 0 {
		return "", ErrMissingImage
	}
	photo.Role = models.RoleCurrent

	return a.infer(ctx, OperationDescribe, llm.Request{
		Prompt:    prompt.Analysis(false),
		Images:    []models.ImagePayload{photo},
		MaxTokens: a.opts.SingleMaxTokens,
	})
}

// infer makes the single provider call for a request, bounded by the
// configured timeout on top of ctx.
func (a *Analyzer) infer(ctx context.Context, operation string, req llm.Request) (string, error) {
	if a.client == nil {
		return "", ErrNotConfigured
	}

	for i, img := range req.Images {
		req.Images[i] = imaging.Prepare(img, a.opts.MaxImageDimension)
		metrics.ImageBytes.Observe(float64(len(req.Images[i].Data)))
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	provider := a.client.SourceName()
	start := time.Now()
	text, err := a.client.Complete(ctx, req)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.ProviderDurationSeconds.WithLabelValues(provider, operation, result).Observe(elapsed.Seconds())

	fields := log.Fields{
		"provider":    provider,
		"operation":   operation,
		"images":      len(req.Images),
		"max_tokens":  req.MaxTokens,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		// provider error bodies are logged here and never returned to callers
		log.WithFields(fields).WithError(err).Error("provider.call.failed")
		return "", fmt.Errorf("%s call failed: %w", provider, err)
	}
	log.WithFields(fields).WithField("reply_chars", len(text)).Info("provider.call.success")
	return text, nil
}

func (a *Analyzer) extract(operation, text string) (map[string]any, error) {
	obj, err := parser.ParseObject(text)
	if err != nil {
		metrics.ExtractionFailuresTotal.WithLabelValues(operation).Inc()
		log.WithFields(log.Fields{
			"operation": operation,
			"reply":     truncate(text, 500),
		}).Warn("provider.reply.unparseable")
		return nil, err
	}
	return obj, nil
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
