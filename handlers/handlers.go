package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/FibresApp/vibecode-ai-backend/metrics"
	"github.com/FibresApp/vibecode-ai-backend/middleware"
	"github.com/FibresApp/vibecode-ai-backend/parser"
	"github.com/FibresApp/vibecode-ai-backend/service"
	"github.com/FibresApp/vibecode-ai-backend/version"
)

// Handlers represents the HTTP handlers
type Handlers struct {
	analyzer *service.Analyzer
}

// NewHandlers creates new HTTP handlers
func NewHandlers(analyzer *service.Analyzer) *Handlers {
	return &Handlers{analyzer: analyzer}
}

// HealthCheck handles liveness probes on / and /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": version.ServiceName,
		"version": version.BuildVersion,
	})
}

// Version returns build information
func (h *Handlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

// generic 500 messages per operation; provider details stay in the logs
var failureMessages = map[string]string{
	service.OperationAnalyze:  "Failed to analyze photo",
	service.OperationCompare:  "Failed to compare photos",
	service.OperationDescribe: "Failed to analyze photo",
}

var missingImageMessages = map[string]string{
	service.OperationAnalyze:  "Image data is required",
	service.OperationCompare:  "Both images required",
	service.OperationDescribe: "Photo is required",
}

// respondError is the single place a failed operation becomes an HTTP answer
func respondError(c *gin.Context, operation string, err error) {
	if errors.Is(err, service.ErrMissingImage) {
		respondBadRequest(c, operation, missingImageMessages[operation])
		return
	}

	status := http.StatusInternalServerError
	message := failureMessages[operation]
	result := "provider_error"

	switch {
	case errors.Is(err, service.ErrNotConfigured):
		message = "Server misconfigured"
		result = "misconfigured"
	case errors.Is(err, parser.ErrInvalidResponse):
		message = "Invalid AI response"
		result = "invalid_response"
	case errors.Is(err, context.Canceled):
		result = "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	}

	log.WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"operation":  operation,
		"result":     result,
	}).WithError(err).Error("analysis.failed")

	metrics.RequestsTotal.WithLabelValues(operation, result).Inc()
	c.JSON(status, gin.H{"error": message})
}

// respondInvalidBody answers a body that could not be read or bound
func respondInvalidBody(c *gin.Context, operation string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		metrics.RequestsTotal.WithLabelValues(operation, "too_large").Inc()
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
		return
	}

	log.WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"operation":  operation,
	}).WithError(err).Warn("request.invalid")
	respondBadRequest(c, operation, "Invalid request format")
}

// respondBadRequest answers a client input error
func respondBadRequest(c *gin.Context, operation, message string) {
	metrics.RequestsTotal.WithLabelValues(operation, "bad_request").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func respondOK(c *gin.Context, operation string, body any) {
	metrics.RequestsTotal.WithLabelValues(operation, "ok").Inc()
	c.JSON(http.StatusOK, body)
}
