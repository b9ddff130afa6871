package handlers

import (
	"errors"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/FibresApp/vibecode-ai-backend/imaging"
	"github.com/FibresApp/vibecode-ai-backend/middleware"
	"github.com/FibresApp/vibecode-ai-backend/models"
	"github.com/FibresApp/vibecode-ai-backend/service"
)

// AnalyzePhoto handles POST /api/analyze-photo. It returns one sentence per
// body region, describing change when a previous photo is included.
func (h *Handlers) AnalyzePhoto(c *gin.Context) {
	const op = service.OperationAnalyze

	var req models.AnalyzePhotoRequest
	if err := bindRequest(c, &req); err != nil {
		respondInvalidBody(c, op, err)
		return
	}

	current, err := readImage(c, req.ImageBase64, req.MimeType, "image", models.RoleCurrent)
	switch {
	case errors.Is(err, errNoImage):
		respondBadRequest(c, op, "Image data is required")
		return
	case errors.Is(err, imaging.ErrInvalidBase64):
		respondBadRequest(c, op, "Invalid image data")
		return
	case err != nil:
		respondInvalidBody(c, op, err)
		return
	}

	var previous *models.ImagePayload
	prev, err := readImage(c, req.PreviousImageBase64, req.PreviousMimeType, "previousImage", models.RolePrevious)
	switch {
	case errors.Is(err, errNoImage):
	case errors.Is(err, imaging.ErrInvalidBase64):
		respondBadRequest(c, op, "Invalid image data")
		return
	case err != nil:
		respondInvalidBody(c, op, err)
		return
	default:
		previous = &prev
	}

	log.WithFields(log.Fields{
		"request_id":   c.GetString(middleware.RequestIDKey),
		"media_type":   current.MediaType,
		"image_bytes":  len(current.Data),
		"has_previous": previous != nil,
	}).Info("analyze.request")

	result, err := h.analyzer.AnalyzePhoto(c.Request.Context(), current, previous)
	if err != nil {
		respondError(c, op, err)
		return
	}
	respondOK(c, op, result)
}
