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

// DescribePhoto handles the minimal POST /analyze-photo: one photo in, the
// provider's text out without any JSON extraction.
func (h *Handlers) DescribePhoto(c *gin.Context) {
	const op = service.OperationDescribe

	var req models.DescribePhotoRequest
	if err := bindRequest(c, &req); err != nil {
		respondInvalidBody(c, op, err)
		return
	}

	photo, err := readImage(c, req.PhotoBase64, req.MimeType, "photo", models.RoleCurrent)
	switch {
	case errors.Is(err, errNoImage):
		respondBadRequest(c, op, "Photo is required")
		return
	case errors.Is(err, imaging.ErrInvalidBase64):
		respondBadRequest(c, op, "Invalid image data")
		return
	case err != nil:
		respondInvalidBody(c, op, err)
		return
	}

	log.WithFields(log.Fields{
		"request_id":  c.GetString(middleware.RequestIDKey),
		"media_type":  photo.MediaType,
		"image_bytes": len(photo.Data),
	}).Info("describe.request")

	text, err := h.analyzer.DescribePhoto(c.Request.Context(), photo)
	if err != nil {
		respondError(c, op, err)
		return
	}
	respondOK(c, op, models.DescribePhotoResponse{Result: text})
}
