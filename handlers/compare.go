package handlers

import (
	"errors"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/FibresApp/vibecode-ai-backend/imaging"
	"github.com/FibresApp/vibecode-ai-backend/middleware"
	"github.com/FibresApp/vibecode-ai-backend/models"
	"github.com/FibresApp/vibecode-ai-backend/prompt"
	"github.com/FibresApp/vibecode-ai-backend/service"
)

// ComparePhotos handles POST /api/compare-photos
func (h *Handlers) ComparePhotos(c *gin.Context) {
	const op = service.OperationCompare

	var req models.ComparePhotosRequest
	if err := bindRequest(c, &req); err != nil {
		respondInvalidBody(c, op, err)
		return
	}

	before, beforeErr := readImage(c, req.BeforeBase64, req.BeforeMime, "before", models.RoleBefore)
	after, afterErr := readImage(c, req.AfterBase64, req.AfterMime, "after", models.RoleAfter)

	switch {
	case errors.Is(beforeErr, errNoImage) || errors.Is(afterErr, errNoImage):
		respondBadRequest(c, op, "Both images required")
		return
	case errors.Is(beforeErr, imaging.ErrInvalidBase64) || errors.Is(afterErr, imaging.ErrInvalidBase64):
		respondBadRequest(c, op, "Invalid image data")
		return
	case beforeErr != nil:
		respondInvalidBody(c, op, beforeErr)
		return
	case afterErr != nil:
		respondInvalidBody(c, op, afterErr)
		return
	}

	frontPose := prompt.HasFrontPose(req.BeforePose, req.AfterPose)

	log.WithFields(log.Fields{
		"request_id":   c.GetString(middleware.RequestIDKey),
		"before_bytes": len(before.Data),
		"after_bytes":  len(after.Data),
		"before_pose":  req.BeforePose,
		"after_pose":   req.AfterPose,
		"body_fat":     frontPose,
	}).Info("compare.request")

	result, err := h.analyzer.ComparePhotos(c.Request.Context(), before, after, frontPose)
	if err != nil {
		respondError(c, op, err)
		return
	}
	respondOK(c, op, result)
}
