package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/FibresApp/vibecode-ai-backend/imaging"
	"github.com/FibresApp/vibecode-ai-backend/models"
)

var errNoImage = errors.New("no image supplied")

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindRequest fills obj from a JSON or multipart body. An empty JSON body
// binds to the zero value so the missing-field checks can name the field.
func bindRequest(c *gin.Context, obj any) error {
	if isMultipart(c) {
		return c.ShouldBind(obj)
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// readImage returns the photo sent either as the multipart file formField or
// as base64 text. mimeType wins over a data URI's type, which wins over the
// default.
func readImage(c *gin.Context, b64, mimeType, formField string, role models.Role) (models.ImagePayload, error) {
	if isMultipart(c) && formField != "" {
		img, err := readFormFile(c, formField, role)
		if !errors.Is(err, errNoImage) {
			return img, err
		}
	}

	if strings.TrimSpace(b64) == "" {
		return models.ImagePayload{}, errNoImage
	}

	data, uriType, err := imaging.DecodeBase64(b64)
	if err != nil {
		return models.ImagePayload{}, err
	}

	mediaType := mimeType
	if mediaType == "" {
		mediaType = uriType
	}
	if mediaType == "" {
		mediaType = models.DefaultMediaType
	}
	return models.ImagePayload{Data: data, MediaType: mediaType, Role: role}, nil
}

func readFormFile(c *gin.Context, field string, role models.Role) (models.ImagePayload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return models.ImagePayload{}, errNoImage
	}
	if err != nil {
		return models.ImagePayload{}, fmt.Errorf("failed to read form file %s: %w", field, err)
	}

	f, err := fh.Open()
	if err != nil {
		return models.ImagePayload{}, fmt.Errorf("failed to open form file %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.ImagePayload{}, fmt.Errorf("failed to read form file %s: %w", field, err)
	}
	if len(data) == 0 {
		return models.ImagePayload{}, errNoImage
	}

	mediaType := fh.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = imaging.DetectMediaType(data)
	}
	return models.ImagePayload{Data: data, MediaType: mediaType, Role: role}, nil
}
