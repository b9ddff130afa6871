package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/apex/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/FibresApp/vibecode-ai-backend/models"
)

const jpegQuality = 85

// ErrInvalidBase64 is returned when an image field is not base64
var ErrInvalidBase64 = errors.New("image data is not valid base64")

// DecodeBase64 decodes an image sent as base64. A leading data URI header
// ("data:image/png;base64,") is accepted and its media type returned.
func DecodeBase64(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	mediaType := ""

	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", ErrInvalidBase64
		}
		header := s[len("data:"):comma]
		if !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidBase64
		}
		mediaType = strings.TrimSuffix(header, ";base64")
		s = s[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
		}
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidBase64
	}
	return data, mediaType, nil
}

// DetectMediaType sniffs the content type of data, e.g. "image/png".
func DetectMediaType(data []byte) string {
	mt := mimetype.Detect(data)
	return strings.TrimSpace(strings.SplitN(mt.String(), ";", 2)[0])
}

// Prepare downscales img so neither side exceeds maxDimension, applying the
// EXIF orientation first. The result is always JPEG when it was resized.
// Images that are small enough, or cannot be decoded, are returned unchanged.
func Prepare(img models.ImagePayload, maxDimension int) models.ImagePayload {
	if maxDimension <= 0 {
		return img
	}

	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		log.WithField("media_type", img.MediaType).Debugf("image.prepare.skip: %v", err)
		return img
	}

	orientation := Orientation(img.Data)
	if orientation != 1 {
		decoded = CorrectOrientation(decoded, orientation)
	}

	bounds := decoded.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDimension && height <= maxDimension && orientation == 1 {
		return img
	}

	newWidth, newHeight := width, height
	if width > maxDimension || height > maxDimension {
		scale := float64(maxDimension) / float64(width)
		if s := float64(maxDimension) / float64(height); s < scale {
			scale = s
		}
		newWidth = max(1, min(maxDimension, int(float64(width)*scale)))
		newHeight = max(1, min(maxDimension, int(float64(height)*scale)))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), decoded, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		log.Warnf("Failed to encode resized image, sending original: %v", err)
		return img
	}

	log.WithFields(log.Fields{
		"format":      format,
		"orientation": orientation,
		"original":    fmt.Sprintf("%dx%d", width, height),
		"resized":     fmt.Sprintf("%dx%d", newWidth, newHeight),
		"bytes_in":    len(img.Data),
		"bytes_out":   buf.Len(),
		"role":        img.Role,
	}).Debug("image.prepare.resized")

	return models.ImagePayload{
		Data:      buf.Bytes(),
		MediaType: "image/jpeg",
		Role:      img.Role,
	}
}

// Orientation reads the EXIF orientation tag, 1 when absent.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// CorrectOrientation rotates or flips img so it displays upright for the
// given EXIF orientation value.
func CorrectOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Orientations 5-8 swap the axes
	dstW, dstH := w, h
	if orientation >= 5 {
		dstW, dstH = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2: // flip horizontal
				dx, dy = w-1-x, y
			case 3: // rotate 180
				dx, dy = w-1-x, h-1-y
			case 4: // flip vertical
				dx, dy = x, h-1-y
			case 5: // transpose
				dx, dy = y, x
			case 6: // rotate 90 clockwise
				dx, dy = h-1-y, x
			case 7: // transverse
				dx, dy = h-1-y, w-1-x
			case 8: // rotate 90 counter-clockwise
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}
