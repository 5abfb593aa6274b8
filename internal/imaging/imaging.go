// Package imaging validates uploaded pictures and shrinks oversized ones.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/erazemk/portfolio/internal/model"
	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored pictures.
const MaxDimension = 2048

// JPEGQuality is the compression quality for re-encoded JPEG output.
const JPEGQuality = 85

// Extensions maps accepted MIME types to their canonical file extension.
var Extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ProcessResult contains the processed picture.
type ProcessResult struct {
	Data    []byte
	MIME    string
	Ext     string
	Resized bool
}

// Process sniffs the picture format from its bytes and downscales it when
// either side exceeds MaxDimension. The output keeps the input format;
// pictures already within bounds are returned byte for byte.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	ext, ok := Extensions[detected]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image format %s (only JPEG and PNG accepted)", model.ErrInvalidInput, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", model.ErrInvalidInput, err)
	}
	result := &ProcessResult{Data: data, MIME: detected, Ext: ext}
	if cfg.Width <= MaxDimension && cfg.Height <= MaxDimension {
		return result, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", model.ErrInvalidInput, err)
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	switch detected {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", detected, err)
	}

	result.Data = buf.Bytes()
	result.Resized = true
	return result, nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio with Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
