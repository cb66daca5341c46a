// Package detect turns an uploaded photo into a list of ingredients.
package detect

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// MaxWidth is the width uploads are downscaled to before detection.
const MaxWidth = 800

// ErrUnsupportedImage is returned for payloads that are not JPEG or PNG.
var ErrUnsupportedImage = errors.New("unsupported image")

// Detector recognizes ingredients in an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]string, error)
}

// Stub is a placeholder Detector that ignores the image and reports a fixed
// pantry. It stands in until a vision model is wired.
type Stub struct {
	ingredients []string
}

// NewStub returns a Stub reporting ingredients, or a default set when none are given.
func NewStub(ingredients ...string) *Stub {
	if len(ingredients) == 0 {
		ingredients = []string{"tomato", "cheese", "onion"}
	}
	return &Stub{ingredients: ingredients}
}

// Detect returns the stub's fixed list.
func (s *Stub) Detect(ctx context.Context, _ image.Image) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s.ingredients))
	copy(out, s.ingredients)
	return out, nil
}

// Normalize decodes data and downsizes it to MaxWidth, keeping the aspect ratio.
func Normalize(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	if img.Bounds().Dx() > MaxWidth {
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}
	return img, nil
}

// ImageHash calculates the SHA256 hash of the image data.
func ImageHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
