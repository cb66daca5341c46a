package detect

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	t.Run("downsizes wide images", func(t *testing.T) {
		img, err := Normalize(encodePNG(t, 1600, 400))
		require.NoError(t, err)
		assert.Equal(t, 800, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())
	})

	t.Run("keeps small images", func(t *testing.T) {
		img, err := Normalize(encodePNG(t, 320, 240))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())
	})

	t.Run("rejects non-images", func(t *testing.T) {
		_, err := Normalize([]byte("definitely not a png"))
		assert.ErrorIs(t, err, ErrUnsupportedImage)
	})
}

func TestStub(t *testing.T) {
	s := NewStub()
	got, err := s.Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato", "cheese", "onion"}, got)

	got[0] = "changed"
	again, _ := s.Detect(context.Background(), nil)
	assert.Equal(t, "tomato", again[0])

	custom, err := NewStub("rice").Detect(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"rice"}, custom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Detect(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ImageHash(nil))
	assert.Equal(t, ImageHash([]byte("a")), ImageHash([]byte("a")))
	assert.NotEqual(t, ImageHash([]byte("a")), ImageHash([]byte("b")))
}
