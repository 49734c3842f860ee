package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectType(t *testing.T) {
	data := pngBytes(t, 2, 2)

	ct, err := DetectType("photo.PNG", data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, err = DetectType("photo.jpg", data)
	assert.ErrorIs(t, err, ErrUnsupportedType, "extension and content must agree")

	_, err = DetectType("script.exe", data)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = DetectType("fake.png", []byte("<html>hi</html>"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestMakeThumbnail(t *testing.T) {
	thumb, err := MakeThumbnail(bytes.NewReader(pngBytes(t, 800, 400)), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, thumb.Width)
	assert.Equal(t, 100, thumb.Height)
	assert.Equal(t, 800, thumb.OriginalWidth)
	assert.NotEmpty(t, thumb.Data)

	small, err := MakeThumbnail(bytes.NewReader(pngBytes(t, 50, 30)), 200)
	require.NoError(t, err)
	assert.Equal(t, 50, small.Width, "never upscale")

	_, err = MakeThumbnail(bytes.NewReader([]byte("nope")), 200)
	assert.Error(t, err)
}
