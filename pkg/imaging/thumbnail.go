// Package imaging validates uploaded images and builds thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder
)

// ErrUnsupportedType is returned for anything that is not an allowed image
var ErrUnsupportedType = errors.New("unsupported image type")

// allowed extensions and the content types they may sniff as
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
}

// DetectType checks the extension against the sniffed content type of head
// (the first bytes of the file) and returns the content type.
func DetectType(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedType, ext)
	}
	sniffed := http.DetectContentType(head)
	for _, t := range accepted {
		if sniffed == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: content %q does not match %q", ErrUnsupportedType, sniffed, ext)
}

// Thumbnail is an encoded JPEG preview plus the original's dimensions
type Thumbnail struct {
	Data           []byte
	Width, Height  int
	OriginalWidth  int
	OriginalHeight int
}

// MakeThumbnail scales the image down to maxWidth (never up) and encodes it as JPEG
func MakeThumbnail(r io.Reader, maxWidth int) (*Thumbnail, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	ow, oh := bounds.Dx(), bounds.Dy()
	if ow == 0 || oh == 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	tw, th := ow, oh
	if maxWidth > 0 && ow > maxWidth {
		tw = maxWidth
		th = oh * maxWidth / ow
		if th < 1 {
			th = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return &Thumbnail{
		Data:           buf.Bytes(),
		Width:          tw,
		Height:         th,
		OriginalWidth:  ow,
		OriginalHeight: oh,
	}, nil
}
