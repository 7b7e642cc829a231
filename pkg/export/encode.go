package export

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// Formats lists the accepted output formats
var Formats = []string{"png", "bmp"}

// Encoder returns the bild encoder for format and the file extension it
// writes
func Encoder(format string) (imgio.Encoder, string, error) {
	switch strings.ToLower(format) {
	case "png":
		return imgio.PNGEncoder(), ".png", nil
	case "bmp":
		return imgio.BMPEncoder(), ".bmp", nil
	default:
		return nil, "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// Scale enlarges img by an integer factor without smoothing, keeping
// sprite edges sharp. Factors below 2 return img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
}

// Encode writes img to w in format
func Encode(w io.Writer, img image.Image, format string) error {
	enc, _, err := Encoder(format)
	if err != nil {
		return err
	}
	if err := enc(w, img); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}
