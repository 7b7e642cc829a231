// Package export turns decoded FOX5 pictures into standard images and
// writes them out as image files or archives.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
)

var (
	ErrShortPixels   = errors.New("pixel buffer shorter than image")
	ErrUnknownFormat = errors.New("unknown image format")
	ErrEmptyPalette  = errors.New("empty palette")
)

// ToImage converts a picture to an image.Image. 32-bit pictures become
// NRGBA; 8-bit pictures become Gray with the palette index as intensity.
func ToImage(pic *fox5.Picture) (image.Image, error) {
	switch pic.Format {
	case fox5.Format32Bit:
		return toNRGBA(pic)
	case fox5.Format8Bit:
		pix, err := pixels(pic)
		if err != nil {
			return nil, err
		}
		img := image.NewGray(image.Rect(0, 0, int(pic.Width), int(pic.Height)))
		copy(img.Pix, pix)
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, pic.Format)
	}
}

// ToPaletted converts an 8-bit picture using palette. 32-bit pictures are
// converted as by ToImage.
func ToPaletted(pic *fox5.Picture, palette color.Palette) (image.Image, error) {
	if pic.Format != fox5.Format8Bit {
		return ToImage(pic)
	}
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	pix, err := pixels(pic)
	if err != nil {
		return nil, err
	}
	img := image.NewPaletted(image.Rect(0, 0, int(pic.Width), int(pic.Height)), palette)
	copy(img.Pix, pix)
	return img, nil
}

func pixels(pic *fox5.Picture) ([]byte, error) {
	want := int(pic.Width) * int(pic.Height) * pic.Format.BytesPerPixel()
	if len(pic.Pixels) < want {
		return nil, fmt.Errorf("%w: image %d has %d bytes, needs %d",
			ErrShortPixels, pic.ID, len(pic.Pixels), want)
	}
	return pic.Pixels[:want], nil
}

// toNRGBA swaps the stored B,G,R,A order into R,G,B,A
func toNRGBA(pic *fox5.Picture) (*image.NRGBA, error) {
	pix, err := pixels(pic)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(pic.Width), int(pic.Height)))
	for i := 0; i+3 < len(pix); i += 4 {
		img.Pix[i+0] = pix[i+2]
		img.Pix[i+1] = pix[i+1]
		img.Pix[i+2] = pix[i+0]
		img.Pix[i+3] = pix[i+3]
	}
	return img, nil
}
