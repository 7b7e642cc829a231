package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
)

// Source decodes pictures by id
type Source interface {
	Image(id int) (*fox5.Picture, error)
}

// Options controls how pictures are written
type Options struct {
	Format  string        // png or bmp, defaults to png
	Scale   int           // integer upscale factor, 0 or 1 keeps the size
	Palette color.Palette // applied to 8-bit pictures when set
	Logger  hclog.Logger
}

// EntryName returns the name an image is exported under
func EntryName(id int, ext string) string {
	return fmt.Sprintf("image_%04d%s", id, ext)
}

// Export decodes each id from src and adds it to sink. It stops at the
// first failure.
func Export(src Source, ids []int, sink Sink, opts Options) error {
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	enc, ext, err := Encoder(opts.Format)
	if err != nil {
		return err
	}

	var total uint64
	for _, id := range ids {
		pic, err := src.Image(id)
		if err != nil {
			return err
		}

		var img image.Image
		if opts.Palette != nil {
			img, err = ToPaletted(pic, opts.Palette)
		} else {
			img, err = ToImage(pic)
		}
		if err != nil {
			return fmt.Errorf("image %d: %w", id, err)
		}
		img = Scale(img, opts.Scale)

		var buf bytes.Buffer
		if err := enc(&buf, img); err != nil {
			return fmt.Errorf("image %d: encoding %s: %w", id, opts.Format, err)
		}
		if err := sink.Add(EntryName(id, ext), buf.Bytes()); err != nil {
			return fmt.Errorf("image %d: %w", id, err)
		}
		total += uint64(buf.Len())
	}

	opts.Logger.Info("✅ Images exported",
		"count", len(ids),
		"format", opts.Format,
		"size", humanize.Bytes(total))
	return nil
}
