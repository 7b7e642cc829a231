package fox5

import "fmt"

// Image reads and decodes image id from the image-data region. Every call
// performs its own read; wrap the File in a cache for repeated access.
// Concurrent calls are safe only if the underlying io.ReaderAt is.
func (f *File) Image(id int) (*Picture, error) {
	if id < 0 || id >= len(f.Images) {
		return nil, &IndexError{Index: id, Count: len(f.Images)}
	}
	if f.src == nil {
		return nil, fmt.Errorf("%w: image %d: file has no image source", ErrIOFailure, id)
	}

	im := f.Images[id]
	off := f.ImageStart + im.Offset
	f.logger.Trace("🖼️ Reading image",
		"id", id,
		"offset", off,
		"compressed_size", im.CompressedSize,
		"width", im.Width,
		"height", im.Height,
		"format", im.Format)

	pixels, err := f.readBlock(off, int(im.CompressedSize), im.DecodedSize())
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", id, err)
	}

	return &Picture{
		ID:     id,
		Width:  im.Width,
		Height: im.Height,
		Format: im.Format,
		Pixels: pixels,
	}, nil
}

// ImageCount returns the number of entries in the image list
func (f *File) ImageCount() int {
	return len(f.Images)
}
