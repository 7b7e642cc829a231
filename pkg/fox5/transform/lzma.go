package transform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

const (
	lzmaPropsSize       = 5
	lzmaAloneHeaderSize = 13 // properties + 8-byte little-endian size
)

// LZMAOperation decodes the LZMA "Alone" container (.lzma)
type LZMAOperation struct {
	BaseOperation
}

// NewLZMAOperation creates a new LZMA decompressor
func NewLZMAOperation() *LZMAOperation {
	return &LZMAOperation{
		BaseOperation: BaseOperation{
			OpID:   KindLZMA,
			OpName: "LZMA",
		},
	}
}

// Decompress expands an LZMA Alone stream. When targetSize is zero the size
// stored in the header is used; an all-ones header size means the stream
// runs until its end marker.
func (o *LZMAOperation) Decompress(src []byte, targetSize int) ([]byte, error) {
	if len(src) < lzmaAloneHeaderSize {
		return nil, fmt.Errorf("%w: lzma stream is %d bytes, header needs %d",
			ErrDecompressionFailed, len(src), lzmaAloneHeaderSize)
	}
	if targetSize < 0 {
		return nil, fmt.Errorf("%w: negative target size %d", ErrDecompressionFailed, targetSize)
	}
	if targetSize > MaxDecodedSize {
		return nil, fmt.Errorf("%w: target size %d: %w", ErrDecompressionFailed, targetSize, ErrSizeLimit)
	}

	if targetSize == 0 {
		size := binary.LittleEndian.Uint64(src[lzmaPropsSize:lzmaAloneHeaderSize])
		if size != ^uint64(0) {
			if size > MaxDecodedSize {
				return nil, fmt.Errorf("%w: header size %d: %w", ErrDecompressionFailed, size, ErrSizeLimit)
			}
			targetSize = int(size)
		}
	}

	lr, err := lzma.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: creating lzma reader: %v", ErrDecompressionFailed, err)
	}

	if targetSize == 0 {
		out, err := io.ReadAll(lr)
		if err != nil {
			return nil, fmt.Errorf("%w: reading lzma data: %v", ErrDecompressionFailed, err)
		}
		return out, nil
	}

	out := make([]byte, targetSize)
	if _, err := io.ReadFull(lr, out); err != nil {
		return nil, fmt.Errorf("%w: reading lzma data: %v", ErrDecompressionFailed, err)
	}
	return out, nil
}
