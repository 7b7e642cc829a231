package fox5

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Footer is the fixed 20-byte block that closes every container
type Footer struct {
	Compression      CompressionKind // 0=none, 1=zlib, 2=lzma
	Encryption       EncryptionKind  // 0=none, 1=encrypted
	Reserved         [2]byte
	CompressedSize   uint32 // Command block size on disk
	UncompressedSize uint32 // Command block size once decoded
}

// Encrypted reports whether the command block and images are enciphered
func (ft *Footer) Encrypted() bool {
	return ft.Encryption != EncryptionNone
}

// ImageStart returns the absolute offset of the image-data region, which
// begins right after the command block.
func (ft *Footer) ImageStart() int64 {
	return int64(ft.CompressedSize)
}

// Pack serializes the footer to bytes
func (ft *Footer) Pack() []byte {
	buf := make([]byte, FooterSize)
	buf[0] = uint8(ft.Compression)
	buf[1] = uint8(ft.Encryption)
	copy(buf[2:4], ft.Reserved[:])
	binary.BigEndian.PutUint32(buf[4:8], ft.CompressedSize)
	binary.BigEndian.PutUint32(buf[8:12], ft.UncompressedSize)
	copy(buf[12:20], Magic)
	return buf
}

// Unpack deserializes the footer from bytes
func (ft *Footer) Unpack(data []byte) error {
	if len(data) != FooterSize {
		return fmt.Errorf("invalid footer size: %d", len(data))
	}
	if string(data[12:20]) != Magic {
		return fmt.Errorf("%w: magic %q", ErrNotAFox5, data[12:20])
	}

	ft.Compression = CompressionKind(data[0])
	ft.Encryption = EncryptionKind(data[1])
	copy(ft.Reserved[:], data[2:4])
	ft.CompressedSize = binary.BigEndian.Uint32(data[4:8])
	ft.UncompressedSize = binary.BigEndian.Uint32(data[8:12])
	return nil
}

// ReadFooter reads and validates the footer of a container of the given size
func ReadFooter(r io.ReaderAt, size int64) (*Footer, error) {
	if size < FooterSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, size)
	}

	buf := make([]byte, FooterSize)
	if _, err := r.ReadAt(buf, size-FooterSize); err != nil {
		return nil, fmt.Errorf("%w: reading footer: %w", ErrIOFailure, err)
	}

	ft := &Footer{}
	if err := ft.Unpack(buf); err != nil {
		return nil, err
	}
	return ft, nil
}

// ReadSeed reads the 16-byte seed stored right before the footer
func ReadSeed(r io.ReaderAt, size int64) ([SeedSize]byte, error) {
	var seed [SeedSize]byte
	if size < SeedOffset {
		return seed, fmt.Errorf("%w: %d bytes, encrypted files need %d", ErrTooSmall, size, SeedOffset)
	}
	if _, err := r.ReadAt(seed[:], size-SeedOffset); err != nil {
		return seed, fmt.Errorf("%w: reading seed: %w", ErrIOFailure, err)
	}
	return seed, nil
}
