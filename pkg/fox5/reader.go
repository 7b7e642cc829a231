package fox5

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
)

// Options configures how a container is opened
type Options struct {
	// Logger receives parse progress; defaults to a null logger
	Logger hclog.Logger
	// Cipher decrypts encrypted containers. Without one, encrypted
	// containers fail with ErrCipherUnavailable.
	Cipher transform.Cipher
	// Decompressors maps compression kinds to decoders; defaults to
	// transform.Default
	Decompressors *transform.Registry
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	if o.Decompressors == nil {
		o.Decompressors = transform.Default
	}
	return o
}

// Open opens and parses the container at path with default options
func Open(path string) (*File, error) {
	return OpenWithOptions(path, Options{})
}

// OpenWithOptions opens and parses the container at path. The returned
// File keeps the file open for image reads until Close is called.
func OpenWithOptions(path string, opts Options) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	f, err := Parse(fh, info.Size(), opts)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.closer = fh
	return f, nil
}

// Parse decodes the container held by r, which must be size bytes long.
// The entity graph is built in one pass; image blobs stay in r and are
// read by Image.
func Parse(r io.ReaderAt, size int64, opts Options) (*File, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	ft, err := ReadFooter(r, size)
	if err != nil {
		return nil, err
	}
	logger.Debug("🦊 Footer read",
		"compression", ft.Compression,
		"encryption", ft.Encryption,
		"compressed_size", ft.CompressedSize,
		"uncompressed_size", ft.UncompressedSize)

	var seed [SeedSize]byte
	dataEnd := size - FooterSize
	if ft.Encrypted() {
		dataEnd = size - SeedOffset
		if seed, err = ReadSeed(r, size); err != nil {
			return nil, err
		}
		if opts.Cipher == nil {
			return nil, fmt.Errorf("command block: %w", ErrCipherUnavailable)
		}
	}

	if int64(ft.CompressedSize) > size-FooterSize {
		return nil, fmt.Errorf("%w: command block of %d bytes in a %d byte file",
			ErrIOFailure, ft.CompressedSize, size)
	}

	shell := &File{
		Compression:   ft.Compression,
		Encryption:    ft.Encryption,
		Seed:          seed,
		ImageStart:    ft.ImageStart(),
		src:           r,
		dataEnd:       dataEnd,
		cipher:        opts.Cipher,
		decompressors: opts.Decompressors,
		logger:        logger,
	}

	block, err := shell.readBlock(0, int(ft.CompressedSize), int(ft.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("command block: %w", err)
	}
	logger.Trace("🧾 Command block decoded", "size", len(block))

	f, err := ParseCommandBlock(block, logger)
	if err != nil {
		return nil, err
	}
	shell.Generator = f.Generator
	shell.Images = f.Images
	shell.Objects = f.Objects

	logger.Debug("✅ Container parsed", "images", len(shell.Images), "objects", len(shell.Objects))
	return shell, nil
}

// readBlock reads stored bytes at off into the prefix of a buffer sized
// for the decoded payload, then deciphers and decompresses the whole
// buffer. Sizes are checked against the source before allocating.
func (f *File) readBlock(off int64, stored, decoded int) ([]byte, error) {
	if off < 0 || off+int64(stored) > f.dataEnd {
		return nil, fmt.Errorf("%w: %d bytes at %d run past the data end at %d: %w",
			ErrIOFailure, stored, off, f.dataEnd, io.ErrUnexpectedEOF)
	}
	if decoded > transform.MaxDecodedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrSizeLimit, decoded)
	}

	total := decoded
	if stored > total {
		total = stored
	}
	buf := make([]byte, total)

	n, err := f.src.ReadAt(buf[:stored], off)
	if n < stored {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: read %d of %d bytes at %d: %w", ErrIOFailure, n, stored, off, err)
	}

	if f.Encryption != EncryptionNone {
		if f.cipher == nil {
			return nil, ErrCipherUnavailable
		}
		if err := f.cipher.Decrypt(buf, stored, total, f.Seed); err != nil {
			return nil, fmt.Errorf("decrypt: %w", err)
		}
	}

	return f.decompressors.Decompress(uint8(f.Compression), buf, decoded)
}

// Close releases the underlying file, if Open created it
func (f *File) Close() error {
	if f.closer != nil {
		err := f.closer.Close()
		f.closer = nil
		return err
	}
	return nil
}
