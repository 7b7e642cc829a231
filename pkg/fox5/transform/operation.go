// Package transform holds the block transforms applied to FOX5 payloads
// before they can be decoded: decompression keyed by the container's
// compression kind, and decryption keyed by the container's cipher seed.
package transform

import (
	"errors"
	"fmt"
)

// Compression kinds as stored in the FOX5 footer
const (
	KindNone = 0x00
	KindZlib = 0x01 // tagged by the format, never produced by known writers
	KindLZMA = 0x02
)

// MaxDecodedSize bounds any decoded payload. Larger sizes come from
// corrupt headers and are refused before allocating.
const MaxDecodedSize = 1 << 30

var (
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrDecompressionFailed    = errors.New("decompression failed")
	ErrCipherUnavailable      = errors.New("cipher unavailable")
	ErrSizeLimit              = errors.New("decoded size exceeds limit")
)

// CompressionError reports a compression kind with no registered decompressor.
type CompressionError struct {
	Kind uint8
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupportedCompression, GetName(e.Kind))
}

func (e *CompressionError) Unwrap() error { return ErrUnsupportedCompression }

// Decompressor reverses one compression kind.
type Decompressor interface {
	// ID returns the compression kind handled by this decompressor
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Decompress expands src into targetSize bytes. A targetSize of zero
	// lets the decompressor take the size from the stream itself.
	Decompress(src []byte, targetSize int) ([]byte, error)
}

// Cipher decrypts a payload in place. Only the first compressedLen bytes of
// buf come from the file; totalLen is the decoded size the buffer was
// allocated for.
type Cipher interface {
	Decrypt(buf []byte, compressedLen, totalLen int, seed [16]byte) error
}

// BaseOperation provides common functionality for decompressors
type BaseOperation struct {
	OpID   uint8
	OpName string
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

// Registry maps compression kinds to decompressors
type Registry struct {
	ops map[uint8]Decompressor
}

// NewRegistry creates a registry holding the given decompressors
func NewRegistry(ops ...Decompressor) *Registry {
	r := &Registry{ops: make(map[uint8]Decompressor, len(ops))}
	for _, op := range ops {
		r.Register(op)
	}
	return r
}

// Default knows the kinds FOX5 readers are expected to handle.
var Default = NewRegistry(NewIdentityOperation(), NewLZMAOperation())

// Register registers a decompressor, replacing any previous one for its kind
func (r *Registry) Register(op Decompressor) {
	r.ops[op.ID()] = op
}

// Lookup retrieves the decompressor for a compression kind
func (r *Registry) Lookup(kind uint8) (Decompressor, error) {
	op, ok := r.ops[kind]
	if !ok {
		return nil, &CompressionError{Kind: kind}
	}
	return op, nil
}

// Decompress looks up kind and applies it to src
func (r *Registry) Decompress(kind uint8, src []byte, targetSize int) ([]byte, error) {
	op, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	out, err := op.Decompress(src, targetSize)
	if err != nil {
		return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
	}
	return out, nil
}

// GetName returns the name of a compression kind
func GetName(kind uint8) string {
	switch kind {
	case KindNone:
		return "none"
	case KindZlib:
		return "zlib"
	case KindLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// IdentityOperation passes stored bytes through unchanged
type IdentityOperation struct {
	BaseOperation
}

// NewIdentityOperation creates the pass-through decompressor
func NewIdentityOperation() *IdentityOperation {
	return &IdentityOperation{
		BaseOperation: BaseOperation{
			OpID:   KindNone,
			OpName: "NONE",
		},
	}
}

// Decompress returns src as is. The caller already sized it.
func (o *IdentityOperation) Decompress(src []byte, _ int) ([]byte, error) {
	return src, nil
}
