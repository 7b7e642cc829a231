package fox5

import (
	"errors"
	"fmt"

	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
)

var (
	// Container errors 📦
	ErrTooSmall      = errors.New("too small to be a FOX5 file")
	ErrNotAFox5      = errors.New("not a FOX5 file")
	ErrIOFailure     = errors.New("i/o failure")
	ErrMalformedRoot = errors.New("malformed root list")

	// Command stream errors 🧾
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrUnexpectedNesting   = errors.New("unexpected nesting level")
	ErrUnsupportedNesting  = errors.New("unsupported nesting")
	ErrFieldMismatch       = errors.New("command field mismatch")
	ErrIndexOutOfRange     = errors.New("index out of range")

	// Transform errors 🔐
	ErrUnsupportedCompression = transform.ErrUnsupportedCompression
	ErrDecompressionFailed    = transform.ErrDecompressionFailed
	ErrCipherUnavailable      = transform.ErrCipherUnavailable
	ErrSizeLimit              = transform.ErrSizeLimit
)

// EndOfDataError reports a read that would run past the end of a buffer.
type EndOfDataError struct {
	Want      int
	Remaining int
}

func (e *EndOfDataError) Error() string {
	return fmt.Sprintf("%v: need %d bytes, %d remaining", ErrUnexpectedEndOfData, e.Want, e.Remaining)
}

func (e *EndOfDataError) Unwrap() error { return ErrUnexpectedEndOfData }

// OpcodeError reports an opcode byte outside the command table.
type OpcodeError struct {
	Code uint8
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%v: 0x%02x", ErrUnknownOpcode, e.Code)
}

func (e *OpcodeError) Unwrap() error { return ErrUnknownOpcode }

// NestingLevelError reports a LIST_START whose level does not match the
// entity it appears in.
type NestingLevelError struct {
	Expected uint8
	Actual   uint8
}

func (e *NestingLevelError) Error() string {
	return fmt.Sprintf("%v: expected level %d, got %d", ErrUnexpectedNesting, e.Expected, e.Actual)
}

func (e *NestingLevelError) Unwrap() error { return ErrUnexpectedNesting }

// IndexError reports an image id outside the image list.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: image %d of %d", ErrIndexOutOfRange, e.Index, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
