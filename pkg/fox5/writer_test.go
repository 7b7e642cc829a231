package fox5

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
	"github.com/ulikunitz/xz/lzma"
)

// streamWriter assembles command streams for fixtures
type streamWriter struct {
	buf bytes.Buffer
}

func newStream() *streamWriter { return &streamWriter{} }

func (w *streamWriter) u8(v uint8) *streamWriter { w.buf.WriteByte(v); return w }

func (w *streamWriter) u16(v uint16) *streamWriter {
	_ = binary.Write(&w.buf, binary.BigEndian, v)
	return w
}

func (w *streamWriter) i16(v int16) *streamWriter { return w.u16(uint16(v)) }

func (w *streamWriter) u32(v uint32) *streamWriter {
	_ = binary.Write(&w.buf, binary.BigEndian, v)
	return w
}

func (w *streamWriter) i32(v int32) *streamWriter { return w.u32(uint32(v)) }

func (w *streamWriter) text(s string) *streamWriter {
	w.u16(uint16(len(s)))
	w.buf.WriteString(s)
	return w
}

func (w *streamWriter) raw(b []byte) *streamWriter { w.buf.Write(b); return w }

func (w *streamWriter) op(o Opcode) *streamWriter { return w.u8(uint8(o)) }

func (w *streamWriter) list(level uint8, count uint32) *streamWriter {
	return w.op(OpListStart).u8(level).u32(count)
}

func (w *streamWriter) end() *streamWriter { return w.op(OpListEnd) }

func (w *streamWriter) imageList(images ...Image) *streamWriter {
	w.op(OpImageList).u32(uint32(len(images)))
	for _, im := range images {
		w.u32(im.CompressedSize).u16(im.Width).u16(im.Height).u8(uint8(im.Format))
	}
	return w
}

func (w *streamWriter) bytes() []byte { return w.buf.Bytes() }

// block prefixes the preamble and the document root
func (w *streamWriter) block() []byte {
	out := []byte{0, 0, 0, 0}
	out = append(out, byte(OpListStart), RootLevel, 0, 0, 0, RootEntryCount)
	return append(out, w.bytes()...)
}

// minimalStream is a file with a single empty object and no images
func minimalStream() *streamWriter {
	return newStream().
		list(FileLevel, 1).
		op(OpIdentifier).i32(7).
		op(OpName).text("empty").
		end().
		end()
}

// fixture describes a container to assemble
type fixture struct {
	compression CompressionKind
	encrypted   bool
	seed        [SeedSize]byte
}

// encode compresses then enciphers a payload the way containers store it
func (fx fixture) encode(t *testing.T, data []byte) []byte {
	t.Helper()

	out := append([]byte(nil), data...)
	if fx.compression == CompressionLZMA {
		var buf bytes.Buffer
		lw, err := lzma.NewWriter(&buf)
		if err != nil {
			t.Fatalf("lzma writer: %v", err)
		}
		if _, err := lw.Write(data); err != nil {
			t.Fatalf("lzma write: %v", err)
		}
		if err := lw.Close(); err != nil {
			t.Fatalf("lzma close: %v", err)
		}
		out = buf.Bytes()
	}
	if fx.encrypted {
		transform.XOR(out, fx.seed[:])
	}
	return out
}

// assemble lays out block, images, seed and footer. images must already
// be encoded; their stored sizes belong in the block's image list.
func (fx fixture) assemble(t *testing.T, block []byte, images ...[]byte) []byte {
	t.Helper()

	stored := fx.encode(t, block)
	var out bytes.Buffer
	out.Write(stored)
	for _, im := range images {
		out.Write(im)
	}
	if fx.encrypted {
		out.Write(fx.seed[:])
	}

	ft := &Footer{
		Compression:      fx.compression,
		CompressedSize:   uint32(len(stored)),
		UncompressedSize: uint32(len(block)),
	}
	if fx.encrypted {
		ft.Encryption = EncryptionEncrypted
	}
	out.Write(ft.Pack())
	return out.Bytes()
}

// countingReader records how many reads reach the source
type countingReader struct {
	r     *bytes.Reader
	reads int
}

func (c *countingReader) ReadAt(p []byte, off int64) (int, error) {
	c.reads++
	return c.r.ReadAt(p, off)
}

func newCountingReader(data []byte) *countingReader {
	return &countingReader{r: bytes.NewReader(data)}
}
