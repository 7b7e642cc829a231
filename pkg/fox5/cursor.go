package fox5

import "encoding/binary"

// Cursor is a bounds-checked sequential reader over a byte buffer.
// All integers are big-endian. A failed read leaves the position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor positioned at the start of data
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current offset
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unread bytes
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Done reports whether every byte has been consumed
func (c *Cursor) Done() bool { return c.pos >= len(c.data) }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &EndOfDataError{Want: n, Remaining: c.Remaining()}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// Uint8 reads one byte
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int8 reads one byte as a signed value
func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

// Uint16 reads a big-endian 16-bit value
func (c *Cursor) Uint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Int16 reads a big-endian 16-bit signed value
func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

// Uint32 reads a big-endian 32-bit value
func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Int32 reads a big-endian 32-bit signed value
func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// Bytes returns a copy of the next n bytes
func (c *Cursor) Bytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String reads n bytes as text
func (c *Cursor) String(n int) (string, error) {
	b, err := c.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
