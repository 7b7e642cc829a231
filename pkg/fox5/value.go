package fox5

import "fmt"

// Kind tags the type carried by a Value
type Kind uint8

const (
	KindUint8 Kind = iota
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindText
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindInt8:
		return "int8"
	case KindUint16:
		return "uint16"
	case KindInt16:
		return "int16"
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one decoded command field. Integers keep their raw bit pattern
// in num; signed kinds reinterpret it.
type Value struct {
	Kind Kind
	num  uint32
	text string
	raw  []byte
}

func Uint8Value(v uint8) Value   { return Value{Kind: KindUint8, num: uint32(v)} }
func Int8Value(v int8) Value     { return Value{Kind: KindInt8, num: uint32(uint8(v))} }
func Uint16Value(v uint16) Value { return Value{Kind: KindUint16, num: uint32(v)} }
func Int16Value(v int16) Value   { return Value{Kind: KindInt16, num: uint32(uint16(v))} }
func Uint32Value(v uint32) Value { return Value{Kind: KindUint32, num: v} }
func Int32Value(v int32) Value   { return Value{Kind: KindInt32, num: uint32(v)} }
func TextValue(v string) Value   { return Value{Kind: KindText, text: v} }
func BytesValue(v []byte) Value  { return Value{Kind: KindBytes, raw: v} }

// Interface returns the value as its natural Go type
func (v Value) Interface() any {
	switch v.Kind {
	case KindUint8:
		return uint8(v.num)
	case KindInt8:
		return int8(uint8(v.num))
	case KindUint16:
		return uint16(v.num)
	case KindInt16:
		return int16(uint16(v.num))
	case KindUint32:
		return v.num
	case KindInt32:
		return int32(v.num)
	case KindText:
		return v.text
	case KindBytes:
		return v.raw
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.Kind == KindBytes {
		return fmt.Sprintf("%x", v.raw)
	}
	return fmt.Sprint(v.Interface())
}

// Fields reads the values of one command in the order they were written.
// The first mismatch sticks: later reads return zero values and Err
// reports what went wrong.
type Fields struct {
	op     Opcode
	values []Value
	next   int
	err    error
}

func (f *Fields) take(kind Kind) (Value, bool) {
	if f.err != nil {
		return Value{}, false
	}
	if f.next >= len(f.values) {
		f.err = fmt.Errorf("%w: %s has %d fields, wanted %s at %d",
			ErrFieldMismatch, f.op, len(f.values), kind, f.next)
		return Value{}, false
	}
	v := f.values[f.next]
	if v.Kind != kind {
		f.err = fmt.Errorf("%w: %s field %d is %s, wanted %s",
			ErrFieldMismatch, f.op, f.next, v.Kind, kind)
		return Value{}, false
	}
	f.next++
	return v, true
}

func (f *Fields) Uint8() uint8 {
	v, _ := f.take(KindUint8)
	return uint8(v.num)
}

func (f *Fields) Int8() int8 {
	v, _ := f.take(KindInt8)
	return int8(uint8(v.num))
}

func (f *Fields) Uint16() uint16 {
	v, _ := f.take(KindUint16)
	return uint16(v.num)
}

func (f *Fields) Int16() int16 {
	v, _ := f.take(KindInt16)
	return int16(uint16(v.num))
}

func (f *Fields) Uint32() uint32 {
	v, _ := f.take(KindUint32)
	return v.num
}

func (f *Fields) Int32() int32 {
	v, _ := f.take(KindInt32)
	return int32(v.num)
}

func (f *Fields) Text() string {
	v, _ := f.take(KindText)
	return v.text
}

func (f *Fields) Bytes() []byte {
	v, _ := f.take(KindBytes)
	return v.raw
}

// Remaining returns how many values have not been read yet
func (f *Fields) Remaining() int {
	return len(f.values) - f.next
}

// Err returns the first mismatch, if any
func (f *Fields) Err() error {
	return f.err
}
