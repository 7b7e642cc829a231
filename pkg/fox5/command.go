package fox5

// field is one element of a command layout
type field uint8

const (
	fU8 field = iota
	fI8
	fU16
	fI16
	fU32
	fI32
	fText  // uint16 length + text, yields one text value
	fBytes // uint16 length + raw bytes, yields one bytes value
)

// layout describes how a command's fields are laid out after the opcode.
// A layout with a count field emits the count as a value and then repeats
// the group that many times.
type layout struct {
	head   []field
	count  field
	group  []field
	counts bool
}

func fixed(fields ...field) layout { return layout{head: fields} }

func repeated(count field, group ...field) layout {
	return layout{count: count, group: group, counts: true}
}

var layouts = map[Opcode]layout{
	// Structural
	OpNOP:       fixed(),
	OpListStart: fixed(fU8, fU32),
	OpListEnd:   fixed(),

	// File
	OpImageList: repeated(fU32, fU32, fU16, fU16, fU8),
	OpGenerator: fixed(fU8),

	// Object
	OpAuthorRevision: fixed(fU16),
	OpAuthors:        repeated(fU16, fText),
	OpAuthorsHash:    repeated(fU16, fBytes),
	OpLicense:        fixed(fU8),
	OpKeywords:       repeated(fU16, fText),
	OpName:           fixed(fText),
	OpDescription:    fixed(fText),
	OpFlags:          fixed(fU8),
	OpURI:            fixed(fText),
	OpMoreFlags:      fixed(fU32),
	OpIdentifier:     fixed(fI32),
	OpEditType:       fixed(fU8),
	OpFilter:         fixed(fU8, fU8),

	// Shape
	OpPurpose:     fixed(fU8),
	OpState:       fixed(fU8),
	OpDirection:   fixed(fU8),
	OpRatio:       fixed(fU8, fU8),
	OpKitterspeak: repeated(fU16, fU16, fI16, fI16),

	// Frame
	OpFrameOffset:   fixed(fI16, fI16),
	OpFurreOffset:   fixed(fI16, fI16),
	OpAttachPlugs:   fixed(fU16, fI16, fI16, fI16),
	OpAttachSockets: repeated(fU16, fU8, fI16, fI16, fI16),

	// Channel
	OpChannelPurpose: fixed(fU16),
	OpChannelImage:   fixed(fU16),
	OpChannelOffset:  fixed(fI16, fI16),
}

// Known reports whether op is part of the command table
func (o Opcode) Known() bool {
	_, ok := layouts[o]
	return ok
}

// Command is one opcode-tagged unit of the command stream
type Command struct {
	Op     Opcode
	Values []Value
}

// Fields returns a sequential reader over the command's values
func (c *Command) Fields() *Fields {
	return &Fields{op: c.Op, values: c.Values}
}

// DecodeCommand reads one opcode and the fields its layout calls for.
// The decoder knows nothing about nesting; it is driven by the tree builder.
func DecodeCommand(c *Cursor) (*Command, error) {
	code, err := c.Uint8()
	if err != nil {
		return nil, err
	}
	op := Opcode(code)
	l, ok := layouts[op]
	if !ok {
		return nil, &OpcodeError{Code: code}
	}

	cmd := &Command{Op: op}
	if len(l.head) > 0 {
		cmd.Values = make([]Value, 0, len(l.head))
	}
	for _, f := range l.head {
		v, err := readField(c, f)
		if err != nil {
			return nil, err
		}
		cmd.Values = append(cmd.Values, v)
	}

	if !l.counts {
		return cmd, nil
	}

	countValue, err := readField(c, l.count)
	if err != nil {
		return nil, err
	}
	count := int(countValue.num)

	// The declared count is untrusted; every entry takes at least one byte,
	// so cap the reservation by what is left in the buffer.
	reserve := count * len(l.group)
	if limit := c.Remaining(); reserve > limit {
		reserve = limit
	}
	cmd.Values = append(make([]Value, 0, 1+reserve), countValue)

	for i := 0; i < count; i++ {
		for _, f := range l.group {
			v, err := readField(c, f)
			if err != nil {
				return nil, err
			}
			cmd.Values = append(cmd.Values, v)
		}
	}
	return cmd, nil
}

func readField(c *Cursor, f field) (Value, error) {
	switch f {
	case fU8:
		v, err := c.Uint8()
		return Uint8Value(v), err
	case fI8:
		v, err := c.Int8()
		return Int8Value(v), err
	case fU16:
		v, err := c.Uint16()
		return Uint16Value(v), err
	case fI16:
		v, err := c.Int16()
		return Int16Value(v), err
	case fU32:
		v, err := c.Uint32()
		return Uint32Value(v), err
	case fI32:
		v, err := c.Int32()
		return Int32Value(v), err
	case fText:
		n, err := c.Uint16()
		if err != nil {
			return Value{}, err
		}
		s, err := c.String(int(n))
		return TextValue(s), err
	case fBytes:
		n, err := c.Uint16()
		if err != nil {
			return Value{}, err
		}
		b, err := c.Bytes(int(n))
		return BytesValue(b), err
	default:
		panic("fox5: unhandled field kind")
	}
}
