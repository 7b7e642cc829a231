package fox5

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// treeBuilder walks the command stream once, materialising entities as it
// descends. Each entity routine consumes commands until its LIST_END or
// until the buffer runs out; opcodes that mean nothing to that entity are
// skipped.
type treeBuilder struct {
	c      *Cursor
	logger hclog.Logger
}

// ParseCommandBlock decodes a decrypted, decompressed command block into
// the entity graph. The returned File has no image source attached.
func ParseCommandBlock(block []byte, logger hclog.Logger) (*File, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	b := &treeBuilder{c: NewCursor(block), logger: logger}
	f := &File{}
	if err := b.root(f); err != nil {
		return nil, err
	}
	return f, nil
}

// root checks the document root: a LIST_START at level 0 declaring exactly
// one entry, after the block preamble.
func (b *treeBuilder) root(f *File) error {
	if err := b.c.Skip(BlockPreamble); err != nil {
		return fmt.Errorf("command block preamble: %w", err)
	}

	cmd, err := DecodeCommand(b.c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRoot, err)
	}
	if cmd.Op != OpListStart {
		return fmt.Errorf("%w: first command is %s", ErrMalformedRoot, cmd.Op)
	}
	fields := cmd.Fields()
	level, count := fields.Uint8(), fields.Uint32()
	if err := fields.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRoot, err)
	}
	if level != RootLevel {
		return fmt.Errorf("%w: root level %d", ErrMalformedRoot, level)
	}
	if count != RootEntryCount {
		return fmt.Errorf("%w: root declares %d entries", ErrMalformedRoot, count)
	}

	b.logger.Trace("🌳 Root list found", "offset", b.c.Pos())
	return b.file(f)
}

// listStart validates a LIST_START against the level expected by the
// enclosing entity and returns the declared child count.
func (b *treeBuilder) listStart(cmd *Command, expected uint8) (int, error) {
	fields := cmd.Fields()
	level, count := fields.Uint8(), fields.Uint32()
	if err := fields.Err(); err != nil {
		return 0, err
	}
	if level != expected {
		return 0, &NestingLevelError{Expected: expected, Actual: level}
	}
	return int(count), nil
}

// reserve bounds a declared child count by the bytes left: every child
// is closed by at least a one-byte LIST_END.
func (b *treeBuilder) reserve(count int) int {
	if r := b.c.Remaining(); count > r {
		return r
	}
	return count
}

// child guards the start of the i-th declared child
func (b *treeBuilder) child(kind string, i, count int) error {
	if b.c.Done() {
		return fmt.Errorf("%s list declares %d entries, data ends after %d: %w",
			kind, count, i, &EndOfDataError{Want: 1, Remaining: 0})
	}
	return nil
}

func (b *treeBuilder) file(f *File) error {
	for !b.c.Done() {
		cmd, err := DecodeCommand(b.c)
		if err != nil {
			return err
		}
		switch cmd.Op {
		case OpListStart:
			count, err := b.listStart(cmd, FileLevel)
			if err != nil {
				return fmt.Errorf("file: %w", err)
			}
			b.logger.Debug("📂 Reading objects", "count", count)
			f.Objects = make([]Object, 0, b.reserve(count))
			for i := 0; i < count; i++ {
				if err := b.child("object", i, count); err != nil {
					return err
				}
				var obj Object
				if err := b.object(&obj); err != nil {
					return fmt.Errorf("object %d: %w", i, err)
				}
				f.Objects = append(f.Objects, obj)
			}

		case OpListEnd:
			return nil

		case OpImageList:
			images, err := imageList(cmd)
			if err != nil {
				return err
			}
			f.Images = images
			b.logger.Debug("🖼️ Image list decoded", "count", len(images))

		case OpGenerator:
			fields := cmd.Fields()
			f.Generator = fields.Uint8()
			if err := fields.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// imageList turns the image-list command into descriptors, accumulating
// each entry's offset from the compressed sizes before it.
func imageList(cmd *Command) ([]Image, error) {
	fields := cmd.Fields()
	count := int(fields.Uint32())
	if err := fields.Err(); err != nil {
		return nil, err
	}
	images := make([]Image, 0, fields.Remaining()/5)
	var offset int64
	for i := 0; i < count; i++ {
		im := Image{Offset: offset}
		im.CompressedSize = fields.Uint32()
		im.Width = fields.Uint16()
		im.Height = fields.Uint16()
		im.Format = ImageFormat(fields.Uint8())
		if err := fields.Err(); err != nil {
			return nil, err
		}
		images = append(images, im)
		offset += int64(im.CompressedSize)
	}
	return images, nil
}

func (b *treeBuilder) object(obj *Object) error {
	for !b.c.Done() {
		cmd, err := DecodeCommand(b.c)
		if err != nil {
			return err
		}
		fields := cmd.Fields()
		switch cmd.Op {
		case OpListStart:
			count, err := b.listStart(cmd, ObjectLevel)
			if err != nil {
				return err
			}
			obj.Shapes = make([]Shape, 0, b.reserve(count))
			for i := 0; i < count; i++ {
				if err := b.child("shape", i, count); err != nil {
					return err
				}
				var shape Shape
				if err := b.shape(&shape); err != nil {
					return fmt.Errorf("shape %d: %w", i, err)
				}
				obj.Shapes = append(obj.Shapes, shape)
			}

		case OpListEnd:
			return nil

		case OpAuthorRevision:
			obj.AuthorRevision = fields.Uint16()
		case OpAuthors:
			n := int(fields.Uint16())
			obj.Authors = make([]string, 0, n)
			for i := 0; i < n && fields.Err() == nil; i++ {
				obj.Authors = append(obj.Authors, fields.Text())
			}
		case OpAuthorsHash:
			n := int(fields.Uint16())
			obj.AuthorHashes = make([][]byte, 0, n)
			for i := 0; i < n && fields.Err() == nil; i++ {
				obj.AuthorHashes = append(obj.AuthorHashes, fields.Bytes())
			}
		case OpLicense:
			obj.License = License(fields.Uint8())
		case OpKeywords:
			n := int(fields.Uint16())
			obj.Keywords = make([]string, 0, n)
			for i := 0; i < n && fields.Err() == nil; i++ {
				obj.Keywords = append(obj.Keywords, fields.Text())
			}
		case OpName:
			obj.Name = fields.Text()
		case OpDescription:
			obj.Description = fields.Text()
		case OpFlags:
			obj.Flags = ObjectFlags(fields.Uint8())
		case OpURI:
			obj.URI = fields.Text()
		case OpMoreFlags:
			obj.MoreFlags = MoreFlags(fields.Uint32())
		case OpIdentifier:
			obj.ID = fields.Int32()
		case OpEditType:
			obj.EditType = fields.Uint8()
		case OpFilter:
			obj.FilterTarget = fields.Uint8()
			obj.FilterMode = fields.Uint8()
		}
		if err := fields.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) shape(shape *Shape) error {
	for !b.c.Done() {
		cmd, err := DecodeCommand(b.c)
		if err != nil {
			return err
		}
		fields := cmd.Fields()
		switch cmd.Op {
		case OpListStart:
			count, err := b.listStart(cmd, ShapeLevel)
			if err != nil {
				return err
			}
			shape.Frames = make([]Frame, 0, b.reserve(count))
			for i := 0; i < count; i++ {
				if err := b.child("frame", i, count); err != nil {
					return err
				}
				var frame Frame
				if err := b.frame(&frame); err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				shape.Frames = append(shape.Frames, frame)
			}

		case OpListEnd:
			return nil

		case OpPurpose:
			shape.Purpose = Purpose(fields.Uint8())
		case OpState:
			shape.State = ShapeState(fields.Uint8())
		case OpDirection:
			shape.Direction = Direction(fields.Uint8())
		case OpRatio:
			shape.Ratio[0] = fields.Uint8()
			shape.Ratio[1] = fields.Uint8()
		case OpKitterspeak:
			n := int(fields.Uint16())
			shape.Kitterspeak = make([]Kitterspeak, 0, n)
			for i := 0; i < n && fields.Err() == nil; i++ {
				shape.Kitterspeak = append(shape.Kitterspeak, Kitterspeak{
					Command: fields.Uint16(),
					Arg1:    fields.Int16(),
					Arg2:    fields.Int16(),
				})
			}
		}
		if err := fields.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) frame(frame *Frame) error {
	for !b.c.Done() {
		cmd, err := DecodeCommand(b.c)
		if err != nil {
			return err
		}
		fields := cmd.Fields()
		switch cmd.Op {
		case OpListStart:
			count, err := b.listStart(cmd, FrameLevel)
			if err != nil {
				return err
			}
			frame.Channels = make([]Channel, 0, b.reserve(count))
			for i := 0; i < count; i++ {
				if err := b.child("channel", i, count); err != nil {
					return err
				}
				var ch Channel
				if err := b.channel(&ch); err != nil {
					return fmt.Errorf("channel %d: %w", i, err)
				}
				frame.Channels = append(frame.Channels, ch)
			}

		case OpListEnd:
			return nil

		case OpFrameOffset:
			frame.Offset = Point{X: fields.Int16(), Y: fields.Int16()}
		case OpFurreOffset:
			frame.FurreOffset = Point{X: fields.Int16(), Y: fields.Int16()}
		case OpAttachPlugs:
			plug := AttachPlug{ID: fields.Uint16()}
			plug.Args = [3]int16{fields.Int16(), fields.Int16(), fields.Int16()}
			frame.Plugs = append(frame.Plugs, plug)
		case OpAttachSockets:
			n := int(fields.Uint16())
			for i := 0; i < n && fields.Err() == nil; i++ {
				socket := AttachSocket{ID: fields.Uint8()}
				socket.Args = [3]int16{fields.Int16(), fields.Int16(), fields.Int16()}
				frame.Sockets = append(frame.Sockets, socket)
			}
		}
		if err := fields.Err(); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) channel(ch *Channel) error {
	for !b.c.Done() {
		cmd, err := DecodeCommand(b.c)
		if err != nil {
			return err
		}
		fields := cmd.Fields()
		switch cmd.Op {
		case OpListStart:
			return fmt.Errorf("%w: channels cannot contain lists", ErrUnsupportedNesting)

		case OpListEnd:
			return nil

		case OpChannelPurpose:
			ch.Purpose = ChannelPurpose(fields.Uint16())
		case OpChannelImage:
			ch.ImageID = fields.Uint16()
		case OpChannelOffset:
			ch.Offset = Point{X: fields.Int16(), Y: fields.Int16()}
		}
		if err := fields.Err(); err != nil {
			return err
		}
	}
	return nil
}
