package fox5

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
)

// File is the root of a decoded container. It owns the image list, the
// objects, and the source the image blobs are read from.
type File struct {
	Compression CompressionKind `json:"compression" yaml:"compression"`
	Encryption  EncryptionKind  `json:"encryption" yaml:"encryption"`
	Seed        [SeedSize]byte  `json:"-" yaml:"-"`
	Generator   uint8           `json:"generator" yaml:"generator"`
	Images      []Image         `json:"images" yaml:"images"`
	Objects     []Object        `json:"objects" yaml:"objects"`

	// ImageStart is the absolute offset of the image-data region
	ImageStart int64 `json:"image_start" yaml:"image_start"`

	src           io.ReaderAt
	dataEnd       int64 // first byte after the image-data region
	closer        io.Closer
	cipher        transform.Cipher
	decompressors *transform.Registry
	logger        hclog.Logger
}

// Image describes one blob in the image-data region. Offset is relative to
// the start of the region and is accumulated from the preceding entries'
// compressed sizes; it is not stored in the file.
type Image struct {
	Offset         int64       `json:"offset" yaml:"offset"`
	CompressedSize uint32      `json:"compressed_size" yaml:"compressed_size"`
	Width          uint16      `json:"width" yaml:"width"`
	Height         uint16      `json:"height" yaml:"height"`
	Format         ImageFormat `json:"format" yaml:"format"`
}

// DecodedSize returns the pixel buffer size the blob decodes to
func (im Image) DecodedSize() int {
	return int(im.Width) * int(im.Height) * im.Format.BytesPerPixel()
}

// Object is one catalogue entry: an item, avatar, floor, and so on.
type Object struct {
	ID             int32       `json:"id" yaml:"id"`
	Name           string      `json:"name,omitempty" yaml:"name,omitempty"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
	URI            string      `json:"uri,omitempty" yaml:"uri,omitempty"`
	AuthorRevision uint16      `json:"author_revision" yaml:"author_revision"`
	Authors        []string    `json:"authors,omitempty" yaml:"authors,omitempty"`
	AuthorHashes   [][]byte    `json:"author_hashes,omitempty" yaml:"author_hashes,omitempty"`
	Keywords       []string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	License        License     `json:"license" yaml:"license"`
	EditType       uint8       `json:"edit_type" yaml:"edit_type"`
	Flags          ObjectFlags `json:"flags" yaml:"flags"`
	MoreFlags      MoreFlags   `json:"more_flags" yaml:"more_flags"`
	FilterTarget   uint8       `json:"filter_target" yaml:"filter_target"`
	FilterMode     uint8       `json:"filter_mode" yaml:"filter_mode"`
	Shapes         []Shape     `json:"shapes" yaml:"shapes"`
}

// Shape is one visual state of an object
type Shape struct {
	Purpose     Purpose       `json:"purpose" yaml:"purpose"`
	State       ShapeState    `json:"state" yaml:"state"`
	Direction   Direction     `json:"direction" yaml:"direction"`
	Ratio       [2]uint8      `json:"ratio" yaml:"ratio"`
	Kitterspeak []Kitterspeak `json:"kitterspeak,omitempty" yaml:"kitterspeak,omitempty"`
	Frames      []Frame       `json:"frames" yaml:"frames"`
}

// Kitterspeak is a scripted-behaviour line attached to a shape
type Kitterspeak struct {
	Command uint16 `json:"command" yaml:"command"`
	Arg1    int16  `json:"arg1" yaml:"arg1"`
	Arg2    int16  `json:"arg2" yaml:"arg2"`
}

// Point is a 2D pixel offset
type Point struct {
	X int16 `json:"x" yaml:"x"`
	Y int16 `json:"y" yaml:"y"`
}

// AttachPlug anchors a frame to a socket on another frame
type AttachPlug struct {
	ID   uint16   `json:"id" yaml:"id"`
	Args [3]int16 `json:"args" yaml:"args"`
}

// AttachSocket is a point other frames can plug into
type AttachSocket struct {
	ID   uint8    `json:"id" yaml:"id"`
	Args [3]int16 `json:"args" yaml:"args"`
}

// Frame is one animation step of a shape
type Frame struct {
	Offset      Point          `json:"offset" yaml:"offset"`
	FurreOffset Point          `json:"furre_offset" yaml:"furre_offset"`
	Plugs       []AttachPlug   `json:"plugs,omitempty" yaml:"plugs,omitempty"`
	Sockets     []AttachSocket `json:"sockets,omitempty" yaml:"sockets,omitempty"`
	Channels    []Channel      `json:"channels" yaml:"channels"`
}

// Channel (a "sprite") places one image of the file's image list
type Channel struct {
	Purpose ChannelPurpose `json:"purpose" yaml:"purpose"`
	ImageID uint16         `json:"image_id" yaml:"image_id"`
	Offset  Point          `json:"offset" yaml:"offset"`
}

// Picture is a decoded image blob
type Picture struct {
	ID     int         `json:"id"`
	Width  uint16      `json:"width"`
	Height uint16      `json:"height"`
	Format ImageFormat `json:"format"`
	Pixels []byte      `json:"-"`
}
