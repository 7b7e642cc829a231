// Package fox5 decodes FOX5 asset containers: a footer-described, optionally
// compressed and encrypted command stream describing objects, shapes,
// frames and channels, followed by a region of image blobs that are decoded
// on demand.
package fox5

import "fmt"

// Core format constants that never change
const (
	// Magic closes every container footer
	Magic = "FOX5.1.1"

	// FooterSize covers compression, encryption, 2 reserved bytes, the two
	// command block sizes and the magic.
	FooterSize = 20
	SeedSize   = 16
	// SeedOffset is measured back from end of file; the seed sits right
	// before the footer.
	SeedOffset = FooterSize + SeedSize
	// BlockPreamble bytes are skipped at the start of the command block.
	BlockPreamble = 4

	RootLevel      = 0
	FileLevel      = 1
	ObjectLevel    = 2
	ShapeLevel     = 3
	FrameLevel     = 4
	RootEntryCount = 1
)

// Opcode identifies a command in the command stream
type Opcode uint8

const (
	// Shared
	OpNOP       Opcode = 0x00
	OpListStart Opcode = 'L'
	OpListEnd   Opcode = '<'

	// File
	OpGenerator Opcode = 'g'
	OpImageList Opcode = 'S'

	// Object
	OpAuthorRevision Opcode = 'r'
	OpAuthors        Opcode = 'a'
	OpAuthorsHash    Opcode = 'h'
	OpLicense        Opcode = 'l'
	OpKeywords       Opcode = 'k'
	OpName           Opcode = 'n'
	OpDescription    Opcode = 'd'
	OpFlags          Opcode = '!'
	OpURI            Opcode = 'P'
	OpMoreFlags      Opcode = '?'
	OpIdentifier     Opcode = 'i'
	OpEditType       Opcode = 't'
	OpFilter         Opcode = 'F'

	// Shape
	OpPurpose     Opcode = 'p'
	OpState       Opcode = 's'
	OpDirection   Opcode = 'D'
	OpRatio       Opcode = 'R'
	OpKitterspeak Opcode = 'K'

	// Frame
	OpFrameOffset   Opcode = 'o'
	OpFurreOffset   Opcode = 'f'
	OpAttachPlugs   Opcode = 'T'
	OpAttachSockets Opcode = 'U'

	// Channel
	OpChannelPurpose Opcode = 'C'
	OpChannelImage   Opcode = 'c'
	OpChannelOffset  Opcode = 'O'
)

var opcodeNames = map[Opcode]string{
	OpNOP:            "NOP",
	OpListStart:      "LIST_START",
	OpListEnd:        "LIST_END",
	OpGenerator:      "FILE_GENERATOR",
	OpImageList:      "FILE_IMAGE_LIST",
	OpAuthorRevision: "OBJECT_AUTHOR_REVISION",
	OpAuthors:        "OBJECT_AUTHORS",
	OpAuthorsHash:    "OBJECT_AUTHORS_HASH",
	OpLicense:        "OBJECT_LICENSE",
	OpKeywords:       "OBJECT_KEYWORDS",
	OpName:           "OBJECT_NAME",
	OpDescription:    "OBJECT_DESCRIPTION",
	OpFlags:          "OBJECT_FLAGS",
	OpURI:            "OBJECT_URI",
	OpMoreFlags:      "OBJECT_MORE_FLAGS",
	OpIdentifier:     "OBJECT_IDENTIFIER",
	OpEditType:       "OBJECT_EDIT_TYPE",
	OpFilter:         "OBJECT_FILTER",
	OpPurpose:        "SHAPE_PURPOSE",
	OpState:          "SHAPE_STATE",
	OpDirection:      "SHAPE_DIRECTION",
	OpRatio:          "SHAPE_RATIO",
	OpKitterspeak:    "SHAPE_KITTERSPEAK",
	OpFrameOffset:    "FRAME_OFFSET",
	OpFurreOffset:    "FRAME_FURRE_OFFSET",
	OpAttachPlugs:    "FRAME_ATTACH_PLUGS",
	OpAttachSockets:  "FRAME_ATTACH_SOCKETS",
	OpChannelPurpose: "CHANNEL_PURPOSE",
	OpChannelImage:   "CHANNEL_IMAGE_ID",
	OpChannelOffset:  "CHANNEL_OFFSET",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%02x", uint8(o))
}
