package fox5

import (
	"fmt"

	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
)

func enumName(names map[uint8]string, v uint8) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", v)
}

// CompressionKind selects the decompressor for the command block and images
type CompressionKind uint8

const (
	CompressionNone CompressionKind = transform.KindNone
	CompressionZlib CompressionKind = transform.KindZlib
	CompressionLZMA CompressionKind = transform.KindLZMA
)

func (k CompressionKind) String() string { return transform.GetName(uint8(k)) }

func (k CompressionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// EncryptionKind tells whether payloads pass through the cipher
type EncryptionKind uint8

const (
	EncryptionNone      EncryptionKind = 0
	EncryptionEncrypted EncryptionKind = 1
)

var encryptionNames = map[uint8]string{0: "none", 1: "encrypted"}

func (k EncryptionKind) String() string { return enumName(encryptionNames, uint8(k)) }

func (k EncryptionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ImageFormat is the pixel layout of a decoded image
type ImageFormat uint8

const (
	Format8Bit  ImageFormat = 0 // palette index per pixel
	Format32Bit ImageFormat = 1 // B, G, R, A per pixel
)

var formatNames = map[uint8]string{0: "8bit", 1: "32bit"}

func (f ImageFormat) String() string { return enumName(formatNames, uint8(f)) }

func (f ImageFormat) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// BytesPerPixel returns 4 for 32-bit images and 1 otherwise
func (f ImageFormat) BytesPerPixel() int {
	if f == Format32Bit {
		return 4
	}
	return 1
}

// License is the distribution licence declared by an object's author
type License uint8

const (
	LicenseStandard    License = 0
	LicenseFreedom     License = 1
	LicenseLimited     License = 2
	LicenseExclusive   License = 3
	LicensePrivate     License = 4
	LicenseConditional License = 5
)

var licenseNames = map[uint8]string{
	0: "standard",
	1: "freedom",
	2: "limited",
	3: "exclusive",
	4: "private",
	5: "conditional",
}

func (l License) String() string { return enumName(licenseNames, uint8(l)) }

func (l License) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Purpose is what a shape is used for
type Purpose uint8

const (
	PurposeUnspecified Purpose = 0
	PurposeMenuIcon    Purpose = 1
	PurposeUIButton    Purpose = 2
	PurposeButler      Purpose = 3
	PurposePortrait    Purpose = 4
	PurposeDSButton    Purpose = 5
	PurposeAvatar      Purpose = 11
	PurposeFloor       Purpose = 21
	PurposeItem        Purpose = 22
	PurposeWall        Purpose = 23
	PurposeRegion      Purpose = 24
	PurposeEffect      Purpose = 25
	PurposePadItem     Purpose = 28
	PurposePortalItem  Purpose = 29
	PurposeSpecitag    Purpose = 35
	PurposeLighting    Purpose = 41
	PurposeAmbience    Purpose = 42
)

var purposeNames = map[uint8]string{
	0:  "unspecified",
	1:  "menu_icon",
	2:  "ui_button",
	3:  "butler",
	4:  "portrait",
	5:  "ds_button",
	11: "avatar",
	21: "floor",
	22: "item",
	23: "wall",
	24: "region",
	25: "effect",
	28: "pad_item",
	29: "portal_item",
	35: "specitag",
	41: "lighting",
	42: "ambience",
}

func (p Purpose) String() string { return enumName(purposeNames, uint8(p)) }

func (p Purpose) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Direction is the facing of a shape
type Direction uint8

const (
	DirectionUnspecified Direction = 0
	DirectionSW          Direction = 1
	DirectionS           Direction = 2
	DirectionSE          Direction = 3
	DirectionW           Direction = 4
	DirectionNone        Direction = 5
	DirectionE           Direction = 6
	DirectionNW          Direction = 7
	DirectionLeft        Direction = 7
	DirectionN           Direction = 8
	DirectionNE          Direction = 9
	DirectionRight       Direction = 9
	DirectionUp          Direction = 10
	DirectionDown        Direction = 11
)

var directionNames = map[uint8]string{
	0:  "unspecified",
	1:  "SW",
	2:  "S",
	3:  "SE",
	4:  "W",
	5:  "none",
	6:  "E",
	7:  "NW",
	8:  "N",
	9:  "NE",
	10: "up",
	11: "down",
}

func (d Direction) String() string { return enumName(directionNames, uint8(d)) }

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// ObjectFlags are the interaction bits of an object
type ObjectFlags uint8

func (f ObjectFlags) Walkable() bool  { return f&(1<<0) != 0 }
func (f ObjectFlags) Gettable() bool  { return f&(1<<1) != 0 }
func (f ObjectFlags) Sittable() bool  { return f&(1<<2) != 0 }
func (f ObjectFlags) Flyable() bool   { return f&(1<<3) != 0 }
func (f ObjectFlags) Swimmable() bool { return f&(1<<4) != 0 }
func (f ObjectFlags) Clickable() bool { return f&(1<<5) != 0 }
func (f ObjectFlags) MouseOver() bool { return f&(1<<6) != 0 }
func (f ObjectFlags) Kickable() bool  { return f&(1<<7) != 0 }

// MoreFlags are the extended bits of an object. Their meaning depends on
// the kind of object: dream pads use the DreamPad bits, avatars the
// movement bits.
type MoreFlags uint32

func (f MoreFlags) DreamPadAll() bool { return f&(1<<0) != 0 }
func (f MoreFlags) DreamPadSS() bool  { return f&(1<<1) != 0 }
func (f MoreFlags) DreamPadGS() bool  { return f&(1<<2) != 0 }
func (f MoreFlags) DreamPadLG() bool  { return f&(1<<3) != 0 }
func (f MoreFlags) DreamPadHG() bool  { return f&(1<<4) != 0 }
func (f MoreFlags) DreamPadDEP() bool { return f&(1<<5) != 0 }

func (f MoreFlags) Hopping() bool  { return f&(1<<0) != 0 }
func (f MoreFlags) Flying() bool   { return f&(1<<1) != 0 }
func (f MoreFlags) Swimming() bool { return f&(1<<2) != 0 }
func (f MoreFlags) Child() bool    { return f&(1<<3) != 0 }

// ShapeState bits mean gender on avatars and interaction on buttons
type ShapeState uint8

func (s ShapeState) Female() bool      { return s&(1<<0) != 0 }
func (s ShapeState) Male() bool        { return s&(1<<1) != 0 }
func (s ShapeState) Unspecified() bool { return s&(1<<2) != 0 }

func (s ShapeState) Clicked() bool   { return s&(1<<0) != 0 }
func (s ShapeState) MouseOver() bool { return s&(1<<1) != 0 }
func (s ShapeState) Activated() bool { return s&(1<<2) != 0 }

// ChannelPurpose packs the remap, shadow and markup flags of a channel
type ChannelPurpose uint16

func (p ChannelPurpose) Remap() bool  { return p&(1<<5) != 0 }
func (p ChannelPurpose) Shadow() bool { return p&(1<<6) != 0 }
func (p ChannelPurpose) Markup() bool { return p&(1<<7) != 0 }
