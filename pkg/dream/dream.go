// Package dream decodes Furcadia dream maps (.map files): a text header of
// key=value lines closed by BODY, followed by little-endian tile layers.
package dream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
)

const (
	DefaultWidth  = 52
	DefaultHeight = 100

	// maxHeaderLines bounds the key=value lines read before BODY
	maxHeaderLines = 32
	// minSize is "MAP V##.## Furcadia\nBODY\n"
	minSize = 25
)

var (
	ErrNotADream         = errors.New("not a dream map")
	ErrNoBody            = errors.New("map has no body")
	ErrBadHeader         = errors.New("bad header value")
	ErrTruncated         = errors.New("map body truncated")
	ErrCipherUnavailable = transform.ErrCipherUnavailable
	ErrIndexOutOfRange   = errors.New("tile out of range")
)

// Cipher decodes an encoded layer in place of the plain little-endian
// bytes. legacy selects the scheme used by maps of version 1.10 and older.
type Cipher interface {
	DecodeLayer(layer []byte, width, height int, legacy bool) ([]byte, error)
}

// Tile is one cell of the map
type Tile struct {
	Floor    uint16 `json:"floor" yaml:"floor"`
	Object   uint16 `json:"object" yaml:"object"`
	NEWall   uint8  `json:"ne_wall" yaml:"ne_wall"`
	NWWall   uint8  `json:"nw_wall" yaml:"nw_wall"`
	Region   uint16 `json:"region" yaml:"region"`
	Effect   uint16 `json:"effect" yaml:"effect"`
	Lighting uint16 `json:"lighting" yaml:"lighting"`
	Ambience uint16 `json:"ambience" yaml:"ambience"`
}

// Version is the MAP V<major>.<minor> header version
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
}

// AtLeast reports whether v is major.minor or newer
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string { return fmt.Sprintf("%d.%02d", v.Major, v.Minor) }

// Dream is a decoded map
type Dream struct {
	Version          Version           `json:"version" yaml:"version"`
	Name             string            `json:"name" yaml:"name"`
	Width            int               `json:"width" yaml:"width"`
	Height           int               `json:"height" yaml:"height"`
	Revision         uint32            `json:"revision" yaml:"revision"`
	Encoded          bool              `json:"encoded" yaml:"encoded"`
	Patcht           bool              `json:"patcht" yaml:"patcht"`
	Patchs           string            `json:"patchs,omitempty" yaml:"patchs,omitempty"`
	SFXLayerMode     string            `json:"sfx_layer_mode,omitempty" yaml:"sfx_layer_mode,omitempty"`
	SFXOpacity       uint8             `json:"sfx_opacity" yaml:"sfx_opacity"`
	Rating           string            `json:"rating,omitempty" yaml:"rating,omitempty"`
	SwearFilter      uint8             `json:"swear_filter" yaml:"swear_filter"`
	NoLoad           bool              `json:"no_load" yaml:"no_load"`
	AllowJS          bool              `json:"allow_js" yaml:"allow_js"`
	AllowLF          bool              `json:"allow_lf" yaml:"allow_lf"`
	AllowFURL        bool              `json:"allow_furl" yaml:"allow_furl"`
	AllowShouts      bool              `json:"allow_shouts" yaml:"allow_shouts"`
	AllowLarge       bool              `json:"allow_large" yaml:"allow_large"`
	NoWho            bool              `json:"no_who" yaml:"no_who"`
	ForceSittable    bool              `json:"force_sittable" yaml:"force_sittable"`
	NoTab            bool              `json:"no_tab" yaml:"no_tab"`
	NoNovelty        bool              `json:"no_novelty" yaml:"no_novelty"`
	Allow32BitArt    bool              `json:"allow_32bit_art" yaml:"allow_32bit_art"`
	IsModern         bool              `json:"is_modern" yaml:"is_modern"`
	ParentalControls bool              `json:"parental_controls" yaml:"parental_controls"`
	Extra            map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	Tiles []Tile `json:"-" yaml:"-"`
}

// Options configures map decoding
type Options struct {
	Logger hclog.Logger
	Cipher Cipher
}

// Open reads the map at path. The default name is the lower-cased file
// name, overridden by a name= header line.
func Open(path string, opts Options) (*Dream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Decode(data, strings.ToLower(filepath.Base(path)), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Decode parses a whole map held in data
func Decode(data []byte, name string, opts Options) (*Dream, error) {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if len(data) < minSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrNotADream, len(data))
	}

	d := &Dream{Name: name, Width: DefaultWidth, Height: DefaultHeight}
	br := bufio.NewReader(bytes.NewReader(data))

	first, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotADream, err)
	}
	if _, err := fmt.Sscanf(first, "MAP V%d.%d Furcadia", &d.Version.Major, &d.Version.Minor); err != nil {
		return nil, fmt.Errorf("%w: first line %q", ErrNotADream, first)
	}

	if err := d.readHeader(br, opts.Logger); err != nil {
		return nil, err
	}
	opts.Logger.Debug("🗺️ Dream header read",
		"version", d.Version,
		"name", d.Name,
		"width", d.Width,
		"height", d.Height,
		"encoded", d.Encoded)

	body, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	if err := d.readBody(body, opts); err != nil {
		return nil, err
	}
	return d, nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (d *Dream) readHeader(br *bufio.Reader, logger hclog.Logger) error {
	for i := 0; i < maxHeaderLines; i++ {
		line, err := readLine(br)
		if err != nil {
			return ErrNoBody
		}
		if line == "BODY" {
			return nil
		}

		key, value := line, ""
		if at := strings.LastIndex(line, "="); at >= 0 {
			key, value = line[:at], line[at+1:]
		}
		if err := d.set(strings.ToLower(key), value, logger); err != nil {
			return err
		}
	}
	return ErrNoBody
}

func (d *Dream) set(key, value string, logger hclog.Logger) error {
	var err error
	num := func(bits int) uint64 {
		var n uint64
		if err == nil {
			n, err = strconv.ParseUint(strings.TrimSpace(value), 10, bits)
		}
		return n
	}
	flag := func() bool { return num(32) != 0 }

	switch key {
	case "width":
		d.Width = int(num(16))
	case "height":
		d.Height = int(num(16))
	case "revision":
		d.Revision = uint32(num(32))
	case "encoded":
		d.Encoded = flag()
	case "patcht":
		d.Patcht = flag()
	case "patchs":
		d.Patchs = value
	case "sfxlayermode":
		d.SFXLayerMode = value
	case "sfxopacity":
		d.SFXOpacity = uint8(num(8))
	case "name":
		d.Name = value
	case "rating":
		d.Rating = value
	case "swearfilter":
		d.SwearFilter = uint8(num(8))
	case "noload":
		d.NoLoad = flag()
	case "allowjs":
		d.AllowJS = flag()
	case "allowlf":
		d.AllowLF = flag()
	case "allowfurl":
		d.AllowFURL = flag()
	case "allowshouts":
		d.AllowShouts = flag()
	case "allowlarge":
		d.AllowLarge = flag()
	case "nowho":
		d.NoWho = flag()
	case "forcesittable":
		d.ForceSittable = flag()
	case "notab":
		d.NoTab = flag()
	case "nonovelty":
		d.NoNovelty = flag()
	case "allow32bitart":
		d.Allow32BitArt = flag()
	case "ismodern":
		d.IsModern = flag()
	case "parentalcontrols":
		d.ParentalControls = flag()
	default:
		logger.Debug("❓ Unknown map key", "key", key)
		if d.Extra == nil {
			d.Extra = map[string]string{}
		}
		d.Extra[key] = value
	}
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrBadHeader, key, value, err)
	}
	return nil
}

// Layers returns how many 16-bit layers the map version carries
func (d *Dream) Layers() int {
	n := 3
	if d.Version.AtLeast(1, 30) {
		n += 2
	}
	if d.Version.AtLeast(1, 50) {
		n += 2
	}
	return n
}

func (d *Dream) readBody(body []byte, opts Options) error {
	cells := d.Width * d.Height
	layerSize := cells * 2
	want := layerSize * d.Layers()
	if len(body) < want {
		return fmt.Errorf("%w: body is %d bytes, %d layers need %d", ErrTruncated, len(body), d.Layers(), want)
	}
	if d.Encoded && opts.Cipher == nil {
		return ErrCipherUnavailable
	}
	legacy := !d.Version.AtLeast(1, 11)

	layer := func(i int) ([]byte, error) {
		raw := body[i*layerSize : (i+1)*layerSize]
		if !d.Encoded {
			return raw, nil
		}
		out, err := opts.Cipher.DecodeLayer(raw, d.Width, d.Height, legacy)
		if err != nil {
			return nil, fmt.Errorf("decoding layer %d: %w", i, err)
		}
		if len(out) < layerSize {
			return nil, fmt.Errorf("%w: layer %d decoded to %d bytes", ErrTruncated, i, len(out))
		}
		return out, nil
	}
	wide := func(i int, set func(t *Tile, v uint16)) error {
		data, err := layer(i)
		if err != nil {
			return err
		}
		for c := 0; c < cells; c++ {
			set(&d.Tiles[c], binary.LittleEndian.Uint16(data[c*2:]))
		}
		return nil
	}

	d.Tiles = make([]Tile, cells)
	if err := wide(0, func(t *Tile, v uint16) { t.Floor = v }); err != nil {
		return err
	}
	if err := wide(1, func(t *Tile, v uint16) { t.Object = v }); err != nil {
		return err
	}

	walls, err := layer(2)
	if err != nil {
		return err
	}
	for c := 0; c < cells; c++ {
		d.Tiles[c].NEWall = walls[c*2]
		d.Tiles[c].NWWall = walls[c*2+1]
	}

	if d.Version.AtLeast(1, 30) {
		if err := wide(3, func(t *Tile, v uint16) { t.Region = v }); err != nil {
			return err
		}
		if err := wide(4, func(t *Tile, v uint16) { t.Effect = v }); err != nil {
			return err
		}
	}
	if d.Version.AtLeast(1, 50) {
		if err := wide(5, func(t *Tile, v uint16) { t.Lighting = v }); err != nil {
			return err
		}
		if err := wide(6, func(t *Tile, v uint16) { t.Ambience = v }); err != nil {
			return err
		}
	}
	return nil
}

// Tile returns the cell at column x, row y. Cells are stored column-major.
func (d *Dream) Tile(x, y int) (*Tile, error) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrIndexOutOfRange, x, y, d.Width, d.Height)
	}
	return &d.Tiles[d.Height*x+y], nil
}
