package dream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Name: "dream_test", Level: hclog.Trace})
}

// buildMap writes a header and layers filled from cell-dependent values
func buildMap(version string, header []string, width, height, layers int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MAP V%s Furcadia\n", version)
	for _, line := range header {
		buf.WriteString(line + "\n")
	}
	buf.WriteString("BODY\n")

	cells := width * height
	for l := 0; l < layers; l++ {
		for c := 0; c < cells; c++ {
			_ = binary.Write(&buf, binary.LittleEndian, uint16(l*1000+c))
		}
	}
	return buf.Bytes()
}

func TestDecodeLayersByVersion(t *testing.T) {
	testCases := []struct {
		version  string
		layers   int
		regions  bool
		lighting bool
	}{
		{version: "1.10", layers: 3},
		{version: "1.30", layers: 5, regions: true},
		{version: "1.50", layers: 7, regions: true, lighting: true},
		{version: "2.00", layers: 7, regions: true, lighting: true},
	}

	for _, tc := range testCases {
		t.Run(tc.version, func(t *testing.T) {
			data := buildMap(tc.version, []string{"width=3", "height=4"}, 3, 4, tc.layers)
			d, err := Decode(data, "test.map", Options{Logger: testLogger()})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if d.Layers() != tc.layers {
				t.Errorf("Layers = %d, want %d", d.Layers(), tc.layers)
			}
			if len(d.Tiles) != 12 {
				t.Fatalf("tiles = %d", len(d.Tiles))
			}

			// Cell index for (x=2, y=1) is height*x+y = 9
			tile, err := d.Tile(2, 1)
			if err != nil {
				t.Fatal(err)
			}
			if tile.Floor != 9 || tile.Object != 1009 {
				t.Errorf("floor/object = %d/%d", tile.Floor, tile.Object)
			}
			wall := uint16(2009)
			if tile.NEWall != uint8(wall) || tile.NWWall != uint8(wall>>8) {
				t.Errorf("walls = %d/%d", tile.NEWall, tile.NWWall)
			}
			if got := tile.Region == 3009 && tile.Effect == 4009; got != tc.regions {
				t.Errorf("region/effect = %d/%d", tile.Region, tile.Effect)
			}
			if got := tile.Lighting == 5009 && tile.Ambience == 6009; got != tc.lighting {
				t.Errorf("lighting/ambience = %d/%d", tile.Lighting, tile.Ambience)
			}
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	header := []string{
		"Width=2",
		"height=1",
		"revision=42",
		"name=Allegria=Island",
		"rating=Mature",
		"allowjs=1",
		"nowho=0",
		"swearfilter=2",
		"sfxlayermode=add",
		"mystery=yes",
	}
	d, err := Decode(buildMap("1.50", header, 2, 1, 7), "file.map", Options{Logger: testLogger()})
	if err != nil {
		t.Fatal(err)
	}

	if d.Version != (Version{Major: 1, Minor: 50}) || d.Version.String() != "1.50" {
		t.Errorf("version = %v", d.Version)
	}
	if d.Width != 2 || d.Height != 1 || d.Revision != 42 {
		t.Errorf("dimensions = %dx%d rev %d", d.Width, d.Height, d.Revision)
	}
	// The value starts after the last '='
	if d.Name != "Island" {
		t.Errorf("name = %q", d.Name)
	}
	if !d.AllowJS || d.NoWho || d.SwearFilter != 2 || d.Rating != "Mature" || d.SFXLayerMode != "add" {
		t.Errorf("header = %+v", d)
	}
	if d.Extra["mystery"] != "yes" {
		t.Errorf("extra = %v", d.Extra)
	}
}

func TestDecodeDefaults(t *testing.T) {
	d, err := Decode(buildMap("1.30", nil, DefaultWidth, DefaultHeight, 5), "default.map", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Width != DefaultWidth || d.Height != DefaultHeight || d.Name != "default.map" {
		t.Errorf("defaults = %dx%d %q", d.Width, d.Height, d.Name)
	}
	if _, err := d.Tile(DefaultWidth-1, DefaultHeight-1); err != nil {
		t.Errorf("last tile: %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tooManyLines := make([]string, maxHeaderLines+1)
	for i := range tooManyLines {
		tooManyLines[i] = fmt.Sprintf("key%d=1", i)
	}

	full := buildMap("1.10", []string{"width=2", "height=2"}, 2, 2, 3)

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{name: "too small", data: []byte("MAP V1.10 Furcadia\n"), want: ErrNotADream},
		{name: "bad first line", data: []byte("NOT A MAP FILE AT ALL\nBODY\n"), want: ErrNotADream},
		{name: "no body", data: []byte("MAP V1.10 Furcadia\nwidth=1\nheight=1\n"), want: ErrNoBody},
		{name: "too many header lines", data: buildMap("1.10", tooManyLines, 1, 1, 3), want: ErrNoBody},
		{name: "bad number", data: buildMap("1.10", []string{"width=wide"}, 1, 1, 3), want: ErrBadHeader},
		{name: "short body", data: full[:len(full)-1], want: ErrTruncated},
		{name: "encoded without cipher", data: buildMap("1.10", []string{"width=1", "height=1", "encoded=1"}, 1, 1, 3), want: ErrCipherUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data, "x.map", Options{})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

// invertCipher flips every byte and records the legacy flag it was given
type invertCipher struct {
	legacy []bool
}

func (c *invertCipher) DecodeLayer(layer []byte, _, _ int, legacy bool) ([]byte, error) {
	c.legacy = append(c.legacy, legacy)
	out := make([]byte, len(layer))
	for i, b := range layer {
		out[i] = ^b
	}
	return out, nil
}

func TestDecodeEncoded(t *testing.T) {
	data := buildMap("1.10", []string{"width=1", "height=1", "encoded=1"}, 1, 1, 3)
	cipher := &invertCipher{}
	d, err := Decode(data, "enc.map", Options{Cipher: cipher})
	if err != nil {
		t.Fatal(err)
	}
	if d.Tiles[0].Floor != ^uint16(0) || d.Tiles[0].Object != ^uint16(1000) {
		t.Errorf("tile = %+v", d.Tiles[0])
	}
	if len(cipher.legacy) != 3 || !cipher.legacy[0] {
		t.Errorf("cipher calls = %v, want 3 legacy calls", cipher.legacy)
	}
}

func TestTileOutOfRange(t *testing.T) {
	d, err := Decode(buildMap("1.10", []string{"width=2", "height=3"}, 2, 3, 3), "t.map", Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, xy := range [][2]int{{2, 0}, {0, 3}, {-1, 0}} {
		if _, err := d.Tile(xy[0], xy[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Tile(%d,%d): expected ErrIndexOutOfRange, got %v", xy[0], xy[1], err)
		}
	}
}

func TestOpenUsesFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Meadow.MAP")
	if err := os.WriteFile(path, buildMap("1.30", []string{"width=1", "height=1"}, 1, 1, 5), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Open(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "meadow.map" {
		t.Errorf("name = %q", d.Name)
	}
}
