package main

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/provide-io/fox5/go/fox5/pkg/export"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
)

// writeContainer stores an uncompressed container holding one 1x1 32-bit
// image and one object with a channel pointing at it
func writeContainer(t *testing.T) string {
	t.Helper()

	var block bytes.Buffer
	put := func(values ...any) {
		for _, v := range values {
			_ = binary.Write(&block, binary.BigEndian, v)
		}
	}
	list := func(level uint8) { put(uint8(fox5.OpListStart), level, uint32(1)) }

	block.Write([]byte{0, 0, 0, 0})
	list(fox5.RootLevel)
	put(uint8(fox5.OpImageList), uint32(1), uint32(4), uint16(1), uint16(1), uint8(fox5.Format32Bit))
	list(fox5.FileLevel)
	put(uint8(fox5.OpIdentifier), int32(12))
	put(uint8(fox5.OpName), uint16(len("lantern")), []byte("lantern"))
	list(fox5.ObjectLevel)
	list(fox5.ShapeLevel)
	list(fox5.FrameLevel)
	put(uint8(fox5.OpChannelImage), uint16(0))
	for i := 0; i < 5; i++ {
		put(uint8(fox5.OpListEnd))
	}

	var out bytes.Buffer
	out.Write(block.Bytes())
	out.Write([]byte{0xff, 0x00, 0x00, 0xff})
	ft := &fox5.Footer{CompressedSize: uint32(block.Len()), UncompressedSize: uint32(block.Len())}
	out.Write(ft.Pack())

	path := filepath.Join(t.TempDir(), "lantern.fox")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("FOX5_LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInfo(t *testing.T) {
	path := writeContainer(t)
	code, out, errOut := runCLI(t, "info", "--objects", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"Images", "1 (4 B stored, 4 B decoded)", "1 (1 shapes, 1 frames, 1 channels)", "id=12 lantern"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestDump(t *testing.T) {
	path := writeContainer(t)

	code, out, errOut := runCLI(t, "dump", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var doc struct {
		Images  []json.RawMessage `json:"images"`
		Objects []struct {
			Name string `json:"name"`
		} `json:"objects"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("dump is not json: %v\n%s", err, out)
	}
	if len(doc.Images) != 1 || len(doc.Objects) != 1 || doc.Objects[0].Name != "lantern" {
		t.Errorf("dump = %s", out)
	}

	code, out, _ = runCLI(t, "dump", "-f", "yaml", path)
	if code != 0 || !strings.Contains(out, "name: lantern") {
		t.Errorf("yaml dump (exit %d):\n%s", code, out)
	}

	if code, _, _ := runCLI(t, "dump", "-f", "xml", path); code != 1 {
		t.Errorf("unknown format exit = %d, want 1", code)
	}
}

func TestExtract(t *testing.T) {
	path := writeContainer(t)
	dir := t.TempDir()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "directory", args: []string{"-o", filepath.Join(dir, "out")}, want: filepath.Join(dir, "out", export.EntryName(0, ".png"))},
		{name: "used only", args: []string{"--used", "--format", "bmp", "-o", filepath.Join(dir, "used")}, want: filepath.Join(dir, "used", export.EntryName(0, ".bmp"))},
		{name: "archive", args: []string{"--id", "0", "--scale", "2", "-o", filepath.Join(dir, "sprites.tar.gz")}, want: filepath.Join(dir, "sprites.tar.gz")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"extract", path}, tc.args...)
			code, out, errOut := runCLI(t, args...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, errOut)
			}
			if !strings.Contains(out, "1 images written") {
				t.Errorf("output = %q", out)
			}
			if _, err := os.Stat(tc.want); err != nil {
				t.Errorf("expected %s: %v", tc.want, err)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	path := writeContainer(t)
	out := filepath.Join(t.TempDir(), "out")

	testCases := map[string][]string{
		"out of range":   {"extract", path, "--id", "5", "-o", out},
		"bad format":     {"extract", path, "--format", "gif", "-o", out},
		"missing output": {"extract", path},
		"missing file":   {"extract", filepath.Join(t.TempDir(), "nope.fox"), "-o", out},
	}
	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			if code, _, _ := runCLI(t, args...); code != 1 {
				t.Errorf("exit = %d, want 1", code)
			}
		})
	}
}

func TestEncryptedNeedsCipher(t *testing.T) {
	// A seed followed by a footer flagged as encrypted
	var data bytes.Buffer
	data.Write(make([]byte, 8))
	data.Write(make([]byte, fox5.SeedSize))
	ft := &fox5.Footer{Encryption: fox5.EncryptionEncrypted, CompressedSize: 8, UncompressedSize: 8}
	data.Write(ft.Pack())
	path := filepath.Join(t.TempDir(), "locked.fox")
	if err := os.WriteFile(path, data.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	code, _, errOut := runCLI(t, "--log-level", "error", "info", path)
	if code != 1 || !strings.Contains(errOut, "cipher") {
		t.Errorf("exit %d, stderr %q", code, errOut)
	}
}

func TestDream(t *testing.T) {
	var data bytes.Buffer
	data.WriteString("MAP V1.50 Furcadia\nwidth=2\nheight=2\nrating=All Ages\nBODY\n")
	for l := 0; l < 7; l++ {
		for c := 0; c < 4; c++ {
			_ = binary.Write(&data, binary.LittleEndian, uint16(c))
		}
	}
	path := filepath.Join(t.TempDir(), "Meadow.map")
	if err := os.WriteFile(path, data.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, "dream", path)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"meadow.map", "1.50", "2x2 (7 layers)", "All Ages", "4 distinct"} {
		if !strings.Contains(out, want) {
			t.Errorf("dream output missing %q:\n%s", want, out)
		}
	}

	code, out, _ = runCLI(t, "dream", "-f", "json", path)
	if code != 0 || !strings.Contains(out, `"width": 2`) {
		t.Errorf("json dream (exit %d):\n%s", code, out)
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "-V")
	if code != 0 || !strings.HasPrefix(out, "fox5 "+version) || !strings.Contains(out, "Built: ") {
		t.Errorf("version (exit %d): %q", code, out)
	}
}
