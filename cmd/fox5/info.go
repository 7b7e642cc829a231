package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
	"github.com/spf13/cobra"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.FgYellow)
	dim     = color.New(color.Faint)
)

func newInfoCmd(a *app) *cobra.Command {
	var objects bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the footer, image list and object summary of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			printInfo(cmd.OutOrStdout(), args[0], f, objects)
			return nil
		},
	}
	cmd.Flags().BoolVar(&objects, "objects", false, "List every object with its shapes")
	return cmd
}

func printInfo(w io.Writer, path string, f *fox5.File, objects bool) {
	heading.Fprintf(w, "🦊 %s\n", path)
	field(w, "Compression", f.Compression.String())
	field(w, "Encryption", f.Encryption.String())
	field(w, "Generator", fmt.Sprint(f.Generator))
	field(w, "Image data", fmt.Sprintf("starts at %s", humanize.Comma(f.ImageStart)))

	var stored, decoded uint64
	formats := map[fox5.ImageFormat]int{}
	for _, im := range f.Images {
		stored += uint64(im.CompressedSize)
		decoded += uint64(im.DecodedSize())
		formats[im.Format]++
	}
	field(w, "Images", fmt.Sprintf("%d (%s stored, %s decoded)",
		len(f.Images), humanize.Bytes(stored), humanize.Bytes(decoded)))
	for _, format := range []fox5.ImageFormat{fox5.Format8Bit, fox5.Format32Bit} {
		if n := formats[format]; n > 0 {
			dim.Fprintf(w, "    %s: %d\n", format, n)
		}
	}

	var shapes, frames, channels int
	for _, obj := range f.Objects {
		shapes += len(obj.Shapes)
		for _, shape := range obj.Shapes {
			frames += len(shape.Frames)
			for _, frame := range shape.Frames {
				channels += len(frame.Channels)
			}
		}
	}
	field(w, "Objects", fmt.Sprintf("%d (%d shapes, %d frames, %d channels)",
		len(f.Objects), shapes, frames, channels))

	if !objects {
		return
	}
	for i, obj := range f.Objects {
		name := obj.Name
		if name == "" {
			name = "(unnamed)"
		}
		label.Fprintf(w, "  #%d ", i)
		fmt.Fprintf(w, "id=%d %s", obj.ID, name)
		if len(obj.Authors) > 0 {
			dim.Fprintf(w, " by %v", obj.Authors)
		}
		fmt.Fprintln(w)
		for _, shape := range obj.Shapes {
			dim.Fprintf(w, "      %s %s, %d frames\n", shape.Purpose, shape.Direction, len(shape.Frames))
		}
	}
}

func field(w io.Writer, name, value string) {
	label.Fprintf(w, "  %-12s", name)
	fmt.Fprintln(w, value)
}
