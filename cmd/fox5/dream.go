package main

import (
	"fmt"

	"github.com/provide-io/fox5/go/fox5/pkg/dream"
	"github.com/spf13/cobra"
)

func newDreamCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dream <file.map>",
		Short: "Show the header of a dream map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dream.Open(args[0], dream.Options{Logger: a.logger.Named("dream")})
			if err != nil {
				return err
			}
			if format != "" {
				return writeDocument(cmd.OutOrStdout(), d, format)
			}

			w := cmd.OutOrStdout()
			heading.Fprintf(w, "🗺️ %s\n", d.Name)
			field(w, "Version", d.Version.String())
			field(w, "Size", fmt.Sprintf("%dx%d (%d layers)", d.Width, d.Height, d.Layers()))
			field(w, "Revision", fmt.Sprint(d.Revision))
			if d.Rating != "" {
				field(w, "Rating", d.Rating)
			}

			floors, objects := map[uint16]bool{}, map[uint16]bool{}
			for _, t := range d.Tiles {
				floors[t.Floor] = true
				if t.Object != 0 {
					objects[t.Object] = true
				}
			}
			field(w, "Floors", fmt.Sprintf("%d distinct", len(floors)))
			field(w, "Objects", fmt.Sprintf("%d distinct", len(objects)))
			for key, value := range d.Extra {
				dim.Fprintf(w, "    %s=%s\n", key, value)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Print the header as json or yaml instead")
	return cmd
}
