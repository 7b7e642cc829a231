package main

import (
	"fmt"

	"github.com/provide-io/fox5/go/fox5/pkg/export"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5/cache"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		output string
		format string
		scale  int
		ids    []int
		used   bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Decode images to a directory or a tar, tar.gz or tar.bz2 archive",
		Long: `Decode images to a directory or archive. The archive kind follows the
output name: .tar, .tar.gz/.tgz or .tar.bz2/.tbz2; anything else is a directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.ExportFormat
			}
			if _, _, err := export.Encoder(format); err != nil {
				return err
			}

			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			images, err := cache.New(f, a.cfg.CacheSize, a.logger.Named("cache"))
			if err != nil {
				return err
			}

			selected := ids
			if len(selected) == 0 {
				if used {
					selected = usedImages(f)
				} else {
					selected = make([]int, f.ImageCount())
					for i := range selected {
						selected[i] = i
					}
				}
			}

			sink, err := export.OpenSink(output, a.logger.Named("export"))
			if err != nil {
				return err
			}
			err = export.Export(images, selected, sink, export.Options{
				Format: format,
				Scale:  scale,
				Logger: a.logger.Named("export"),
			})
			if cerr := sink.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}

			hits, misses := images.Stats()
			a.logger.Debug("💾 Cache stats", "hits", hits, "misses", misses)
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %d images written to %s (%s)\n",
				len(selected), output, export.KindFromPath(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory or archive (required)")
	cmd.Flags().StringVar(&format, "format", "", "Image format (png or bmp); defaults to FOX5_EXPORT_FORMAT")
	cmd.Flags().IntVar(&scale, "scale", 1, "Integer upscale factor")
	cmd.Flags().IntSliceVar(&ids, "id", nil, "Image ids to extract (repeatable); all when omitted")
	cmd.Flags().BoolVar(&used, "used", false, "Only extract images referenced by a channel")
	if err := cmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
	return cmd
}
