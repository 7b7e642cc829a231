package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// writeDocument encodes v as json or yaml
func writeDocument(w io.Writer, v any, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown dump format %q (want json or yaml)", format)
	}
}

func newDumpCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the decoded object tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a.logger.Debug("📝 Dumping object tree", "objects", len(f.Objects), "format", format)
			return writeDocument(cmd.OutOrStdout(), f, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or yaml)")
	return cmd
}
