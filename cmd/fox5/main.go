package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fox5/go/fox5/internal/config"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5"
	"github.com/provide-io/fox5/go/fox5/pkg/fox5/transform"
	"github.com/provide-io/fox5/go/fox5/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// buildTime prefers the commit time stamped by the go tool, then the
// binary's mtime.
func buildTime() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	exe, err := os.Executable()
	if err != nil {
		return "unknown"
	}
	st, err := os.Stat(exe)
	if err != nil {
		return "unknown"
	}
	return st.ModTime().UTC().Format(time.RFC3339)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "fox5 %s\n", version)
	fmt.Fprintf(w, "Built: %s\n", buildTime())
}

// app carries the settings shared by every subcommand
type app struct {
	cfg      *config.Config
	logLevel string
	xor      bool
	logger   hclog.Logger
}

// setup resolves flags against the environment config and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.logLevel == "" {
		a.logLevel = cfg.LogLevel
	}
	a.logger = logging.NewLogger("fox5", a.logLevel, cfg.JSONLog, cmd.ErrOrStderr())
	return nil
}

// open parses a container with the CLI's cipher choice
func (a *app) open(path string) (*fox5.File, error) {
	opts := fox5.Options{Logger: a.logger.Named("reader")}
	if a.xor {
		opts.Cipher = transform.XORCipher{}
	}
	return fox5.OpenWithOptions(path, opts)
}

func newRootCmd(a *app) *cobra.Command {
	var versionFlag bool

	root := &cobra.Command{
		Use:           "fox5",
		Short:         "Inspect and extract FOX5 asset containers",
		Long:          `Inspect FOX5 asset containers, dump their object tree and extract their images.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.xor, "xor", false, "Decrypt encrypted containers with the in-house XOR cipher")
	root.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	root.AddCommand(
		newInfoCmd(a),
		newDumpCmd(a),
		newExtractCmd(a),
		newDreamCmd(a),
	)
	return root
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		if a.logger != nil {
			a.logger.Error("❌ Command failed", "error", err)
		} else {
			fmt.Fprintf(stderr, "❌ %v\n", err)
		}
		return 1
	}
	return 0
}
