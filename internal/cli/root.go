// Package cli implements the forcemap command line: offline layout,
// rendering and conversion of graph documents, and management of the
// snapshot library.
package cli

import (
	"fmt"
	"io"
	"os"

	"forcemap/internal/codec"
	"forcemap/internal/config"
	"forcemap/internal/editor"
	"forcemap/internal/ui"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// DefaultMaxSteps is enough for the stock schedule to come to rest
const DefaultMaxSteps = 1000

type options struct {
	configPath string
}

// NewRootCommand builds the forcemap command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "forcemap",
		Short: "forcemap: force-directed task maps",
		Long: ui.Brand.Sprint("forcemap") + " lays out node-link task diagrams with a force simulation\n" +
			ui.Subtle.Sprint("Settle, render and convert graph documents from the command line"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("forcemap {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: search "+config.EnvConfigPath+" and standard paths)")

	root.AddCommand(
		layoutCmd(opts),
		renderCmd(opts),
		convertCmd(),
		snapshotsCmd(opts),
		configCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		ui.Bad.Fprintf(root.ErrOrStderr(), "forcemap: %v\n", err)
		return err
	}
	return nil
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		cfg, _, err := config.LoadFromPath(o.configPath)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

// loadEditor builds an editor from config and loads the document at path
func (o *options) loadEditor(path string) (*editor.Editor, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	ed := editor.New(cfg.EditorOptions())
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := ed.Import(f, codec.ForPath(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ed, nil
}

// output opens path for writing, or returns w when path is empty or "-"
func output(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
