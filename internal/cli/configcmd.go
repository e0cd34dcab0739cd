package cli

import (
	"forcemap/internal/config"
	"forcemap/internal/ui"

	"github.com/spf13/cobra"
)

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			path := opts.configPath
			if path == "" {
				path = config.FindConfigPath()
			}
			if path == "" {
				path = ui.Subtle.Sprint("(defaults)")
			}

			ui.Banner(w, "configuration")
			ui.KeyValue(w, "File", path)
			ui.KeyValue(w, "Listen", cfg.Server.Addr)
			ui.KeyValue(w, "Database", cfg.Database.Path)
			ui.KeyValue(w, "Canvas", ui.Info.Sprintf("%gx%g", cfg.Viewport.Width, cfg.Viewport.Height))
			ui.KeyValue(w, "Charge", cfg.Forces.Charge.Strength)
			ui.KeyValue(w, "Hub node", cfg.Graph.HubNode)
			ui.KeyValue(w, "Identifiers", cfg.Graph.IDs)
			ui.KeyValue(w, "Load policy", cfg.Load.Links+"/"+cfg.Load.Velocity)
			return nil
		},
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			ui.Good.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&path, "out", "o", "", "Path to write (default: XDG config location)")

	cmd.AddCommand(initCmd)
	return cmd
}
