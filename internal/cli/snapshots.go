package cli

import (
	"fmt"
	"strconv"

	"forcemap/internal/codec"
	"forcemap/internal/repository/sqlite"
	"forcemap/internal/ui"

	"github.com/spf13/cobra"
)

func snapshotsCmd(opts *options) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:     "snapshots",
		Short:   "Inspect the snapshot library",
		Aliases: []string{"snap"},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default: from config)")

	open := func() (*sqlite.Repository, error) {
		path := dbPath
		if path == "" {
			cfg, err := opts.loadConfig()
			if err != nil {
				return nil, err
			}
			path = cfg.Database.Path
		}
		return sqlite.New(path)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			infos, err := repo.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(infos) == 0 {
				ui.Subtle.Fprintln(w, "  No snapshots stored.")
				return nil
			}
			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Name,
					strconv.Itoa(info.NodeCount),
					strconv.Itoa(info.LinkCount),
					info.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			ui.Table(w, []string{"NAME", "NODES", "LINKS", "UPDATED"}, rows)
			return nil
		},
	}

	var to string
	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ForFormat(to)
			if err != nil {
				return err
			}
			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			snap, err := repo.GetSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.Export(snap, cmd.OutOrStdout())
		},
	}
	show.Flags().StringVar(&to, "to", codec.FormatJSON, "Output format: json or yaml")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s deleted %s\n", ui.StatusIcon(true), args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}
