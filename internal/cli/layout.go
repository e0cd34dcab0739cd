package cli

import (
	"fmt"

	"forcemap/internal/codec"
	"forcemap/internal/ui"

	"github.com/spf13/cobra"
)

func layoutCmd(opts *options) *cobra.Command {
	var (
		steps int
		out   string
		to    string
	)

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Settle a graph document and write it back with positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := opts.loadEditor(args[0])
			if err != nil {
				return err
			}
			taken := ed.Settle(steps)

			c := codec.ForPath(args[0])
			if to != "" {
				if c, err = codec.ForFormat(to); err != nil {
					return err
				}
			}

			w, closeOut, err := output(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			if err := ed.Export(w, c); err != nil {
				closeOut()
				return err
			}
			if err := closeOut(); err != nil {
				return err
			}

			status := ui.StatusIcon(true)
			if ed.Active() {
				status = ui.WarnIcon()
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s %d nodes settled in %d steps (alpha %.4f)\n",
				status, ed.Store().Len(), taken, ed.Engine().Alpha())
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", DefaultMaxSteps, "Maximum simulation steps")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&to, "to", "", "Output format: json or yaml (default: input format)")
	return cmd
}
