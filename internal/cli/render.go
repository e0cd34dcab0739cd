package cli

import (
	"github.com/spf13/cobra"
)

func renderCmd(opts *options) *cobra.Command {
	var (
		steps int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Settle a graph document and draw it as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := opts.loadEditor(args[0])
			if err != nil {
				return err
			}
			ed.Settle(steps)

			w, closeOut, err := output(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			if err := ed.WriteSVG(w); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().IntVar(&steps, "steps", DefaultMaxSteps, "Maximum simulation steps before drawing")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output SVG file (default stdout)")
	return cmd
}
