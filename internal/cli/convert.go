package cli

import (
	"fmt"
	"os"

	"forcemap/internal/codec"

	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var (
		to  string
		out string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a graph document between JSON and YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := codec.ForFormat(to)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := codec.ForPath(args[0]).Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w, closeOut, err := output(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			if err := target.Export(snap, w); err != nil {
				closeOut()
				return err
			}
			return closeOut()
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
