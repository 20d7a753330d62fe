package cmd

import (
	"fmt"

	"github.com/andreyvit/inbf"
	"github.com/spf13/cobra"
)

func (a *app) getCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value at a path",
		Long: `Print the value at a path inside a document. Scalars and strings
are printed bare, containers in dump form.

Example:
  inbf get save.inbf players[0].name`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := inbf.NewArena()
			root, err := readDoc(arena, args[0], format)
			if err != nil {
				return err
			}
			h, err := arena.Lookup(root, args[1])
			if err != nil {
				return err
			}
			tag, err := arena.Tag(h)
			if err != nil {
				return err
			}
			if tag.IsContainer() {
				fmt.Fprintln(cmd.OutOrStdout(), arena.Dump(h))
				return nil
			}
			s, err := arena.FormatScalar(h)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: inbf, msgpack or json (default by extension)")
	return cmd
}
