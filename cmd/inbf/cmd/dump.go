package cmd

import (
	"fmt"

	"github.com/andreyvit/inbf"
	"github.com/spf13/cobra"
)

func (a *app) dumpCmd() *cobra.Command {
	var (
		format    string
		asJSON    bool
		multiline bool
	)
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a document",
		Long: `Print a document in a compact text form that shows every tag,
or as JSON.

Example:
  inbf dump save.inbf
  inbf dump --json save.inbf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := inbf.NewArena()
			h, err := readDoc(arena, args[0], format)
			if err != nil {
				return err
			}
			if asJSON {
				data, err := arena.EncodeJSON(h)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return nil
			}
			var flags inbf.DumpFlags
			if multiline {
				flags |= inbf.DumpMultiline
			}
			fmt.Fprintln(cmd.OutOrStdout(), arena.DumpWith(h, flags))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: inbf, msgpack or json (default by extension)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().BoolVarP(&multiline, "multiline", "m", false, "one entry per line")
	return cmd
}
