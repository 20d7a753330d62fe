package cmd

import (
	"github.com/andreyvit/inbf"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a document between formats",
		Long: `Convert a document between the native INBF format, MessagePack and
JSON. Formats default to the file extensions (.json, .msgpack or .mp,
anything else is native). JSON cannot carry exact tags: numbers come
back as i64, u64 or f64.

Example:
  inbf convert save.inbf save.json
  inbf convert --from json --to inbf in.txt out.bin`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := inbf.NewArena()
			h, err := readDoc(arena, args[0], from)
			if err != nil {
				return err
			}
			if err := writeDoc(arena, h, args[1], to); err != nil {
				return err
			}
			a.logger.Debug("converted", "in", args[0], "out", args[1], "values", arena.Live())
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format")
	cmd.Flags().StringVar(&to, "to", "", "output format")
	return cmd
}
