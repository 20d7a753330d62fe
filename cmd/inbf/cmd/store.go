package cmd

import (
	"fmt"

	"github.com/andreyvit/inbf"
	"github.com/andreyvit/inbf/store"
	"github.com/spf13/cobra"
)

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage named documents in the database",
		Long: `Manage named documents in the database given by --db or the config file.

Example:
  inbf store put world save.inbf
  inbf store get world copy.json
  inbf store ls`,
	}
	cmd.AddCommand(a.storePutCmd(), a.storeGetCmd(), a.storeLsCmd(), a.storeRmCmd())
	return cmd
}

// withStore opens the database for the duration of f.
func (a *app) withStore(f func(st *store.Store) error) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	err = f(st)
	if cerr := st.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) storePutCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "put <name> <file>",
		Short: "Store a document under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := inbf.NewArena()
			h, err := readDoc(arena, args[1], format)
			if err != nil {
				return err
			}
			return a.withStore(func(st *store.Store) error {
				written, err := st.Put(args[0], arena, h)
				if err != nil {
					return err
				}
				if written {
					fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", args[0])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: inbf, msgpack or json (default by extension)")
	return cmd
}

func (a *app) storeGetCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get <name> [out]",
		Short: "Write a stored document to a file, or print it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arena := inbf.NewArena()
			return a.withStore(func(st *store.Store) error {
				h, err := st.Get(args[0], arena)
				if err != nil {
					return err
				}
				if len(args) < 2 {
					fmt.Fprintln(cmd.OutOrStdout(), arena.Dump(h))
					return nil
				}
				return writeDoc(arena, h, args[1], format)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: inbf, msgpack or json (default by extension)")
	return cmd
}

func (a *app) storeLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [prefix]",
		Short: "List stored documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) > 0 {
				prefix = args[0]
			}
			return a.withStore(func(st *store.Store) error {
				names, err := st.Names(prefix)
				if err != nil {
					return err
				}
				for _, name := range names {
					info, err := st.Stat(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\t%d\t%016x\n", info.Name, info.Tag, info.Size, info.Hash)
				}
				return nil
			})
		},
	}
}

func (a *app) storeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(st *store.Store) error {
				return st.Delete(args[0])
			})
		},
	}
}
