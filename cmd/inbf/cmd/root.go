package cmd

import (
	"log/slog"
	"os"

	"github.com/andreyvit/inbf/store"
	"github.com/spf13/cobra"
)

type app struct {
	configPath string
	dbPath     string
	logLevel   string

	config *Config
	logger *slog.Logger
}

// NewRootCmd builds the inbf command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "inbf",
		Short: "Inspect, convert and store INBF documents",
		Long: `inbf works with documents in the INBF typed binary value format.

It can dump a document as text or JSON, look up values by path, convert
between the native format, MessagePack and JSON, and keep named documents
in a local database.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.dbPath, "db", "", "document database path (default from config, or ./inbf.db)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(a.dumpCmd(), a.getCmd(), a.convertCmd(), a.storeCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	config := DefaultConfig()
	if a.configPath != "" {
		var err error
		config, err = LoadConfig(a.configPath)
		if err != nil {
			return err
		}
	}
	if a.dbPath != "" {
		config.DB = a.dbPath
	}
	if a.logLevel != "" {
		config.Logging.Level = a.logLevel
	}
	level, err := parseLevel(config.Logging.Level)
	if err != nil {
		return err
	}
	a.config = config
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	return store.Open(a.config.DB, store.Options{
		Bucket: a.config.Bucket,
		Logger: a.logger,
	})
}
