package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/tasker/internal/app"
	"github.com/tgienger/tasker/internal/config"
	"github.com/tgienger/tasker/internal/logging"
	"github.com/tgienger/tasker/internal/store"
)

// Version is printed by --version; main sets it from ldflags
var Version = "dev"

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile string
	backend    string
	dataDir    string
	logLevel   string
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tasker",
		Short:        "Personal task manager",
		Long:         `Tasker keeps a list of tasks with priorities, categories and due dates. Run it without arguments for the interactive view.`,
		Version:      Version,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/tasker/config.toml)")
	flags.StringVar(&opts.backend, "backend", "", "Storage backend: sqlite, file, redis or memory")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory for the database, snapshot and log files")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newShowCmd(opts),
		newUpdateCmd(opts),
		newStatusCmd(opts),
		newDeleteCmd(opts),
		newStatsCmd(opts),
		newCategoriesCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// open loads the configuration and returns an app whose store has been loaded
func (o *rootOptions) open(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: o.configFile,
		Overrides: config.Overrides{
			DataDir:  o.dataDir,
			Backend:  o.backend,
			LogLevel: o.logLevel,
		},
	})
	if err != nil {
		return nil, err
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Log)
	a, err := app.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Load(cmd.Context())
	return a, nil
}

// checkSaved turns an absorbed save failure into a command error
func checkSaved(s *store.Store) error {
	if err := s.LastSaveError(); err != nil {
		return fmt.Errorf("changes were not saved: %w", err)
	}
	return nil
}
