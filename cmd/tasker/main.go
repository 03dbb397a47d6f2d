package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasker/internal/app"
	"github.com/tgienger/tasker/internal/cli"
	"github.com/tgienger/tasker/internal/config"
	"github.com/tgienger/tasker/internal/logging"
	"github.com/tgienger/tasker/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	// If no args, launch TUI; otherwise route to CLI
	if len(os.Args) == 1 {
		if err := runTUI(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}

func runTUI() error {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(cfg.LogPath(), cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("starting", "backend", cfg.Storage.Backend, "data_dir", cfg.DataDir)

	p := tea.NewProgram(ui.NewApp(a.Store, a.Settings), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
