// cmd/boxplanner/main.go
//
// This is the entry point for the box planner.
// Running `boxplanner` from a project directory opens the TUI; the
// subcommands work on roster files and notes without it.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/box-planner/internal/config"
	"github.com/kingrea/box-planner/internal/logging"
	"github.com/kingrea/box-planner/internal/tui"
)

const (
	exitUsage      = 2
	exitValidation = 3
	exitIO         = 4
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var coded *exitError
		if errors.As(err, &coded) {
			os.Exit(coded.code)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	projectDir string
	roster     string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "boxplanner",
		Short:         "Place employees on a 9-box talent grid",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.projectDir, "project", "", "Project directory (default: $"+config.HomeEnv+" or the working directory)")
	cmd.Flags().StringVar(&opts.roster, "roster", "", "Roster file to open for this run (overrides config.yaml)")

	cmd.AddCommand(
		newCheckCmd(),
		newConvertCmd(),
		newNoteCmd(&opts),
		newUseCmd(&opts),
	)
	return cmd
}

// loadConfig prepares .boxplanner in the project directory and reads it.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	projectDir := opts.projectDir
	if projectDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, withCode(exitIO, fmt.Errorf("get working directory: %w", err))
		}
		projectDir = config.ResolveProjectDir(cwd)
	}
	if err := config.InitDataDir(projectDir); err != nil {
		return nil, withCode(exitIO, fmt.Errorf("initialize %s: %w", config.DataDir, err))
	}
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, withCode(exitValidation, err)
	}
	return cfg, nil
}

func runTUI(opts rootOptions) error {
	cfg, err := loadConfig(&opts)
	if err != nil {
		return err
	}
	if opts.roster != "" {
		cfg.Project.Roster = resolveArg(opts.roster)
	}

	logger, err := logging.New(cfg.LogsDir())
	if err != nil {
		return withCode(exitIO, err)
	}
	defer logger.Close()
	logger.Info("starting planner", "project", cfg.ProjectDir, "roster", cfg.RosterPath())

	app, err := tui.NewApp(cfg, tui.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("tui exited", "err", err)
		return err
	}
	return nil
}
