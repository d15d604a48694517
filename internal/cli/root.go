// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/huddle-tui/internal/config"
	"github.com/jeranaias/huddle-tui/internal/logging"
	"github.com/jeranaias/huddle-tui/internal/selection"
	"github.com/jeranaias/huddle-tui/internal/ui/chat"
	"github.com/jeranaias/huddle-tui/internal/ui/styles"
)

// Version information, set from main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// configDebounce coalesces editor save bursts into one reload.
const configDebounce = 300 * time.Millisecond

// errNoTerminal is returned when the full-screen client has no TTY.
var errNoTerminal = errors.New("huddle needs an interactive terminal, try 'huddle compose'")

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

// NewRootCmd builds the huddle command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "huddle",
		Short: "Terminal client for team chat",
		Long: `huddle - a terminal client for team chat.

Without a subcommand huddle opens the full-screen client. Mentions (@),
channels (~), commands (/), code fence languages (` + "```" + `) and emoji (:)
complete with Tab.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $HUDDLE_HOME/config.toml)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level")

	root.AddCommand(newComposeCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	root.AddCommand(newDirectoryCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig reads the config file, or defaults when it does not exist yet.
// It returns the path the config lives at, for saving and watching.
func (f *globalFlags) loadConfig() (*config.Config, string, error) {
	path := f.configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	var cfg *config.Config
	_, err := os.Stat(path)
	switch {
	case err == nil:
		cfg, err = config.LoadFromPath(path)
		if err != nil {
			return nil, "", err
		}
	case errors.Is(err, os.ErrNotExist):
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	default:
		return nil, "", fmt.Errorf("read config: %w", err)
	}

	config.SetGlobal(cfg)
	return cfg, path, nil
}

// logger opens the log file named by cfg.
func (f *globalFlags) logger(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logging.New(logging.Options{Level: cfg.Log.Level, Path: path, Debug: f.debug})
}

// =============================================================================
// FULL-SCREEN CLIENT
// =============================================================================

func runTUI(ctx context.Context, flags *globalFlags) error {
	if !IsTTY() || !IsStdoutTTY() {
		return errNoTerminal
	}

	cfg, path, err := flags.loadConfig()
	if err != nil {
		return err
	}
	log, level, err := flags.logger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := connect(ctx, cfg, log, readPassword)
	if err != nil {
		return err
	}
	defer conn.Close()

	m := chat.New(chat.Options{
		Config:    cfg,
		Service:   conn.Client,
		Directory: conn.Directory,
		User:      conn.User,
		TeamID:    conn.Team.ID,
		Theme:     styles.NewTheme(cfg.UI.Theme),
		Clipboard: selection.SystemClipboard,
		Log:       log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := config.NewWatcher(path, configDebounce, log.Named("config"), func(next *config.Config) {
		if lvl, err := logging.ParseLevel(next.Log.Level); err == nil && !flags.debug {
			level.SetLevel(lvl)
		}
		p.Send(chat.ConfigReloadedMsg{Config: next})
	})
	if err == nil {
		err = watcher.Watch()
	}
	if err != nil {
		log.Warn("config reload disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	log.Info("starting", zap.String("version", Version), zap.String("user", conn.User.Username))
	_, err = p.Run()
	return err
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "huddle %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
