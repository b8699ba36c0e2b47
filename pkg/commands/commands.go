// Package commands provides modular CLI command packages for the user manager.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	commands := commands.New(lggr)
//	app.AddCommand(
//	    commands.Session(commands.SessionConfig{Settings: cfg}),
//	)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/chainlink-user-manager/pkg/commands/session"
//
//	app.AddCommand(session.NewCommand(session.Config{
//	    Logger:   lggr,
//	    Settings: cfg,
//	    Deps:     &session.Deps{...},  // inject fakes for testing
//	}))
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-user-manager/internal/config"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/commands/session"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
// The logger will be shared across all commands created by this factory.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// SessionConfig holds configuration for session commands.
type SessionConfig struct {
	// Settings is the loaded configuration. Nil uses config.Default().
	Settings *config.Config
}

// Session creates the session command group for running user store sessions.
//
// Usage:
//
//	cmds := commands.New(lggr)
//	rootCmd.AddCommand(cmds.Session(commands.SessionConfig{
//	    Settings: cfg,
//	}))
func (c *Commands) Session(cfg SessionConfig) *cobra.Command {
	return session.NewCommand(session.Config{
		Logger:   c.lggr,
		Settings: cfg.Settings,
	})
}
