// Command usermanager runs user store sessions from a script or an interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-user-manager/internal/config"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/commands"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// defaultConfigPath is read when USER_MANAGER_CONFIG is not set.
const defaultConfigPath = "usermanager.yaml"

func main() {
	os.Exit(run())
}

func run() int {
	app, lggr, err := newApp(configPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = lggr.Sync() }()

	if err := app.Execute(); err != nil {
		return 1
	}

	return 0
}

func configPath() string {
	if p := os.Getenv("USER_MANAGER_CONFIG"); p != "" {
		return p
	}

	return defaultConfigPath
}

// newApp loads the configuration at path and builds the root command.
func newApp(path string) (*cobra.Command, logger.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	lcfg, err := cfg.LoggerConfig()
	if err != nil {
		return nil, nil, err
	}
	lggr, err := lcfg.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	root := &cobra.Command{
		Use:           "usermanager",
		Short:         "Manage user records in an in-process store",
		SilenceUsage: true,
	}
	root.AddCommand(commands.New(lggr).Session(commands.SessionConfig{Settings: cfg}))

	return root, lggr, nil
}
