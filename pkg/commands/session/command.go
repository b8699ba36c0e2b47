package session

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-user-manager/datastore"
	"github.com/smartcontractkit/chainlink-user-manager/internal/config"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// Config holds everything the session commands need.
type Config struct {
	// Logger is the parent logger. Required.
	Logger logger.Logger

	// Settings is the loaded user manager configuration.
	// Default: config.Default()
	Settings *config.Config

	// Deps overrides production dependencies, mainly for tests.
	Deps *Deps
}

// deps fills in defaults for optional fields.
func (c *Config) deps() {
	if c.Settings == nil {
		c.Settings = config.Default()
	}
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()
}

// NewCommand creates a new session command with all subcommands.
//
// Usage:
//
//	rootCmd.AddCommand(session.NewCommand(session.Config{
//	    Logger:   lggr,
//	    Settings: cfg,
//	}))
func NewCommand(cfg Config) *cobra.Command {
	cfg.deps()

	cmd := &cobra.Command{
		Use:   "session",
		Short: "User store session commands",
	}

	cmd.AddCommand(newRunCmd(cfg))
	cmd.AddCommand(newShellCmd(cfg))

	cmd.PersistentFlags().
		StringP("backend", "b", "", "Store backend, memory or sql (defaults to store.backend from config)")

	return cmd
}

func newRunCmd(cfg Config) *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a script of user operations against a fresh store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := resolveBackend(cmd, cfg)
			if err != nil {
				return err
			}

			format := output
			if format == "" {
				format = cfg.Settings.Output.Format
			}
			if err = config.ValidateFormat(format); err != nil {
				return err
			}

			script, err := cfg.Deps.ScriptLoader(file)
			if err != nil {
				return fmt.Errorf("failed to load script %s: %w", file, err)
			}

			report, err := runScript(cmd.Context(), cfg, backend, script)
			if err != nil {
				return err
			}

			return Render(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the script file (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output format, json, yaml or toml (defaults to output.format from config)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newShellCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Read user operations from stdin, one per line",
		Long: `Read user operations from stdin and print one JSON result per line.

Commands:
  add <name...> <email>   the last word is the email, the rest is the name
  find <id>
  delete <id>
  list

Blank lines and lines starting with # are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := resolveBackend(cmd, cfg)
			if err != nil {
				return err
			}

			return runShell(cmd.Context(), cfg, backend, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// resolveBackend returns the --backend flag if set, otherwise the configured backend.
func resolveBackend(cmd *cobra.Command, cfg Config) (string, error) {
	backend, err := cmd.Flags().GetString("backend")
	if err != nil {
		return "", err
	}
	if backend == "" {
		backend = cfg.Settings.Store.Backend
	}

	if err = config.ValidateBackend(backend); err != nil {
		return "", err
	}

	return backend, nil
}

// openSession opens a store for backend and returns it along with a session scoped logger.
func openSession(
	ctx context.Context, cfg Config, backend string,
) (string, datastore.UserStoreV2, logger.Logger, func() error, error) {
	id := cfg.Deps.SessionID()
	lggr := cfg.Logger.Named("session")

	store, closeFn, err := cfg.Deps.StoreOpener(ctx, backend, lggr)
	if err != nil {
		return "", nil, nil, nil, fmt.Errorf("failed to open %s store: %w", backend, err)
	}
	lggr.Infow("Session started", "session", id, "backend", backend)

	return id, store, lggr, closeFn, nil
}

func runScript(ctx context.Context, cfg Config, backend string, script *Script) (report Report, err error) {
	id, store, lggr, closeFn, err := openSession(ctx, cfg, backend)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		err = errors.Join(err, closeFn())
	}()

	results, err := newExecutor(store, lggr).run(ctx, script)
	if err != nil {
		lggr.Errorw("Session failed", "session", id, "err", err)
		return Report{}, err
	}
	lggr.Infow("Session finished", "session", id, "steps", len(results))

	return Report{Session: id, Backend: backend, Results: results}, nil
}

// shellError is printed in place of a result when a line cannot be parsed.
type shellError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

func runShell(ctx context.Context, cfg Config, backend string, in io.Reader, out io.Writer) (err error) {
	id, store, lggr, closeFn, err := openSession(ctx, cfg, backend)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeFn())
	}()

	exec := newExecutor(store, lggr)
	enc := json.NewEncoder(out)
	scanner := bufio.NewScanner(in)

	line, steps := 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		step, perr := ParseCommand(text)
		if perr != nil {
			if err = enc.Encode(shellError{Line: line, Error: perr.Error()}); err != nil {
				return err
			}

			continue
		}

		steps++
		result, xerr := exec.execute(ctx, steps, step)
		if xerr != nil {
			return xerr
		}
		if err = enc.Encode(result); err != nil {
			return err
		}
	}
	if err = scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	lggr.Infow("Session finished", "session", id, "steps", steps)

	return nil
}

// ParseCommand parses one shell line into a Step.
func ParseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, errors.New("empty command")
	}

	op := Op(strings.ToLower(fields[0]))
	args := fields[1:]

	switch op {
	case OpAdd:
		if len(args) < 1 {
			return Step{}, errors.New("usage: add <name...> <email>")
		}

		return Step{
			Op:    op,
			Name:  strings.Join(args[:len(args)-1], " "),
			Email: args[len(args)-1],
		}, nil

	case OpFind, OpDelete:
		if len(args) != 1 {
			return Step{}, fmt.Errorf("usage: %s <id>", op)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return Step{}, fmt.Errorf("invalid id %q: %w", args[0], err)
		}

		return Step{Op: op, ID: id}, nil

	case OpList:
		if len(args) != 0 {
			return Step{}, errors.New("usage: list")
		}

		return Step{Op: op}, nil

	default:
		return Step{}, fmt.Errorf("%w: %q", ErrUnknownOp, fields[0])
	}
}
