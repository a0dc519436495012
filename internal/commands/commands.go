// Package commands wires configuration, storage and the task store into the
// tasklist command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"tasklist/internal/config"
	"tasklist/internal/logutils"
	"tasklist/internal/storage"
	"tasklist/internal/todo"
	"tasklist/internal/ui"
)

// Flags holds the global flag values.
type Flags struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// app is the state shared by every subcommand once Before has run.
type app struct {
	flags      Flags
	cfg        config.Config
	log        zerolog.Logger
	db         *storage.Store
	store      *todo.Store
	closers    []func()
	out        io.Writer
	runTUI     func(*todo.Store, config.Config, zerolog.Logger) error
	firstStart bool
}

// New builds the root command. Output of the scripting subcommands goes to out.
func New(version string, out io.Writer) *cli.Command {
	return newCommand(version, out, ui.Run)
}

func newCommand(version string, out io.Writer, runTUI func(*todo.Store, config.Config, zerolog.Logger) error) *cli.Command {
	a := &app{out: out, runTUI: runTUI}

	return &cli.Command{
		Name:      config.AppName,
		Usage:     "Keep a categorized task list in your terminal",
		UsageText: "tasklist [global options] [command [command options]]",
		Description: `Run 'tasklist' with no arguments to open the interactive task list.
The subcommands operate on the same list for scripting.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKLIST_CONFIG"),
				Value:       config.ResolveConfigPath(),
				Destination: &a.flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error); overrides the config file",
				Sources:     cli.EnvVars("TASKLIST_LOG_LEVEL"),
				Destination: &a.flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to tasklist.log beside the database)",
				Sources:     cli.EnvVars("TASKLIST_LOG_FILE"),
				Destination: &a.flags.LogFile,
			},
		},
		Before: a.before,
		After:  a.after,
		Action: func(ctx context.Context, c *cli.Command) error {
			if a.firstStart {
				a.log.Info().Str("config", a.flags.ConfigPath).Msg("wrote default config")
			}
			return a.runTUI(a.store, a.cfg, a.log)
		},
		Commands: []*cli.Command{
			a.addCmd(),
			a.listCmd(),
			a.toggleCmd(),
			a.deleteCmd(),
			a.categoriesCmd(),
		},
	}
}

func (a *app) before(ctx context.Context, c *cli.Command) (context.Context, error) {
	if _, err := os.Stat(a.flags.ConfigPath); err != nil {
		a.firstStart = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(a.flags.ConfigPath)
	if err != nil {
		return ctx, fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.flags.LogLevel != "" {
		level = a.flags.LogLevel
	}
	logFile := a.flags.LogFile
	if logFile == "" {
		logFile = cfg.ResolveLogFile(a.flags.ConfigPath)
	}
	logger, closeLog, err := logutils.New(level, logFile)
	if err != nil {
		return ctx, fmt.Errorf("setup logger: %w", err)
	}
	a.log = logger
	a.closers = append(a.closers, closeLog)

	dbPath := cfg.ResolveDBPath(a.flags.ConfigPath)
	db, err := storage.Open(dbPath)
	if err != nil {
		return ctx, fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, func() {
		if err := db.Close(); err != nil {
			a.log.Error().Err(err).Msg("close database")
		}
	})

	store, err := todo.Open(ctx, db, todo.Options{Key: cfg.StorageKey, Logger: logger})
	var decErr *todo.DecodeError
	switch {
	case errors.As(err, &decErr):
		a.log.Warn().Err(err).Str("backup_key", store.BackupKey()).Msg("stored tasks unreadable, starting with an empty list")
	case err != nil:
		return ctx, fmt.Errorf("load tasks: %w", err)
	}
	a.store = store
	a.log.Debug().Str("db", dbPath).Int("tasks", store.Len()).Msg("task store ready")
	return ctx, nil
}

func (a *app) after(ctx context.Context, c *cli.Command) error {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	return nil
}

// categoryFlag validates a --category value against the fixed category list.
func categoryFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"C"},
		Usage:   usage,
		Value:   todo.CategoryAll,
		Validator: func(v string) error {
			if _, ok := todo.LookupCategory(v); !ok {
				return fmt.Errorf("unknown category %q", v)
			}
			return nil
		},
	}
}
