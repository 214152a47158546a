package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"caltrack/cmd"
	"caltrack/internal/config"
	"caltrack/internal/db"
	"caltrack/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// version is set at build time via -ldflags
var version = "dev"

func build() string {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				return mv
			}
		}
	}
	return version
}

func main() {
	ctx := context.Background()

	// Load .env files first so CALTRACK_* flag sources pick them up.
	cmd.LoadDotEnv(".env", ".env.local")

	var logCloser func()
	flags := &cmd.Flags{}

	app := &cli.Command{
		Name:      "caltrack",
		Usage:     "Track food and exercise calories",
		UsageText: "caltrack [global options] command [command options]",
		Description: `caltrack logs what you eat and the exercise you do, and keeps a running
net calorie total against an optional daily goal.

Run 'caltrack' with no arguments to open the interactive log.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("CALTRACK_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/caltrack.log)",
				Sources:     cli.EnvVars("CALTRACK_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults to <data-dir>/config.yaml)",
				Sources:     cli.EnvVars("CALTRACK_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("CALTRACK_DATA_DIR"),
				Value:       cmd.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to SQLite database file (defaults to <data-dir>/caltrack.db)",
				Sources:     cli.EnvVars("CALTRACK_DB"),
				Destination: &flags.DBPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := os.MkdirAll(flags.DataDir, 0o700); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			logger, closer, err := logging.New(flags.LogLevel, flags.LogPath())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			flags.ConfigPath = flags.ConfigFile()
			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			if err := cmd.RunOnboarding(flags); err != nil {
				return ctx, err
			}

			database, err := db.Open(flags.DBFile())
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			flags.DB = database

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			return flags.Close(logCloser)
		},
	}

	tuiCmd := cmd.NewTuiCmd(flags)

	app = cmd.NewAddCmd(flags).Register(app)
	app = cmd.NewEditCmd(flags).Register(app)
	app = cmd.NewLsCmd(flags).Register(app)
	app = cmd.NewRmCmd(flags).Register(app)
	app = cmd.NewResetCmd(flags).Register(app)
	app = cmd.NewSummaryCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'caltrack --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
