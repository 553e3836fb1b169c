package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tailored-agentic-units/roster/app"
	"github.com/tailored-agentic-units/roster/observability"
	"github.com/tailored-agentic-units/roster/server"
)

// errWriter receives slog output.
var errWriter io.Writer = os.Stderr

type options struct {
	configFile string
	env        string
	backend    string
	path       string
	observer   string
	remote     string
	verbose    bool

	cfg    *app.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Player roster store with persisted snapshots",
		Long: `roster manages a player roster through named mutations.

Every committed mutation is written to the configured storage backend as a
{"players": ...} snapshot. Outside production each mutation is also logged.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config file (.json, .yaml, .toml)")
	flags.StringVar(&opts.env, "env", "", "Build mode; \"production\" disables mutation logging (overrides config)")
	flags.StringVar(&opts.backend, "storage", "", "Storage backend: memory, file, sqlite (overrides config)")
	flags.StringVar(&opts.path, "storage-path", "", "Storage directory or database path (overrides config)")
	flags.StringVar(&opts.observer, "observer", "", "Observer: noop, slog, zap, or a comma list such as slog,zap (overrides config)")
	flags.StringVar(&opts.remote, "remote", "", "Base URL of a running roster server; commands act on it instead of local storage")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newTypesCmd(),
		newCommitCmd(opts),
		newStateCmd(opts),
		newPlayersCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// init resolves configuration (defaults, file, environment, flags, in that
// order) and installs the process loggers.
func (o *options) init() error {
	cfg := app.DefaultConfig()
	if o.configFile != "" {
		loaded, err := app.LoadConfig(o.configFile)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if err := app.ParseEnv(&cfg); err != nil {
		return err
	}

	if o.env != "" {
		cfg.Env = o.env
	}
	if o.backend != "" {
		cfg.Storage.Backend = o.backend
	}
	if o.path != "" {
		cfg.Storage.Path = o.path
	}
	if o.observer != "" {
		cfg.Observer = o.observer
	}
	o.cfg = &cfg

	zcfg := zap.NewProductionConfig()
	if !cfg.IsProduction() {
		zcfg = zap.NewDevelopmentConfig()
	}
	if o.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger
	zap.ReplaceGlobals(logger)
	observability.RegisterObserver("zap", observability.NewZapObserver(logger))

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	slogger := slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(slogger))

	return nil
}

func (o *options) client() *server.Client {
	return server.NewClient(http.DefaultClient, o.remote)
}

func (o *options) open() (*app.App, error) {
	return app.New(o.cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
