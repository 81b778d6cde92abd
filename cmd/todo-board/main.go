package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"todo-board/app"
	"todo-board/config"
	"todo-board/logging"
	"todo-board/output"
	"todo-board/store"
	"todo-board/tui"
	"todo-board/version"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level
var (
	jsonOutput bool
	overrides  config.Overrides
	formatter  output.Formatter = output.NewHumanFormatter()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "todo-board",
		Short:         "A terminal task board",
		Long:          "todo-board - add tasks, move them between To Do, Doing and Done, search and filter them.",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			formatter = output.New(jsonOutput)
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&overrides.ConfigFile, "config", "", "Config file (default $XDG_CONFIG_HOME/todo-board/config.toml)")
	flags.StringVar(&overrides.Driver, "storage", "", "Storage driver: file, sqlite, mysql or memory")
	flags.StringVar(&overrides.Dir, "data-dir", "", "Data directory for the file driver, logs and the default database")
	flags.StringVar(&overrides.DB, "db", "", "SQLite database path")
	flags.StringVar(&overrides.DSN, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(host:3306)/todo")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		uiCmd(),
		addCmd(),
		listCmd(),
		statusCmd(),
		rmCmd(),
		clearCmd(),
		themeCmd(),
		statsCmd(),
		exportCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stderr.WriteString(formatter.FormatError(err)) //nolint:gosec // stderr write errors are unrecoverable
}

// board bundles everything a command needs once config is resolved.
type board struct {
	cfg    *config.Config
	logger *log.Logger
	repo   *store.Repository
	svc    *app.Service
	diags  []store.Diagnostic

	logFile io.Closer
}

// openBoard loads config, sets up logging, opens storage and loads state.
// The TUI logs to a file so log lines never land on the screen.
func openBoard(ctx context.Context, forUI bool) (*board, error) {
	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, err
	}
	b := &board{cfg: cfg}

	var logOut io.Writer = os.Stderr
	if forUI {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, err
		}
		logOut = f
		b.logFile = f
	}
	b.logger, err = logging.New(logOut, logging.Options{
		Level:           cfg.Log.Level,
		Format:          cfg.Log.Format,
		ReportTimestamp: forUI,
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	logging.CaptureStdlib(b.logger)
	if cfg.File != "" {
		b.logger.Debug("config loaded", "file", cfg.File)
	}

	slots, err := store.Open(cfg.StoreOptions())
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	b.repo = store.NewRepository(slots)
	b.logger.Debug("storage opened", "driver", cfg.Storage.Driver, "location", storageLocation(cfg))

	state, diags, err := b.repo.Load(ctx)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}
	for _, d := range diags {
		b.logger.Warn("stored data problem", "key", d.Key, "detail", d.Message, "err", d.Err)
	}
	b.diags = diags

	b.svc = app.NewService(state, b.repo)
	if n := b.svc.RepairedIDs(); n > 0 {
		b.logger.Warn("re-issued duplicate task ids", "count", n)
	}
	return b, nil
}

func (b *board) Close() {
	if b.repo != nil {
		if err := b.repo.Close(); err != nil && b.logger != nil {
			b.logger.Error("close storage", "err", err)
		}
	}
	if b.logFile != nil {
		_ = b.logFile.Close()
	}
}

func storageLocation(cfg *config.Config) string {
	switch cfg.Storage.Driver {
	case store.DriverSQLite:
		return cfg.Storage.DB
	case store.DriverMySQL:
		return store.RedactDSN(cfg.Storage.DSN)
	case store.DriverMemory:
		return "memory"
	default:
		return cfg.Storage.Dir
	}
}

func runUI(ctx context.Context) error {
	b, err := openBoard(ctx, true)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := tui.Options{Context: ctx, Logger: b.logger, Probe: b.repo}
	if len(b.diags) > 0 {
		opts.StartupStatus = b.diags[0].String()
		opts.StartupError = true
	}
	b.logger.Info("starting ui", "tasks", len(b.svc.Tasks()))
	return tui.Run(b.svc, opts)
}
