package main

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-env/internal/config"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/randutil"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"holdem.hcl" help:"HCL configuration file (defaults apply when missing)"`
	EnvFile  string           `default:".env" help:"dotenv file with HOLDEM_* overrides"`
	LogLevel string           `help:"Override the configured log level (debug, info, warn, error)"`
	NoColor  bool             `help:"Disable colored output"`
	Table    string           `short:"t" help:"Table block to play (defaults to the first)"`

	Play     PlayCmd     `cmd:"" default:"withargs" help:"Play hands between built-in agents, rendering every action"`
	Simulate SimulateCmd `cmd:"" help:"Play many tables concurrently and print statistics"`
	Serve    ServeCmd    `cmd:"" help:"Host a table for remote agents over websocket"`
	Connect  ConnectCmd  `cmd:"" help:"Seat a built-in agent at a remote table"`
	TUI      TUICmd      `cmd:"tui" help:"Play against bots in the terminal"`
	History  HistoryCmd  `cmd:"" help:"Work with PHH hand history files"`
}

// App is what every command runs with
type App struct {
	Settings  *config.Settings
	Table     game.Config
	TableName string
	Logger    *log.Logger
	NoColor   bool

	logFile io.Closer
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("No-limit Texas Hold'em betting-round engine for agents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	app, err := cli.app()
	ctx.FatalIfErrorf(err)
	defer app.Close()

	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}

// app loads configuration and builds the logger
func (cli *CLI) app() (*App, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(cli.EnvFile); err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Settings.LogLevel = cli.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	table, err := cfg.Table(cli.Table)
	if err != nil {
		return nil, err
	}
	gameCfg, err := table.GameConfig()
	if err != nil {
		return nil, err
	}

	app := &App{
		Settings:  cfg.Settings,
		Table:     gameCfg,
		TableName: table.Name,
		NoColor:   cli.NoColor,
	}

	var out io.Writer = os.Stderr
	if cfg.Settings.LogFile != "" {
		f, err := os.OpenFile(cfg.Settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		app.logFile = f
	}
	app.Logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.Settings.Level(),
	})
	return app, nil
}

// Close releases the log file, if any
func (a *App) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// signalContext is cancelled on interrupt signals
func (a *App) signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			a.Logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// seed resolves the configured seed, logging the one in use so runs can be
// replayed
func (a *App) seed(override int64) int64 {
	seed := a.Settings.Seed
	if override != 0 {
		seed = override
	}
	if seed == 0 {
		seed = randSeed()
		a.Logger.Info("Using random seed", "seed", seed)
	} else {
		a.Logger.Debug("Using deterministic seed", "seed", seed)
	}
	return seed
}

func randSeed() int64 {
	return randutil.Seed(0, quartz.NewReal())
}

func newRand(seed int64) *rand.Rand {
	return randutil.New(seed)
}
