package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-env/internal/tui"
)

// TUICmd plays interactively against bots
type TUICmd struct {
	Bots string `default:"random" enum:"random,call,aggressive" help:"Agent for the other seats"`
	Seed int64  `help:"Deterministic seed (overrides the configured seed)"`
}

func (c *TUICmd) Run(app *App) error {
	// The alternate screen only tolerates logs written to a file
	logger := app.Logger
	if app.logFile == nil {
		logger = log.New(io.Discard)
	}

	m, err := tui.New(tui.Config{
		Table:   app.Table,
		Seed:    app.seed(c.Seed),
		Bots:    c.Bots,
		NoColor: app.NoColor,
		Output:  os.Stdout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return m.Err()
}
