package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/client"
	"github.com/lox/holdem-env/internal/protocol"
	"github.com/lox/holdem-env/internal/server"
)

// ServeCmd hosts a table for remote agents
type ServeCmd struct {
	Addr       string `help:"Listen address (overrides the configured address)"`
	Hands      int    `short:"n" help:"Stop after this many hands (0 = run until interrupted)"`
	MinPlayers int    `default:"1" help:"Remote players required before the first hand"`
	Bots       string `default:"random" enum:"random,call,aggressive" help:"Agent playing seats without a client"`
	Seed       int64  `help:"Deterministic seed (overrides the configured seed)"`
	HistoryDir string `help:"Write a PHH file per hand to this directory"`
}

func (c *ServeCmd) Run(app *App) error {
	addr := c.Addr
	if addr == "" {
		addr = app.Settings.Address
	}
	historyDir := c.HistoryDir
	if historyDir == "" {
		historyDir = app.Settings.HistoryDir
	}

	s, err := server.New(server.Config{
		Name:       app.TableName,
		Table:      app.Table,
		ThinkTime:  app.Settings.ThinkTimeout(),
		MinPlayers: c.MinPlayers,
		Hands:      c.Hands,
		Bots:       c.Bots,
		Seed:       app.seed(c.Seed),
		HistoryDir: historyDir,
		Logger:     app.Logger,
	})
	if err != nil {
		return err
	}

	app.Logger.Info("Starting holdem server",
		"address", addr,
		"table", app.TableName,
		"seats", app.Table.Seats,
		"blinds", app.Table.Blinds,
		"stack_cap", app.Table.StackCap,
		"think_time", app.Settings.ThinkTimeout(),
		"min_players", c.MinPlayers)

	ctx, cancel := app.signalContext()
	defer cancel()

	err = s.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ConnectCmd plays a built-in agent at a remote table
type ConnectCmd struct {
	URL   string `help:"Server URL (defaults to the configured address)"`
	Name  string `default:"agent" help:"Player name"`
	Agent string `short:"a" default:"call" enum:"random,call,aggressive" help:"Agent to play"`
	Seed  int64  `help:"Seed for the agent"`
}

func (c *ConnectCmd) Run(app *App) error {
	url := c.URL
	if url == "" {
		url = "http://" + app.Settings.Address
	}
	a, err := agent.New(c.Agent, newRand(app.seed(c.Seed)))
	if err != nil {
		return err
	}

	ctx, cancel := app.signalContext()
	defer cancel()

	conn, err := client.Dial(ctx, url, app.Logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Join(c.Name); err != nil {
		return err
	}

	result, err := conn.Play(ctx, a, func(u protocol.Update) {
		if u.Observation.Done && u.Seat >= 0 {
			app.Logger.Info("Hand finished", "hand", u.Observation.HandID, "winners", u.Observation.Winners, "reward", u.Observation.Rewards[conn.Seat()])
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(os.Stdout, "Hands: %d  Decisions: %d  Net: %+g\n", result.Hands, result.Decisions, result.Net)
	return nil
}
