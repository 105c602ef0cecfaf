package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/display"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/phh"
	"github.com/lox/holdem-env/internal/randutil"
)

// maxSteps bounds a single hand
const maxSteps = 10000

// PlayCmd plays hands between built-in agents and renders every step
type PlayCmd struct {
	Hands      int    `short:"n" default:"1" help:"Number of hands to play"`
	Agent      string `short:"a" default:"random" enum:"random,call,aggressive" help:"Agent for every seat"`
	Seed       int64  `help:"Deterministic seed (overrides the configured seed)"`
	HistoryDir string `help:"Write a PHH file per hand to this directory"`
}

func (c *PlayCmd) Run(app *App) error {
	return c.play(app, os.Stdout)
}

func (c *PlayCmd) play(app *App, out io.Writer) error {
	if c.Hands < 1 {
		return fmt.Errorf("hands must be positive, got %d", c.Hands)
	}
	seed := app.seed(c.Seed)

	agents := make([]agent.Agent, app.Table.Seats)
	for seat := range agents {
		a, err := agent.New(c.Agent, randutil.New(seed*31+int64(seat)))
		if err != nil {
			return err
		}
		agents[seat] = a
	}

	historyDir := c.HistoryDir
	if historyDir == "" {
		historyDir = app.Settings.HistoryDir
	}
	opts := []game.Option{game.WithLogger(app.Logger)}
	var recorder *phh.Recorder
	if historyDir != "" {
		rec, err := phh.NewRecorder(historyDir, app.TableName, app.Logger)
		if err != nil {
			return err
		}
		recorder = rec
		bus := game.NewEventBus(app.Logger)
		bus.Subscribe(rec)
		opts = append(opts, game.WithEventBus(bus))
	}

	oracle := evaluator.New()
	table, err := game.NewTable(app.Table, deck.NewDeck(randutil.New(seed)), oracle, opts...)
	if err != nil {
		return err
	}

	var renderOpts []display.Option
	if app.NoColor {
		renderOpts = append(renderOpts, display.NoColor())
	}
	renderer := display.New(out, append(renderOpts, display.WithLogger(app.Logger))...)

	for range c.Hands {
		if err := playHand(table, agents, renderer, oracle, out); err != nil {
			return err
		}
	}

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			app.Logger.Warn("Hand history incomplete", "error", err)
		}
		app.Logger.Info("Hand histories written", "dir", historyDir, "files", recorder.Written())
	}
	return nil
}

// playHand renders the table after every applied action, skipping bypassed
// seats, then prints the showdown summary
func playHand(table *game.Table, agents []agent.Agent, r *display.Renderer, d display.Describer, out io.Writer) error {
	if err := table.Reset(); err != nil {
		return err
	}
	fmt.Fprint(out, r.SafeRender(table.Observe(), nil))

	for steps := 0; !table.Done(); steps++ {
		if steps >= maxSteps {
			return fmt.Errorf("hand %s did not finish", table.HandID())
		}
		obs := table.Observe()
		seat := obs.Actor
		res, err := table.Step(seat, agents[seat].Act(obs))
		if err != nil {
			return err
		}
		if err := table.CheckChips(); err != nil {
			return err
		}
		if res.SkipRender {
			continue
		}
		last := &display.LastAction{Seat: seat, Action: *res.Observation.LastActions[seat]}
		fmt.Fprint(out, r.SafeRender(res.Observation, last))
	}

	fmt.Fprint(out, r.Summary(table.Result(), d))
	fmt.Fprintln(out)
	return nil
}
