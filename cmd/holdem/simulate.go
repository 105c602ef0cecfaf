package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/holdem-env/internal/simulator"
)

// SimulateCmd plays many tables concurrently
type SimulateCmd struct {
	Tables     int      `default:"4" help:"Tables to run concurrently"`
	Hands      int      `short:"n" default:"1000" help:"Hands per table"`
	Agents     []string `default:"random" help:"Agent per seat, cycled over the table (random, call, aggressive)"`
	Seed       int64    `help:"Deterministic seed (overrides the configured seed)"`
	HistoryDir string   `help:"Write a PHH file per hand to this directory"`
}

func (c *SimulateCmd) Run(app *App) error {
	sim, err := simulator.New(simulator.Config{
		Tables:     c.Tables,
		Hands:      c.Hands,
		Table:      app.Table,
		Seed:       app.seed(c.Seed),
		Agents:     c.Agents,
		HistoryDir: c.HistoryDir,
		Logger:     app.Logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := app.signalContext()
	defer cancel()

	start := time.Now()
	stats, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprint(os.Stdout, stats.String())
	fmt.Fprintf(os.Stdout, "Elapsed:     %s (%.0f hands/s)\n", elapsed.Round(time.Millisecond), float64(stats.Hands)/elapsed.Seconds())
	return nil
}
