// Package simulator plays many tables of agent-driven hands concurrently
// and aggregates the outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/phh"
	"github.com/lox/holdem-env/internal/randutil"
)

// maxSteps bounds a single hand; agents that never stop raising are a bug
const maxSteps = 10000

// Config holds configuration for running simulations
type Config struct {
	Tables int
	Hands  int // per table
	Table  game.Config
	Seed   int64
	// Agents names the agent for each seat, cycling when shorter than the
	// table. Empty means every seat is random.
	Agents     []string
	HistoryDir string
	Logger     *log.Logger
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Tables < 1 || config.Hands < 1 {
		return nil, fmt.Errorf("tables and hands must be positive, got %d and %d", config.Tables, config.Hands)
	}
	if err := config.Table.Validate(); err != nil {
		return nil, err
	}
	if len(config.Agents) == 0 {
		config.Agents = []string{"random"}
	}
	for _, name := range config.Agents {
		if _, err := agent.New(name, randutil.New(0)); err != nil {
			return nil, err
		}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}, nil
}

// Run plays every table in its own goroutine. The first table error cancels
// the rest.
func (s *Simulator) Run(ctx context.Context) (Stats, error) {
	results := make([]Stats, s.config.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for i := range s.config.Tables {
		g.Go(func() error {
			stats, err := s.runTable(ctx, i)
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	total := newStats(s.config.Table.Seats)
	for _, r := range results {
		total.merge(r)
	}
	s.logger.Info("Simulation complete", "tables", s.config.Tables, "hands", total.Hands, "showdowns", total.Showdowns)
	return total, nil
}

func (s *Simulator) runTable(ctx context.Context, idx int) (Stats, error) {
	seed := s.config.Seed + int64(idx)*7919
	seats := s.config.Table.Seats
	logger := s.logger.With("table", idx)

	agents := make([]agent.Agent, seats)
	for seat := range agents {
		name := s.config.Agents[seat%len(s.config.Agents)]
		a, err := agent.New(name, randutil.New(seed*31+int64(seat)))
		if err != nil {
			return Stats{}, err
		}
		agents[seat] = a
	}

	opts := []game.Option{game.WithLogger(logger)}
	if s.config.HistoryDir != "" {
		rec, err := phh.NewRecorder(s.config.HistoryDir, fmt.Sprintf("table-%d", idx), logger)
		if err != nil {
			return Stats{}, err
		}
		bus := game.NewEventBus(logger)
		bus.Subscribe(rec)
		opts = append(opts, game.WithEventBus(bus))
	}

	table, err := game.NewTable(s.config.Table, deck.NewDeck(randutil.New(seed)), evaluator.New(), opts...)
	if err != nil {
		return Stats{}, err
	}

	stats := newStats(seats)
	for hand := range s.config.Hands {
		if err := ctx.Err(); err != nil {
			return Stats{}, err
		}
		steps, err := playHand(table, agents)
		if err != nil {
			return Stats{}, fmt.Errorf("hand %d (%s): %w", hand, table.HandID(), err)
		}
		stats.record(table.Result(), steps)
		logger.Debug("Hand finished", "hand", table.HandID(), "steps", steps, "winners", table.Result().Winners)
	}
	return stats, nil
}

// playHand runs one hand to completion, checking chip conservation after
// every step
func playHand(table *game.Table, agents []agent.Agent) (int, error) {
	if err := table.Reset(); err != nil {
		return 0, err
	}
	steps := 0
	for !table.Done() {
		if steps >= maxSteps {
			return steps, errors.New("hand did not finish")
		}
		obs := table.Observe()
		if _, err := table.Step(obs.Actor, agents[obs.Actor].Act(obs)); err != nil {
			return steps, err
		}
		if err := table.CheckChips(); err != nil {
			return steps, err
		}
		steps++
	}
	return steps, nil
}

// Stats aggregates finished hands
type Stats struct {
	Hands       int
	Steps       int
	Showdowns   int // hands decided by the oracle
	Uncontested int // hands won by the last seat standing
	SplitPots   int
	TotalPot    int64
	Net         []float64 // net chips per seat
}

func newStats(seats int) Stats {
	return Stats{Net: make([]float64, seats)}
}

func (s *Stats) record(r *game.ShowdownResult, steps int) {
	s.Hands++
	s.Steps += steps
	s.TotalPot += int64(r.Pot)
	if r.Uncontested() {
		s.Uncontested++
	} else {
		s.Showdowns++
	}
	if len(r.Winners) > 1 {
		s.SplitPots++
	}
	for seat, reward := range r.Rewards {
		s.Net[seat] += reward
	}
}

func (s *Stats) merge(o Stats) {
	s.Hands += o.Hands
	s.Steps += o.Steps
	s.Showdowns += o.Showdowns
	s.Uncontested += o.Uncontested
	s.SplitPots += o.SplitPots
	s.TotalPot += o.TotalPot
	for i := range o.Net {
		s.Net[i] += o.Net[i]
	}
}

// AveragePot is the mean pot size
func (s Stats) AveragePot() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.TotalPot) / float64(s.Hands)
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hands:       %d (%d steps)\n", s.Hands, s.Steps)
	fmt.Fprintf(&b, "Showdowns:   %d\n", s.Showdowns)
	fmt.Fprintf(&b, "Uncontested: %d\n", s.Uncontested)
	fmt.Fprintf(&b, "Split pots:  %d\n", s.SplitPots)
	fmt.Fprintf(&b, "Average pot: %.1f\n", s.AveragePot())
	b.WriteString("Net by seat:\n")
	for seat, net := range s.Net {
		fmt.Fprintf(&b, "  seat %d: %+.1f\n", seat, net)
	}
	return b.String()
}
