package server

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/phh"
	"github.com/lox/holdem-env/internal/protocol"
	"github.com/lox/holdem-env/internal/randutil"
)

// event is anything the game loop reacts to
type event any

type joinEvent struct {
	conn *Connection
	name string
}

type actionEvent struct {
	conn   *Connection
	action protocol.Action
}

type leaveEvent struct {
	conn *Connection
}

// timeoutEvent fires when the seat asked by request seq did not answer
type timeoutEvent struct {
	seq uint64
}

// host owns the table. Only the run goroutine touches it, which keeps every
// Step call serialized.
type host struct {
	server *Server
	config Config
	logger *log.Logger

	table *game.Table
	conns []*Connection // by seat, nil while a bot plays the seat
	bots  []agent.Agent

	started  bool
	finished bool
	hands    int

	seq   uint64 // identifies the outstanding action request
	timer *quartz.Timer
}

func newHost(s *Server) (*host, error) {
	cfg := s.config
	logger := s.logger.With("table", cfg.Name)
	seed := randutil.Seed(cfg.Seed, s.clock)

	bots := make([]agent.Agent, cfg.Table.Seats)
	for seat := range bots {
		a, err := agent.New(cfg.Bots, randutil.New(seed*31+int64(seat)))
		if err != nil {
			return nil, err
		}
		bots[seat] = a
	}

	opts := []game.Option{game.WithLogger(logger), game.WithClock(s.clock)}
	if cfg.HistoryDir != "" {
		rec, err := phh.NewRecorder(cfg.HistoryDir, cfg.Name, logger)
		if err != nil {
			return nil, err
		}
		bus := game.NewEventBus(logger)
		bus.Subscribe(rec)
		opts = append(opts, game.WithEventBus(bus))
	}

	table, err := game.NewTable(cfg.Table, deck.NewDeck(randutil.New(seed)), evaluator.New(), opts...)
	if err != nil {
		return nil, err
	}

	return &host{
		server: s,
		config: cfg,
		logger: logger,
		table:  table,
		conns:  make([]*Connection, cfg.Table.Seats),
		bots:   bots,
	}, nil
}

func (h *host) run(ctx context.Context) error {
	h.logger.Info("Waiting for players", "seats", h.config.Table.Seats, "min", h.config.MinPlayers)
	for !h.finished {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-h.server.inbox:
			if err := h.handle(e); err != nil {
				return err
			}
		}
	}
	h.logger.Info("Hand limit reached", "hands", h.hands)
	return nil
}

func (h *host) handle(e event) error {
	switch e := e.(type) {
	case joinEvent:
		return h.join(e.conn, e.name)
	case actionEvent:
		return h.act(e.conn, e.action)
	case leaveEvent:
		return h.leave(e.conn)
	case timeoutEvent:
		return h.timeout(e.seq)
	}
	return fmt.Errorf("unknown event %T", e)
}

func (h *host) join(c *Connection, name string) error {
	if c.seat >= 0 {
		c.sendError(protocol.CodeBadMessage, "already seated")
		return nil
	}
	seat := slices.Index(h.conns, nil)
	if seat < 0 {
		c.sendError(protocol.CodeTableFull, "no empty seats")
		return nil
	}
	if name == "" {
		name = fmt.Sprintf("seat-%d", seat)
	}
	c.seat, c.name = seat, name
	h.conns[seat] = c
	h.logger.Info("Player joined", "seat", seat, "name", name)

	cfg := h.config.Table
	c.sendType(protocol.TypeWelcome, protocol.Welcome{
		Seat:     seat,
		Seats:    cfg.Seats,
		StackCap: cfg.StackCap,
		Blinds:   cfg.Blinds.String(),
	})

	if !h.started && h.seated() >= h.config.MinPlayers {
		if err := h.deal(); err != nil {
			return err
		}
		return h.advance()
	}
	return nil
}

func (h *host) leave(c *Connection) error {
	c.Close()
	if c.seat < 0 || h.conns[c.seat] != c {
		return nil
	}
	seat := c.seat
	h.conns[seat] = nil
	c.seat = -1
	h.logger.Info("Player left, bot takes the seat", "seat", seat, "name", c.name)

	if h.started && !h.table.Done() && h.table.CurrentActor() == seat {
		h.cancelRequest()
		return h.advance()
	}
	return nil
}

func (h *host) act(c *Connection, msg protocol.Action) error {
	switch {
	case c.seat < 0:
		c.sendError(protocol.CodeNotSeated, "join before acting")
		return nil
	case !h.started || h.table.Done():
		c.sendError(protocol.CodeHandComplete, "no hand in progress")
		return nil
	case msg.HandID != "" && msg.HandID != h.table.HandID():
		c.sendError(protocol.CodeHandComplete, fmt.Sprintf("hand %s is over", msg.HandID))
		return nil
	case c.seat != h.table.CurrentActor():
		c.sendError(protocol.CodeOutOfTurn, fmt.Sprintf("waiting on seat %d", h.table.CurrentActor()))
		return nil
	}

	action, err := msg.Game()
	if err != nil {
		c.sendError(protocol.CodeIllegal, err.Error())
		return nil
	}
	if err := h.apply(c.seat, action); err != nil {
		if h.table.Err() != nil {
			return err
		}
		// The request stays open; the client may try again before the timer fires.
		c.sendError(protocol.CodeIllegal, err.Error())
		return nil
	}
	return h.advance()
}

func (h *host) timeout(seq uint64) error {
	if seq != h.seq || h.timer == nil {
		return nil
	}
	seat := h.table.CurrentActor()
	h.logger.Warn("Decision timeout, folding", "seat", seat, "think_time", h.config.ThinkTime)
	if err := h.apply(seat, game.FoldAction()); err != nil {
		return err
	}
	return h.advance()
}

// deal starts the next hand and tells every client about it
func (h *host) deal() error {
	if err := h.table.Reset(); err != nil {
		return err
	}
	h.started = true
	h.logger.Debug("Hand started", "hand", h.table.HandID(), "button", h.table.Button())
	h.broadcast(protocol.Update{Seat: -1, Observation: protocol.NewObservation(h.table.Observe(), false)})
	return nil
}

// advance lets bots act until a remote seat has to decide, dealing new
// hands as they finish
func (h *host) advance() error {
	for {
		if h.table.Done() {
			h.hands++
			h.logger.Info("Hand finished", "hand", h.table.HandID(), "winners", h.table.Result().Winners, "hands", h.hands)
			if h.config.Hands > 0 && h.hands >= h.config.Hands {
				h.finished = true
				return nil
			}
			if h.seated() < h.config.MinPlayers {
				h.started = false
				h.logger.Info("Waiting for players", "seated", h.seated(), "min", h.config.MinPlayers)
				return nil
			}
			if err := h.deal(); err != nil {
				return err
			}
			continue
		}

		seat := h.table.CurrentActor()
		player := h.table.Player(seat)
		if c := h.conns[seat]; c != nil && !player.ShouldPass() {
			h.request(c)
			return nil
		}
		if err := h.apply(seat, h.bots[seat].Act(h.table.Observe())); err != nil {
			return fmt.Errorf("bot at seat %d: %w", seat, err)
		}
	}
}

// request asks a remote seat to act. The timer is armed before the request
// goes out so a client can never answer an unarmed request.
func (h *host) request(c *Connection) {
	h.cancelRequest()
	h.seq++
	seq := h.seq
	h.timer = h.server.clock.AfterFunc(h.config.ThinkTime, func() {
		h.server.submit(timeoutEvent{seq: seq})
	}, "think")

	c.sendType(protocol.TypeActionRequest, protocol.ActionRequest{
		Seat:        c.seat,
		TimeoutMS:   h.config.ThinkTime.Milliseconds(),
		Observation: protocol.NewObservation(h.table.Observe(), true),
	})
}

func (h *host) cancelRequest() {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
}

// apply steps the table and tells every client what was recorded
func (h *host) apply(seat int, action game.Action) error {
	res, err := h.table.Step(seat, action)
	if err != nil {
		return err
	}
	h.cancelRequest()
	if err := h.table.CheckChips(); err != nil {
		return err
	}
	if res.Observation == nil {
		return nil
	}

	update := protocol.Update{Seat: seat, Observation: protocol.NewObservation(res.Observation, false)}
	if recorded := res.Observation.LastActions[seat]; recorded != nil {
		update.Action = recorded.Kind.String()
		update.Amount = recorded.Amount
	}
	h.broadcast(update)
	return nil
}

func (h *host) broadcast(update protocol.Update) {
	msg, err := protocol.NewMessage(protocol.TypeUpdate, update)
	if err != nil {
		h.logger.Error("Failed to create update", "error", err)
		return
	}
	for _, c := range h.conns {
		if c == nil {
			continue
		}
		if err := c.Send(msg); err != nil {
			h.logger.Debug("Failed to send update", "seat", c.seat, "error", err)
		}
	}
}

func (h *host) seated() int {
	n := 0
	for _, c := range h.conns {
		if c != nil {
			n++
		}
	}
	return n
}

func (h *host) closeAll() {
	h.cancelRequest()
	for _, c := range h.conns {
		if c != nil {
			c.Close()
		}
	}
}
