package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/gameid"
)

// Dealer shuffles and deals cards. Draw must never repeat a card within a hand.
type Dealer interface {
	Shuffle()
	Draw(n int) ([]deck.Card, error)
}

// Oracle scores a hand. Lower scores are stronger; equal scores tie.
type Oracle interface {
	Evaluate(board, hole []deck.Card) (int, error)
}

// OracleFunc adapts a function to Oracle
type OracleFunc func(board, hole []deck.Card) (int, error)

func (f OracleFunc) Evaluate(board, hole []deck.Card) (int, error) { return f(board, hole) }

// IDGenerator produces hand ids
type IDGenerator interface {
	Generate() string
}

// Config is fixed at table creation
type Config struct {
	Seats    int
	StackCap int // chips every seat starts each hand with
	Blinds   Blinds
}

// Validate checks the table configuration
func (c Config) Validate() error {
	if c.Seats < 2 || c.Seats > 10 {
		return fmt.Errorf("seats must be between 2 and 10, got %d", c.Seats)
	}
	if c.Blinds.Small <= 0 || c.Blinds.Big <= c.Blinds.Small {
		return fmt.Errorf("blinds %s: big blind must exceed a positive small blind", c.Blinds)
	}
	if c.StackCap <= c.Blinds.Big {
		return fmt.Errorf("stack cap %d must exceed the big blind %d", c.StackCap, c.Blinds.Big)
	}
	return nil
}

// Option configures a Table during creation
type Option func(*Table)

// WithLogger sets the table logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithEventBus publishes hand events to bus
func WithEventBus(bus *EventBus) Option {
	return func(t *Table) {
		t.bus = bus
	}
}

// WithClock sets the clock used for event timestamps and default hand ids
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) {
		t.clock = clock
	}
}

// WithHandIDs sets the hand id generator
func WithHandIDs(ids IDGenerator) Option {
	return func(t *Table) {
		t.ids = ids
	}
}

// Table is one hand of Hold'em at a fixed ring of seats. It is mutated in
// place by Reset and Step and must not be shared between goroutines.
type Table struct {
	cfg    Config
	seats  []*Player
	dealer Dealer
	oracle Oracle

	logger *log.Logger
	bus    *EventBus
	clock  quartz.Clock
	ids    IDGenerator

	button, sbSeat, bbSeat, utgSeat int

	street        Street
	board         []deck.Card
	playersInHand int // seats that have not folded
	bet           betting
	totalPot      int
	actor         int
	rewards       []float64

	handNumber int
	handID     string
	started    bool
	done       bool
	err        error // collaborator failure that ended the hand
	result     *ShowdownResult
}

// NewTable creates a table. The first Reset moves the button to the last seat
// so seat 0 posts the small blind.
func NewTable(cfg Config, dealer Dealer, oracle Oracle, opts ...Option) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dealer == nil || oracle == nil {
		return nil, fmt.Errorf("dealer and oracle are required")
	}

	t := &Table{
		cfg:     cfg,
		dealer:  dealer,
		oracle:  oracle,
		button:  cfg.Seats - 2,
		actor:   -1,
		rewards: make([]float64, cfg.Seats),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = discardLogger()
	}
	t.logger = t.logger.WithPrefix("table")
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	if t.ids == nil {
		t.ids = gameid.NewGenerator(t.clock, nil)
	}

	t.seats = make([]*Player, cfg.Seats)
	for i := range t.seats {
		t.seats[i] = &Player{ID: i, Stack: cfg.StackCap}
	}
	return t, nil
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// Reset starts a new hand: rotate the button, re-endow every seat, post the
// blinds and deal hole cards.
func (t *Table) Reset() error {
	n := len(t.seats)
	t.dealer.Shuffle()

	t.street = Preflop
	t.board = nil
	t.button = (t.button + 1) % n
	t.sbSeat = (t.button + 1) % n
	t.bbSeat = (t.button + 2) % n
	t.utgSeat = (t.button + 3) % n
	t.playersInHand = n
	t.bet = betting{highWater: t.cfg.Blinds.Big, minRaise: t.cfg.Blinds.Big, bigBlind: t.cfg.Blinds.Big}
	t.done = false
	t.err = nil
	t.result = nil
	t.handNumber++
	t.handID = t.ids.Generate()

	for _, p := range t.seats {
		p.reset(t.cfg.StackCap)
	}
	t.seats[t.sbSeat].bet(t.cfg.Blinds.Small)
	t.seats[t.bbSeat].bet(t.cfg.Blinds.Big)
	t.updateTotals()

	for _, p := range t.seats {
		cards, err := t.dealer.Draw(2)
		if err != nil {
			return t.fail(fmt.Errorf("dealing seat %d: %w: %w", p.ID, ErrDealer, err))
		}
		p.Hand = cards
	}

	t.actor = t.utgSeat
	t.started = true

	t.logger.Info("Hand started",
		"hand", t.handID,
		"number", t.handNumber,
		"button", t.button,
		"blinds", t.cfg.Blinds)

	hands := make([][]deck.Card, n)
	for i, p := range t.seats {
		hands[i] = cloneCards(p.Hand)
	}
	t.publish(HandStartEvent{
		HandID:     t.handID,
		HandNumber: t.handNumber,
		Button:     t.button,
		SmallBlind: t.sbSeat,
		BigBlind:   t.bbSeat,
		Blinds:     t.cfg.Blinds,
		StackCap:   t.cfg.StackCap,
		Hands:      hands,
		timestamp:  t.clock.Now(),
	})
	return nil
}

// fail ends the hand after a collaborator fault
func (t *Table) fail(err error) error {
	t.logger.Error("Hand aborted", "hand", t.handID, "error", err)
	t.err = err
	t.done = true
	t.actor = -1
	return err
}

// updateTotals recomputes the pot and the running rewards from the stacks
func (t *Table) updateTotals() {
	t.totalPot = 0
	for i, p := range t.seats {
		t.totalPot += t.cfg.StackCap - p.Stack
		t.rewards[i] = float64(p.Stack - t.cfg.StackCap)
	}
}

func (t *Table) publish(e GameEvent) {
	if t.bus != nil {
		t.bus.Publish(e)
	}
}

// Config returns the table configuration
func (t *Table) Config() Config { return t.cfg }

// HandID returns the id of the current hand
func (t *Table) HandID() string { return t.handID }

// HandNumber counts hands started at this table
func (t *Table) HandNumber() int { return t.handNumber }

// Button returns the dealer seat
func (t *Table) Button() int { return t.button }

// Street returns the current betting round
func (t *Table) Street() Street { return t.street }

// CurrentActor returns the seat whose action is awaited, or -1 when none
func (t *Table) CurrentActor() int { return t.actor }

// PlayersInHand counts seats that have not folded
func (t *Table) PlayersInHand() int { return t.playersInHand }

// TotalPot returns every chip put in this hand
func (t *Table) TotalPot() int { return t.totalPot }

// Done reports whether the hand is finished
func (t *Table) Done() bool { return t.done }

// Err returns the collaborator failure that ended the hand, if any
func (t *Table) Err() error { return t.err }

// Result returns the showdown outcome once the hand is done
func (t *Table) Result() *ShowdownResult { return t.result }

// Board returns a copy of the community cards
func (t *Table) Board() []deck.Card { return cloneCards(t.board) }

// Rewards returns a copy of each seat's net result
func (t *Table) Rewards() []float64 {
	out := make([]float64, len(t.rewards))
	copy(out, t.rewards)
	return out
}

// Player returns a copy of a seat's state
func (t *Table) Player(seat int) Player {
	p := *t.seats[seat]
	p.Hand = cloneCards(p.Hand)
	if p.LastAction != nil {
		a := *p.LastAction
		p.LastAction = &a
	}
	return p
}

// Seats returns the number of seats
func (t *Table) Seats() int { return len(t.seats) }

// CheckChips verifies that no chip has been created or destroyed this hand
func (t *Table) CheckChips() error {
	stacks, committed := 0, 0
	for _, p := range t.seats {
		if p.Stack < 0 {
			return fmt.Errorf("seat %d has negative stack %d", p.ID, p.Stack)
		}
		stacks += p.Stack
		committed += p.Committed
	}
	want := len(t.seats) * t.cfg.StackCap
	if stacks+committed != want || stacks+t.totalPot != want {
		return fmt.Errorf("chip conservation violated: stacks %d + committed %d (pot %d) != %d",
			stacks, committed, t.totalPot, want)
	}
	return nil
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	out := make([]deck.Card, len(cards))
	copy(out, cards)
	return out
}
