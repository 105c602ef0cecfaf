// Package tui plays hands interactively: the human holds seat 0 and the
// other seats are built-in agents.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/display"
	"github.com/lox/holdem-env/internal/evaluator"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/randutil"
)

// humanSeat is the seat typed commands act for
const humanSeat = 0

// Config configures an interactive session
type Config struct {
	Table   game.Config
	Seed    int64
	Bots    string // agent name for the other seats
	NoColor bool
	Output  io.Writer // used to detect the color profile
	Logger  *log.Logger
}

// Model is the Bubble Tea model for interactive play. Bots act
// synchronously inside Update, so the table only ever changes there.
type Model struct {
	table    *game.Table
	bots     []agent.Agent
	renderer *display.Renderer
	oracle   *evaluator.Evaluator
	logger   *log.Logger

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog []string
	status  string
	hands   int
	net     float64

	width    int
	height   int
	quitting bool
	err      error
}

// New creates the model and deals the first hand
func New(cfg Config) (*Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger = logger.WithPrefix("tui")
	if cfg.Bots == "" {
		cfg.Bots = "random"
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}

	bots := make([]agent.Agent, cfg.Table.Seats)
	for seat := range bots {
		if seat == humanSeat {
			continue
		}
		a, err := agent.New(cfg.Bots, randutil.New(cfg.Seed*31+int64(seat)))
		if err != nil {
			return nil, err
		}
		bots[seat] = a
	}

	oracle := evaluator.New()
	table, err := game.NewTable(cfg.Table, deck.NewDeck(randutil.New(cfg.Seed)), oracle, game.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	var opts []display.Option
	if cfg.NoColor {
		opts = append(opts, display.NoColor())
	}
	opts = append(opts, display.WithLogger(logger))

	vp := viewport.New(10, 5)
	ti := textinput.New()
	ti.Placeholder = "f to fold, c to call or check, r 300 to raise, q to quit"
	ti.Focus()
	ti.CharLimit = 32
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(feltColor).Bold(true)

	m := &Model{
		table:       table,
		bots:        bots,
		renderer:    display.New(cfg.Output, opts...),
		oracle:      oracle,
		logger:      logger,
		logViewport: vp,
		actionInput: ti,
	}
	if err := m.deal(); err != nil {
		return nil, err
	}
	return m, nil
}

// Err is the table failure that ended the session, if any
func (m *Model) Err() error {
	return m.err
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if cmd := m.submit(input); cmd != nil {
				return m, cmd
			}
		case "pgup":
			m.logViewport.HalfPageUp()
		case "pgdown":
			m.logViewport.HalfPageDown()
		}
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles one typed command
func (m *Model) submit(input string) tea.Cmd {
	if input == "q" || input == "quit" {
		m.quitting = true
		return tea.Quit
	}

	if m.table.Done() {
		if err := m.deal(); err != nil {
			return m.fail(err)
		}
		return nil
	}

	action, err := game.ParseAction(input)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = ""
	if err := m.step(humanSeat, action); err != nil {
		if m.table.Err() != nil {
			return m.fail(err)
		}
		m.status = err.Error()
		return nil
	}
	if err := m.runBots(); err != nil {
		return m.fail(err)
	}
	return nil
}

func (m *Model) fail(err error) tea.Cmd {
	m.logger.Error("Table failed", "error", err)
	m.err = err
	m.quitting = true
	return tea.Quit
}

// deal starts a hand and plays bots up to the human's first decision
func (m *Model) deal() error {
	if err := m.table.Reset(); err != nil {
		return err
	}
	m.status = ""
	m.appendLog(m.renderer.SafeRender(m.table.Observe(), nil))
	return m.runBots()
}

// runBots steps every seat but the human's until the human must decide or
// the hand ends
func (m *Model) runBots() error {
	for !m.table.Done() {
		seat := m.table.CurrentActor()
		player := m.table.Player(seat)
		if seat == humanSeat {
			if !player.ShouldPass() {
				return nil
			}
			if err := m.step(seat, game.FoldAction()); err != nil {
				return err
			}
			continue
		}
		if err := m.step(seat, m.bots[seat].Act(m.table.Observe())); err != nil {
			return fmt.Errorf("bot at seat %d: %w", seat, err)
		}
	}
	return nil
}

// step applies an action and logs the rendered table
func (m *Model) step(seat int, action game.Action) error {
	res, err := m.table.Step(seat, action)
	if err != nil {
		return err
	}
	if res.SkipRender {
		return nil
	}
	obs := res.Observation
	last := &display.LastAction{Seat: seat, Action: *obs.LastActions[seat]}
	m.appendLog(m.renderer.SafeRender(obs, last))

	if res.Done {
		m.hands++
		m.net += res.Rewards[humanSeat]
		m.appendLog(m.renderer.Summary(m.table.Result(), m.oracle))
		m.status = fmt.Sprintf("Hand over, you %s. Enter to deal the next hand.", describeReward(res.Rewards[humanSeat]))
	}
	return nil
}

func describeReward(r float64) string {
	switch {
	case r > 0:
		return fmt.Sprintf("won %g", r)
	case r < 0:
		return fmt.Sprintf("lost %g", -r)
	default:
		return "broke even"
	}
}

func (m *Model) appendLog(s string) {
	if s == "" {
		return
	}
	m.gameLog = append(m.gameLog, strings.TrimRight(s, "\n"))
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
}

func (m *Model) resize() {
	// border, status line, input and help
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-6, 1)
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(railColor).
		Render(m.logViewport.View())

	var b strings.Builder
	b.WriteString(logPane)
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.actionInput.View())
	b.WriteByte('\n')
	b.WriteString(footerStyle.Render(fmt.Sprintf("Hands %d • net %+g • PgUp/PgDn scroll • Ctrl+C to quit", m.hands, m.net)))
	return b.String()
}

func (m *Model) statusLine() string {
	if m.status != "" {
		if m.table.Done() {
			return handOverStyle.Render(m.status)
		}
		return rejectedStyle.Render(m.status)
	}
	obs := m.table.Observe()
	if obs.Actor != humanSeat {
		return decisionStyle.Render("Waiting...")
	}
	return decisionStyle.Render(fmt.Sprintf("Seat %d • hand %s • to call %d • min raise %d • stack %d",
		humanSeat, deck.FormatCards(obs.ActorHand), obs.ToCall, obs.MinRaise, obs.Stacks[humanSeat]))
}
