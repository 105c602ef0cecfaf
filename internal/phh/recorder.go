package phh

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-env/internal/fileutil"
	"github.com/lox/holdem-env/internal/game"
)

// maxFailures disables a recorder after this many consecutive write errors
const maxFailures = 3

// Recorder subscribes to a table's events and writes one PHH file per
// finished hand to its directory.
type Recorder struct {
	dir    string
	table  string
	logger *log.Logger

	mu       sync.Mutex
	current  *handState
	written  int
	failures int
	disabled bool
	lastErr  error
}

type handState struct {
	history *HandHistory
	// PHH numbers players from the small blind; seatToIdx maps table seats
	// to that order
	seatToIdx []int
	stackCap  int
}

// NewRecorder creates dir if needed. table names the table in every history.
func NewRecorder(dir, table string, logger *log.Logger) (*Recorder, error) {
	if dir == "" {
		return nil, errors.New("phh: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("phh: create dir: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		dir:    dir,
		table:  table,
		logger: logger.WithPrefix("phh"),
	}, nil
}

// Path returns where the history of handID is written
func (r *Recorder) Path(handID string) string {
	return filepath.Join(r.dir, handID+".phh")
}

// Written counts hands saved so far
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Err returns the most recent write failure
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// OnEvent implements game.Subscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disabled {
		return
	}

	switch e := event.(type) {
	case game.HandStartEvent:
		r.onHandStart(e)
	case game.PlayerActionEvent:
		if idx := r.current.index(e.Seat); idx >= 0 {
			r.current.append(FormatAction(idx, e.Recorded, e.RoundPot))
		}
	case game.StreetChangeEvent:
		r.current.append(FormatBoard(e.Dealt))
	case game.HandEndEvent:
		r.onHandEnd(e)
	}
}

func (r *Recorder) onHandStart(e game.HandStartEvent) {
	n := len(e.Hands)
	hist := &HandHistory{
		Variant:           Variant,
		Table:             r.table,
		SeatCount:         n,
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            e.Blinds.Big,
		StartingStacks:    make([]int, n),
		Actions:           make([]string, 0, n+16),
		Players:           make([]string, n),
		HandID:            e.HandID,
		Timestamp:         e.Timestamp(),
	}

	state := &handState{history: hist, seatToIdx: make([]int, n), stackCap: e.StackCap}
	for idx := range n {
		seat := (e.SmallBlind + idx) % n
		state.seatToIdx[seat] = idx
		hist.Seats[idx] = seat + 1
		hist.StartingStacks[idx] = e.StackCap
		hist.Players[idx] = fmt.Sprintf("seat-%d", seat)
	}
	hist.BlindsOrStraddles[state.seatToIdx[e.SmallBlind]] = e.Blinds.Small
	hist.BlindsOrStraddles[state.seatToIdx[e.BigBlind]] = e.Blinds.Big
	for idx := range n {
		hist.Actions = append(hist.Actions, FormatDeal(idx, e.Hands[hist.Seats[idx]-1]))
	}
	r.current = state
}

func (r *Recorder) onHandEnd(e game.HandEndEvent) {
	state := r.current
	r.current = nil
	if state == nil || state.history.HandID != e.HandID {
		return
	}
	hist := state.history
	n := len(hist.Seats)
	hist.FinishingStacks = make([]int, n)
	hist.Winnings = make([]int, n)
	hist.Rewards = make([]float64, n)

	if !e.Result.Uncontested() {
		for idx := range n {
			seat := hist.Seats[idx] - 1
			if hole, ok := e.Result.Hands[seat]; ok {
				hist.Actions = append(hist.Actions, FormatShow(idx, hole))
			}
		}
	}
	for seat, reward := range e.Result.Rewards {
		idx := state.seatToIdx[seat]
		hist.Rewards[idx] = reward
		hist.FinishingStacks[idx] = state.stackCap + int(math.Round(reward))
		if reward > 0 {
			hist.Winnings[idx] = int(math.Round(reward + float64(e.Committed[seat])))
		}
	}
	populateTimeFields(hist)

	path := r.Path(hist.HandID)
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, hist)
	})
	if err != nil {
		r.failures++
		r.lastErr = err
		r.logger.Error("Failed to write hand history", "hand", hist.HandID, "path", path, "error", err)
		if r.failures >= maxFailures {
			r.disabled = true
			r.logger.Warn("Hand history disabled after repeated failures", "failures", r.failures)
		}
		return
	}
	r.failures = 0
	r.written++
	r.logger.Debug("Hand history written", "hand", hist.HandID, "path", path)
}

func (s *handState) index(seat int) int {
	if s == nil || seat < 0 || seat >= len(s.seatToIdx) {
		return -1
	}
	return s.seatToIdx[seat]
}

func (s *handState) append(action string) {
	if s != nil {
		s.history.Actions = append(s.history.Actions, action)
	}
}
