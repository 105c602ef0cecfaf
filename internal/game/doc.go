// Package game implements a Texas Hold'em table that external agents drive
// one decision at a time.
//
// The main type is Table. It owns a fixed ring of seats, re-endows every seat
// with the same stack each hand, and advances through the betting rounds as
// actions arrive.
//
// # Basic Usage
//
//	t, err := game.NewTable(game.Config{Seats: 6, StackCap: 20000, Blinds: game.Blinds{Small: 50, Big: 100}},
//	    deck.NewDeck(randutil.New(42)), evaluator.New())
//	if err := t.Reset(); err != nil {
//	    return err
//	}
//	for !t.Done() {
//	    res, err := t.Step(t.CurrentActor(), game.CallAction())
//	    ...
//	}
//
// # Betting Rules
//
// Callers submit only Fold, Call or Raise. The table records what actually
// happened: a Call with no bet to match becomes Check, an undersized Raise
// becomes Fold, and a Raise at or above the stack becomes AllIn. There are no
// side pots; a Call is only legal when the stack covers it.
//
// # Concurrency
//
// A Table is not safe for concurrent use. Hosts serving several agents must
// serialize calls to Step, as internal/server does with a single game
// goroutine.
package game
