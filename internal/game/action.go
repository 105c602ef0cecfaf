package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind identifies what a player did. Callers submit Fold, Call or
// Raise; Check and AllIn are only ever recorded by the table.
type ActionKind int

const (
	Fold ActionKind = iota
	Call
	Raise
	AllIn
	Check
)

func (k ActionKind) String() string {
	if k < Fold || k > Check {
		return "unknown"
	}
	return [...]string{"fold", "call", "raise", "allin", "check"}[k]
}

// Action is a player decision. Amount is only meaningful for Raise; on a
// recorded action it is the number of chips that moved.
type Action struct {
	Kind   ActionKind
	Amount int
}

// FoldAction gives up the hand
func FoldAction() Action { return Action{Kind: Fold} }

// CallAction matches the highest contribution this round
func CallAction() Action { return Action{Kind: Call} }

// RaiseAction puts amount more chips in the pot
func RaiseAction(amount int) Action { return Action{Kind: Raise, Amount: amount} }

func (a Action) String() string {
	switch a.Kind {
	case Raise, AllIn:
		return fmt.Sprintf("%s %d", a.Kind, a.Amount)
	case Call:
		if a.Amount > 0 {
			return fmt.Sprintf("call %d", a.Amount)
		}
		return "call"
	default:
		return a.Kind.String()
	}
}

// ParseAction reads a typed command such as "f", "call" or "r 300"
func ParseAction(input string) (Action, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action: %w", ErrInvalidAction)
	}

	switch fields[0] {
	case "f", "fold":
		return FoldAction(), nil
	case "c", "call", "k", "check":
		return CallAction(), nil
	case "r", "raise", "b", "bet":
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("raise needs an amount: %w", ErrInvalidAction)
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount < 0 {
			return Action{}, fmt.Errorf("bad raise amount %q: %w", fields[1], ErrInvalidAction)
		}
		return RaiseAction(amount), nil
	}
	return Action{}, fmt.Errorf("unknown action %q: %w", fields[0], ErrInvalidAction)
}

// betting is the part of table state that decides how an action is recorded
type betting struct {
	highWater int // largest round contribution
	minRaise  int // size of the last raise this round, 0 before any opening
	bigBlind  int
}

// toCall is what p must add to match the high water mark
func (b betting) toCall(p *Player) int {
	return b.highWater - p.Pot
}

// minRaiseSize is the smallest legal raise
func (b betting) minRaiseSize() int {
	return max(b.bigBlind, b.minRaise)
}

// resolveAction turns an intended action into the action that will be
// recorded and applied. It does not mutate anything.
func resolveAction(intended Action, p *Player, b betting) (Action, error) {
	switch intended.Kind {
	case Fold:
		return FoldAction(), nil

	case Call:
		if b.minRaise == 0 {
			return Action{Kind: Check}, nil
		}
		toCall := b.toCall(p)
		if toCall > p.Stack {
			return Action{}, fmt.Errorf("seat %d owes %d with %d behind: %w", p.ID, toCall, p.Stack, ErrInsufficientStack)
		}
		return Action{Kind: Call, Amount: max(toCall, 0)}, nil

	case Raise:
		switch {
		case intended.Amount < b.minRaiseSize():
			return FoldAction(), nil
		case p.Stack <= intended.Amount:
			return Action{Kind: AllIn, Amount: p.Stack}, nil
		default:
			return Action{Kind: Raise, Amount: intended.Amount}, nil
		}
	}
	return Action{}, fmt.Errorf("%s cannot be submitted: %w", intended.Kind, ErrInvalidAction)
}
