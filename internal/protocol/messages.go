// Package protocol defines the JSON messages exchanged with remote agents
// over websocket.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/lox/holdem-env/internal/deck"
	"github.com/lox/holdem-env/internal/game"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeJoin   MessageType = "join"
	TypeAction MessageType = "action"

	// Server -> Client
	TypeWelcome       MessageType = "welcome"
	TypeActionRequest MessageType = "action_request"
	TypeUpdate        MessageType = "update"
	TypeError         MessageType = "error"
)

// Message is the envelope of every frame
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewMessage wraps data in an envelope
func NewMessage(t MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", t, err)
	}
	return &Message{Type: t, Data: raw}, nil
}

// Decode unpacks the envelope payload into v
func (m *Message) Decode(v any) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", m.Type, err)
	}
	return nil
}

// Client -> Server Messages

// Join asks for a seat
type Join struct {
	Name string `json:"name"`
}

// Action is sent by client in response to ActionRequest
type Action struct {
	HandID string `json:"hand_id,omitempty"`
	Action string `json:"action"` // fold, call or raise
	Amount int    `json:"amount,omitempty"`
}

// Server -> Client Messages

// Welcome confirms a seat
type Welcome struct {
	Seat     int    `json:"seat"`
	Seats    int    `json:"seats"`
	StackCap int    `json:"stack_cap"`
	Blinds   string `json:"blinds"`
}

// ActionRequest asks the seat to act. Only the acting seat receives it, and
// only it carries hole cards.
type ActionRequest struct {
	Seat        int         `json:"seat"`
	TimeoutMS   int64       `json:"timeout_ms"`
	Observation Observation `json:"observation"`
}

// Update is broadcast after every applied action
type Update struct {
	Seat        int         `json:"seat"`
	Action      string      `json:"action"`
	Amount      int         `json:"amount,omitempty"`
	Observation Observation `json:"observation"`
}

// Error reports a rejected message
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	CodeBadMessage   = "bad_message"
	CodeTableFull    = "table_full"
	CodeNotSeated    = "not_seated"
	CodeOutOfTurn    = "out_of_turn"
	CodeIllegal      = "illegal_action"
	CodeHandComplete = "hand_complete"
)

// Observation is the wire form of game.Observation. Cards use short
// notation such as "As".
type Observation struct {
	HandID        string           `json:"hand_id"`
	Button        int              `json:"button"`
	Blinds        string           `json:"blinds"`
	Street        string           `json:"street"`
	Board         []string         `json:"board"`
	TotalPot      int              `json:"total_pot"`
	RoundPots     []int            `json:"round_pots"`
	Stacks        []int            `json:"stacks"`
	LastActions   []string         `json:"last_actions"`
	PlayersInHand int              `json:"players_in_hand"`
	StackCap      int              `json:"stack_cap"`
	Actor         int              `json:"actor"`
	Hand          []string         `json:"hand,omitempty"`
	ToCall        int              `json:"to_call"`
	MinRaise      int              `json:"min_raise"`
	Done          bool             `json:"done"`
	Winners       []int            `json:"winners,omitempty"`
	Rewards       []float64        `json:"rewards"`
	Shown         map[int][]string `json:"shown,omitempty"`
}

// NewObservation converts an observation for the wire. The actor's hole
// cards are only included when withHand is set.
func NewObservation(obs *game.Observation, withHand bool) Observation {
	out := Observation{
		HandID:        obs.HandID,
		Button:        obs.Button,
		Blinds:        obs.Blinds.String(),
		Street:        obs.Street.String(),
		Board:         cardStrings(obs.Board),
		TotalPot:      obs.TotalPot,
		RoundPots:     obs.RoundPots,
		Stacks:        obs.Stacks,
		LastActions:   make([]string, len(obs.LastActions)),
		PlayersInHand: obs.PlayersInHand,
		StackCap:      obs.StackCap,
		Actor:         obs.Actor,
		ToCall:        obs.ToCall,
		MinRaise:      obs.MinRaise,
		Done:          obs.Done,
		Winners:       obs.Winners,
		Rewards:       obs.Rewards,
	}
	for i, a := range obs.LastActions {
		if a != nil {
			out.LastActions[i] = a.String()
		}
	}
	if withHand && len(obs.ActorHand) > 0 {
		out.Hand = cardStrings(obs.ActorHand)
	}
	if len(obs.Shown) > 0 {
		out.Shown = make(map[int][]string, len(obs.Shown))
		for seat, hole := range obs.Shown {
			out.Shown[seat] = cardStrings(hole)
		}
	}
	return out
}

// Game converts a wire observation back so local agents can act on it.
// Last actions are not carried back.
func (o Observation) Game() (*game.Observation, error) {
	board, err := parseCards(o.Board)
	if err != nil {
		return nil, err
	}
	hand, err := parseCards(o.Hand)
	if err != nil {
		return nil, err
	}
	blinds, err := game.ParseBlinds(o.Blinds)
	if err != nil {
		return nil, err
	}
	street, err := parseStreet(o.Street)
	if err != nil {
		return nil, err
	}
	return &game.Observation{
		HandID:        o.HandID,
		Button:        o.Button,
		Blinds:        blinds,
		Street:        street,
		Board:         board,
		TotalPot:      o.TotalPot,
		RoundPots:     o.RoundPots,
		Stacks:        o.Stacks,
		LastActions:   make([]*game.Action, len(o.Stacks)),
		PlayersInHand: o.PlayersInHand,
		StackCap:      o.StackCap,
		Actor:         o.Actor,
		ActorHand:     hand,
		ToCall:        o.ToCall,
		MinRaise:      o.MinRaise,
		Done:          o.Done,
		Winners:       o.Winners,
		Rewards:       o.Rewards,
	}, nil
}

// NewAction converts an intended action for the wire
func NewAction(handID string, a game.Action) Action {
	out := Action{HandID: handID, Action: a.Kind.String()}
	if a.Kind == game.Raise {
		out.Amount = a.Amount
	}
	return out
}

// Game converts a wire action into an intended action
func (a Action) Game() (game.Action, error) {
	switch a.Action {
	case "fold":
		return game.FoldAction(), nil
	case "call", "check":
		return game.CallAction(), nil
	case "raise":
		return game.RaiseAction(a.Amount), nil
	}
	return game.Action{}, fmt.Errorf("unknown action %q: %w", a.Action, game.ErrInvalidAction)
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Short()
	}
	return out
}

func parseCards(cards []string) ([]deck.Card, error) {
	if len(cards) == 0 {
		return nil, nil
	}
	out := make([]deck.Card, len(cards))
	for i, s := range cards {
		c, err := deck.ParseCard(s)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func parseStreet(s string) (game.Street, error) {
	for st := game.Preflop; st <= game.Showdown; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown street %q", s)
}
