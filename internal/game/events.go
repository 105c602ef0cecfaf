package game

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-env/internal/deck"
)

// EventType represents a game event type
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything published by a table during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published after blinds are posted and hole cards dealt
type HandStartEvent struct {
	HandID     string
	HandNumber int
	Button     int
	SmallBlind int // seat
	BigBlind   int // seat
	Blinds     Blinds
	StackCap   int
	Hands      [][]deck.Card
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published for every applied action. Intended is what
// the seat submitted, Recorded what the table applied.
type PlayerActionEvent struct {
	HandID    string
	Seat      int
	Street    Street
	Intended  Action
	Recorded  Action
	Stack     int
	RoundPot  int
	TotalPot  int
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// StreetChangeEvent is published when a new betting round begins
type StreetChangeEvent struct {
	HandID    string
	Street    Street
	Dealt     []deck.Card
	Board     []deck.Card
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// HandEndEvent is published once the pot has been awarded
type HandEndEvent struct {
	HandID    string
	Result    ShowdownResult
	Stacks    []int
	Committed []int
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives game events
type Subscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to Subscriber
type SubscriberFunc func(GameEvent)

func (f SubscriberFunc) OnEvent(e GameEvent) { f(e) }

// EventBus fans events out to subscribers in order. A subscriber that
// panics is logged and skipped; it never affects the table.
type EventBus struct {
	subscribers []Subscriber
	logger      *log.Logger
}

// NewEventBus creates an event bus
func NewEventBus(logger *log.Logger) *EventBus {
	if logger == nil {
		logger = discardLogger()
	}
	return &EventBus{logger: logger.WithPrefix("events")}
}

// Subscribe adds a subscriber
func (bus *EventBus) Subscribe(s Subscriber) {
	bus.subscribers = append(bus.subscribers, s)
}

// Publish delivers an event to every subscriber
func (bus *EventBus) Publish(event GameEvent) {
	for _, s := range bus.subscribers {
		bus.deliver(s, event)
	}
}

func (bus *EventBus) deliver(s Subscriber, event GameEvent) {
	defer func() {
		if r := recover(); r != nil {
			bus.logger.Error("Subscriber panicked", "event", event.EventType(), "panic", r)
		}
	}()
	s.OnEvent(event)
}
