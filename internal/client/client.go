// Package client connects a local agent to a remote table.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/protocol"
)

const writeWait = 10 * time.Second

// Client is a websocket connection to a table server. It is not safe for
// concurrent use.
type Client struct {
	conn    *websocket.Conn
	logger  *log.Logger
	welcome protocol.Welcome
}

// Result summarises what the agent did before the server went away
type Result struct {
	Hands     int
	Decisions int
	Net       float64 // chips won or lost over finished hands
}

// Dial connects to serverURL. http and https URLs are converted to ws and
// wss, and the path is set to /ws.
func Dial(ctx context.Context, serverURL string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	logger = logger.WithPrefix("client")
	logger.Info("Connecting to server", "url", u.String())

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Seat is the seat assigned by Join
func (c *Client) Seat() int {
	return c.welcome.Seat
}

func (c *Client) send(t protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *Client) read() (*protocol.Message, error) {
	var msg protocol.Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	c.logger.Debug("Received message", "type", msg.Type)
	return &msg, nil
}

// Join asks for a seat and waits for the server to assign one
func (c *Client) Join(name string) (protocol.Welcome, error) {
	if err := c.send(protocol.TypeJoin, protocol.Join{Name: name}); err != nil {
		return protocol.Welcome{}, err
	}
	for {
		msg, err := c.read()
		if err != nil {
			return protocol.Welcome{}, err
		}
		switch msg.Type {
		case protocol.TypeWelcome:
			if err := msg.Decode(&c.welcome); err != nil {
				return protocol.Welcome{}, err
			}
			c.logger.Info("Seated", "seat", c.welcome.Seat, "seats", c.welcome.Seats, "blinds", c.welcome.Blinds)
			return c.welcome, nil
		case protocol.TypeError:
			var e protocol.Error
			if err := msg.Decode(&e); err != nil {
				return protocol.Welcome{}, err
			}
			return protocol.Welcome{}, fmt.Errorf("join rejected: %s: %s", e.Code, e.Message)
		}
	}
}

// Play answers every action request with a decision from a, calling
// onUpdate for each table update when it is not nil. It returns when the
// server closes the connection or ctx is cancelled.
func (c *Client) Play(ctx context.Context, a agent.Agent, onUpdate func(protocol.Update)) (Result, error) {
	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	var result Result
	for {
		msg, err := c.read()
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				c.logger.Info("Server closed the connection", "hands", result.Hands)
				return result, nil
			}
			return result, err
		}

		switch msg.Type {
		case protocol.TypeActionRequest:
			var req protocol.ActionRequest
			if err := msg.Decode(&req); err != nil {
				return result, err
			}
			obs, err := req.Observation.Game()
			if err != nil {
				return result, err
			}
			decision := a.Act(obs)
			result.Decisions++
			c.logger.Debug("Acting", "hand", obs.HandID, "action", decision)
			if err := c.send(protocol.TypeAction, protocol.NewAction(obs.HandID, decision)); err != nil {
				return result, err
			}

		case protocol.TypeUpdate:
			var update protocol.Update
			if err := msg.Decode(&update); err != nil {
				return result, err
			}
			if update.Observation.Done && update.Seat >= 0 {
				result.Hands++
				result.Net += update.Observation.Rewards[c.welcome.Seat]
			}
			if onUpdate != nil {
				onUpdate(update)
			}

		case protocol.TypeError:
			var e protocol.Error
			if err := msg.Decode(&e); err != nil {
				return result, err
			}
			c.logger.Warn("Server rejected message", "code", e.Code, "message", e.Message)
		}
	}
}
