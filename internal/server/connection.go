package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-env/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 256
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// Connection is one websocket client. The seat is only touched by the game
// loop.
type Connection struct {
	conn   *websocket.Conn
	send   chan *protocol.Message
	server *Server
	logger *log.Logger

	seat int // -1 until seated
	name string

	mu     sync.Mutex
	closed bool
}

func newConnection(conn *websocket.Conn, server *Server) *Connection {
	return &Connection{
		conn:   conn,
		send:   make(chan *protocol.Message, sendBuffer),
		server: server,
		logger: server.logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		seat:   -1,
	}
}

// start begins handling the connection
func (c *Connection) start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection. It is safe to call more than once.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Connection) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// Send queues a message for the client. A client that cannot keep up is
// disconnected.
func (c *Connection) Send(msg *protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		c.closeLocked()
		return ErrConnectionClosed
	}
}

func (c *Connection) sendType(t protocol.MessageType, data any) {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	if err := c.Send(msg); err != nil {
		c.logger.Debug("Dropped message", "type", t, "error", err)
	}
}

func (c *Connection) sendError(code, message string) {
	c.sendType(protocol.TypeError, protocol.Error{Code: code, Message: message})
}

// readPump forwards client messages to the game loop
func (c *Connection) readPump() {
	defer func() {
		c.server.submit(leaveEvent{conn: c})
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		if !c.handleMessage(&msg) {
			return
		}
	}
}

// handleMessage decodes a client message and hands it to the game loop.
// It returns false once the server has stopped.
func (c *Connection) handleMessage(msg *protocol.Message) bool {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case protocol.TypeJoin:
		var join protocol.Join
		if err := msg.Decode(&join); err != nil {
			c.sendError(protocol.CodeBadMessage, err.Error())
			return true
		}
		return c.server.submit(joinEvent{conn: c, name: join.Name})

	case protocol.TypeAction:
		var action protocol.Action
		if err := msg.Decode(&action); err != nil {
			c.sendError(protocol.CodeBadMessage, err.Error())
			return true
		}
		return c.server.submit(actionEvent{conn: c, action: action})

	default:
		c.sendError(protocol.CodeBadMessage, "unknown message type "+string(msg.Type))
		return true
	}
}

// writePump writes queued messages and keeps the connection alive
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
