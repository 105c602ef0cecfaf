// Package server hosts a single table for remote agents over websocket.
// Seats without a connected client are played by built-in agents.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-env/internal/agent"
	"github.com/lox/holdem-env/internal/game"
	"github.com/lox/holdem-env/internal/randutil"
)

// Config holds server configuration. MinPlayers remote clients must be
// seated before the first hand is dealt. Hands stops the server after that
// many hands; 0 plays forever.
type Config struct {
	Name       string
	Table      game.Config
	ThinkTime  time.Duration
	MinPlayers int
	Hands      int
	Bots       string // agent name for seats without a client
	Seed       int64
	HistoryDir string
	Logger     *log.Logger
	Clock      quartz.Clock
}

// Server represents the WebSocket server
type Server struct {
	config   Config
	logger   *log.Logger
	clock    quartz.Clock
	upgrader websocket.Upgrader

	inbox chan event
	done  chan struct{}
}

// New creates a server. Call Run to start the game loop.
func New(config Config) (*Server, error) {
	if err := config.Table.Validate(); err != nil {
		return nil, err
	}
	if config.ThinkTime <= 0 {
		return nil, fmt.Errorf("think time must be positive, got %s", config.ThinkTime)
	}
	if config.MinPlayers < 1 || config.MinPlayers > config.Table.Seats {
		return nil, fmt.Errorf("min players must be between 1 and %d, got %d", config.Table.Seats, config.MinPlayers)
	}
	if config.Hands < 0 {
		return nil, fmt.Errorf("hands must not be negative, got %d", config.Hands)
	}
	if config.Bots == "" {
		config.Bots = "random"
	}
	if _, err := agent.New(config.Bots, randutil.New(0)); err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = "main"
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Server{
		config: config,
		logger: logger.WithPrefix("server"),
		clock:  clock,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		inbox: make(chan event, 64),
		done:  make(chan struct{}),
	}, nil
}

// Handler returns the HTTP routes: /ws for agents and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run plays hands until the hand limit is reached or ctx is cancelled.
// It returns nil when the hand limit was reached.
func (s *Server) Run(ctx context.Context) error {
	defer close(s.done)

	h, err := newHost(s)
	if err != nil {
		return err
	}
	defer h.closeAll()
	return h.run(ctx)
}

// ListenAndServe serves HTTP on addr while the game loop runs. It shuts
// the listener down once the game loop finishes.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := s.Run(ctx)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	})
	return g.Wait()
}

// submit hands an event to the game loop. It returns false once the loop
// has stopped.
func (s *Server) submit(e event) bool {
	select {
	case s.inbox <- e:
		return true
	case <-s.done:
		return false
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	c := newConnection(conn, s)
	c.start()
	s.logger.Debug("Client connected", "remote", conn.RemoteAddr().String())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.done:
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprint(w, "STOPPED")
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	}
}
