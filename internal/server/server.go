package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/showdown"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server accepts players over TCP and WebSocket, seats them in the lobby and
// runs the table once every seat is taken.
type Server struct {
	config   *Config
	logger   *log.Logger
	lobby    *Lobby
	table    *Table
	upgrader websocket.Upgrader

	mu       sync.Mutex
	ctx      context.Context
	tcpAddr  net.Addr
	httpAddr net.Addr
	ready    chan struct{}
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	clock     quartz.Clock
	evaluator game.Evaluator
	tableOpts []TableOption
}

// WithClock sets the clock used for action timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(o *serverOptions) {
		o.clock = clock
	}
}

// WithEvaluator replaces the default showdown evaluator.
func WithEvaluator(e game.Evaluator) Option {
	return func(o *serverOptions) {
		o.evaluator = e
	}
}

// WithTableOptions passes options through to the table.
func WithTableOptions(opts ...TableOption) Option {
	return func(o *serverOptions) {
		o.tableOpts = append(o.tableOpts, opts...)
	}
}

// New creates a server from a validated config.
func New(config *Config, logger *log.Logger, opts ...Option) (*Server, error) {
	timeout, err := config.ActionTimeout()
	if err != nil {
		return nil, err
	}

	o := &serverOptions{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(o)
	}
	if o.evaluator == nil {
		o.evaluator = showdown.New(logger)
	}

	lobby := NewLobby(config.Table.Seats, timeout, o.clock, logger)
	return &Server{
		config: config,
		logger: logger.WithPrefix("server"),
		lobby:  lobby,
		table:  NewTable(config.Table, lobby, o.evaluator, logger, o.tableOpts...),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Line clients are not browsers
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ready: make(chan struct{}),
	}, nil
}

// Run listens, waits for the table to fill, plays it out and returns. It
// also returns when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tcpLn, err := net.Listen("tcp", s.config.Server.TCPAddress)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Server.TCPAddress, err)
	}

	var (
		httpLn  net.Listener
		httpSrv *http.Server
	)
	if s.config.HTTPEnabled() {
		httpLn, err = net.Listen("tcp", s.config.Server.HTTPAddress)
		if err != nil {
			_ = tcpLn.Close()
			return fmt.Errorf("listening on %s: %w", s.config.Server.HTTPAddress, err)
		}
		httpSrv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	}

	s.mu.Lock()
	s.ctx = ctx
	s.tcpAddr = tcpLn.Addr()
	if httpLn != nil {
		s.httpAddr = httpLn.Addr()
	}
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("Waiting for players", "tcp", tcpLn.Addr(), "http", s.httpAddr, "seats", s.config.Table.Seats)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.acceptLoop(gctx, tcpLn)
	})

	if httpSrv != nil {
		g.Go(func() error {
			if err := httpSrv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancel()
		select {
		case <-s.lobby.Full():
		case <-gctx.Done():
			return nil
		}
		if err := s.table.Run(gctx, s.lobby.Names()); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("table: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		_ = tcpLn.Close()
		if httpSrv != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			_ = httpSrv.Shutdown(shutdownCtx)
		}
		s.lobby.Close()
		return nil
	})

	err = g.Wait()
	s.logger.Info("Server stopped")
	return err
}

// Ready is closed once the listeners are bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// TCPAddr returns the bound TCP address after Ready.
func (s *Server) TCPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tcpAddr
}

// HTTPAddr returns the bound HTTP address after Ready, or nil.
func (s *Server) HTTPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.httpAddr
}

// Status returns the table snapshot.
func (s *Server) Status() Status {
	return s.table.Status()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.join(ctx, NewTCPConn(conn))
	}
}

// join runs the login handshake. The connection is closed if the server
// shuts down before the player logs in.
func (s *Server) join(ctx context.Context, conn LineConn) {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	session, err := s.lobby.Join(conn)
	stop()
	if err != nil {
		s.logger.Warn("Rejected connection", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	s.logger.Debug("Seated", "seat", session.Seat, "player", session.Name)
}

// Handler returns the HTTP routes: /ws, /health and /status.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/ws", s.handleWebSocket)
	return r
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	go s.join(ctx, NewWebSocketConn(conn))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.table.Status()); err != nil {
		s.logger.Warn("Failed to write status", "error", err)
	}
}
