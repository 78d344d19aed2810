package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/protocol"
)

var (
	// ErrTableFull is returned when a login arrives after every seat is taken.
	ErrTableFull = errors.New("table is full")
	// ErrNameTaken is returned when a login reuses a seated player's name.
	ErrNameTaken = errors.New("name already seated")
	// ErrLoginTimeout is returned when a connection sends no login in time.
	ErrLoginTimeout = errors.New("login timed out")
)

// loginTimeout bounds the wait for a new connection's login line.
const loginTimeout = 10 * time.Second

// Lobby seats logged-in connections in arrival order and, once the table is
// full, serves as the game's Transport.
type Lobby struct {
	capacity int
	timeout  time.Duration
	clock    quartz.Clock
	logger   *log.Logger
	console  *log.Logger

	mu       sync.RWMutex
	sessions []*Session
	full     chan struct{}
}

var _ game.Transport = (*Lobby)(nil)

// NewLobby creates a lobby for capacity seats. Each ReceiveFrom waits at most
// timeout on clock.
func NewLobby(capacity int, timeout time.Duration, clock quartz.Clock, logger *log.Logger) *Lobby {
	return &Lobby{
		capacity: capacity,
		timeout:  timeout,
		clock:    clock,
		logger:   logger.WithPrefix("lobby"),
		console:  logger.WithPrefix("table"),
		full:     make(chan struct{}),
	}
}

// Join performs the login handshake: the first line must be "login <name>"
// and arrive within loginTimeout. Rejected connections are closed.
func (l *Lobby) Join(conn LineConn) (*Session, error) {
	timer := l.clock.AfterFunc(loginTimeout, func() { _ = conn.Close() }, "lobby", "login")
	line, err := conn.ReadLine()
	if !timer.Stop() {
		_ = conn.Close()
		return nil, ErrLoginTimeout
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("reading login: %w", err)
	}
	name, err := protocol.ParseLogin(line)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	l.mu.Lock()
	if len(l.sessions) >= l.capacity {
		l.mu.Unlock()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrTableFull, name)
	}
	for _, s := range l.sessions {
		if s.Name == name {
			l.mu.Unlock()
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
	}
	s := newSession(len(l.sessions), name, conn, l.logger)
	l.sessions = append(l.sessions, s)
	if len(l.sessions) == l.capacity {
		close(l.full)
	}
	l.mu.Unlock()

	s.start()
	l.logger.Info("Player logged in", "seat", s.Seat, "player", name, "remote", conn.RemoteAddr())
	return s, nil
}

// Full is closed once every seat is taken.
func (l *Lobby) Full() <-chan struct{} {
	return l.full
}

// Names returns seated player names in seat order.
func (l *Lobby) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, len(l.sessions))
	for i, s := range l.sessions {
		names[i] = s.Name
	}
	return names
}

// Connected reports whether the seat's connection is still open.
func (l *Lobby) Connected(seat int) bool {
	s := l.session(seat)
	return s != nil && s.Connected()
}

// Close disconnects every seated player.
func (l *Lobby) Close() {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, s := range l.sessions {
		s.Close()
	}
}

// Broadcast sends a line to every connected seat and mirrors it to the
// operator console.
func (l *Lobby) Broadcast(line string) {
	l.console.Info(line)

	l.mu.RLock()
	sessions := append([]*Session(nil), l.sessions...)
	l.mu.RUnlock()

	for _, s := range sessions {
		if !s.Connected() {
			continue
		}
		if err := s.Send(line); err != nil {
			l.logger.Warn("Broadcast failed", "seat", s.Seat, "player", s.Name, "error", err)
		}
	}
}

// SendTo sends a private line. Anything the player sent since the last
// prompt is discarded first, so a reply always answers this line.
func (l *Lobby) SendTo(seat int, line string) error {
	s := l.session(seat)
	if s == nil {
		return fmt.Errorf("seat %d: %w", seat, game.ErrDisconnected)
	}
	if n := s.Discard(); n > 0 {
		l.logger.Debug("Discarded stale input", "seat", seat, "lines", n)
	}
	return s.Send(line)
}

// ReceiveFrom waits for one line from the seat, up to the action timeout.
func (l *Lobby) ReceiveFrom(ctx context.Context, seat int) (string, error) {
	s := l.session(seat)
	if s == nil {
		return "", fmt.Errorf("seat %d: %w", seat, game.ErrDisconnected)
	}
	return s.Receive(ctx, l.clock, l.timeout)
}

func (l *Lobby) session(seat int) *Session {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if seat < 0 || seat >= len(l.sessions) {
		return nil
	}
	return l.sessions[seat]
}
