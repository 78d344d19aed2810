package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokertable/internal/game"
)

// Session is a logged-in player's connection. A read pump queues inbound
// lines so that a receive can be abandoned on timeout without losing the
// connection.
type Session struct {
	Seat int
	Name string

	conn      LineConn
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once
	logger    *log.Logger
}

func newSession(seat int, name string, conn LineConn, logger *log.Logger) *Session {
	return &Session{
		Seat:   seat,
		Name:   name,
		conn:   conn,
		lines:  make(chan string, 64),
		done:   make(chan struct{}),
		logger: logger.With("seat", seat, "player", name),
	}
}

// start begins reading from the connection.
func (s *Session) start() {
	go s.readPump()
}

func (s *Session) readPump() {
	defer s.Close()

	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			s.logger.Debug("Read failed", "error", err)
			return
		}
		select {
		case s.lines <- line:
		default:
			s.logger.Warn("Input queue full, dropping line", "line", line)
		}
	}
}

// Connected reports whether the connection is still open.
func (s *Session) Connected() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Close closes the connection. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// Send writes one line to the player.
func (s *Session) Send(line string) error {
	if !s.Connected() {
		return game.ErrDisconnected
	}
	if err := s.conn.WriteLine(line); err != nil {
		s.Close()
		return fmt.Errorf("%w: %w", game.ErrDisconnected, err)
	}
	return nil
}

// Discard drops lines the player sent without being asked, returning how
// many were dropped.
func (s *Session) Discard() int {
	n := 0
	for {
		select {
		case line := <-s.lines:
			s.logger.Debug("Discarding unsolicited line", "line", line)
			n++
		default:
			return n
		}
	}
}

// Receive waits up to timeout for the next line, measured on clock.
func (s *Session) Receive(ctx context.Context, clock quartz.Clock, timeout time.Duration) (string, error) {
	// Lines queued before a disconnect are still delivered.
	select {
	case line := <-s.lines:
		return line, nil
	default:
	}

	timer := clock.NewTimer(timeout, "session", "receive")
	defer timer.Stop()

	select {
	case line := <-s.lines:
		return line, nil
	case <-s.done:
		select {
		case line := <-s.lines:
			return line, nil
		default:
			return "", game.ErrDisconnected
		}
	case <-timer.C:
		return "", fmt.Errorf("no reply within %s: %w", timeout, game.ErrTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
