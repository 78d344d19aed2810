package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/pokertable/cmd/pokertable/shared"
	"github.com/lox/pokertable/internal/protocol"
	"github.com/lox/pokertable/internal/server"
)

type ClientCmd struct {
	Server   string `default:"tcp://localhost:7000" help:"Table address, tcp://host:port or ws://host:port/ws"`
	Name     string `short:"n" default:"" help:"Player name (defaults to $USER)"`
	LogLevel string `short:"l" default:"warn" help:"Log level"`
}

func (c *ClientCmd) Run() error {
	logger, closer, err := shared.SetupLogger(c.LogLevel, "")
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "player"
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	conn, err := dial(ctx, c.Server)
	if err != nil {
		return err
	}
	logger.Info("Connected", "server", c.Server, "player", name)

	return relay(ctx, conn, name, os.Stdin, os.Stdout, logger)
}

// dial connects to a tcp:// or ws:// address and returns it as a line stream.
func dial(ctx context.Context, address string) (server.LineConn, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("parsing server address: %w", err)
	}

	switch u.Scheme {
	case "tcp":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", u.Host)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", u.Host, err)
		}
		return server.NewTCPConn(conn), nil
	case "ws", "wss":
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", u, err)
		}
		return server.NewWebSocketConn(conn), nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q, want tcp or ws", u.Scheme)
	}
}

// relay logs in as name, then prints every server line to out and forwards
// every line read from in. It returns when the server hangs up or ctx ends.
func relay(ctx context.Context, conn server.LineConn, name string, in io.Reader, out io.Writer, logger *log.Logger) error {
	defer func() { _ = conn.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := conn.WriteLine(protocol.KeywordLogin + " " + name); err != nil {
		return fmt.Errorf("sending login: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := conn.WriteLine(line); err != nil {
				logger.Debug("Failed to send line", "error", err)
				return
			}
		}
	}()

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Info("Disconnected")
				return nil
			}
			return fmt.Errorf("reading from server: %w", err)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
}
