package server

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/game"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// pipeClient is the player side of a net.Pipe. Every line the server writes
// is collected so that synchronous pipe writes never block.
type pipeClient struct {
	conn  net.Conn
	lines chan string
}

func newPipe(t *testing.T) (LineConn, *pipeClient) {
	t.Helper()
	server, client := net.Pipe()
	c := &pipeClient{conn: client, lines: make(chan string, 256)}
	go func() {
		defer close(c.lines)
		scanner := bufio.NewScanner(client)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
	}()
	t.Cleanup(func() {
		_ = client.Close()
		_ = server.Close()
	})
	return NewTCPConn(server), c
}

// send writes a line from the player without blocking the test.
func (c *pipeClient) send(lines ...string) {
	go func() {
		for _, line := range lines {
			if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
				return
			}
		}
	}()
}

func (c *pipeClient) expect(t *testing.T, want string) {
	t.Helper()
	select {
	case got, ok := <-c.lines:
		require.True(t, ok, "connection closed waiting for %q", want)
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func (c *pipeClient) expectClosed(t *testing.T) {
	t.Helper()
	select {
	case line, ok := <-c.lines:
		require.False(t, ok, "unexpected line %q", line)
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed")
	}
}

// fakeSeating is a scripted Seating with switchable connections.
type fakeSeating struct {
	*game.ScriptedTransport
	down map[int]bool
}

func newFakeSeating(down ...int) *fakeSeating {
	f := &fakeSeating{ScriptedTransport: game.NewScriptedTransport(), down: make(map[int]bool)}
	for _, seat := range down {
		f.down[seat] = true
		f.Disconnect(seat)
	}
	return f
}

func (f *fakeSeating) Connected(seat int) bool {
	return !f.down[seat]
}
