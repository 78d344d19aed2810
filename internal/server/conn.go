package server

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a line to the peer
	writeWait = 10 * time.Second

	// Maximum line size accepted from a peer
	maxLineSize = 4096
)

// ErrLineTooLong is returned when a peer sends a line over maxLineSize.
var ErrLineTooLong = errors.New("line too long")

// LineConn is a bidirectional stream of protocol lines.
type LineConn interface {
	// ReadLine blocks for the next line, without its terminator.
	ReadLine() (string, error)
	// WriteLine sends one line; the terminator is added if needed.
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// tcpConn frames lines on a raw socket with '\n'.
type tcpConn struct {
	conn net.Conn
	r    *bufio.Reader
	mu   sync.Mutex
}

// NewTCPConn wraps a socket as a LineConn.
func NewTCPConn(conn net.Conn) LineConn {
	return &tcpConn{conn: conn, r: bufio.NewReaderSize(conn, maxLineSize)}
}

func (c *tcpConn) ReadLine() (string, error) {
	line, err := c.r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		return "", ErrLineTooLong
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}

func (c *tcpConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

func (c *tcpConn) Close() error {
	return c.conn.Close()
}

func (c *tcpConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// wsConn carries lines as websocket text frames. A frame holding several
// newline separated lines is split.
type wsConn struct {
	conn    *websocket.Conn
	pending []string
	mu      sync.Mutex
}

// NewWebSocketConn wraps a websocket as a LineConn.
func NewWebSocketConn(conn *websocket.Conn) LineConn {
	conn.SetReadLimit(maxLineSize)
	return &wsConn{conn: conn}
}

func (c *wsConn) ReadLine() (string, error) {
	for len(c.pending) == 0 {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if kind != websocket.TextMessage {
			continue
		}
		text := strings.TrimRight(string(data), "\r\n")
		for _, line := range strings.Split(text, "\n") {
			c.pending = append(c.pending, strings.TrimRight(line, "\r"))
		}
	}
	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

func (c *wsConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *wsConn) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *wsConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
