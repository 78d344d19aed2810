package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestRelayLogsInAndForwardsLines(t *testing.T) {
	t.Parallel()

	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()

	received := make(chan []string, 1)
	go func() {
		r := bufio.NewReader(serverSide)
		var got []string
		login, _ := r.ReadString('\n')
		got = append(got, strings.TrimSpace(login))
		_, _ = serverSide.Write([]byte("game starts\naction\n"))
		reply, _ := r.ReadString('\n')
		got = append(got, strings.TrimSpace(reply))
		_, _ = serverSide.Write([]byte("player alice folds\n"))
		_ = serverSide.Close()
		received <- got
	}()

	var out bytes.Buffer
	err := relay(context.Background(), server.NewTCPConn(clientSide), "alice",
		strings.NewReader("\n  fold  \n"), &out, quietLogger())
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, []string{"login alice", "fold"}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("server side never finished")
	}
	assert.Equal(t, "game starts\naction\nplayer alice folds\n", out.String())
}

func TestRelayStopsOnCancel(t *testing.T) {
	t.Parallel()

	serverSide, clientSide := net.Pipe()
	defer serverSide.Close()
	loggedIn := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(serverSide).ReadString('\n')
		close(loggedIn)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- relay(ctx, server.NewTCPConn(clientSide), "bob", strings.NewReader(""), io.Discard, quietLogger())
	}()

	<-loggedIn
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestDialRejectsUnknownScheme(t *testing.T) {
	t.Parallel()

	_, err := dial(context.Background(), "udp://localhost:7000")
	assert.ErrorContains(t, err, "unsupported scheme")
}
