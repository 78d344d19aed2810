package game

import (
	"context"
	"fmt"
	"strings"
)

// ScriptedTransport is an in-memory Transport that replays canned replies.
// Seats with no reply left time out unless Respond is set.
type ScriptedTransport struct {
	Broadcasts []string
	Private    map[int][]string
	Prompts    []int // seats sent "action", in order

	// Respond, if set, answers a seat once its script is exhausted. prompt is
	// the last line sent to the seat and n counts replies since that line.
	Respond func(seat int, prompt string, n int) (string, error)
	// OnReceive runs before every ReceiveFrom.
	OnReceive func(seat int)

	replies      map[int][]string
	disconnected map[int]bool
	lastPrompt   map[int]string
	sincePrompt  map[int]int
}

// NewScriptedTransport creates an empty scripted transport.
func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{
		Private:      make(map[int][]string),
		replies:      make(map[int][]string),
		disconnected: make(map[int]bool),
		lastPrompt:   make(map[int]string),
		sincePrompt:  make(map[int]int),
	}
}

// Script queues replies for a seat.
func (t *ScriptedTransport) Script(seat int, lines ...string) *ScriptedTransport {
	t.replies[seat] = append(t.replies[seat], lines...)
	return t
}

// Disconnect makes every send and receive for the seat fail.
func (t *ScriptedTransport) Disconnect(seat int) *ScriptedTransport {
	t.disconnected[seat] = true
	return t
}

// Pending returns the unread scripted replies for a seat.
func (t *ScriptedTransport) Pending(seat int) []string {
	return t.replies[seat]
}

func (t *ScriptedTransport) Broadcast(line string) {
	t.Broadcasts = append(t.Broadcasts, line)
}

func (t *ScriptedTransport) SendTo(seat int, line string) error {
	if t.disconnected[seat] {
		return fmt.Errorf("seat %d: %w", seat, ErrDisconnected)
	}
	t.Private[seat] = append(t.Private[seat], line)
	t.lastPrompt[seat] = line
	t.sincePrompt[seat] = 0
	if line == "action" {
		t.Prompts = append(t.Prompts, seat)
	}
	return nil
}

func (t *ScriptedTransport) ReceiveFrom(ctx context.Context, seat int) (string, error) {
	if t.OnReceive != nil {
		t.OnReceive(seat)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.disconnected[seat] {
		return "", fmt.Errorf("seat %d: %w", seat, ErrDisconnected)
	}

	n := t.sincePrompt[seat]
	t.sincePrompt[seat]++
	if queue := t.replies[seat]; len(queue) > 0 {
		t.replies[seat] = queue[1:]
		return queue[0], nil
	}
	if t.Respond != nil {
		return t.Respond(seat, t.lastPrompt[seat], n)
	}
	return "", fmt.Errorf("seat %d: %w", seat, ErrTimeout)
}

// Saw reports whether line was broadcast.
func (t *ScriptedTransport) Saw(line string) bool {
	for _, b := range t.Broadcasts {
		if b == line {
			return true
		}
	}
	return false
}

// SawPrefix returns the broadcasts that start with prefix.
func (t *ScriptedTransport) SawPrefix(prefix string) []string {
	var out []string
	for _, b := range t.Broadcasts {
		if strings.HasPrefix(b, prefix) {
			out = append(out, b)
		}
	}
	return out
}
