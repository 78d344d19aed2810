package game

import (
	"context"
	"errors"
)

var (
	// ErrTimeout is returned by a Transport when a seat did not answer in time.
	ErrTimeout = errors.New("receive timed out")
	// ErrDisconnected is returned by a Transport for a seat whose connection is gone.
	ErrDisconnected = errors.New("seat disconnected")
)

// Transport delivers protocol lines to seated players. Implementations own
// connection handling; the game only ever talks to seats through it.
type Transport interface {
	// Broadcast delivers a line to every seat. Delivery failures are the
	// transport's concern.
	Broadcast(line string)
	// SendTo delivers a line to a single seat.
	SendTo(seat int, line string) error
	// ReceiveFrom blocks for one line from a seat. It returns ErrTimeout when
	// the seat does not answer within the transport's deadline.
	ReceiveFrom(ctx context.Context, seat int) (string, error)
}
