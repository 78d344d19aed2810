package game

import "errors"

var (
	// ErrNoEligibleSeat means turn order found no seat to act on. It indicates
	// a logic error and aborts the hand.
	ErrNoEligibleSeat = errors.New("no eligible seat")
	// ErrChipConservation means chips were created or destroyed during a hand.
	ErrChipConservation = errors.New("chip conservation violated")
	// ErrAwardMismatch means an evaluator's awards do not add up to a pot.
	ErrAwardMismatch = errors.New("awards do not match pot")
	// ErrNoEvaluator means a hand reached showdown without an Evaluator.
	ErrNoEvaluator = errors.New("no showdown evaluator configured")
	// ErrNotEnoughPlayers means fewer than two seats can be dealt in.
	ErrNotEnoughPlayers = errors.New("at least 2 players with chips required")
)

// FoldReason explains why a seat was folded by the table rather than by choice.
type FoldReason string

const (
	FoldVoluntary         FoldReason = ""
	FoldMalformed         FoldReason = "malformed action"
	FoldInsufficientChips FoldReason = "bet exceeds stack"
	FoldBelowCall         FoldReason = "bet below amount to call"
	FoldRaiseTooSmall     FoldReason = "raise below minimum"
	FoldTimeout           FoldReason = "action timeout"
	FoldDisconnected      FoldReason = "disconnected"
	FoldBadShowdown       FoldReason = "invalid showdown hand"
)

// Forced reports whether the fold was imposed by the table.
func (r FoldReason) Forced() bool {
	return r != FoldVoluntary
}
