package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/protocol"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// Streets lists the betting rounds in order.
var Streets = [...]Street{Preflop, Flop, Turn, River}

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river"}[s]
}

// NewCards is the number of community cards dealt when the street opens.
func (s Street) NewCards() int {
	return [...]int{0, 3, 1, 1}[s]
}

// Outcome is how a betting round ended.
type Outcome int

const (
	// Continue means the street closed normally and the hand goes on.
	Continue Outcome = iota
	// LoneSurvivor means every seat but one folded; the hand is over.
	LoneSurvivor
)

func (o Outcome) String() string {
	return [...]string{"continue", "lone survivor"}[o]
}

// BettingRound runs exactly one street of betting over a shared seat arena.
type BettingRound struct {
	seats      []Seat
	street     Street
	after      int // action opens with the first seat after this one
	blind      int
	ring       Ring
	lastRaiser int
	transport  Transport
	logger     *log.Logger
}

// NewBettingRound prepares a street. Action opens with the first seat after
// `after`: the dealer on flop, turn and river, the big blind preflop. The
// blind is also the minimum raise increment.
func NewBettingRound(seats []Seat, street Street, after, blind int, transport Transport, logger *log.Logger) *BettingRound {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BettingRound{
		seats:      seats,
		street:     street,
		after:      after,
		blind:      blind,
		ring:       NewRing(len(seats)),
		lastRaiser: -1,
		transport:  transport,
		logger:     logger.With("street", street.String()),
	}
}

// LastRaiser returns the seat that made the last raise this street, or -1.
func (br *BettingRound) LastRaiser() int {
	return br.lastRaiser
}

// Run prompts seats until the street closes. Preflop blinds already in
// Seat.Bet are kept; other per-street flags are reset.
func (br *BettingRound) Run(ctx context.Context) (Outcome, error) {
	for i := range br.seats {
		br.seats[i].Acted = false
		br.seats[i].Checked = false
	}
	br.lastRaiser = -1

	br.announce(protocol.RoundStarts{})
	for i := range br.seats {
		br.announce(protocol.PlayerChips{Name: br.seats[i].Name, Chips: br.seats[i].Chips})
	}

	outcome, err := br.loop(ctx)
	if err != nil {
		return outcome, err
	}

	br.announce(protocol.RoundEnds{})
	for i := range br.seats {
		if br.seats[i].Bet > 0 {
			br.announce(protocol.PlayerTotalBet{Name: br.seats[i].Name, Total: br.seats[i].Bet})
		}
	}
	br.logger.Debug("Betting round complete", "outcome", outcome, "lastRaiser", br.lastRaiser)
	return outcome, nil
}

func (br *BettingRound) loop(ctx context.Context) (Outcome, error) {
	if liveCount(br.seats) <= 1 {
		return LoneSurvivor, nil
	}
	if br.settled() {
		br.logger.Debug("No betting possible, skipping street")
		return Continue, nil
	}

	current, ok := br.ring.Next(br.after, canAct(br.seats))
	if !ok {
		return Continue, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return Continue, err
		}

		if err := br.act(ctx, current); err != nil {
			return Continue, err
		}
		br.seats[current].Acted = true

		if liveCount(br.seats) == 1 {
			return LoneSurvivor, nil
		}
		if br.allChecked() {
			return Continue, nil
		}

		next, ok := br.ring.Next(current, canAct(br.seats))
		if !ok {
			// Everyone still in is all-in.
			return Continue, nil
		}
		if br.closed(next) {
			return Continue, nil
		}
		current = next
	}
}

// act prompts one seat and applies its reply. Only invariant violations and
// context cancellation are returned; everything else folds the seat.
func (br *BettingRound) act(ctx context.Context, seat int) error {
	if err := br.transport.SendTo(seat, protocol.ActionRequest{}.Line()); err != nil {
		br.fold(seat, FoldDisconnected, err)
		return nil
	}

	line, err := br.transport.ReceiveFrom(ctx, seat)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		reason := FoldDisconnected
		if errors.Is(err, ErrTimeout) {
			reason = FoldTimeout
		}
		br.fold(seat, reason, err)
		return nil
	}

	action, err := protocol.ParseAction(line)
	if err != nil {
		br.fold(seat, FoldMalformed, err)
		return nil
	}
	if action.Kind == protocol.Fold {
		br.fold(seat, FoldVoluntary, nil)
		return nil
	}
	return br.bet(seat, action.Amount)
}

// bet validates and applies a bet. A bet of zero is a check.
func (br *BettingRound) bet(seat, amount int) error {
	if _, ok := br.ring.Previous(seat, live(br.seats)); !ok {
		return fmt.Errorf("%w: no live seat before %d", ErrNoEligibleSeat, seat)
	}

	s := &br.seats[seat]
	toMatch := highestBet(br.seats)
	total := s.Bet + amount
	allIn := amount == s.Chips

	switch {
	case amount > s.Chips:
		br.fold(seat, FoldInsufficientChips, fmt.Errorf("bet %d with %d chips", amount, s.Chips))
		return nil
	case !allIn && total < toMatch:
		br.fold(seat, FoldBelowCall, fmt.Errorf("total %d, must match %d", total, toMatch))
		return nil
	case !allIn && total > toMatch && total-toMatch < br.blind:
		br.fold(seat, FoldRaiseTooSmall, fmt.Errorf("raise by %d, minimum %d", total-toMatch, br.blind))
		return nil
	}

	s.Chips -= amount
	s.Bet = total

	if amount == 0 {
		s.Checked = true
		br.announce(protocol.PlayerChecks{Name: s.Name})
		br.logger.Debug("Player checks", "seat", seat, "player", s.Name)
		return nil
	}

	br.announce(protocol.PlayerBets{Name: s.Name, Amount: amount})
	br.announce(protocol.PlayerTotalBet{Name: s.Name, Total: total})
	if total > toMatch {
		br.lastRaiser = seat
		br.announce(protocol.PlayerRaises{Name: s.Name})
	} else {
		br.announce(protocol.PlayerCalls{Name: s.Name})
	}
	br.logger.Debug("Player bets", "seat", seat, "player", s.Name, "amount", amount, "total", total, "allIn", allIn)
	return nil
}

func (br *BettingRound) fold(seat int, reason FoldReason, cause error) {
	foldSeat(br.seats, br.transport, br.logger, seat, reason, cause)
	br.seats[seat].Acted = true
}

// settled reports that no seat can change the street: at most one seat can
// act and it has nothing to call.
func (br *BettingRound) settled() bool {
	toMatch := highestBet(br.seats)
	actors := 0
	for i := range br.seats {
		if !br.seats[i].CanAct() {
			continue
		}
		actors++
		if br.seats[i].Bet < toMatch {
			return false
		}
	}
	return actors <= 1
}

func (br *BettingRound) allChecked() bool {
	if highestBet(br.seats) > 0 {
		return false
	}
	for i := range br.seats {
		if br.seats[i].CanAct() && !br.seats[i].Checked {
			return false
		}
	}
	return true
}

// closed reports whether the street is over with next about to act: every
// seat that can still act has acted and matched the highest contribution,
// and either it is preflop or the action is back with the last raiser.
func (br *BettingRound) closed(next int) bool {
	toMatch := highestBet(br.seats)
	for i := range br.seats {
		s := &br.seats[i]
		if !s.CanAct() {
			continue
		}
		if !s.Acted || s.Bet != toMatch {
			return false
		}
	}

	if br.street == Preflop {
		return true
	}
	return br.lastRaiser < 0 || next == br.lastRaiser || !br.seats[br.lastRaiser].CanAct()
}

func (br *BettingRound) announce(m protocol.Message) {
	br.transport.Broadcast(m.Line())
}

func foldSeat(seats []Seat, transport Transport, logger *log.Logger, seat int, reason FoldReason, cause error) {
	s := &seats[seat]
	s.Folded = true
	if reason.Forced() {
		logger.Warn("Forcing fold", "seat", seat, "player", s.Name, "reason", string(reason), "error", cause)
	} else {
		logger.Debug("Player folds", "seat", seat, "player", s.Name)
	}
	transport.Broadcast(protocol.PlayerFolds{Name: s.Name}.Line())
}
