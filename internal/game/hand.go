package game

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/protocol"
	"github.com/lox/pokertable/poker"
)

// Hand sequences one hand of Texas Hold'em: blinds, hole cards, the four
// betting streets and, if more than one seat survives the river, showdown.
type Hand struct {
	ID     string
	Seats  []Seat
	Dealer int
	Blind  int
	Board  []poker.Card

	deck       *poker.Deck
	pots       PotAllocator
	awarded    bool
	bigBlind   int
	ring       Ring
	startTotal int
	transport  Transport
	evaluator  Evaluator
	logger     *log.Logger
}

// Result summarises a finished hand.
type Result struct {
	HandID   string
	Pots     []Pot
	Awards   []Award
	Survivor int // seat that won uncontested, -1 after a showdown
	Board    []poker.Card
	Chips    []int // final stacks by seat
}

// NewHand seats names with the given stacks. The small blind is blind and
// the big blind twice that; blind is also the minimum raise increment. Seats
// without chips are dealt out.
func NewHand(transport Transport, names []string, chips []int, dealer, blind int, opts ...HandOption) (*Hand, error) {
	if len(names) != len(chips) {
		return nil, fmt.Errorf("got %d names and %d stacks", len(names), len(chips))
	}
	if len(names) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if dealer < 0 || dealer >= len(names) {
		return nil, fmt.Errorf("dealer seat %d out of range", dealer)
	}
	if blind <= 0 {
		return nil, fmt.Errorf("blind must be positive, got %d", blind)
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.deck == nil {
		cfg.deck = poker.NewDeck(nil)
	}

	h := &Hand{
		ID:        cfg.id,
		Seats:     make([]Seat, len(names)),
		Dealer:    dealer,
		Blind:     blind,
		deck:      cfg.deck,
		bigBlind:  -1,
		ring:      NewRing(len(names)),
		transport: transport,
		evaluator: cfg.evaluator,
		logger:    cfg.logger.With("hand", cfg.id),
	}
	for i, name := range names {
		if chips[i] < 0 {
			return nil, fmt.Errorf("seat %d has negative stack %d", i, chips[i])
		}
		h.Seats[i] = Seat{
			Index:  i,
			Name:   name,
			Chips:  chips[i],
			Folded: chips[i] == 0 || cfg.sittingOut[i],
		}
		h.startTotal += chips[i]
	}
	if liveCount(h.Seats) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	return h, nil
}

// ChipsInPlay returns stacks plus street contributions plus unawarded pots.
// It equals the starting total at every point of a hand.
func (h *Hand) ChipsInPlay() int {
	total := 0
	for i := range h.Seats {
		total += h.Seats[i].Chips + h.Seats[i].Bet
	}
	if !h.awarded {
		total += h.pots.Total()
	}
	return total
}

// Pots returns the pots collected so far.
func (h *Hand) Pots() []Pot {
	return h.pots.Pots()
}

// Run plays the hand to completion. Errors are invariant violations or
// context cancellation; player misbehaviour only ever folds the seat.
func (h *Hand) Run(ctx context.Context) (*Result, error) {
	h.logger.Debug("Starting hand", "dealer", h.Dealer, "blind", h.Blind, "seats", len(h.Seats))

	h.announce(protocol.GameStarts{})
	h.announce(protocol.PlayerCount{Count: len(h.Seats)})
	h.announce(protocol.DealerIs{Name: h.Seats[h.Dealer].Name})

	h.postBlinds()
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	survivor := -1
	for _, street := range Streets {
		if street != Preflop {
			if err := h.dealBoard(street); err != nil {
				return nil, err
			}
		}

		after := h.Dealer
		if street == Preflop {
			after = h.bigBlind
		}
		outcome, err := NewBettingRound(h.Seats, street, after, h.Blind, h.transport, h.logger).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s betting: %w", street, err)
		}
		h.collect()

		if outcome == LoneSurvivor {
			survivor, _ = h.ring.Next(h.Dealer, live(h.Seats))
			break
		}
	}

	var awards []Award
	if survivor >= 0 {
		awards = h.awardSurvivor(survivor)
	} else {
		var err error
		awards, err = h.showdown(ctx)
		if err != nil {
			return nil, err
		}
	}
	h.applyAwards(awards)

	if total := h.ChipsInPlay(); total != h.startTotal {
		return nil, fmt.Errorf("%w: started with %d, ended with %d", ErrChipConservation, h.startTotal, total)
	}

	h.announce(protocol.GameEnds{})

	result := &Result{
		HandID:   h.ID,
		Pots:     h.pots.Pots(),
		Awards:   awards,
		Survivor: survivor,
		Board:    append([]poker.Card(nil), h.Board...),
		Chips:    make([]int, len(h.Seats)),
	}
	for i := range h.Seats {
		result.Chips[i] = h.Seats[i].Chips
	}
	h.logger.Debug("Hand complete", "survivor", survivor, "pots", len(result.Pots), "awards", len(awards))
	return result, nil
}

func (h *Hand) postBlinds() {
	small, _ := h.ring.Next(h.Dealer, live(h.Seats))
	big, _ := h.ring.Next(small, live(h.Seats))
	h.post(small, h.Blind)
	h.post(big, 2*h.Blind)
	h.bigBlind = big
}

func (h *Hand) post(seat, amount int) {
	s := &h.Seats[seat]
	amount = min(amount, s.Chips)
	s.Chips -= amount
	s.Bet = amount
	h.announce(protocol.BlindBet{Name: s.Name, Amount: amount})
}

func (h *Hand) dealHoleCards() error {
	for round := range 2 {
		for i := range h.Seats {
			if h.Seats[i].Folded {
				continue
			}
			card, err := h.deck.Deal()
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			h.Seats[i].Hole[round] = card
			if err := h.transport.SendTo(i, protocol.HoleCard{Card: card}.Line()); err != nil {
				foldSeat(h.Seats, h.transport, h.logger, i, FoldDisconnected, err)
			}
		}
	}
	return nil
}

func (h *Hand) dealBoard(street Street) error {
	if err := h.deck.Burn(); err != nil {
		return fmt.Errorf("burning before %s: %w", street, err)
	}
	for range street.NewCards() {
		card, err := h.deck.Deal()
		if err != nil {
			return fmt.Errorf("dealing %s: %w", street, err)
		}
		h.Board = append(h.Board, card)
		h.announce(protocol.CommunityCard{Street: street.String(), Card: card})
	}
	return nil
}

// collect sweeps the street's contributions into pots and reports them.
func (h *Hand) collect() {
	contributions := make([]int, len(h.Seats))
	for i := range h.Seats {
		contributions[i] = h.Seats[i].Bet
		h.Seats[i].Bet = 0
	}
	h.pots.Collect(contributions)

	for _, pot := range h.pots.Pots() {
		names := make([]string, len(pot.Contributors))
		for i, seat := range pot.Contributors {
			names[i] = h.Seats[seat].Name
		}
		h.announce(protocol.PotSummary{Amount: pot.Amount, Contributors: names})
	}
}

// awardSurvivor gives the last seat standing every pot it contributed to.
// Pots it has no stake in go back to their contributors.
func (h *Hand) awardSurvivor(seat int) []Award {
	pots := h.pots.Pots()
	awards := make([]Award, 0, len(pots))
	for i, pot := range pots {
		if !pot.Contains(seat) {
			continue
		}
		awards = append(awards, Award{Pot: i, Seat: seat, Amount: pot.Amount})
	}
	return append(awards, refunds(pots, awards)...)
}

func (h *Hand) showdown(ctx context.Context) ([]Award, error) {
	hands := make(map[int][5]poker.Card)
	seat := h.Dealer
	for range len(h.Seats) {
		seat = (seat + 1) % len(h.Seats)
		if !h.Seats[seat].Live() {
			continue
		}
		hand, reason, err := h.collectShowdownHand(ctx, seat)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			foldSeat(h.Seats, h.transport, h.logger, seat, reason, err)
			continue
		}
		hands[seat] = hand
	}

	pots := h.pots.Pots()
	var awards []Award
	if len(hands) > 0 {
		if h.evaluator == nil {
			return nil, ErrNoEvaluator
		}
		var err error
		awards, err = h.evaluator.Evaluate(Showdown{
			Hands:  hands,
			Pots:   pots,
			Dealer: h.Dealer,
			Seats:  len(h.Seats),
		})
		if err != nil {
			return nil, fmt.Errorf("evaluating showdown: %w", err)
		}
		if err := checkAwards(pots, hands, awards); err != nil {
			return nil, err
		}
	}

	return append(awards, refunds(pots, awards)...), nil
}

// collectShowdownHand reads five "<rank> <suit>" lines from a seat. The cards
// must be distinct and drawn from the seat's hole cards and the board.
func (h *Hand) collectShowdownHand(ctx context.Context, seat int) ([5]poker.Card, FoldReason, error) {
	var hand [5]poker.Card
	if err := h.transport.SendTo(seat, protocol.ShowdownRequest{}.Line()); err != nil {
		return hand, FoldDisconnected, err
	}

	available := make(map[poker.Card]bool, 7)
	available[h.Seats[seat].Hole[0]] = true
	available[h.Seats[seat].Hole[1]] = true
	for _, c := range h.Board {
		available[c] = true
	}

	for i := range hand {
		line, err := h.transport.ReceiveFrom(ctx, seat)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				return hand, FoldTimeout, err
			}
			return hand, FoldDisconnected, err
		}
		card, err := protocol.ParseShowdownCard(line)
		if err != nil {
			return hand, FoldBadShowdown, err
		}
		if !available[card] {
			return hand, FoldBadShowdown, fmt.Errorf("card %s not held or already used", card)
		}
		available[card] = false
		hand[i] = card
	}
	return hand, FoldVoluntary, nil
}

// checkAwards verifies that every pot with an eligible seat is paid out in
// full to eligible seats, and that no other pot is touched.
func checkAwards(pots []Pot, hands map[int][5]poker.Card, awards []Award) error {
	paid := make([]int, len(pots))
	for _, a := range awards {
		if a.Pot < 0 || a.Pot >= len(pots) {
			return fmt.Errorf("%w: unknown pot %d", ErrAwardMismatch, a.Pot)
		}
		if a.Amount <= 0 {
			return fmt.Errorf("%w: non-positive award %d", ErrAwardMismatch, a.Amount)
		}
		if _, ok := hands[a.Seat]; !ok || !pots[a.Pot].Contains(a.Seat) {
			return fmt.Errorf("%w: seat %d not eligible for pot %d", ErrAwardMismatch, a.Seat, a.Pot)
		}
		paid[a.Pot] += a.Amount
	}

	for i, pot := range pots {
		contested := false
		for _, seat := range pot.Contributors {
			if _, ok := hands[seat]; ok {
				contested = true
				break
			}
		}
		switch {
		case contested && paid[i] != pot.Amount:
			return fmt.Errorf("%w: pot %d is %d, awarded %d", ErrAwardMismatch, i, pot.Amount, paid[i])
		case !contested && paid[i] != 0:
			return fmt.Errorf("%w: pot %d has no eligible seat", ErrAwardMismatch, i)
		}
	}
	return nil
}

// refunds returns unclaimed pots to their contributors. Every contributor
// put exactly the same layer into a pot, so the split is exact.
func refunds(pots []Pot, awards []Award) []Award {
	claimed := make([]bool, len(pots))
	for _, a := range awards {
		claimed[a.Pot] = true
	}

	var out []Award
	for i, pot := range pots {
		if claimed[i] || len(pot.Contributors) == 0 {
			continue
		}
		share := pot.Amount / len(pot.Contributors)
		for _, seat := range pot.Contributors {
			out = append(out, Award{Pot: i, Seat: seat, Amount: share, Refund: true})
		}
	}
	return out
}

func (h *Hand) applyAwards(awards []Award) {
	for _, a := range awards {
		s := &h.Seats[a.Seat]
		s.Chips += a.Amount
		if a.Refund {
			h.logger.Info("Refunding unclaimed pot", "pot", a.Pot, "player", s.Name, "amount", a.Amount)
			continue
		}
		h.announce(protocol.PlayerWins{Name: s.Name, Amount: a.Amount})
	}
	h.awarded = true
}

func (h *Hand) announce(m protocol.Message) {
	h.transport.Broadcast(m.Line())
}
