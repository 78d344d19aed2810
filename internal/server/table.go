package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
)

// Seating is the Transport a Table plays through, plus connection state.
type Seating interface {
	game.Transport
	Connected(seat int) bool
}

// SeatStatus is one seat in a Status snapshot.
type SeatStatus struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Chips     int    `json:"chips"`
	Debt      int    `json:"debt"`
	Connected bool   `json:"connected"`
}

// Status is a point-in-time view of the table.
type Status struct {
	Running     bool         `json:"running"`
	HandsPlayed int          `json:"hands_played"`
	Blind       int          `json:"blind"`
	Dealer      int          `json:"dealer"`
	LastHand    string       `json:"last_hand,omitempty"`
	Seats       []SeatStatus `json:"seats"`
}

// Table plays hands back to back over a fixed set of seats, stepping through
// the blind schedule, rotating the dealer and rebuying busted seats.
type Table struct {
	settings  TableSettings
	seating   Seating
	evaluator game.Evaluator
	newDeck   func() *poker.Deck
	logger    *log.Logger

	mu       sync.RWMutex
	names    []string
	chips    []int
	debts    []int
	dealer   int
	blind    int
	played   int
	lastHand string
	running  bool
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithTableDecks supplies the deck for each hand.
func WithTableDecks(newDeck func() *poker.Deck) TableOption {
	return func(t *Table) {
		t.newDeck = newDeck
	}
}

// NewTable creates a table. The evaluator settles showdowns.
func NewTable(settings TableSettings, seating Seating, evaluator game.Evaluator, logger *log.Logger, opts ...TableOption) *Table {
	t := &Table{
		settings:  settings,
		seating:   seating,
		evaluator: evaluator,
		newDeck:   func() *poker.Deck { return poker.NewDeck(nil) },
		logger:    logger.WithPrefix("table"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run plays the blind schedule with the given players, hands_per_level hands
// per blind. It stops early once max_hands is reached or fewer than two
// seats can play. Errors are broken hand invariants or cancellation.
func (t *Table) Run(ctx context.Context, names []string) error {
	t.mu.Lock()
	t.names = append([]string(nil), names...)
	t.chips = make([]int, len(names))
	t.debts = make([]int, len(names))
	for i := range t.chips {
		t.chips[i] = t.settings.InitialChips
	}
	t.dealer = 0
	t.running = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()

	t.logger.Info("Table starting", "players", names, "chips", t.settings.InitialChips, "blinds", t.settings.Blinds)

	for _, blind := range t.settings.Blinds {
		for range t.settings.HandsPerLevel {
			if t.settings.MaxHands > 0 && t.handsPlayed() >= t.settings.MaxHands {
				t.logger.Info("Hand limit reached", "hands", t.settings.MaxHands)
				return nil
			}

			more, err := t.playHand(ctx, blind)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
	}

	t.logger.Info("Blind schedule complete", "hands", t.handsPlayed())
	return nil
}

// playHand runs one hand and settles its aftermath. It returns false when
// the table cannot continue.
func (t *Table) playHand(ctx context.Context, blind int) (bool, error) {
	t.mu.Lock()
	t.blind = blind
	names := append([]string(nil), t.names...)
	chips := append([]int(nil), t.chips...)
	dealer := t.dealer
	t.mu.Unlock()

	var sittingOut []int
	for seat := range names {
		if !t.seating.Connected(seat) {
			sittingOut = append(sittingOut, seat)
		}
	}

	id := newHandID()
	hand, err := game.NewHand(t.seating, names, chips, dealer, blind,
		game.WithHandID(id),
		game.WithDeck(t.newDeck()),
		game.WithEvaluator(t.evaluator),
		game.WithLogger(t.logger),
		game.WithSittingOut(sittingOut...),
	)
	if errors.Is(err, game.ErrNotEnoughPlayers) {
		t.logger.Info("Not enough players to continue", "sittingOut", sittingOut)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating hand: %w", err)
	}

	t.logger.Info("Hand starting", "hand", id, "dealer", names[dealer], "blind", blind)
	result, err := hand.Run(ctx)
	if err != nil {
		return false, fmt.Errorf("hand %s: %w", id, err)
	}

	t.mu.Lock()
	copy(t.chips, result.Chips)
	t.played++
	t.lastHand = id
	t.settleBusted()
	t.dealer = t.nextDealer()
	t.mu.Unlock()

	t.logger.Info("Hand complete", "hand", id, "chips", result.Chips)
	return true, nil
}

// settleBusted restores busted seats to the starting stack and records the
// debt, unless busted seats sit out. Callers hold t.mu.
func (t *Table) settleBusted() {
	if t.settings.SitOutBusted {
		return
	}
	for seat, c := range t.chips {
		if c > 0 {
			continue
		}
		t.chips[seat] = t.settings.InitialChips
		t.debts[seat] += t.settings.InitialChips
		t.logger.Info("Rebuy", "seat", seat, "player", t.names[seat], "debt", t.debts[seat])
	}
}

// nextDealer moves the button to the next seat that can play, or leaves it
// where it is. Callers hold t.mu.
func (t *Table) nextDealer() int {
	ring := game.NewRing(len(t.chips))
	next, ok := ring.Next(t.dealer, func(seat int) bool {
		return t.chips[seat] > 0 && t.seating.Connected(seat)
	})
	if !ok {
		return t.dealer
	}
	return next
}

func (t *Table) handsPlayed() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.played
}

// Status returns a snapshot of the table.
func (t *Table) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := Status{
		Running:     t.running,
		HandsPlayed: t.played,
		Blind:       t.blind,
		Dealer:      t.dealer,
		LastHand:    t.lastHand,
		Seats:       make([]SeatStatus, len(t.names)),
	}
	for i, name := range t.names {
		st.Seats[i] = SeatStatus{
			Seat:      i,
			Name:      name,
			Chips:     t.chips[i],
			Debt:      t.debts[i],
			Connected: t.seating.Connected(i),
		}
	}
	return st
}

func newHandID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
