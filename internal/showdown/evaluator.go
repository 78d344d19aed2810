// Package showdown ranks declared five-card hands and splits pots.
package showdown

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/poker"
	ph "github.com/paulhankin/poker"
)

// Evaluator implements game.Evaluator with the paulhankin/poker tables.
// Higher scores are stronger hands.
type Evaluator struct {
	logger *log.Logger
}

var _ game.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator. A nil logger discards output.
func New(logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Evaluator{logger: logger.WithPrefix("showdown")}
}

// Evaluate awards each pot to the best declared hand among the seats that
// contributed to it. Ties split evenly; odd chips go one at a time to the
// tied seats nearest the dealer's left.
func (e *Evaluator) Evaluate(sd game.Showdown) ([]game.Award, error) {
	scores := make(map[int]int16, len(sd.Hands))
	for seat, hand := range sd.Hands {
		score, err := Score(hand)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", seat, err)
		}
		scores[seat] = score
		if desc, err := Describe(hand); err == nil {
			e.logger.Debug("Hand shown", "seat", seat, "hand", desc, "score", score)
		}
	}

	var awards []game.Award
	for i, pot := range sd.Pots {
		winners := bestSeats(pot.Contributors, scores)
		if len(winners) == 0 {
			continue
		}
		winners = clockwise(winners, sd.Dealer, sd.Seats)

		share := pot.Amount / len(winners)
		odd := pot.Amount % len(winners)
		for j, seat := range winners {
			amount := share
			if j < odd {
				amount++
			}
			if amount == 0 {
				continue
			}
			awards = append(awards, game.Award{Pot: i, Seat: seat, Amount: amount})
		}
		e.logger.Debug("Pot awarded", "pot", i, "amount", pot.Amount, "winners", winners)
	}
	return awards, nil
}

// Score ranks a five-card hand. Higher is stronger.
func Score(hand [5]poker.Card) (int16, error) {
	cards, err := convert(hand[:])
	if err != nil {
		return 0, err
	}
	var five [5]ph.Card
	copy(five[:], cards)
	return ph.Eval5(&five), nil
}

// Describe names a five-card hand, e.g. "straight flush, ace high".
func Describe(hand [5]poker.Card) (string, error) {
	cards, err := convert(hand[:])
	if err != nil {
		return "", err
	}
	return ph.Describe(cards)
}

func bestSeats(contributors []int, scores map[int]int16) []int {
	var (
		winners []int
		best    int16
	)
	for _, seat := range contributors {
		score, ok := scores[seat]
		if !ok {
			continue
		}
		switch {
		case len(winners) == 0 || score > best:
			winners = append(winners[:0], seat)
			best = score
		case score == best:
			winners = append(winners, seat)
		}
	}
	return winners
}

// clockwise orders seats starting with the first one after the dealer.
func clockwise(seats []int, dealer, n int) []int {
	out := make([]int, 0, len(seats))
	for i := 1; i <= n; i++ {
		pos := (dealer + i) % n
		for _, s := range seats {
			if s == pos {
				out = append(out, s)
			}
		}
	}
	return out
}

func convert(cards []poker.Card) ([]ph.Card, error) {
	out := make([]ph.Card, len(cards))
	for i, c := range cards {
		pc, err := ph.MakeCard(phSuit(c.Suit()), phRank(c.Rank()))
		if err != nil {
			return nil, fmt.Errorf("card %s: %w", c, err)
		}
		out[i] = pc
	}
	return out, nil
}

// phRank maps Two..Ace onto the library's 1..13 with the ace low at 1.
func phRank(r poker.Rank) ph.Rank {
	if r == poker.Ace {
		return ph.Rank(1)
	}
	return ph.Rank(int(r) + 2)
}

func phSuit(s poker.Suit) ph.Suit {
	switch s {
	case poker.Diamonds:
		return ph.Diamond
	case poker.Hearts:
		return ph.Heart
	case poker.Spades:
		return ph.Spade
	default:
		return ph.Club
	}
}
