package poker

import (
	"errors"
	"fmt"
	"strings"
)

// Rank is a card rank, Two (0) through Ace (12).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suit is a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

var suitWords = [...]string{"club", "diamond", "heart", "spade"}

// ErrInvalidCard is returned when card text cannot be parsed.
var ErrInvalidCard = errors.New("invalid card")

// Card is an immutable playing card.
type Card struct {
	rank Rank
	suit Suit
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{rank: rank, suit: suit}
}

func (c Card) Rank() Rank { return c.rank }
func (c Card) Suit() Suit { return c.suit }

// Index returns a dense 0..51 index for the card.
func (c Card) Index() int {
	return int(c.suit)*13 + int(c.rank)
}

// String returns the short form, e.g. "As".
func (c Card) String() string {
	return string([]byte{rankChars[c.rank], suitChars[c.suit]})
}

// Char returns the rank character used on the wire: 2-9, T, J, Q, K, A.
func (r Rank) Char() byte {
	return rankChars[r]
}

func (r Rank) String() string {
	return string(rankChars[r])
}

// Word returns the suit word used on the wire: club, diamond, heart or spade.
func (s Suit) Word() string {
	return suitWords[s]
}

func (s Suit) String() string {
	return suitWords[s]
}

// ParseRank parses a single wire rank character.
func ParseRank(s string) (Rank, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, s)
	}
	i := strings.IndexByte(rankChars, strings.ToUpper(s)[0])
	if i < 0 {
		return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, s)
	}
	return Rank(i), nil
}

// ParseSuit parses a suit word. The plural form ("spades") and the single
// letter form ("s") are accepted as well.
func ParseSuit(s string) (Suit, error) {
	w := strings.ToLower(s)
	for i, word := range suitWords {
		if w == word || w == word+"s" || (len(w) == 1 && w[0] == suitChars[i]) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, s)
}

// ParseWords parses the wire form "<rank> <suit-word>", e.g. "A spade".
func ParseWords(s string) (Card, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank, err := ParseRank(fields[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(fields[1])
	if err != nil {
		return Card{}, err
	}
	return NewCard(rank, suit), nil
}

// ParseCard parses the short form, e.g. "As" or "Td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank, err := ParseRank(s[:1])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(s[1:])
	if err != nil {
		return Card{}, err
	}
	return NewCard(rank, suit), nil
}

// MustParseCards parses space separated short-form cards and panics on error.
// Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
