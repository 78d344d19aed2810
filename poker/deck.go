package poker

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
)

// ErrEmptyDeck is returned when a card is dealt or burned from an exhausted deck.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck represents a standard 52-card deck. Cards are dealt from the end.
type Deck struct {
	cards [52]Card // Fixed size array
	n     int      // cards remaining, cards[:n] are undealt
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck. A nil rng uses NewSecureRand.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = NewSecureRand()
	}
	d := &Deck{rng: rng}

	i := 0
	for suit := range Suit(4) {
		for rank := range Rank(13) {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewOrderedDeck returns a deck that deals cards in exactly the given order
// (first element first). Used to script hands in tests; it must not be
// shuffled.
func NewOrderedDeck(cards []Card) *Deck {
	d := &Deck{}
	d.n = copy(d.cards[:], cards)
	for i, j := 0, d.n-1; i < j; i, j = i+1, j-1 {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// NewSecureRand returns a ChaCha8 generator seeded from crypto/rand.
func NewSecureRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(err)
	}
	return rand.New(rand.NewChaCha8(seed))
}

// NewSeededRand returns a deterministic generator for tests and replays.
func NewSeededRand(seed uint64) *rand.Rand {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return rand.New(rand.NewChaCha8(s))
}

// Shuffle restores all 52 cards and shuffles them using Fisher-Yates.
func (d *Deck) Shuffle() {
	if d.rng == nil {
		d.rng = NewSecureRand()
	}
	d.n = len(d.cards)
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the last card.
func (d *Deck) Deal() (Card, error) {
	if d.n == 0 {
		return Card{}, ErrEmptyDeck
	}
	d.n--
	return d.cards[d.n], nil
}

// Burn discards the last card.
func (d *Deck) Burn() error {
	_, err := d.Deal()
	return err
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return d.n
}
