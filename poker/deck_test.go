package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDealsEveryCardOnce(t *testing.T) {
	t.Parallel()

	d := NewDeck(NewSeededRand(42))
	require.Equal(t, 52, d.CardsRemaining())

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		c, err := d.Deal()
		require.NoError(t, err)
		require.False(t, seen[c], "card %s dealt twice", c)
		seen[c] = true
	}

	_, err := d.Deal()
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.ErrorIs(t, d.Burn(), ErrEmptyDeck)
}

func TestDeckBurnCountsAgainstCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(nil)
	for i := 0; i < 26; i++ {
		require.NoError(t, d.Burn())
		_, err := d.Deal()
		require.NoError(t, err)
	}
	assert.Equal(t, 0, d.CardsRemaining())
	_, err := d.Deal()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestDeckSeededShuffleIsDeterministic(t *testing.T) {
	t.Parallel()

	a := NewDeck(NewSeededRand(7))
	b := NewDeck(NewSeededRand(7))
	for i := 0; i < 52; i++ {
		ca, _ := a.Deal()
		cb, _ := b.Deal()
		require.Equal(t, ca, cb)
	}
}

func TestDeckShuffleIsRoughlyUniform(t *testing.T) {
	t.Parallel()

	// Count how often the ace of spades is dealt first; with 5200 shuffles
	// the expected count is 100.
	rng := NewSeededRand(1)
	target := NewCard(Ace, Spades)
	hits := 0
	for i := 0; i < 5200; i++ {
		c, err := NewDeck(rng).Deal()
		require.NoError(t, err)
		if c == target {
			hits++
		}
	}
	assert.InDelta(t, 100, hits, 50)
}

func TestOrderedDeck(t *testing.T) {
	t.Parallel()

	d := NewOrderedDeck(MustParseCards("As Kd 2c"))
	assert.Equal(t, 3, d.CardsRemaining())

	c, err := d.Deal()
	require.NoError(t, err)
	assert.Equal(t, "As", c.String())
	require.NoError(t, d.Burn())
	c, err = d.Deal()
	require.NoError(t, err)
	assert.Equal(t, "2c", c.String())
}
