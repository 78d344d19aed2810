package game

import (
	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/poker"
)

// HandOption configures a Hand during creation.
type HandOption func(*handConfig)

type handConfig struct {
	id         string
	deck       *poker.Deck
	evaluator  Evaluator
	logger     *log.Logger
	sittingOut map[int]bool
}

// WithHandID labels the hand in logs and results.
func WithHandID(id string) HandOption {
	return func(c *handConfig) {
		c.id = id
	}
}

// WithDeck uses the given deck instead of a freshly shuffled one.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) {
		c.deck = deck
	}
}

// WithEvaluator sets the showdown evaluator.
func WithEvaluator(e Evaluator) HandOption {
	return func(c *handConfig) {
		c.evaluator = e
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// WithSittingOut deals the given seats out: they start the hand folded and
// keep their chips.
func WithSittingOut(seats ...int) HandOption {
	return func(c *handConfig) {
		if c.sittingOut == nil {
			c.sittingOut = make(map[int]bool)
		}
		for _, s := range seats {
			c.sittingOut[s] = true
		}
	}
}
