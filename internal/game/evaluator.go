package game

import "github.com/lox/pokertable/poker"

// Showdown is everything an Evaluator needs to settle a hand.
type Showdown struct {
	Hands  map[int][5]poker.Card // declared five-card hands, by seat
	Pots   []Pot
	Dealer int
	Seats  int
}

// Award is a payout from one pot to one seat.
type Award struct {
	Pot    int
	Seat   int
	Amount int
	Refund bool // returned to a contributor because nobody could claim the pot
}

// Evaluator ranks showdown hands and splits pots among the winners. Each pot
// must be awarded in full to seats that both contributed to it and appear in
// Hands; pots with no such seat must be left out.
type Evaluator interface {
	Evaluate(sd Showdown) ([]Award, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(sd Showdown) ([]Award, error)

func (f EvaluatorFunc) Evaluate(sd Showdown) ([]Award, error) {
	return f(sd)
}
