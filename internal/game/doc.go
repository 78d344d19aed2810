// Package game implements the table engine for text-protocol Texas Hold'em.
//
// The main type is Hand, which sequences one hand over a fixed slice of
// seats: blinds, hole cards, four betting streets and showdown. Players are
// only ever reached through a Transport, so the engine knows nothing about
// sockets, timeouts or logins.
//
// # Basic Usage
//
//	h, err := game.NewHand(transport, names, stacks, dealer, blind,
//	    game.WithHandID(id),
//	    game.WithEvaluator(showdown.New(logger)),
//	    game.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	result, err := h.Run(ctx)
//
// Run only returns an error for context cancellation or a broken invariant
// (ErrChipConservation, ErrAwardMismatch, ErrNoEligibleSeat). Anything a
// player does wrong folds that player's seat instead.
//
// # Deterministic Testing
//
// Supply a scripted deck and transport to replay a hand exactly:
//
//	deck := poker.NewOrderedDeck(poker.MustParseCards("As 2c Ks 7d ..."))
//	tr := game.NewScriptedTransport().Script(1, "bet 1").Script(0, "check")
//	h, _ := game.NewHand(tr, names, stacks, 0, 1, game.WithDeck(deck))
//
// # Architecture
//
// Hand delegates responsibilities to specialized components:
//   - BettingRound: runs one street of prompts and validates bets
//   - PotAllocator: peels street contributions into main and side pots
//   - Ring: clockwise turn order over eligible seats
//   - Evaluator: ranks declared showdown hands and splits pots
package game
