package protocol

import (
	"strconv"
	"strings"

	"github.com/lox/pokertable/poker"
)

// Message is a single outbound protocol line.
type Message interface {
	Line() string
}

// Client -> Server

const (
	KeywordLogin = "login"
	KeywordBet   = "bet"
	KeywordCheck = "check"
	KeywordFold  = "fold"
)

// Server -> Client, hand lifecycle

// GameStarts opens a hand.
type GameStarts struct{}

func (GameStarts) Line() string { return "game starts" }

// PlayerCount announces the number of seats dealt in.
type PlayerCount struct {
	Count int
}

func (m PlayerCount) Line() string { return "number of players is " + strconv.Itoa(m.Count) }

// DealerIs announces the dealer seat.
type DealerIs struct {
	Name string
}

func (m DealerIs) Line() string { return "dealer is " + m.Name }

// BlindBet announces a forced blind post.
type BlindBet struct {
	Name   string
	Amount int
}

func (m BlindBet) Line() string {
	return "player " + m.Name + " blind bet " + strconv.Itoa(m.Amount)
}

// HoleCard is sent privately, once per hole card.
type HoleCard struct {
	Card poker.Card
}

func (m HoleCard) Line() string { return "hole card " + cardWords(m.Card) }

// CommunityCard is broadcast once per board card. Street is flop, turn or river.
type CommunityCard struct {
	Street string
	Card   poker.Card
}

func (m CommunityCard) Line() string { return m.Street + " card " + cardWords(m.Card) }

// Server -> Client, betting

// RoundStarts opens a betting street.
type RoundStarts struct{}

func (RoundStarts) Line() string { return "round starts" }

// PlayerChips reports a seat's stack at the start of a street.
type PlayerChips struct {
	Name  string
	Chips int
}

func (m PlayerChips) Line() string {
	return "player " + m.Name + " has " + strconv.Itoa(m.Chips) + " chips"
}

// ActionRequest prompts exactly one seat for a betting action.
type ActionRequest struct{}

func (ActionRequest) Line() string { return "action" }

// PlayerBets reports chips put in by one action.
type PlayerBets struct {
	Name   string
	Amount int
}

func (m PlayerBets) Line() string {
	return "player " + m.Name + " bets " + strconv.Itoa(m.Amount)
}

// PlayerTotalBet reports a seat's contribution for the current street.
type PlayerTotalBet struct {
	Name  string
	Total int
}

func (m PlayerTotalBet) Line() string {
	return "player " + m.Name + " total bet is " + strconv.Itoa(m.Total)
}

// PlayerChecks reports a check.
type PlayerChecks struct {
	Name string
}

func (m PlayerChecks) Line() string { return "player " + m.Name + " checks" }

// PlayerCalls reports that a bet matched the highest contribution.
type PlayerCalls struct {
	Name string
}

func (m PlayerCalls) Line() string { return "player " + m.Name + " calls" }

// PlayerRaises reports that a bet raised the highest contribution.
type PlayerRaises struct {
	Name string
}

func (m PlayerRaises) Line() string { return "player " + m.Name + " raises" }

// PlayerFolds reports a fold, voluntary or forced.
type PlayerFolds struct {
	Name string
}

func (m PlayerFolds) Line() string { return "player " + m.Name + " folds" }

// RoundEnds closes a betting street.
type RoundEnds struct{}

func (RoundEnds) Line() string { return "round ends" }

// PotSummary describes one pot and the seats that put chips in it.
type PotSummary struct {
	Amount       int
	Contributors []string
}

func (m PotSummary) Line() string {
	var b strings.Builder
	b.WriteString("pot has ")
	b.WriteString(strconv.Itoa(m.Amount))
	b.WriteString(" chips contributed by")
	for _, name := range m.Contributors {
		b.WriteByte(' ')
		b.WriteString(name)
	}
	return b.String()
}

// Server -> Client, showdown

// ShowdownRequest asks a seat for its best five cards.
type ShowdownRequest struct{}

func (ShowdownRequest) Line() string { return "showdown" }

// PlayerWins reports chips awarded to a seat from one pot.
type PlayerWins struct {
	Name   string
	Amount int
}

func (m PlayerWins) Line() string {
	return "player " + m.Name + " wins " + strconv.Itoa(m.Amount)
}

// GameEnds closes a hand.
type GameEnds struct{}

func (GameEnds) Line() string { return "game ends" }

func cardWords(c poker.Card) string {
	return c.Rank().String() + " " + c.Suit().Word()
}
