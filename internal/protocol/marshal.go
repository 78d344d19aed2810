package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/pokertable/poker"
)

var (
	// ErrMalformed is returned for inbound lines that do not parse.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownAction is returned for an unrecognised action keyword.
	ErrUnknownAction = errors.New("unknown action")
	// ErrLoginExpected is returned when the first line is not a login.
	ErrLoginExpected = errors.New("login command expected")
)

// ActionKind is the kind of an inbound betting action.
type ActionKind int

const (
	Fold ActionKind = iota
	Bet
)

func (k ActionKind) String() string {
	return [...]string{"fold", "bet"}[k]
}

// Action is a parsed reply to an ActionRequest. A check is a bet of zero.
type Action struct {
	Kind   ActionKind
	Amount int
}

// ParseAction parses "bet <n>", "check" or "fold".
func ParseAction(line string) (Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{Kind: Fold}, fmt.Errorf("%w: empty action", ErrMalformed)
	}

	switch strings.ToLower(fields[0]) {
	case KeywordBet:
		if len(fields) != 2 {
			return Action{Kind: Fold}, fmt.Errorf("%w: %q", ErrMalformed, line)
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount < 0 {
			return Action{Kind: Fold}, fmt.Errorf("%w: bad amount %q", ErrMalformed, fields[1])
		}
		return Action{Kind: Bet, Amount: amount}, nil
	case KeywordCheck:
		return Action{Kind: Bet}, nil
	case KeywordFold:
		return Action{Kind: Fold}, nil
	default:
		return Action{Kind: Fold}, fmt.Errorf("%w: %q", ErrUnknownAction, fields[0])
	}
}

// ParseLogin parses "login <name>" and returns the name.
func ParseLogin(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != KeywordLogin {
		return "", fmt.Errorf("%w: %q", ErrLoginExpected, line)
	}
	return fields[1], nil
}

// ParseShowdownCard parses one "<rank> <suit-word>" showdown line.
func ParseShowdownCard(line string) (poker.Card, error) {
	c, err := poker.ParseWords(line)
	if err != nil {
		return poker.Card{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return c, nil
}
