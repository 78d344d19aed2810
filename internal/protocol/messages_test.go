package protocol

import (
	"testing"

	"github.com/lox/pokertable/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  Message
		want string
	}{
		{GameStarts{}, "game starts"},
		{PlayerCount{Count: 3}, "number of players is 3"},
		{DealerIs{Name: "alice"}, "dealer is alice"},
		{BlindBet{Name: "bob", Amount: 2}, "player bob blind bet 2"},
		{HoleCard{Card: poker.NewCard(poker.Ace, poker.Spades)}, "hole card A spade"},
		{CommunityCard{Street: "flop", Card: poker.NewCard(poker.Ten, poker.Hearts)}, "flop card T heart"},
		{ActionRequest{}, "action"},
		{PlayerBets{Name: "bob", Amount: 10}, "player bob bets 10"},
		{PlayerChecks{Name: "bob"}, "player bob checks"},
		{PlayerFolds{Name: "bob"}, "player bob folds"},
		{PlayerTotalBet{Name: "bob", Total: 12}, "player bob total bet is 12"},
		{PotSummary{Amount: 6, Contributors: []string{"a", "b", "c"}}, "pot has 6 chips contributed by a b c"},
		{ShowdownRequest{}, "showdown"},
		{PlayerWins{Name: "c", Amount: 6}, "player c wins 6"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.msg.Line())
		})
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    Action
		wantErr error
	}{
		{line: "bet 10", want: Action{Kind: Bet, Amount: 10}},
		{line: "bet 0", want: Action{Kind: Bet}},
		{line: "  BET   25 ", want: Action{Kind: Bet, Amount: 25}},
		{line: "check", want: Action{Kind: Bet}},
		{line: "fold", want: Action{Kind: Fold}},
		{line: "bet", want: Action{Kind: Fold}, wantErr: ErrMalformed},
		{line: "bet -5", want: Action{Kind: Fold}, wantErr: ErrMalformed},
		{line: "bet ten", want: Action{Kind: Fold}, wantErr: ErrMalformed},
		{line: "", want: Action{Kind: Fold}, wantErr: ErrMalformed},
		{line: "raise 10", want: Action{Kind: Fold}, wantErr: ErrUnknownAction},
	}

	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got, err := ParseAction(tc.line)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseLogin(t *testing.T) {
	t.Parallel()

	name, err := ParseLogin("login alice\r")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	for _, line := range []string{"", "login", "hello alice", "login a b"} {
		_, err := ParseLogin(line)
		assert.ErrorIs(t, err, ErrLoginExpected, line)
	}
}

func TestParseShowdownCard(t *testing.T) {
	t.Parallel()

	c, err := ParseShowdownCard("K heart")
	require.NoError(t, err)
	assert.Equal(t, poker.NewCard(poker.King, poker.Hearts), c)

	_, err = ParseShowdownCard("K")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, poker.ErrInvalidCard)
}
