package server

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lox/pokertable/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every prompt is answered with a fold, so each hand ends preflop with the
// big blind collecting the small blind.
func foldingSeating(down ...int) *fakeSeating {
	f := newFakeSeating(down...)
	f.Respond = func(seat int, prompt string, n int) (string, error) {
		return "fold", nil
	}
	return f
}

var noShowdown = game.EvaluatorFunc(func(sd game.Showdown) ([]game.Award, error) {
	return nil, nil
})

func tableSettings() TableSettings {
	return TableSettings{
		Seats:         2,
		InitialChips:  10,
		Blinds:        []int{1, 2},
		HandsPerLevel: 2,
		ActionTimeout: "1s",
	}
}

func TestTablePlaysBlindSchedule(t *testing.T) {
	t.Parallel()

	seating := foldingSeating()
	table := NewTable(tableSettings(), seating, noShowdown, testLogger())

	require.NoError(t, table.Run(context.Background(), []string{"alice", "bob"}))

	status := table.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 4, status.HandsPlayed)
	assert.Equal(t, 2, status.Blind)
	assert.Equal(t, 0, status.Dealer, "button moved every hand")
	assert.Equal(t, []SeatStatus{
		{Seat: 0, Name: "alice", Chips: 10, Connected: true},
		{Seat: 1, Name: "bob", Chips: 10, Connected: true},
	}, status.Seats)

	assert.Len(t, seating.SawPrefix("game starts"), 4)
	assert.Equal(t, []string{
		"dealer is alice", "dealer is bob", "dealer is alice", "dealer is bob",
	}, seating.SawPrefix("dealer is"))
	var blinds []string
	for _, line := range seating.Broadcasts {
		if strings.Contains(line, " blind bet ") {
			blinds = append(blinds, line)
		}
	}
	assert.Equal(t, []string{
		"player bob blind bet 1", "player alice blind bet 2",
		"player alice blind bet 1", "player bob blind bet 2",
		"player bob blind bet 2", "player alice blind bet 4",
		"player alice blind bet 2", "player bob blind bet 4",
	}, blinds)

	_, err := uuid.Parse(status.LastHand)
	assert.NoError(t, err, "hand ids are uuids")
}

func TestTableStopsAtHandLimit(t *testing.T) {
	t.Parallel()

	settings := tableSettings()
	settings.MaxHands = 3
	table := NewTable(settings, foldingSeating(), noShowdown, testLogger())

	require.NoError(t, table.Run(context.Background(), []string{"alice", "bob"}))

	status := table.Status()
	assert.Equal(t, 3, status.HandsPlayed)
	assert.Equal(t, 12, status.Seats[0].Chips)
	assert.Equal(t, 8, status.Seats[1].Chips)
}

func TestTableSitsOutDisconnectedSeats(t *testing.T) {
	t.Parallel()

	settings := tableSettings()
	settings.Seats = 3
	settings.MaxHands = 1
	seating := foldingSeating(2)
	table := NewTable(settings, seating, noShowdown, testLogger())

	require.NoError(t, table.Run(context.Background(), []string{"alice", "bob", "carol"}))

	status := table.Status()
	assert.Equal(t, 1, status.HandsPlayed)
	assert.Equal(t, []int{11, 9, 10}, []int{status.Seats[0].Chips, status.Seats[1].Chips, status.Seats[2].Chips})
	assert.False(t, status.Seats[2].Connected)
	assert.Empty(t, seating.Private[2], "carol is not dealt in")
}

func TestTableStopsWithoutTwoPlayers(t *testing.T) {
	t.Parallel()

	settings := tableSettings()
	settings.Seats = 3
	table := NewTable(settings, foldingSeating(1, 2), noShowdown, testLogger())

	require.NoError(t, table.Run(context.Background(), []string{"alice", "bob", "carol"}))
	assert.Equal(t, 0, table.Status().HandsPlayed)
}

func TestTableRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	seating := foldingSeating()
	seating.OnReceive = func(int) { cancel() }
	table := NewTable(tableSettings(), seating, noShowdown, testLogger())

	err := table.Run(ctx, []string{"alice", "bob"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTableSettleBusted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		sitOut    bool
		chips     []int
		wantChips []int
		wantDebts []int
	}{
		{name: "rebuy restores the stack", chips: []int{0, 20, 0}, wantChips: []int{10, 20, 10}, wantDebts: []int{10, 0, 10}},
		{name: "busted seats sit out", sitOut: true, chips: []int{0, 20, 0}, wantChips: []int{0, 20, 0}, wantDebts: []int{0, 0, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			settings := tableSettings()
			settings.SitOutBusted = tc.sitOut
			table := NewTable(settings, foldingSeating(), noShowdown, testLogger())
			table.names = []string{"alice", "bob", "carol"}
			table.chips = tc.chips
			table.debts = make([]int, len(tc.chips))

			table.settleBusted()
			assert.Equal(t, tc.wantChips, table.chips)
			assert.Equal(t, tc.wantDebts, table.debts)
		})
	}
}

func TestTableNextDealerSkipsEmptyAndDisconnectedSeats(t *testing.T) {
	t.Parallel()

	table := NewTable(tableSettings(), foldingSeating(1), noShowdown, testLogger())
	table.chips = []int{5, 5, 0, 5}

	table.dealer = 0
	assert.Equal(t, 3, table.nextDealer())
	table.dealer = 3
	assert.Equal(t, 0, table.nextDealer())

	table.chips = []int{0, 0, 0, 0}
	assert.Equal(t, 3, table.nextDealer(), "button stays put when nobody can take it")
}
