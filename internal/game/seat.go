package game

import "github.com/lox/pokertable/poker"

// Seat is one position at the table for the lifetime of a hand. Seats are
// kept in a fixed slice indexed by seat number; Chips carries over between
// hands, everything else is per hand or per street.
type Seat struct {
	Index   int
	Name    string
	Chips   int
	Folded  bool
	Acted   bool // acted this street
	Checked bool // checked this street
	Bet     int  // contribution this street
	Hole    [2]poker.Card
}

// Live reports whether the seat is still contesting the hand.
func (s *Seat) Live() bool {
	return !s.Folded
}

// CanAct reports whether the seat can still be prompted for an action.
func (s *Seat) CanAct() bool {
	return !s.Folded && s.Chips > 0
}

// AllIn reports whether the seat is live with nothing left behind.
func (s *Seat) AllIn() bool {
	return !s.Folded && s.Chips == 0
}

// Ring walks seat positions clockwise, wrapping modulo the seat count.
type Ring struct {
	n int
}

// NewRing returns a ring over n seats.
func NewRing(n int) Ring {
	return Ring{n: n}
}

// Next returns the first seat strictly after from that satisfies eligible.
// from itself is considered last, after a full lap.
func (r Ring) Next(from int, eligible func(seat int) bool) (int, bool) {
	for i := 1; i <= r.n; i++ {
		seat := ((from+i)%r.n + r.n) % r.n
		if eligible(seat) {
			return seat, true
		}
	}
	return -1, false
}

// Previous returns the nearest seat strictly before from that satisfies
// eligible. from itself is never returned.
func (r Ring) Previous(from int, eligible func(seat int) bool) (int, bool) {
	for i := 1; i < r.n; i++ {
		seat := ((from-i)%r.n + r.n) % r.n
		if eligible(seat) {
			return seat, true
		}
	}
	return -1, false
}

func live(seats []Seat) func(int) bool {
	return func(i int) bool { return seats[i].Live() }
}

func canAct(seats []Seat) func(int) bool {
	return func(i int) bool { return seats[i].CanAct() }
}

func liveCount(seats []Seat) int {
	n := 0
	for i := range seats {
		if seats[i].Live() {
			n++
		}
	}
	return n
}

func highestBet(seats []Seat) int {
	high := 0
	for i := range seats {
		if seats[i].Live() && seats[i].Bet > high {
			high = seats[i].Bet
		}
	}
	return high
}
