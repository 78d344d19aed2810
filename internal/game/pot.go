package game

// Pot represents a pot (main or side)
type Pot struct {
	Amount       int
	Contributors []int // Seats that put chips in, ascending
}

// Contains reports whether seat contributed to the pot.
func (p Pot) Contains(seat int) bool {
	for _, s := range p.Contributors {
		if s == seat {
			return true
		}
	}
	return false
}

// PotAllocator turns per-street contributions into pots. Pots from
// successive streets accumulate in order.
type PotAllocator struct {
	pots []Pot
}

// Collect sweeps contributions (indexed by seat) into pots and zeroes them.
// It repeatedly peels off a layer the size of the smallest positive
// contribution, so seats all-in for different amounts end up in the right
// main and side pots.
func (pa *PotAllocator) Collect(contributions []int) {
	for {
		layer := 0
		for _, c := range contributions {
			if c > 0 && (layer == 0 || c < layer) {
				layer = c
			}
		}
		if layer == 0 {
			return
		}

		pot := Pot{}
		for seat, c := range contributions {
			if c >= layer {
				contributions[seat] -= layer
				pot.Amount += layer
				pot.Contributors = append(pot.Contributors, seat)
			}
		}
		pa.pots = append(pa.pots, pot)
	}
}

// Pots returns a copy of the pots collected so far.
func (pa *PotAllocator) Pots() []Pot {
	pots := make([]Pot, len(pa.pots))
	for i, p := range pa.pots {
		pots[i] = Pot{Amount: p.Amount, Contributors: append([]int(nil), p.Contributors...)}
	}
	return pots
}

// Total returns the total amount in all pots
func (pa *PotAllocator) Total() int {
	total := 0
	for _, pot := range pa.pots {
		total += pot.Amount
	}
	return total
}
