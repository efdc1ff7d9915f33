package wager

// Slot is one position in a team roster. Once occupied it is never
// vacated before settlement.
type Slot struct {
	Player Identity
	Spawns uint16
	Kills  uint16
}

// Occupied reports whether a player holds this slot.
func (s Slot) Occupied() bool {
	return !s.Player.IsZero()
}

// Score is the combined counter value that drives the pay-to-spawn
// payout formula.
func (s Slot) Score() uint32 {
	return uint32(s.Kills) + uint32(s.Spawns)
}

// Roster is one side of a session. It is sized at session creation
// from the game mode, not a maximal fixed array.
type Roster struct {
	Slots       []Slot
	TotalStaked uint64
}

func newRoster(capacity int) Roster {
	return Roster{Slots: make([]Slot, capacity)}
}

// indexOf returns the slot index of p, or -1.
func (r *Roster) indexOf(p Identity) int {
	for i := range r.Slots {
		if r.Slots[i].Player == p {
			return i
		}
	}

	return -1
}

// firstFree returns the first vacant slot index, or -1.
func (r *Roster) firstFree() int {
	for i := range r.Slots {
		if !r.Slots[i].Occupied() {
			return i
		}
	}

	return -1
}

// IsFull reports whether every slot is occupied.
func (r *Roster) IsFull() bool {
	return r.firstFree() == -1
}
