package wager

import "fmt"

// GameMode selects the roster size and the payout formula for a session.
// It is fixed for the life of the session.
type GameMode uint8

const (
	WinnerTakesAllOneVsOne GameMode = iota
	WinnerTakesAllThreeVsThree
	WinnerTakesAllFiveVsFive
	PayToSpawnOneVsOne
	PayToSpawnThreeVsThree
	PayToSpawnFiveVsFive
)

// PayoutKind is the settlement formula a mode maps to.
type PayoutKind uint8

const (
	PayoutWinnerTakesAll PayoutKind = iota
	PayoutPerSpawn
)

var modeNames = map[GameMode]string{
	WinnerTakesAllOneVsOne:     "winner-takes-all-1v1",
	WinnerTakesAllThreeVsThree: "winner-takes-all-3v3",
	WinnerTakesAllFiveVsFive:   "winner-takes-all-5v5",
	PayToSpawnOneVsOne:         "pay-to-spawn-1v1",
	PayToSpawnThreeVsThree:     "pay-to-spawn-3v3",
	PayToSpawnFiveVsFive:       "pay-to-spawn-5v5",
}

// ParseGameMode maps the wire tag of a mode back to its value.
func ParseGameMode(s string) (GameMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidGameMode, s)
}

func (m GameMode) String() string {
	name, ok := modeNames[m]
	if !ok {
		return fmt.Sprintf("game_mode(%d)", uint8(m))
	}

	return name
}

// Valid reports whether m is one of the declared modes.
func (m GameMode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// PlayersPerTeam returns the roster capacity per side: 1, 3 or 5.
func (m GameMode) PlayersPerTeam() int {
	switch m {
	case WinnerTakesAllOneVsOne, PayToSpawnOneVsOne:
		return 1
	case WinnerTakesAllThreeVsThree, PayToSpawnThreeVsThree:
		return 3
	case WinnerTakesAllFiveVsFive, PayToSpawnFiveVsFive:
		return 5
	default:
		return 0
	}
}

// PayoutKind returns the settlement formula for the mode.
func (m GameMode) PayoutKind() PayoutKind {
	switch m {
	case PayToSpawnOneVsOne, PayToSpawnThreeVsThree, PayToSpawnFiveVsFive:
		return PayoutPerSpawn
	default:
		return PayoutWinnerTakesAll
	}
}

// Status is the lifecycle state of a session. Transitions only move
// forward: waiting -> in_progress -> completed.
type Status uint8

const (
	StatusWaitingForPlayers Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusWaitingForPlayers:
		return "waiting_for_players"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}
