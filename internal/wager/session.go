package wager

import (
	"fmt"
	"math/bits"
	"time"
)

// Documented constants of the escrow economy.
const (
	// MinSessionIDLen and MaxSessionIDLen bound the human-facing session
	// id. The bound is explicit; storage space is computed from the
	// actual length (see RequiredSpace), never the other way around.
	MinSessionIDLen = 1
	MaxSessionIDLen = 32

	// InitialSpawns is granted on join, SpawnsPerPurchase per
	// pay-to-spawn call. SpawnCap bounds the spawn counter well below
	// the raw uint16 ceiling so accumulated fee income stays
	// recoverable through the counter that drives payout.
	InitialSpawns     uint16 = 10
	SpawnsPerPurchase uint16 = 10
	SpawnCap          uint16 = 10_000

	// SpawnFeeDivisor: a spawn purchase costs Bet / SpawnFeeDivisor,
	// and each point of (kills + spawns) pays out the same unit at
	// settlement.
	SpawnFeeDivisor uint64 = 10

	// MaxBet bounds the stake unit. A slot's settlement score tops out
	// at 75 535 points (kills at the uint16 ceiling plus SpawnCap) and
	// a session holds at most ten slots, so with bet capped here the
	// pay-to-spawn totals stay inside uint64 and every single transfer
	// fits a signed 64-bit database integer.
	MaxBet uint64 = 100_000_000_000_000
)

// Team indexes.
const (
	TeamA = 0
	TeamB = 1
)

// Session is the aggregate root of one wagered match: two rosters, the
// stake unit, the mode, the lifecycle status and the identity of the
// trusted match reporter. All mutation goes through its methods, which
// either apply fully or return an error leaving the session untouched.
type Session struct {
	ID        string
	Authority Identity
	Bet       uint64
	Mode      GameMode
	Status    Status
	CreatedAt int64
	Teams     [2]Roster
}

// ValidateSessionID enforces the documented id bounds.
func ValidateSessionID(id string) error {
	if len(id) < MinSessionIDLen {
		return ErrSessionIDTooShort
	}

	if len(id) > MaxSessionIDLen {
		return ErrSessionIDTooLong
	}

	return nil
}

// NewSession creates an empty session in the waiting state.
func NewSession(id string, authority Identity, bet uint64, mode GameMode, now time.Time) (*Session, error) {
	err := ValidateSessionID(id)
	if err != nil {
		return nil, err
	}

	if bet == 0 {
		return nil, ErrZeroBet
	}

	if bet > MaxBet {
		return nil, ErrBetTooLarge
	}

	if !mode.Valid() {
		return nil, ErrInvalidGameMode
	}

	n := mode.PlayersPerTeam()

	return &Session{
		ID:        id,
		Authority: authority,
		Bet:       bet,
		Mode:      mode,
		Status:    StatusWaitingForPlayers,
		CreatedAt: now.Unix(),
		Teams:     [2]Roster{newRoster(n), newRoster(n)},
	}, nil
}

// Team returns the roster at index team (TeamA or TeamB).
func (s *Session) Team(team int) (*Roster, error) {
	if team != TeamA && team != TeamB {
		return nil, ErrInvalidTeam
	}

	return &s.Teams[team], nil
}

// SpawnFee is the pay-to-spawn purchase price.
func (s *Session) SpawnFee() uint64 {
	return s.Bet / SpawnFeeDivisor
}

// IsFull reports whether both rosters are fully occupied.
func (s *Session) IsFull() bool {
	return s.Teams[TeamA].IsFull() && s.Teams[TeamB].IsFull()
}

// Join admits p into the given team: first free slot, spawns = 10,
// kills = 0. The duplicate check spans BOTH rosters. When the second
// roster fills up the session moves to in_progress.
func (s *Session) Join(team int, p Identity) error {
	if s.Status != StatusWaitingForPlayers {
		return ErrInvalidSessionState
	}

	if p.IsZero() {
		return fmt.Errorf("%w: zero identity", ErrPlayerNotFound)
	}

	roster, err := s.Team(team)
	if err != nil {
		return err
	}

	if s.Teams[TeamA].indexOf(p) != -1 || s.Teams[TeamB].indexOf(p) != -1 {
		return ErrPlayerAlreadyJoined
	}

	slot := roster.firstFree()
	if slot == -1 {
		return ErrTeamIsFull
	}

	staked, err := checkedAddU64(roster.TotalStaked, s.Bet)
	if err != nil {
		return err
	}

	roster.Slots[slot] = Slot{Player: p, Spawns: InitialSpawns}
	roster.TotalStaked = staked

	if s.IsFull() {
		s.Status = StatusInProgress
	}

	return nil
}

// AddKill records one kill: killer's kill counter +1, victim's spawn
// counter -1, both checked. Killer and victim must occupy their
// respective teams and the teams must differ (self-kills and same-team
// kills are rejected). Either bound violation aborts with no partial
// mutation.
func (s *Session) AddKill(killerTeam int, killer Identity, victimTeam int, victim Identity) error {
	if s.Status != StatusInProgress {
		return ErrInvalidSessionState
	}

	if killerTeam == victimTeam {
		return ErrSameTeamKill
	}

	kr, err := s.Team(killerTeam)
	if err != nil {
		return err
	}

	vr, err := s.Team(victimTeam)
	if err != nil {
		return err
	}

	ki := kr.indexOf(killer)
	if ki == -1 || killer.IsZero() {
		return fmt.Errorf("killer %s: %w", killer, ErrPlayerNotFound)
	}

	vi := vr.indexOf(victim)
	if vi == -1 || victim.IsZero() {
		return fmt.Errorf("victim %s: %w", victim, ErrPlayerNotFound)
	}

	if vr.Slots[vi].Spawns == 0 {
		return ErrPlayerHasNoSpawns
	}

	kills, err := checkedAddU16(kr.Slots[ki].Kills, 1)
	if err != nil {
		return err
	}

	spawns, err := checkedSubU16(vr.Slots[vi].Spawns, 1)
	if err != nil {
		return err
	}

	kr.Slots[ki].Kills = kills
	vr.Slots[vi].Spawns = spawns

	return nil
}

// AddSpawns credits a spawn purchase to p, saturating at SpawnCap. The
// counter never reads back lower than before the call.
func (s *Session) AddSpawns(team int, p Identity) error {
	if s.Status != StatusInProgress {
		return ErrInvalidSessionState
	}

	if s.Mode.PayoutKind() != PayoutPerSpawn {
		return fmt.Errorf("%w: spawn purchase requires a pay-to-spawn mode", ErrInvalidGameMode)
	}

	roster, err := s.Team(team)
	if err != nil {
		return err
	}

	i := roster.indexOf(p)
	if i == -1 || p.IsZero() {
		return fmt.Errorf("player %s: %w", p, ErrPlayerNotFound)
	}

	roster.Slots[i].Spawns = saturatingAddU16(roster.Slots[i].Spawns, SpawnsPerPurchase, SpawnCap)

	return nil
}

// Complete moves the session to its terminal state. Refunds are also
// allowed from the waiting state; a completed session admits no
// further instruction.
func (s *Session) Complete() error {
	if s.Status == StatusCompleted {
		return ErrInvalidSessionState
	}

	s.Status = StatusCompleted

	return nil
}

// Payout is one settlement transfer owed to an occupied slot, listed
// in roster order (team A slots, then team B).
type Payout struct {
	Player Identity
	Amount uint64
}

// WinnerPayouts splits the whole vault balance evenly across the
// occupied slots of the winning team. With equal stakes the split is
// exact; any integer-division dust stays in the vault as a documented
// residual.
func (s *Session) WinnerPayouts(winningTeam int, vaultBalance uint64) ([]Payout, error) {
	roster, err := s.Team(winningTeam)
	if err != nil {
		return nil, err
	}

	var winners []Identity

	for i := range roster.Slots {
		if roster.Slots[i].Occupied() {
			winners = append(winners, roster.Slots[i].Player)
		}
	}

	if len(winners) == 0 {
		return nil, fmt.Errorf("%w: winning team has no occupied slots", ErrInvalidSettlementAccounts)
	}

	share := vaultBalance / uint64(len(winners))
	payouts := make([]Payout, 0, len(winners))

	for _, w := range winners {
		payouts = append(payouts, Payout{Player: w, Amount: share})
	}

	return payouts, nil
}

// SpawnPayouts computes the pay-to-spawn settlement: every occupied
// slot across both teams earns (kills + spawns) * bet / 10; slots with
// zero combined score are skipped. The formula can exceed the escrowed
// balance (a spawn purchase credits ten points for one point's fee),
// so when it does every payout is scaled pro-rata against the vault
// balance; value leaving the vault never exceeds value it received.
func (s *Session) SpawnPayouts(vaultBalance uint64) []Payout {
	unit := s.Bet / SpawnFeeDivisor

	var (
		payouts []Payout
		owed    uint64
	)

	for t := TeamA; t <= TeamB; t++ {
		for i := range s.Teams[t].Slots {
			slot := s.Teams[t].Slots[i]
			if !slot.Occupied() || slot.Score() == 0 {
				continue
			}

			amount := uint64(slot.Score()) * unit
			payouts = append(payouts, Payout{Player: slot.Player, Amount: amount})
			owed += amount
		}
	}

	if owed > vaultBalance {
		for i := range payouts {
			hi, lo := bits.Mul64(payouts[i].Amount, vaultBalance)
			payouts[i].Amount, _ = bits.Div64(hi, lo, owed)
		}
	}

	return payouts
}

// OccupiedPlayers lists every occupied slot's player in roster order
// (team A, then team B). Refunds pay these, in this order.
func (s *Session) OccupiedPlayers() []Identity {
	var players []Identity

	for t := TeamA; t <= TeamB; t++ {
		for i := range s.Teams[t].Slots {
			if s.Teams[t].Slots[i].Occupied() {
				players = append(players, s.Teams[t].Slots[i].Player)
			}
		}
	}

	return players
}
