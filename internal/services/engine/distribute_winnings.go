package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/wager"
)

// DistributeWinnings settles the session by its mode's payout formula
// and closes it. Winner-take-all splits the vault evenly across the
// occupied slots of the winning team; pay-to-spawn pays every occupied
// slot on both teams (kills + spawns) * bet / 10, skipping zero-score
// slots. The supplied settlement accounts must match the expected paid
// slots exactly, in roster order. Value leaving the vault never
// exceeds what it holds; integer-division dust is retained.
func (e *Engine) DistributeWinnings(ctx context.Context, caller wager.Identity, sessionID string, winningTeam int, pairs []SettlementAccount) error {
	var residual uint64

	err := pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		s, err := e.sessions.LockAndGet(tx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		err = e.policy.Authorize(caller, s.Authority)
		if err != nil {
			return fmt.Errorf("authorize settlement: %w", err)
		}

		if s.Status != wager.StatusInProgress {
			return wager.ErrInvalidSessionState
		}

		vaultAddr := wager.VaultAddress(sessionID)

		balance, err := e.accounts.LockAndGetBalance(tx, vaultAddr)
		if err != nil {
			return fmt.Errorf("lock vault: %w", err)
		}

		var payouts []wager.Payout

		switch s.Mode.PayoutKind() {
		case wager.PayoutWinnerTakesAll:
			payouts, err = s.WinnerPayouts(winningTeam, balance)
			if err != nil {
				return fmt.Errorf("winner payouts: %w", err)
			}
		case wager.PayoutPerSpawn:
			if _, err := s.Team(winningTeam); err != nil {
				return err
			}

			payouts = s.SpawnPayouts(balance)
		}

		expected := make([]wager.Identity, len(payouts))
		for i := range payouts {
			expected[i] = payouts[i].Player
		}

		err = validatePairs(pairs, expected)
		if err != nil {
			return err
		}

		var paid uint64

		for i, p := range payouts {
			if p.Amount == 0 {
				continue
			}

			err = e.accounts.Debit(tx, vaultAddr, p.Amount)
			if err != nil {
				return fmt.Errorf("debit vault for %s: %w", p.Player, err)
			}

			err = e.accounts.Credit(tx, pairs[i].Destination, p.Amount)
			if err != nil {
				return fmt.Errorf("credit winnings to %s: %w", pairs[i].Destination, err)
			}

			paid += p.Amount
		}

		residual = balance - paid

		err = s.Complete()
		if err != nil {
			return err
		}

		err = e.sessions.Save(tx, s)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("distribute winnings: %w", err)
	}

	slog.Info("session settled",
		"session_id", sessionID,
		"winning_team", winningTeam,
		"vault_residual", residual,
	)

	return nil
}
