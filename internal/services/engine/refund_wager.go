package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/wager"
)

// RefundWager aborts the session and returns to every occupied slot's
// player the FULL value they put into the vault: their stake plus any
// spawn fees they personally paid, read from the deposit ledger. The
// vault's post-refund residual must be zero. Allowed from any
// non-terminal state, so a partially joined session cannot strand
// stakes.
func (e *Engine) RefundWager(ctx context.Context, caller wager.Identity, sessionID string, pairs []SettlementAccount) error {
	err := pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		s, err := e.sessions.LockAndGet(tx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		err = e.policy.Authorize(caller, s.Authority)
		if err != nil {
			return fmt.Errorf("authorize refund: %w", err)
		}

		if s.Status == wager.StatusCompleted {
			return wager.ErrInvalidSessionState
		}

		vaultAddr := wager.VaultAddress(sessionID)

		balance, err := e.accounts.LockAndGetBalance(tx, vaultAddr)
		if err != nil {
			return fmt.Errorf("lock vault: %w", err)
		}

		expected := s.OccupiedPlayers()

		err = validatePairs(pairs, expected)
		if err != nil {
			return err
		}

		sums, err := e.deposits.SumByPlayer(tx, sessionID)
		if err != nil {
			return fmt.Errorf("sum deposits: %w", err)
		}

		var refunded uint64

		for i, player := range expected {
			amount := sums[player]
			if amount == 0 {
				continue
			}

			err = e.accounts.Debit(tx, vaultAddr, amount)
			if err != nil {
				return fmt.Errorf("debit vault for %s: %w", player, err)
			}

			err = e.accounts.Credit(tx, pairs[i].Destination, amount)
			if err != nil {
				return fmt.Errorf("credit refund to %s: %w", pairs[i].Destination, err)
			}

			refunded += amount
		}

		// Every inflow is a deposit row, so a drained ledger must leave
		// the vault empty. A mismatch means the books are wrong; abort.
		if refunded != balance {
			return fmt.Errorf("refund total %d does not drain vault balance %d", refunded, balance)
		}

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
		return fmt.Errorf("refund wager: %w", err)
	}

	slog.Info("session refunded", "session_id", sessionID)

	return nil
}
