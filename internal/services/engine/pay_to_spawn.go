package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/repos/deposits"
	"github.com/mavrin/wagervault/internal/wager"
)

// PayToSpawn sells the calling player ten extra spawns for bet/10,
// paid into the vault and recorded in the deposit ledger so a refund
// can return it. Only the occupying player may buy their own spawns,
// only in pay-to-spawn modes, only while the match is in progress.
func (e *Engine) PayToSpawn(ctx context.Context, caller, source wager.Identity, sessionID string, team int) error {
	if source != caller {
		return fmt.Errorf("fee source %s is not the caller: %w", source, wager.ErrInvalidTokenSource)
	}

	err := pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		s, err := e.sessions.LockAndGet(tx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		err = s.AddSpawns(team, caller)
		if err != nil {
			return fmt.Errorf("add spawns: %w", err)
		}

		// A bet under the fee divisor prices spawns at zero. No value
		// moves and the deposit ledger records only real inflows.
		fee := s.SpawnFee()
		if fee > 0 {
			err = e.accounts.Debit(tx, caller, fee)
			if err != nil {
				return fmt.Errorf("debit spawn fee: %w", err)
			}

			err = e.accounts.Credit(tx, wager.VaultAddress(sessionID), fee)
			if err != nil {
				return fmt.Errorf("credit vault: %w", err)
			}

			err = e.deposits.Insert(tx, sessionID, caller, fee, deposits.KindSpawnFee)
			if err != nil {
				return fmt.Errorf("record fee deposit: %w", err)
			}
		}

		err = e.sessions.Save(tx, s)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("pay to spawn: %w", err)
	}

	return nil
}
