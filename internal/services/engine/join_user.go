package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/repos/deposits"
	"github.com/mavrin/wagervault/internal/wager"
)

// JoinUser admits the caller into a team and escrows their stake:
//
// 1) Lock the session row.
// 2) Apply the roster join (cross-team duplicate check, free slot,
//    spawns = 10).
// 3) Move the stake from the caller's holding account into the vault.
// 4) Record the inflow in the deposit ledger.
//
// The stake must come from the caller's own account; any other source
// is InvalidTokenSource.
func (e *Engine) JoinUser(ctx context.Context, caller, source wager.Identity, sessionID string, team int) error {
	if source != caller {
		return fmt.Errorf("stake source %s is not the caller: %w", source, wager.ErrInvalidTokenSource)
	}

	err := pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		s, err := e.sessions.LockAndGet(tx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		err = e.accounts.Exists(tx, caller)
		if err != nil {
			return fmt.Errorf("check caller account: %w", err)
		}

		err = s.Join(team, caller)
		if err != nil {
			return fmt.Errorf("join roster: %w", err)
		}

		err = e.accounts.Debit(tx, caller, s.Bet)
		if err != nil {
			return fmt.Errorf("debit stake: %w", err)
		}

		err = e.accounts.Credit(tx, wager.VaultAddress(sessionID), s.Bet)
		if err != nil {
			return fmt.Errorf("credit vault: %w", err)
		}

		err = e.deposits.Insert(tx, sessionID, caller, s.Bet, deposits.KindStake)
		if err != nil {
			return fmt.Errorf("record stake deposit: %w", err)
		}

		err = e.sessions.Save(tx, s)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("join user: %w", err)
	}

	return nil
}
