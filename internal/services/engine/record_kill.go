package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/wager"
)

// RecordKill records one in-match kill, reported by the session
// authority. Team membership, team distinctness and both counter
// bounds are validated inside the aggregate; a violated bound aborts
// the whole instruction with no partial mutation.
func (e *Engine) RecordKill(ctx context.Context, caller wager.Identity, sessionID string, killerTeam int, killer wager.Identity, victimTeam int, victim wager.Identity) error {
	err := pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		s, err := e.sessions.LockAndGet(tx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		err = e.policy.Authorize(caller, s.Authority)
		if err != nil {
			return fmt.Errorf("authorize reporter: %w", err)
		}

		err = s.AddKill(killerTeam, killer, victimTeam, victim)
		if err != nil {
			return fmt.Errorf("add kill: %w", err)
		}

		err = e.sessions.Save(tx, s)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("record kill: %w", err)
	}

	return nil
}
