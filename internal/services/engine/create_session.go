package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mavrin/wagervault/internal/infra/pgutils"
	"github.com/mavrin/wagervault/internal/wager"
)

// CreateSession creates the session record and its co-addressed escrow
// vault. The record allocation is computed from the actual mode and id
// length; ids outside the documented bounds are rejected up front.
func (e *Engine) CreateSession(ctx context.Context, authority wager.Identity, sessionID string, bet uint64, mode wager.GameMode) error {
	s, err := wager.NewSession(sessionID, authority, bet, mode, e.now())
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}

	space := wager.RequiredSpace(mode, len(sessionID))

	err = pgutils.WithTx(ctx, e.db, func(tx *sql.Tx) error {
		err := e.sessions.Create(tx, s, space)
		if err != nil {
			return fmt.Errorf("create session record: %w", err)
		}

		err = e.accounts.Open(tx, wager.VaultAddress(sessionID))
		if err != nil {
			return fmt.Errorf("open vault: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	slog.Info("session created",
		"session_id", sessionID,
		"mode", mode.String(),
		"bet", bet,
	)

	return nil
}
