package sessions

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mavrin/wagervault/internal/repos/sessions"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *sessionsRepo) Create(tx *sql.Tx, s *wager.Session, space int) error {
	data := wager.EncodeSession(s)
	if len(data) > space {
		return wager.ErrRecordSpaceExceeded
	}

	_, err := tx.Exec(`
		INSERT INTO game_sessions (session_id, addr, vault_addr, space, data)
		VALUES ($1, $2, $3, $4, $5)
	`,
		s.ID,
		wager.SessionAddress(s.ID).Bytes(),
		wager.VaultAddress(s.ID).Bytes(),
		space,
		data,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return sessions.ErrDuplicateSession
			}
		}

		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}
