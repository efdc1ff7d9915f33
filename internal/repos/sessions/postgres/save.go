package sessions

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/sessions"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *sessionsRepo) Save(tx *sql.Tx, s *wager.Session) error {
	data := wager.EncodeSession(s)

	// The space guard lives in the UPDATE itself so an undersized
	// allocation can never be overwritten with a truncated record.
	res, err := tx.Exec(`
		UPDATE game_sessions
		SET data = $2, updated_at = now()
		WHERE session_id = $1
		  AND space >= octet_length($2)
	`, s.ID, data)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		var exists bool

		err = tx.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM game_sessions WHERE session_id = $1)
		`, s.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check session exists: %w", err)
		}

		if !exists {
			return sessions.ErrSessionNotFound
		}

		return wager.ErrRecordSpaceExceeded
	}

	return nil
}
