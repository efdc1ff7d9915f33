package sessions

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/sessions"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *sessionsRepo) LockAndGet(tx *sql.Tx, sessionID string) (*wager.Session, error) {
	var data []byte

	err := tx.QueryRow(`
		SELECT data
		FROM game_sessions
		WHERE session_id = $1
		FOR UPDATE
	`, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessions.ErrSessionNotFound
		}

		return nil, fmt.Errorf("lock/get session: %w", err)
	}

	s, err := wager.DecodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}

	return s, nil
}
