package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/sessions"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *sessionsRepo) Get(ctx context.Context, sessionID string) (*wager.Session, error) {
	var data []byte

	err := r.db.QueryRowContext(ctx, `
		SELECT data
		FROM game_sessions
		WHERE session_id = $1
	`, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessions.ErrSessionNotFound
		}

		return nil, fmt.Errorf("get session: %w", err)
	}

	s, err := wager.DecodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}

	return s, nil
}
