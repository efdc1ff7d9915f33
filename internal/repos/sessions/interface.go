package sessions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mavrin/wagervault/internal/wager"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrDuplicateSession = errors.New("session id already exists")
)

type Sessions interface {
	// Create inserts the session record with an allocation of space
	// bytes, computed by the caller from the actual mode and id length.
	Create(tx *sql.Tx, s *wager.Session, space int) error

	// LockAndGet loads the session FOR UPDATE, serializing all
	// instructions that target it.
	LockAndGet(tx *sql.Tx, sessionID string) (*wager.Session, error)

	// Save re-encodes the session into its allocated space. A record
	// that outgrew its allocation is rejected, never truncated.
	Save(tx *sql.Tx, s *wager.Session) error

	// Get loads a session without locking; suitable for reads.
	Get(ctx context.Context, sessionID string) (*wager.Session, error)
}
