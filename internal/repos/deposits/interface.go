package deposits

import (
	"database/sql"

	"github.com/mavrin/wagervault/internal/wager"
)

// Kind tags why value entered the vault.
type Kind string

const (
	KindStake    Kind = "stake"
	KindSpawnFee Kind = "spawn_fee"
)

// Deposits is the append-only ledger of value flowing INTO a session's
// vault. It is what makes refunds exact: a player's refund is the sum
// of their rows here, stake and spawn fees alike, not a flat bet.
type Deposits interface {
	Insert(tx *sql.Tx, sessionID string, player wager.Identity, amount uint64, kind Kind) error

	// SumByPlayer returns each player's total contribution to the
	// session's vault.
	SumByPlayer(tx *sql.Tx, sessionID string) (map[wager.Identity]uint64, error)
}
