package deposits

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/deposits"
	"github.com/mavrin/wagervault/internal/wager"
)

var _ deposits.Deposits = (*depositsRepo)(nil)

type depositsRepo struct{ db *sql.DB }

func New(db *sql.DB) *depositsRepo {
	return &depositsRepo{db: db}
}

func (r *depositsRepo) Insert(tx *sql.Tx, sessionID string, player wager.Identity, amount uint64, kind deposits.Kind) error {
	_, err := tx.Exec(`
		INSERT INTO vault_deposits (session_id, player, amount, kind)
		VALUES ($1, $2, $3, $4)
	`, sessionID, player.Bytes(), int64(amount), string(kind))
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}

	return nil
}

func (r *depositsRepo) SumByPlayer(tx *sql.Tx, sessionID string) (map[wager.Identity]uint64, error) {
	rows, err := tx.Query(`
		SELECT player, SUM(amount)
		FROM vault_deposits
		WHERE session_id = $1
		GROUP BY player
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sum deposits: %w", err)
	}
	defer rows.Close()

	sums := make(map[wager.Identity]uint64)

	for rows.Next() {
		var (
			raw   []byte
			total int64
		)

		err = rows.Scan(&raw, &total)
		if err != nil {
			return nil, fmt.Errorf("scan deposit sum: %w", err)
		}

		player, err := wager.IdentityFromBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("deposit player: %w", err)
		}

		sums[player] = uint64(total)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate deposit sums: %w", err)
	}

	return sums, nil
}
