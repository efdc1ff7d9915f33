package accounts

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) Credit(tx *sql.Tx, addr wager.Identity, amount uint64) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (addr, balance)
		VALUES ($1, $2)
		ON CONFLICT (addr) DO UPDATE
		SET balance = accounts.balance + EXCLUDED.balance
	`, addr.Bytes(), int64(amount))
	if err != nil {
		return fmt.Errorf("credit account: %w", err)
	}

	return nil
}
