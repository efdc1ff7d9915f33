package accounts

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) Open(tx *sql.Tx, addr wager.Identity) error {
	_, err := tx.Exec(`
		INSERT INTO accounts (addr, balance)
		VALUES ($1, 0)
		ON CONFLICT (addr) DO NOTHING
	`, addr.Bytes())
	if err != nil {
		return fmt.Errorf("open account: %w", err)
	}

	return nil
}
