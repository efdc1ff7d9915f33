package accounts

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) Exists(tx *sql.Tx, addr wager.Identity) error {
	var exists bool

	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM accounts WHERE addr = $1)
	`, addr.Bytes()).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}

	if !exists {
		return accounts.ErrAccountNotFound
	}

	return nil
}
