package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) LockAndGetBalance(tx *sql.Tx, addr wager.Identity) (uint64, error) {
	var balance int64

	err := tx.QueryRow(`
		SELECT balance
		FROM accounts
		WHERE addr = $1
		FOR UPDATE
	`, addr.Bytes()).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("lock/get balance: %w", err)
	}

	return uint64(balance), nil
}
