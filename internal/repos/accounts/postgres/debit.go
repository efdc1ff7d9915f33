package accounts

import (
	"database/sql"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) Debit(tx *sql.Tx, addr wager.Identity, amount uint64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance - $2
		WHERE addr = $1
		  AND balance >= $2
	`, addr.Bytes(), int64(amount))
	if err != nil {
		return fmt.Errorf("debit account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrInsufficientFunds
	}

	return nil
}
