package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	"github.com/mavrin/wagervault/internal/wager"
)

func (r *accountsRepo) GetBalance(ctx context.Context, addr wager.Identity) (uint64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM accounts
		WHERE addr = $1
	`, addr.Bytes()).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, accounts.ErrAccountNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return uint64(balance), nil
}
