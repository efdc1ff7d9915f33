package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mavrin/wagervault/internal/wager"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Accounts is the minimal fungible-value primitive the engine escrows
// through: player holding accounts keyed by identity, vault accounts
// keyed by derived address.
type Accounts interface {
	// Open creates the account with a zero balance if it does not exist.
	Open(tx *sql.Tx, addr wager.Identity) error
	Exists(tx *sql.Tx, addr wager.Identity) error
	GetBalance(ctx context.Context, addr wager.Identity) (uint64, error)
	LockAndGetBalance(tx *sql.Tx, addr wager.Identity) (uint64, error)
	// Credit adds amount, creating the account on first credit
	// (settlement destinations may be fresh accounts).
	Credit(tx *sql.Tx, addr wager.Identity, amount uint64) error
	// Debit removes amount, guarded against overdraft.
	Debit(tx *sql.Tx, addr wager.Identity, amount uint64) error
}
