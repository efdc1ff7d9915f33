// Package engine implements the settlement state machine: the six
// instructions that are the only mutators of a game session. Each
// instruction runs as a single DB transaction with the session row
// locked, so every invariant check and every counter/balance update
// commits together or not at all.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mavrin/wagervault/internal/repos/accounts"
	pgaccounts "github.com/mavrin/wagervault/internal/repos/accounts/postgres"
	"github.com/mavrin/wagervault/internal/repos/deposits"
	pgdeposits "github.com/mavrin/wagervault/internal/repos/deposits/postgres"
	"github.com/mavrin/wagervault/internal/repos/sessions"
	pgsessions "github.com/mavrin/wagervault/internal/repos/sessions/postgres"
	"github.com/mavrin/wagervault/internal/wager"
)

type Engine struct {
	db       *sql.DB
	sessions sessions.Sessions
	accounts accounts.Accounts
	deposits deposits.Deposits
	policy   wager.SettlementPolicy
	now      func() time.Time
}

func New(db *sql.DB) *Engine {
	return &Engine{
		db:       db,
		sessions: pgsessions.New(db),
		accounts: pgaccounts.New(db),
		deposits: pgdeposits.New(db),
		policy:   wager.SingleAuthority{},
		now:      time.Now,
	}
}

// NewWithPolicy builds an engine with a custom authorization policy.
func NewWithPolicy(db *sql.DB, policy wager.SettlementPolicy) *Engine {
	e := New(db)
	e.policy = policy

	return e
}

// SettlementAccount pairs an occupied slot's identity with the
// destination its payout or refund goes to.
type SettlementAccount struct {
	Player      wager.Identity
	Destination wager.Identity
}

// SessionSnapshot is the read model returned by GetSession.
type SessionSnapshot struct {
	Session      *wager.Session
	SessionAddr  wager.Identity
	VaultAddr    wager.Identity
	VaultBalance uint64
}

// GetSession returns the session together with its derived addresses
// and the current vault balance (no locks).
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	s, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	vaultAddr := wager.VaultAddress(sessionID)

	balance, err := e.accounts.GetBalance(ctx, vaultAddr)
	if err != nil {
		return nil, fmt.Errorf("get vault balance: %w", err)
	}

	return &SessionSnapshot{
		Session:      s,
		SessionAddr:  wager.SessionAddress(sessionID),
		VaultAddr:    vaultAddr,
		VaultBalance: balance,
	}, nil
}

// GetBalance returns the balance of any holding account.
func (e *Engine) GetBalance(ctx context.Context, addr wager.Identity) (uint64, error) {
	balance, err := e.accounts.GetBalance(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// validatePairs asserts the supplied settlement accounts line up with
// the expected paid slots exactly: same count, same identity at each
// position. Anything else is InvalidSettlementAccounts.
func validatePairs(pairs []SettlementAccount, expected []wager.Identity) error {
	if len(pairs) != len(expected) {
		return fmt.Errorf("%w: got %d accounts, expected %d",
			wager.ErrInvalidSettlementAccounts, len(pairs), len(expected))
	}

	for i, want := range expected {
		if pairs[i].Player != want {
			return fmt.Errorf("%w: position %d holds %s, expected %s",
				wager.ErrInvalidSettlementAccounts, i, pairs[i].Player, want)
		}

		if pairs[i].Destination.IsZero() {
			return fmt.Errorf("%w: position %d has no destination",
				wager.ErrInvalidSettlementAccounts, i)
		}
	}

	return nil
}
