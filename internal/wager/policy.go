package wager

// SettlementPolicy is the authorization gate applied by every
// privileged instruction. The single-reporter trust model lives behind
// this interface so a future multi-reporter scheme can replace it
// without touching settlement arithmetic.
type SettlementPolicy interface {
	// Authorize returns nil if caller may act on a session whose
	// recorded authority is authority.
	Authorize(caller, authority Identity) error
}

// SingleAuthority is the baseline policy: the caller must be the one
// trusted match reporter recorded on the session. A dishonest
// authority is an external trust boundary, not something this policy
// can detect.
type SingleAuthority struct{}

func (SingleAuthority) Authorize(caller, authority Identity) error {
	if caller != authority {
		return ErrUnauthorized
	}

	return nil
}
