package wager

import "github.com/decred/dcrd/crypto/blake256"

// The session id plays two roles: a bounded display label and the seed
// for deterministic addressing. Addressing uses a fixed-width digest of
// the id under a namespace tag, so derivation cost and storage layout
// do not scale with caller-supplied length, and any party can recompute
// both addresses without querying storage.
const (
	sessionAddrTag = "wagervault/session:"
	vaultAddrTag   = "wagervault/vault:"
)

func deriveAddress(tag, id string) Identity {
	return Identity(blake256.Sum256(append([]byte(tag), id...)))
}

// SessionAddress is the deterministic address of the session record.
func SessionAddress(id string) Identity {
	return deriveAddress(sessionAddrTag, id)
}

// VaultAddress is the deterministic address of the session's escrow
// vault account.
func VaultAddress(id string) Identity {
	return deriveAddress(vaultAddrTag, id)
}
