package wager

import (
	"encoding/hex"
	"fmt"
)

// IdentitySize is the width of a player identity / holding-account
// address in bytes.
const IdentitySize = 32

// Identity is an opaque 32-byte identity. A player's identity doubles
// as the address of their holding account; vault addresses are derived
// (see VaultAddress). The zero value marks a vacant roster slot.
type Identity [IdentitySize]byte

// ZeroIdentity is the vacant-slot sentinel.
var ZeroIdentity Identity

// ParseIdentity decodes a 64-char hex string into an Identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity

	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decode identity: %w", err)
	}

	if len(b) != IdentitySize {
		return id, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(b))
	}

	copy(id[:], b)

	return id, nil
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether id is the vacant-slot sentinel.
func (id Identity) IsZero() bool {
	return id == ZeroIdentity
}

// Bytes returns the identity as a byte slice, for SQL parameters.
func (id Identity) Bytes() []byte {
	b := make([]byte, IdentitySize)
	copy(b, id[:])

	return b
}

// IdentityFromBytes copies b into an Identity.
func IdentityFromBytes(b []byte) (Identity, error) {
	var id Identity

	if len(b) != IdentitySize {
		return id, fmt.Errorf("identity must be %d bytes, got %d", IdentitySize, len(b))
	}

	copy(id[:], b)

	return id, nil
}
