package wager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressDerivation(t *testing.T) {
	// Deterministic: anyone can recompute without querying storage.
	assert.Equal(t, SessionAddress("match_1"), SessionAddress("match_1"))
	assert.Equal(t, VaultAddress("match_1"), VaultAddress("match_1"))

	// Session and vault live in distinct namespaces.
	assert.NotEqual(t, SessionAddress("match_1"), VaultAddress("match_1"))
	assert.NotEqual(t, SessionAddress("match_1"), SessionAddress("match_2"))

	// Fixed width regardless of id length.
	assert.Len(t, SessionAddress("x").Bytes(), IdentitySize)
	assert.Len(t, SessionAddress("a_much_longer_session_label").Bytes(), IdentitySize)
}
