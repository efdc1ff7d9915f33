package wager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredSpace_TracksModeAndIDLength(t *testing.T) {
	// Space grows with the actual id length and roster size; a layout
	// assuming a 10-byte id or a fixed 5-per-team roster is exactly the
	// defect this contract closes.
	short := RequiredSpace(WinnerTakesAllOneVsOne, 10)
	long := RequiredSpace(WinnerTakesAllOneVsOne, 20)
	assert.Equal(t, 10, long-short)

	small := RequiredSpace(PayToSpawnOneVsOne, 10)
	big := RequiredSpace(PayToSpawnFiveVsFive, 10)
	assert.Equal(t, 2*4*slotSize, big-small)
}

func TestEncodeSession_FillsAllocationExactly(t *testing.T) {
	for mode := range modeNames {
		s, err := NewSession("sized_session_check", ident(1), 500, mode, time.Unix(1700000000, 0))
		require.NoError(t, err)

		enc := EncodeSession(s)
		assert.Equal(t, RequiredSpace(mode, len(s.ID)), len(enc), "mode %s", mode)
	}
}

func TestEncodeSession_LongIDExceedsShortAllocation(t *testing.T) {
	// A 20-char id against a layout reserved for a 10-char id must be
	// detected as storage-too-small, not truncated.
	s, err := NewSession("twenty_chars_long_id", ident(1), 1000, WinnerTakesAllOneVsOne, time.Unix(1700000000, 0))
	require.NoError(t, err)
	require.Len(t, s.ID, 20)

	enc := EncodeSession(s)
	assert.Greater(t, len(enc), RequiredSpace(s.Mode, 10))
}

func TestSessionRecord_RoundTrip(t *testing.T) {
	s, err := NewSession("round_trip", ident(0xAA), 1000, PayToSpawnThreeVsThree, time.Unix(1700000000, 0))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Join(TeamA, ident(byte(1+i))))
		require.NoError(t, s.Join(TeamB, ident(byte(4+i))))
	}

	require.NoError(t, s.AddKill(TeamA, ident(1), TeamB, ident(4)))
	require.NoError(t, s.AddSpawns(TeamB, ident(5)))

	got, err := DecodeSession(EncodeSession(s))
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeSession_Truncated(t *testing.T) {
	s, err := NewSession("truncated", ident(1), 1000, WinnerTakesAllOneVsOne, time.Unix(1700000000, 0))
	require.NoError(t, err)

	enc := EncodeSession(s)

	_, err = DecodeSession(enc[:len(enc)-5])
	assert.Error(t, err)

	_, err = DecodeSession(nil)
	assert.Error(t, err)
}
