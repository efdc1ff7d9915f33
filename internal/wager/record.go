package wager

import (
	"encoding/binary"
	"fmt"
)

// Persisted session layout. The record is a little-endian snapshot of
// the aggregate; its reserved space is a function of the ACTUAL game
// mode and id length at creation time:
//
//	space = header + len(id) + 2 * (roster overhead + slots * slot size)
//
// Encoding into a smaller allocation is a hard error, never a
// truncation.
const (
	// id length prefix + authority + bet + mode + status + created_at
	recordHeaderSize = 4 + IdentitySize + 8 + 1 + 1 + 8
	// slot count prefix + total_staked
	rosterOverheadSize = 2 + 8
	// player + spawns + kills
	slotSize = IdentitySize + 2 + 2
)

// RequiredSpace returns the record allocation for a session of the
// given mode and id length.
func RequiredSpace(mode GameMode, idLen int) int {
	return recordHeaderSize + idLen + 2*(rosterOverheadSize+mode.PlayersPerTeam()*slotSize)
}

// EncodeSession serializes s into its record layout.
func EncodeSession(s *Session) []byte {
	buf := make([]byte, 0, RequiredSpace(s.Mode, len(s.ID)))

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.ID)))
	buf = append(buf, s.ID...)
	buf = append(buf, s.Authority[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, s.Bet)
	buf = append(buf, byte(s.Mode), byte(s.Status))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.CreatedAt))

	for t := TeamA; t <= TeamB; t++ {
		roster := &s.Teams[t]

		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(roster.Slots)))
		buf = binary.LittleEndian.AppendUint64(buf, roster.TotalStaked)

		for i := range roster.Slots {
			slot := roster.Slots[i]
			buf = append(buf, slot.Player[:]...)
			buf = binary.LittleEndian.AppendUint16(buf, slot.Spawns)
			buf = binary.LittleEndian.AppendUint16(buf, slot.Kills)
		}
	}

	return buf
}

type recordReader struct {
	buf []byte
	off int
}

func (r *recordReader) take(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, fmt.Errorf("session record truncated at offset %d", r.off)
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *recordReader) u16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *recordReader) u32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *recordReader) u64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// DecodeSession parses a session record.
func DecodeSession(buf []byte) (*Session, error) {
	r := &recordReader{buf: buf}

	idLen, err := r.u32()
	if err != nil {
		return nil, err
	}

	if idLen > MaxSessionIDLen {
		return nil, fmt.Errorf("decode session: id length %d: %w", idLen, ErrSessionIDTooLong)
	}

	idBytes, err := r.take(int(idLen))
	if err != nil {
		return nil, err
	}

	s := &Session{ID: string(idBytes)}

	auth, err := r.take(IdentitySize)
	if err != nil {
		return nil, err
	}

	copy(s.Authority[:], auth)

	s.Bet, err = r.u64()
	if err != nil {
		return nil, err
	}

	flags, err := r.take(2)
	if err != nil {
		return nil, err
	}

	s.Mode, s.Status = GameMode(flags[0]), Status(flags[1])
	if !s.Mode.Valid() {
		return nil, fmt.Errorf("decode session: %w", ErrInvalidGameMode)
	}

	created, err := r.u64()
	if err != nil {
		return nil, err
	}

	s.CreatedAt = int64(created)

	for t := TeamA; t <= TeamB; t++ {
		count, err := r.u16()
		if err != nil {
			return nil, err
		}

		if int(count) != s.Mode.PlayersPerTeam() {
			return nil, fmt.Errorf("decode session: roster size %d does not match mode %s", count, s.Mode)
		}

		roster := newRoster(int(count))

		roster.TotalStaked, err = r.u64()
		if err != nil {
			return nil, err
		}

		for i := range roster.Slots {
			player, err := r.take(IdentitySize)
			if err != nil {
				return nil, err
			}

			copy(roster.Slots[i].Player[:], player)

			roster.Slots[i].Spawns, err = r.u16()
			if err != nil {
				return nil, err
			}

			roster.Slots[i].Kills, err = r.u16()
			if err != nil {
				return nil, err
			}
		}

		s.Teams[t] = roster
	}

	return s, nil
}
