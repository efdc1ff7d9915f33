package wager

// Counter arithmetic is always checked or saturating. A raw wraparound
// on a kill or spawn counter is a fund-safety bug, not a rounding
// detail: the counter drives the payout formula.

func checkedAddU16(a, b uint16) (uint16, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}

	return sum, nil
}

func checkedSubU16(a, b uint16) (uint16, error) {
	if b > a {
		return 0, ErrArithmeticUnderflow
	}

	return a - b, nil
}

// saturatingAddU16 adds b to a, clamping the result at limit.
func saturatingAddU16(a, b, limit uint16) uint16 {
	sum, err := checkedAddU16(a, b)
	if err != nil || sum > limit {
		return limit
	}

	return sum
}

func checkedAddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}

	return sum, nil
}
