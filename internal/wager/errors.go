package wager

import "errors"

// Error taxonomy of the settlement engine. Every failed check aborts
// the whole instruction; callers see exactly one of these.
var (
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")

	ErrPlayerAlreadyJoined = errors.New("player already joined this session")
	ErrTeamIsFull          = errors.New("team is full")
	ErrPlayerNotFound      = errors.New("player not found in team")
	ErrPlayerHasNoSpawns   = errors.New("player has no spawns left")
	ErrInvalidTeam         = errors.New("invalid team index")
	ErrSameTeamKill        = errors.New("killer and victim are on the same team")

	ErrUnauthorized              = errors.New("caller is not authorized for this action")
	ErrInvalidSettlementAccounts = errors.New("settlement accounts do not match occupied roster slots")
	ErrInvalidTokenSource        = errors.New("value arrived from an unexpected holding account")

	ErrSessionIDTooLong   = errors.New("session id too long")
	ErrSessionIDTooShort  = errors.New("session id too short")
	ErrInvalidSessionState = errors.New("instruction not allowed in current session state")
	ErrInvalidGameMode     = errors.New("invalid game mode")
	ErrZeroBet             = errors.New("session bet must be greater than zero")
	ErrBetTooLarge         = errors.New("session bet exceeds the maximum stake")

	// ErrRecordSpaceExceeded means an encoded session no longer fits the
	// space allocated for it at creation time.
	ErrRecordSpaceExceeded = errors.New("session record exceeds allocated space")
)
