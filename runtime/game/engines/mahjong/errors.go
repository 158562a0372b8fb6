package mahjong

import "errors"

// Protocol errors: the input is rejected, nothing changes.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrWrongPhase       = errors.New("input not accepted in this phase")
	ErrTileNotInHand    = errors.New("tile not in hand")
	ErrActionNotOffered = errors.New("action not offered")
	ErrRiichiLocked     = errors.New("riichi hand may only discard the drawn tile")
	ErrSwapCall         = errors.New("discard forbidden right after the call")
	ErrWallExhausted    = errors.New("wall exhausted")
	ErrUnknownUser      = errors.New("unknown user")
	ErrBadSeat          = errors.New("seat out of range")
	ErrBadWall          = errors.New("wall is not a permutation of the tile set")
	ErrStaleToken       = errors.New("stale state token")
	ErrHandOver         = errors.New("hand is over")
)

// ErrInvariant marks internal corruption; the hand halts.
var ErrInvariant = errors.New("engine invariant violated")
