package chess

import "errors"

// ErrParse indicates malformed FEN, UCI or SAN text. Always recoverable;
// the public API wraps it with a specific reason and never panics on bad input.
var ErrParse = errors.New("parse error")

// ErrIllegalMove indicates a well-formed move that is not legal in the given
// position. The caller may retry with a different move.
var ErrIllegalMove = errors.New("illegal move")

// ErrInvalidPosition indicates a position that fails semantic validation
// (wrong king count, pawns on a back rank) under strict parsing.
var ErrInvalidPosition = errors.New("invalid position")
