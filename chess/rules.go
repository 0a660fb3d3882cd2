package chess

import "fmt"

// GameStatus is the outcome classification of a position.
type GameStatus uint8

const (
	InProgress GameStatus = iota
	WhiteWins
	BlackWins
	Stalemate
	InsufficientMaterial
	FiftyMoveRule
	ThreefoldRepetition
)

func (s GameStatus) String() string {
	switch s {
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient material"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	default:
		return "in progress"
	}
}

// Over reports whether the status is terminal.
func (s GameStatus) Over() bool { return s != InProgress }

// IsInCheck reports whether the given side's king is attacked.
// A side with no king is never in check.
func IsInCheck(b *Board, side Color) bool {
	king := b.KingSquare(side)
	if king == NoSquare {
		return false
	}
	return IsSquareAttacked(b, king, side.Opponent())
}

// EvaluatePosition classifies the position. Evaluation order, first match
// wins: no legal moves (checkmate or stalemate), insufficient material,
// fifty-move rule, threefold repetition, otherwise in progress.
//
// Repetition is detected on position keys, not move text: zt hashes the
// current board (placement, side, castling, en-passant only) and the key is
// counted against history, the caller-owned list of keys for every position
// reached so far in the game, current position included. Passing a nil table
// or empty history skips repetition detection.
func EvaluatePosition(b *Board, zt *ZobristTable, history []uint64) GameStatus {
	if len(LegalMoves(b)) == 0 {
		if IsInCheck(b, b.sideToMove) {
			if b.sideToMove == White {
				return BlackWins
			}
			return WhiteWins
		}
		return Stalemate
	}
	if HasInsufficientMaterial(b) {
		return InsufficientMaterial
	}
	if b.halfmoveClock >= 100 {
		return FiftyMoveRule
	}
	if zt != nil && len(history) > 0 {
		key := zt.Key(b)
		seen := 0
		for _, h := range history {
			if h == key {
				seen++
			}
		}
		if seen >= 3 {
			return ThreefoldRepetition
		}
	}
	return InProgress
}

// HasInsufficientMaterial reports dead positions that no sequence of legal
// moves can win: bare kings, king and a lone minor piece, or king+bishop
// against king+bishop with both bishops on the same square color.
// Opposite-colored bishop endings are not insufficient.
func HasInsufficientMaterial(b *Board) bool {
	var minors [2][]Square
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		switch p.Type() {
		case PieceTypeNone, PieceTypeKing:
		case PieceTypeBishop, PieceTypeKnight:
			minors[p.Color()] = append(minors[p.Color()], sq)
		default:
			// Any pawn, rook or queen is mating material.
			return false
		}
	}
	w, bl := minors[White], minors[Black]
	switch {
	case len(w) == 0 && len(bl) == 0:
		return true
	case len(w)+len(bl) == 1:
		return true
	case len(w) == 1 && len(bl) == 1:
		wp := b.squares[w[0]]
		bp := b.squares[bl[0]]
		if wp.Type() == PieceTypeBishop && bp.Type() == PieceTypeBishop {
			return squareColor(w[0]) == squareColor(bl[0])
		}
		return false
	default:
		return false
	}
}

// squareColor returns 0 for dark squares and 1 for light squares.
func squareColor(sq Square) int { return (sq.File() + sq.Rank()) % 2 }

// ValidateMove checks a move against the position: the piece must sit on the
// source square, belong to the side to move, carry a valid promotion piece
// when promoting, and appear in the legal move list. The legal move list is
// the authoritative oracle; there are no shortcuts.
func ValidateMove(b *Board, m Move) error {
	p := b.PieceAt(m.From)
	if p == NoPiece {
		return fmt.Errorf("%w: no piece on %s", ErrIllegalMove, m.From)
	}
	if p != m.Piece {
		return fmt.Errorf("%w: piece mismatch on %s", ErrIllegalMove, m.From)
	}
	if p.Color() != b.sideToMove {
		return fmt.Errorf("%w: not %s's turn", ErrIllegalMove, p.Color())
	}
	if m.Kind == MovePromotion {
		switch m.Promotion {
		case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen:
		default:
			return fmt.Errorf("%w: invalid promotion piece", ErrIllegalMove)
		}
	}
	for _, legal := range LegalMoves(b) {
		if legal.Equal(m) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is not legal here", ErrIllegalMove, m.UCI())
}

// MakeMove validates the move and applies it, mutating the board in place:
// castling rights and en-passant bookkeeping, the move's geometry, move
// clocks, and the side to move. On validation failure the board is unchanged.
func MakeMove(b *Board, m Move) error {
	if err := ValidateMove(b, m); err != nil {
		return err
	}
	b.apply(m)
	return nil
}

// MakeMove is the method form of the package-level MakeMove.
func (b *Board) MakeMove(m Move) error { return MakeMove(b, m) }

// apply performs the state update for an already-validated move.
func (b *Board) apply(m Move) {
	us := m.Piece.Color()

	// 1. Castling rights. A king move clears both rights for that side; a
	// rook moving or being captured clears the right tied to its file side.
	switch m.Piece.Type() {
	case PieceTypeKing:
		b.clearSideRights(us)
	case PieceTypeRook:
		b.clearRookRight(m.From, us)
	}
	if m.Captured.Type() == PieceTypeRook && m.Kind != MoveEnPassant {
		b.clearRookRight(m.To, m.Captured.Color())
	}

	// 2. En passant target: cleared every ply, re-set only on a double push.
	b.enPassantTarget = NoSquare
	if m.Piece.Type() == PieceTypePawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		b.enPassantTarget = SquareAt(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
	}

	// 3. Geometry per move kind.
	switch m.Kind {
	case MoveCastle:
		// Remove both pieces first: under Chess960 the rook may land on the
		// king's origin square or vice versa.
		b.squares[m.From] = NoPiece
		b.squares[m.RookFrom] = NoPiece
		b.squares[m.To] = m.Piece
		b.squares[m.RookTo] = PieceFromType(us, PieceTypeRook)
	case MoveEnPassant:
		b.squares[m.From] = NoPiece
		b.squares[m.To] = m.Piece
		capRank := m.To.Rank() - 1
		if us == Black {
			capRank = m.To.Rank() + 1
		}
		b.squares[SquareAt(m.To.File(), capRank)] = NoPiece
	case MovePromotion:
		b.squares[m.From] = NoPiece
		b.squares[m.To] = PieceFromType(us, m.Promotion)
	default:
		b.squares[m.From] = NoPiece
		b.squares[m.To] = m.Piece
	}

	// 4. Halfmove clock: reset on any pawn move or capture.
	if m.Piece.Type() == PieceTypePawn || m.Captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}

	// 5. Fullmove number increments after Black's move.
	if us == Black {
		b.fullmoveNumber++
	}

	// 6. Flip side to move.
	b.sideToMove = us.Opponent()
}

// clearSideRights removes both castling rights for a side.
func (b *Board) clearSideRights(c Color) {
	if c == White {
		b.castlingRights &^= CastlingWhiteK | CastlingWhiteQ
	} else {
		b.castlingRights &^= CastlingBlackK | CastlingBlackQ
	}
}

// clearRookRight removes the castling right tied to the rook on the given
// square: kingside if its file is at or beyond the king's file, else
// queenside. Works for arbitrary Chess960 rook files.
func (b *Board) clearRookRight(rookSq Square, c Color) {
	king := b.KingSquare(c)
	if king == NoSquare || rookSq.Rank() != king.Rank() {
		return
	}
	kingside := rookSq.File() >= king.File()
	if c == White {
		if kingside {
			b.castlingRights &^= CastlingWhiteK
		} else {
			b.castlingRights &^= CastlingWhiteQ
		}
	} else {
		if kingside {
			b.castlingRights &^= CastlingBlackK
		} else {
			b.castlingRights &^= CastlingBlackQ
		}
	}
}
