package chess

// Direction offset tables, expressed as (file, rank) deltas.
var (
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightOffsets = [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets = [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

// LegalMoves generates all legal moves for the side to move. Generation is
// pseudo-legal per piece followed by a clone-apply-attack filter: any move
// that leaves the mover's own king attacked is discarded. The result is
// rebuilt on every call; no caching.
func LegalMoves(b *Board) []Move {
	pseudo := pseudoLegalMoves(b)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if !leavesKingInCheck(b, m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// leavesKingInCheck applies the move to a private clone and tests whether the
// moving side's king is attacked afterward.
func leavesKingInCheck(b *Board, m Move) bool {
	c := b.Clone()
	c.apply(m)
	king := c.KingSquare(m.Piece.Color())
	if king == NoSquare {
		return false // kingless test fixtures have nothing to defend
	}
	return IsSquareAttacked(c, king, m.Piece.Color().Opponent())
}

// pseudoLegalMoves generates moves obeying piece geometry and blockers but
// ignoring discovered/remaining check on the mover's king.
func pseudoLegalMoves(b *Board) []Move {
	us := b.sideToMove
	moves := make([]Move, 0, 48)
	for sq := Square(0); sq < 64; sq++ {
		p := b.squares[sq]
		if p == NoPiece || p.Color() != us {
			continue
		}
		switch p.Type() {
		case PieceTypePawn:
			moves = appendPawnMoves(b, sq, p, moves)
		case PieceTypeKnight:
			moves = appendStepMoves(b, sq, p, knightOffsets[:], moves)
		case PieceTypeBishop:
			moves = appendSlideMoves(b, sq, p, bishopDirs[:], moves)
		case PieceTypeRook:
			moves = appendSlideMoves(b, sq, p, rookDirs[:], moves)
		case PieceTypeQueen:
			moves = appendSlideMoves(b, sq, p, rookDirs[:], moves)
			moves = appendSlideMoves(b, sq, p, bishopDirs[:], moves)
		case PieceTypeKing:
			moves = appendStepMoves(b, sq, p, kingOffsets[:], moves)
			moves = appendCastleMoves(b, sq, p, moves)
		}
	}
	return moves
}

// newMove builds a quiet or capturing move with the non-castle fields zeroed.
func newMove(from, to Square, piece, captured Piece) Move {
	return Move{
		From: from, To: to, Piece: piece, Captured: captured,
		RookFrom: NoSquare, RookTo: NoSquare,
	}
}

// appendStepMoves generates fixed-offset moves (knight, king) from sq.
func appendStepMoves(b *Board, sq Square, p Piece, offsets [][2]int, moves []Move) []Move {
	for _, d := range offsets {
		to := SquareAt(sq.File()+d[0], sq.Rank()+d[1])
		if to == NoSquare {
			continue
		}
		target := b.squares[to]
		if target != NoPiece && target.Color() == p.Color() {
			continue
		}
		moves = append(moves, newMove(sq, to, p, target))
	}
	return moves
}

// appendSlideMoves ray-casts from sq in each direction until a blocker.
func appendSlideMoves(b *Board, sq Square, p Piece, dirs [][2]int, moves []Move) []Move {
	for _, d := range dirs {
		file, rank := sq.File()+d[0], sq.Rank()+d[1]
		for {
			to := SquareAt(file, rank)
			if to == NoSquare {
				break
			}
			target := b.squares[to]
			if target == NoPiece {
				moves = append(moves, newMove(sq, to, p, NoPiece))
			} else {
				if target.Color() != p.Color() {
					moves = append(moves, newMove(sq, to, p, target))
				}
				break
			}
			file += d[0]
			rank += d[1]
		}
	}
	return moves
}

// appendPawnMoves generates pushes, double pushes, captures, en passant and
// promotions for the pawn on sq. A push or capture landing on the back rank
// expands into four promotion moves, one per promotable piece.
func appendPawnMoves(b *Board, sq Square, p Piece, moves []Move) []Move {
	dir, startRank := 1, 1
	if p.Color() == Black {
		dir, startRank = -1, 6
	}

	// Single push onto an empty square, double push from the start rank when
	// both intermediate and destination squares are empty.
	one := SquareAt(sq.File(), sq.Rank()+dir)
	if one != NoSquare && b.squares[one] == NoPiece {
		moves = appendPawnTarget(sq, one, p, NoPiece, moves)
		if sq.Rank() == startRank {
			two := SquareAt(sq.File(), sq.Rank()+2*dir)
			if two != NoSquare && b.squares[two] == NoPiece {
				moves = append(moves, newMove(sq, two, p, NoPiece))
			}
		}
	}

	// Diagonal captures, including en passant when the target matches.
	for _, df := range []int{-1, 1} {
		to := SquareAt(sq.File()+df, sq.Rank()+dir)
		if to == NoSquare {
			continue
		}
		target := b.squares[to]
		if target != NoPiece && target.Color() != p.Color() {
			moves = appendPawnTarget(sq, to, p, target, moves)
		} else if target == NoPiece && to == b.enPassantTarget {
			m := newMove(sq, to, p, PieceFromType(p.Color().Opponent(), PieceTypePawn))
			m.Kind = MoveEnPassant
			moves = append(moves, m)
		}
	}
	return moves
}

// promotionPieces lists the four promotable piece types.
var promotionPieces = [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight}

// appendPawnTarget appends a pawn move to the given destination, expanding it
// into the four promotion moves when the destination is the back rank.
func appendPawnTarget(from, to Square, p, captured Piece, moves []Move) []Move {
	if !RequiresPromotion(from, to, p) {
		return append(moves, newMove(from, to, p, captured))
	}
	for _, pt := range promotionPieces {
		m := newMove(from, to, p, captured)
		m.Kind = MovePromotion
		m.Promotion = pt
		moves = append(moves, m)
	}
	return moves
}

// castleRookSquare locates the rook implied by a castling right: the first
// own rook found searching outward from the king along the back rank. Under
// Chess960 this rook is not necessarily on the a/h file.
func castleRookSquare(b *Board, c Color, kingside bool) Square {
	king := b.KingSquare(c)
	if king == NoSquare {
		return NoSquare
	}
	rank := king.Rank()
	rook := PieceFromType(c, PieceTypeRook)
	step := 1
	if !kingside {
		step = -1
	}
	for file := king.File() + step; file >= 0 && file <= 7; file += step {
		if b.squares[rank*8+file] == rook {
			return SquareAt(file, rank)
		}
	}
	return NoSquare
}

// appendCastleMoves generates castle moves for the king on sq, honoring
// remaining rights and the Chess960 rules: the king must not be in check, the
// king's path (destination inclusive) must be unattacked and empty except for
// the castling pair, and the rook's path must be empty except for the pair.
func appendCastleMoves(b *Board, sq Square, king Piece, moves []Move) []Move {
	us := king.Color()
	them := us.Opponent()

	var rightK, rightQ CastlingRights
	if us == White {
		rightK, rightQ = CastlingWhiteK, CastlingWhiteQ
	} else {
		rightK, rightQ = CastlingBlackK, CastlingBlackQ
	}

	for _, side := range []struct {
		right    CastlingRights
		kingside bool
	}{{rightK, true}, {rightQ, false}} {
		if b.castlingRights&side.right == 0 {
			continue
		}
		rookFrom := castleRookSquare(b, us, side.kingside)
		if rookFrom == NoSquare {
			continue
		}
		kingTo := castleKingTarget(us, side.kingside)
		rookTo := castleRookTarget(us, side.kingside)

		if IsSquareAttacked(b, sq, them) {
			continue
		}
		if !castlePathClear(b, sq, kingTo, sq, rookFrom) {
			continue
		}
		if !castlePathClear(b, rookFrom, rookTo, sq, rookFrom) {
			continue
		}
		if castlePathAttacked(b, sq, kingTo, them) {
			continue
		}

		m := newMove(sq, kingTo, king, NoPiece)
		m.Kind = MoveCastle
		m.RookFrom = rookFrom
		m.RookTo = rookTo
		moves = append(moves, m)
	}
	return moves
}

// castlePathClear reports whether every square from from to to (endpoints
// inclusive) is empty, tolerating only the castling king and rook themselves.
func castlePathClear(b *Board, from, to, kingSq, rookSq Square) bool {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	for sq := lo; sq <= hi; sq++ {
		if sq == kingSq || sq == rookSq {
			continue
		}
		if b.squares[sq] != NoPiece {
			return false
		}
	}
	return true
}

// castlePathAttacked reports whether any square the king crosses, destination
// inclusive (and excluding its start, which is tested separately), is attacked.
func castlePathAttacked(b *Board, from, to Square, by Color) bool {
	if from == to {
		return false
	}
	step := Square(1)
	if to < from {
		step = -1
	}
	for sq := from + step; ; sq += step {
		if IsSquareAttacked(b, sq, by) {
			return true
		}
		if sq == to {
			return false
		}
	}
}

// IsSquareAttacked reports whether the given square is attacked by any piece
// of the attacking side. Each piece type's attack geometry is checked
// independently: pawn diagonals (direction depends on attacker color),
// knight offsets, sliding rays for rook/bishop/queen, and adjacent kings.
func IsSquareAttacked(b *Board, sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}
	file, rank := sq.File(), sq.Rank()

	// Pawns: a white pawn attacks upward, so the attacker sits one rank below.
	pawnRank := rank - 1
	if by == Black {
		pawnRank = rank + 1
	}
	pawn := PieceFromType(by, PieceTypePawn)
	for _, df := range []int{-1, 1} {
		if from := SquareAt(file+df, pawnRank); from != NoSquare && b.squares[from] == pawn {
			return true
		}
	}

	// Knights.
	knight := PieceFromType(by, PieceTypeKnight)
	for _, d := range knightOffsets {
		if from := SquareAt(file+d[0], rank+d[1]); from != NoSquare && b.squares[from] == knight {
			return true
		}
	}

	// Adjacent enemy king.
	king := PieceFromType(by, PieceTypeKing)
	for _, d := range kingOffsets {
		if from := SquareAt(file+d[0], rank+d[1]); from != NoSquare && b.squares[from] == king {
			return true
		}
	}

	// Sliding attacks along clear rays.
	rook := PieceFromType(by, PieceTypeRook)
	bishop := PieceFromType(by, PieceTypeBishop)
	queen := PieceFromType(by, PieceTypeQueen)
	if slideAttack(b, sq, rookDirs[:], rook, queen) {
		return true
	}
	return slideAttack(b, sq, bishopDirs[:], bishop, queen)
}

// slideAttack walks each ray from sq until a blocker and reports whether the
// first piece met is one of the two given attacker codes.
func slideAttack(b *Board, sq Square, dirs [][2]int, a1, a2 Piece) bool {
	for _, d := range dirs {
		file, rank := sq.File()+d[0], sq.Rank()+d[1]
		for {
			from := SquareAt(file, rank)
			if from == NoSquare {
				break
			}
			p := b.squares[from]
			if p != NoPiece {
				if p == a1 || p == a2 {
					return true
				}
				break
			}
			file += d[0]
			rank += d[1]
		}
	}
	return false
}
