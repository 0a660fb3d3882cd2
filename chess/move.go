package chess

import (
	"fmt"
	"strings"
)

// MoveKind classifies the special handling a move needs when applied.
type MoveKind uint8

const (
	MoveNormal MoveKind = iota
	MoveCastle
	MoveEnPassant
	MovePromotion
)

func (k MoveKind) String() string {
	switch k {
	case MoveCastle:
		return "castle"
	case MoveEnPassant:
		return "en-passant"
	case MovePromotion:
		return "promotion"
	default:
		return "normal"
	}
}

// Move is an immutable description of a single ply. Moves are produced by the
// move generator or parsed from UCI/SAN text, and become effective only
// through MakeMove. Analysis metadata (annotation, engine score) is attached
// with the copy-on-write With* builders.
type Move struct {
	From, To Square
	Piece    Piece
	Captured Piece
	Kind     MoveKind

	// Promotion is set only when Kind == MovePromotion.
	Promotion PieceType

	// RookFrom/RookTo are set only when Kind == MoveCastle. They carry the
	// castling rook's path, which under Chess960 need not start on a/h.
	RookFrom, RookTo Square

	// Annotation holds SAN suffix glyphs ("!", "??", ...), if any.
	Annotation string

	// Score is an engine evaluation in centipawns; valid only when HasScore.
	Score    int
	HasScore bool
}

// WithAnnotation returns a copy of the move carrying the given annotation.
func (m Move) WithAnnotation(a string) Move {
	m.Annotation = a
	return m
}

// WithScore returns a copy of the move carrying an engine score in centipawns.
func (m Move) WithScore(cp int) Move {
	m.Score = cp
	m.HasScore = true
	return m
}

// Equal reports move identity: endpoints, piece, kind and (for promotions)
// the promotion piece. The captured piece is derived state and deliberately
// not part of identity, so UCI-parsed moves compare equal to generated ones.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Piece == o.Piece &&
		m.Kind == o.Kind && m.Promotion == o.Promotion
}

// IsCapture reports whether the move removes an enemy piece (normal or en passant).
func (m Move) IsCapture() bool { return m.Captured != NoPiece }

// UCI returns the move in UCI coordinate notation: 4 characters plus a
// lowercase promotion letter for promotions. Castling is encoded as the
// king's from/to squares, per UCI convention, even under Chess960.
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Kind == MovePromotion {
		s += strings.ToLower(string(charFromPiece(PieceFromType(Black, m.Promotion))))
	}
	return s
}

func (m Move) String() string { return m.UCI() }

// RequiresPromotion reports whether moving the given piece from from to to
// mandates a promotion choice: a pawn reaching the back rank relative to its
// color (rank 8 for White, rank 1 for Black).
func RequiresPromotion(from, to Square, p Piece) bool {
	if p.Type() != PieceTypePawn || !to.Valid() {
		return false
	}
	if p.Color() == White {
		return to.Rank() == 7
	}
	return to.Rank() == 0
}

// promotionPieceFromChar maps a UCI promotion letter to a piece type.
func promotionPieceFromChar(ch byte) PieceType {
	switch ch {
	case 'q', 'Q':
		return PieceTypeQueen
	case 'r', 'R':
		return PieceTypeRook
	case 'b', 'B':
		return PieceTypeBishop
	case 'n', 'N':
		return PieceTypeKnight
	default:
		return PieceTypeNone
	}
}

// ParseUCI parses a 4-5 character UCI move against the given board, recovering
// the moving piece, captured piece and special-move kind. A promotion without
// an explicit 5th character defaults to Queen. Malformed text or an empty
// source square yields an error wrapping ErrParse; legality is not checked
// here (ValidateMove is the oracle for that).
func ParseUCI(b *Board, text string) (Move, error) {
	text = strings.TrimSpace(text)
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("%w: UCI move %q must be 4 or 5 characters", ErrParse, text)
	}
	from, err := ParseSquare(text[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Move{}, err
	}

	piece := b.PieceAt(from)
	if piece == NoPiece {
		return Move{}, fmt.Errorf("%w: no piece on %s", ErrParse, from)
	}

	m := Move{From: from, To: to, Piece: piece, Captured: b.PieceAt(to)}

	switch {
	case RequiresPromotion(from, to, piece):
		m.Kind = MovePromotion
		m.Promotion = PieceTypeQueen
		if len(text) == 5 {
			pt := promotionPieceFromChar(text[4])
			if pt == PieceTypeNone {
				return Move{}, fmt.Errorf("%w: invalid promotion character %q", ErrParse, text[4])
			}
			m.Promotion = pt
		}
	case len(text) == 5:
		return Move{}, fmt.Errorf("%w: promotion suffix on non-promoting move %q", ErrParse, text)
	case piece.Type() == PieceTypePawn && to == b.EnPassantTarget() && from.File() != to.File():
		m.Kind = MoveEnPassant
		m.Captured = PieceFromType(piece.Color().Opponent(), PieceTypePawn)
	case piece.Type() == PieceTypeKing && abs(from.File()-to.File()) >= 2 && from.Rank() == to.Rank():
		m.Kind = MoveCastle
		kingside := to.File() > from.File()
		rook := castleRookSquare(b, piece.Color(), kingside)
		if rook == NoSquare {
			return Move{}, fmt.Errorf("%w: no castling rook for %s", ErrParse, text)
		}
		m.RookFrom = rook
		m.RookTo = castleRookTarget(piece.Color(), kingside)
		m.Captured = NoPiece
	}
	if m.Kind != MoveCastle {
		m.RookFrom, m.RookTo = NoSquare, NoSquare
	}
	return m, nil
}

// castleKingTarget returns the king's destination square for a castle:
// file g (kingside) or file c (queenside), regardless of the rook's origin.
func castleKingTarget(c Color, kingside bool) Square {
	rank := 0
	if c == Black {
		rank = 7
	}
	if kingside {
		return SquareAt(6, rank)
	}
	return SquareAt(2, rank)
}

// castleRookTarget returns the rook's destination square for a castle:
// file f (kingside) or file d (queenside).
func castleRookTarget(c Color, kingside bool) Square {
	rank := 0
	if c == Black {
		rank = 7
	}
	if kingside {
		return SquareAt(5, rank)
	}
	return SquareAt(3, rank)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
