package chess

import "fmt"

// Piece constants and types for pieces and colors
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	// Black pieces are encoded as (white piece type | 8) so that
	// - piece & 7 gives the type in [1..6]
	// - piece & 8 != 0 indicates Black
	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is a colorless representation of a chess piece.
type PieceType uint8

const (
	PieceTypeNone   PieceType = 0
	PieceTypePawn   PieceType = 1
	PieceTypeKnight PieceType = 2
	PieceTypeBishop PieceType = 3
	PieceTypeRook   PieceType = 4
	PieceTypeQueen  PieceType = 5
	PieceTypeKing   PieceType = 6
)

// Type returns the colorless type of the piece (ignores side).
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side that owns the piece. NoPiece defaults to White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// PieceFromType combines a colorless type with a side to produce a concrete Piece.
func PieceFromType(color Color, pt PieceType) Piece {
	if pt == PieceTypeNone {
		return NoPiece
	}
	p := Piece(pt)
	if color == Black {
		p |= 8
	}
	return p
}

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opponent returns the other side.
func (c Color) Opponent() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Castling rights bit flags
type CastlingRights uint8

const (
	// White king-side (short) castling
	CastlingWhiteK CastlingRights = 1 << iota
	// White queen-side (long) castling
	CastlingWhiteQ
	// Black king-side castling
	CastlingBlackK
	// Black queen-side castling
	CastlingBlackQ
)

// CastlingAll is the full set of rights, as in the starting position.
const CastlingAll = CastlingWhiteK | CastlingWhiteQ | CastlingBlackK | CastlingBlackQ

// Square represents a board position (0-63, a1 = 0, h8 = 63).
type Square int

const NoSquare Square = -1

// SquareAt builds a square from a file and rank, both in [0..7].
// Out-of-range coordinates yield NoSquare.
func SquareAt(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// File returns the square's file in [0..7] (0 = a-file).
func (sq Square) File() int { return int(sq) % 8 }

// Rank returns the square's rank in [0..7] (0 = rank 1).
func (sq Square) Rank() int { return int(sq) / 8 }

// Valid reports whether the square lies on the board.
func (sq Square) Valid() bool { return sq >= 0 && sq < 64 }

// String returns the algebraic coordinate, e.g. "e4". NoSquare renders as "-".
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare parses a two-character algebraic coordinate ("a1".."h8").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: square %q must be 2 characters", ErrParse, s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	sq := SquareAt(file, rank)
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("%w: square %q out of range", ErrParse, s)
	}
	return sq, nil
}

// Board represents the chess board state, including piece placement and game state.
type Board struct {
	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	squares [64]Piece

	// Side to move (which player's turn it is)
	sideToMove Color

	// Castling rights for both sides (bitmask using CastlingRights flags)
	castlingRights CastlingRights

	// En passant target square (if a pawn moved two steps last move, otherwise NoSquare)
	enPassantTarget Square

	// Halfmove clock (number of half-moves since last capture or pawn advance, for 50-move rule)
	halfmoveClock int

	// Fullmove number (starts at 1, incremented after Black's move)
	fullmoveNumber int
}

// NewBoard returns a board set up with the standard starting position.
func NewBoard() *Board {
	b, _ := ParseFEN(FENStartPos)
	return b
}

// PieceAt returns the piece on a square. Out-of-range squares return NoPiece.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b.squares[sq]
}

// SetPiece sets a piece on a square, replacing any existing piece.
// Out-of-range squares are ignored.
func (b *Board) SetPiece(sq Square, p Piece) {
	if !sq.Valid() {
		return
	}
	b.squares[sq] = p
}

// ClearSquare removes any piece from the given square.
func (b *Board) ClearSquare(sq Square) { b.SetPiece(sq, NoPiece) }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// SetSideToMove updates the side to play. Normal move making toggles automatically.
func (b *Board) SetSideToMove(c Color) { b.sideToMove = c }

// CastlingRights returns the current castling rights flags.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// SetCastlingRights replaces the castling rights flags.
func (b *Board) SetCastlingRights(cr CastlingRights) { b.castlingRights = cr }

// EnPassantTarget returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantTarget() Square { return b.enPassantTarget }

// SetEnPassantTarget sets the en-passant target square (NoSquare to clear).
func (b *Board) SetEnPassantTarget(sq Square) { b.enPassantTarget = sq }

// HalfmoveClock returns the number of half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter (incremented after Black's move).
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// Clone returns a deep copy of the board. The copy shares no storage with
// the original, so speculative move application never aliases live state.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// KingSquare returns the square of the given side's king, or NoSquare if absent.
func (b *Board) KingSquare(c Color) Square {
	king := PieceFromType(c, PieceTypeKing)
	for sq := Square(0); sq < 64; sq++ {
		if b.squares[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// count returns how many pieces of the exact given code are on the board.
func (b *Board) count(p Piece) int {
	n := 0
	for sq := 0; sq < 64; sq++ {
		if b.squares[sq] == p {
			n++
		}
	}
	return n
}

// Equal reports whether two boards hold the same position and metadata.
func (b *Board) Equal(o *Board) bool {
	return b.squares == o.squares &&
		b.sideToMove == o.sideToMove &&
		b.castlingRights == o.castlingRights &&
		b.enPassantTarget == o.enPassantTarget &&
		b.halfmoveClock == o.halfmoveClock &&
		b.fullmoveNumber == o.fullmoveNumber
}
