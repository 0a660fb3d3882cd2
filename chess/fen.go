package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// charFromPiece converts a Piece constant to its FEN character representation.
func charFromPiece(p Piece) rune {
	switch p {
	case WhitePawn:
		return 'P'
	case WhiteKnight:
		return 'N'
	case WhiteBishop:
		return 'B'
	case WhiteRook:
		return 'R'
	case WhiteQueen:
		return 'Q'
	case WhiteKing:
		return 'K'
	case BlackPawn:
		return 'p'
	case BlackKnight:
		return 'n'
	case BlackBishop:
		return 'b'
	case BlackRook:
		return 'r'
	case BlackQueen:
		return 'q'
	case BlackKing:
		return 'k'
	default:
		return '?' // should not happen for valid pieces
	}
}

// ParseFEN parses a FEN string and returns a new Board set up to that position.
//
// The piece placement field is parsed strictly: exactly 8 ranks, every rank
// summing to exactly 8 squares, and no characters outside [rnbqkpRNBQKP1-8/].
// The remaining five fields are parsed permissively with fallback defaults
// ("w", "KQkq", "-", 0, 1), so a bare placement string is accepted. Semantic
// checks (king counts, pawn ranks) are not applied here; see SemanticIssues
// and ParseFENStrict.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty FEN", ErrParse)
	}

	board := &Board{
		enPassantTarget: NoSquare,
		castlingRights:  CastlingAll,
		fullmoveNumber:  1,
	}

	// 1. Piece placement (strict)
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: placement has %d ranks, expected 8", ErrParse, len(ranks))
	}
	for i, rankStr := range ranks {
		rankIndex := 7 - i // first FEN rank is rank 8
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				// Digit: run of empty squares
				file += int(ch - '0')
				if file > 8 {
					return nil, fmt.Errorf("%w: rank %d has %d squares, expected 8", ErrParse, rankIndex+1, file)
				}
				continue
			}
			piece := pieceFromChar(ch)
			if piece == NoPiece {
				return nil, fmt.Errorf("%w: unrecognized character %q in placement", ErrParse, ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: rank %d has %d squares, expected 8", ErrParse, rankIndex+1, file+1)
			}
			board.squares[rankIndex*8+file] = piece
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d squares, expected 8", ErrParse, rankIndex+1, file)
		}
	}

	// 2. Side to move (permissive, default "w")
	if len(fields) > 1 && fields[1] == "b" {
		board.sideToMove = Black
	}

	// 3. Castling rights (permissive, default "KQkq")
	if len(fields) > 2 {
		if cr, ok := parseCastlingField(fields[2]); ok {
			board.castlingRights = cr
		}
	}

	// 4. En passant target square (permissive, default none)
	if len(fields) > 3 && fields[3] != "-" {
		if sq, err := ParseSquare(fields[3]); err == nil {
			board.enPassantTarget = sq
		}
	}

	// 5. Halfmove clock (permissive, default 0)
	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil && n >= 0 {
			board.halfmoveClock = n
		}
	}

	// 6. Fullmove number (permissive, default 1)
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n >= 1 {
			board.fullmoveNumber = n
		}
	}

	return board, nil
}

// ParseFENStrict parses like ParseFEN and then hard-rejects any semantic
// violation (king counts, pawns on back ranks).
func ParseFENStrict(fen string) (*Board, error) {
	board, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	if issues := board.SemanticIssues(); len(issues) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPosition, strings.Join(issues, "; "))
	}
	return board, nil
}

// parseCastlingField parses a FEN castling field. Returns ok=false on
// malformed input so the caller can keep the permissive default.
func parseCastlingField(s string) (CastlingRights, bool) {
	if s == "-" {
		return 0, true
	}
	var cr CastlingRights
	for _, ch := range s {
		switch ch {
		case 'K':
			cr |= CastlingWhiteK
		case 'Q':
			cr |= CastlingWhiteQ
		case 'k':
			cr |= CastlingBlackK
		case 'q':
			cr |= CastlingBlackQ
		default:
			return 0, false
		}
	}
	return cr, true
}

// SemanticIssues reports semantic problems with the position: wrong king
// counts, pawns on rank 1 or 8, and implausibly large piece counts. An empty
// result means the position is sound enough for the rules layer. Callers
// that want a hard failure should use ParseFENStrict.
func (b *Board) SemanticIssues() []string {
	var issues []string

	if n := b.count(WhiteKing); n != 1 {
		issues = append(issues, fmt.Sprintf("white has %d kings, expected 1", n))
	}
	if n := b.count(BlackKing); n != 1 {
		issues = append(issues, fmt.Sprintf("black has %d kings, expected 1", n))
	}

	for file := 0; file < 8; file++ {
		for _, rank := range []int{0, 7} {
			if b.squares[rank*8+file].Type() == PieceTypePawn {
				issues = append(issues, fmt.Sprintf("pawn on %s", SquareAt(file, rank)))
			}
		}
	}

	for _, c := range []Color{White, Black} {
		total := 0
		for sq := 0; sq < 64; sq++ {
			p := b.squares[sq]
			if p != NoPiece && p.Color() == c {
				total++
			}
		}
		if total > 16 {
			issues = append(issues, fmt.Sprintf("%s has %d pieces", c, total))
		}
	}

	return issues
}

// ToFEN produces the FEN string representation of the board's current state.
// The placement field is the exact inverse of the parser, so parsing the
// result reproduces the position.
func (b *Board) ToFEN() string {
	var sb strings.Builder

	// 1. Piece placement
	for rank := 7; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < 8; file++ {
			p := b.squares[rank*8+file]
			if p == NoPiece {
				emptyCount++
			} else {
				if emptyCount > 0 {
					sb.WriteByte('0' + byte(emptyCount))
					emptyCount = 0
				}
				sb.WriteRune(charFromPiece(p))
			}
		}
		if emptyCount > 0 {
			sb.WriteByte('0' + byte(emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	// 2. Side to move
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	// 3. Castling rights
	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if b.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if b.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if b.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	// 4. En passant square
	sb.WriteString(b.enPassantTarget.String())
	sb.WriteByte(' ')

	// 5. Halfmove clock
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')

	// 6. Fullmove number
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
