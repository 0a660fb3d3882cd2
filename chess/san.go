package chess

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// pieceLetter returns the SAN letter for a piece type; pawns have none.
func pieceLetter(pt PieceType) string {
	switch pt {
	case PieceTypeKnight:
		return "N"
	case PieceTypeBishop:
		return "B"
	case PieceTypeRook:
		return "R"
	case PieceTypeQueen:
		return "Q"
	case PieceTypeKing:
		return "K"
	default:
		return ""
	}
}

func pieceTypeFromLetter(ch byte) PieceType {
	switch ch {
	case 'N':
		return PieceTypeKnight
	case 'B':
		return PieceTypeBishop
	case 'R':
		return PieceTypeRook
	case 'Q':
		return PieceTypeQueen
	case 'K':
		return PieceTypeKing
	default:
		return PieceTypeNone
	}
}

// SAN renders the move in standard algebraic notation against the position it
// is played in. legal must be the position's legal move list; it drives
// disambiguation (source file first, rank if other movers share the file).
// A trailing "+" or "#" is added when the move gives check or mate.
func (m Move) SAN(b *Board, legal []Move) string {
	var sb strings.Builder

	switch {
	case m.Kind == MoveCastle:
		if m.To.File() > m.From.File() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	case m.Piece.Type() == PieceTypePawn:
		if m.IsCapture() {
			sb.WriteByte('a' + byte(m.From.File()))
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
		if m.Kind == MovePromotion {
			sb.WriteByte('=')
			sb.WriteString(pieceLetter(m.Promotion))
		}
	default:
		sb.WriteString(pieceLetter(m.Piece.Type()))
		sb.WriteString(sanDisambiguation(m, legal))
		if m.IsCapture() {
			sb.WriteByte('x')
		}
		sb.WriteString(m.To.String())
	}

	// Check / mate suffix from the resulting position.
	c := b.Clone()
	c.apply(m)
	if IsInCheck(c, c.SideToMove()) {
		if len(LegalMoves(c)) == 0 {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('+')
		}
	}
	return sb.String()
}

// sanDisambiguation picks the minimal source qualifier among same-type
// same-destination legal moves: nothing, the file, the rank, or both.
func sanDisambiguation(m Move, legal []Move) string {
	var others []Move
	for _, o := range legal {
		if o.Piece == m.Piece && o.To == m.To && o.From != m.From {
			others = append(others, o)
		}
	}
	if len(others) == 0 {
		return ""
	}
	sameFile := slices.ContainsFunc(others, func(o Move) bool { return o.From.File() == m.From.File() })
	sameRank := slices.ContainsFunc(others, func(o Move) bool { return o.From.Rank() == m.From.Rank() })
	switch {
	case !sameFile:
		return string([]byte{'a' + byte(m.From.File())})
	case !sameRank:
		return string([]byte{'1' + byte(m.From.Rank())})
	default:
		return m.From.String()
	}
}

// ParseSAN parses standard algebraic notation against the position's legal
// move list. Castling tokens (O-O / 0-0 forms), check and mate suffixes and
// annotation glyphs ("!", "?", "!!", "!?", "?!", "??") are all accepted; the
// annotation is preserved on the returned move instead of failing the parse.
func ParseSAN(b *Board, legal []Move, text string) (Move, error) {
	token := strings.TrimSpace(text)
	if token == "" {
		return Move{}, fmt.Errorf("%w: empty SAN", ErrParse)
	}

	// Strip trailing check/mate and annotation glyphs.
	annotation := ""
	for len(token) > 0 {
		last := token[len(token)-1]
		if last == '+' || last == '#' {
			token = token[:len(token)-1]
			continue
		}
		if last == '!' || last == '?' {
			annotation = string(last) + annotation
			token = token[:len(token)-1]
			continue
		}
		break
	}
	if token == "" {
		return Move{}, fmt.Errorf("%w: SAN %q has no move body", ErrParse, text)
	}

	// Castling.
	if norm := strings.ReplaceAll(token, "0", "O"); norm == "O-O" || norm == "O-O-O" {
		kingside := norm == "O-O"
		idx := slices.IndexFunc(legal, func(o Move) bool {
			return o.Kind == MoveCastle && (o.To.File() > o.From.File()) == kingside
		})
		if idx < 0 {
			return Move{}, fmt.Errorf("%w: castling %s is not available", ErrIllegalMove, norm)
		}
		return legal[idx].WithAnnotation(annotation), nil
	}

	// Optional leading piece letter; everything else describes the target.
	pt := PieceTypePawn
	if t := pieceTypeFromLetter(token[0]); t != PieceTypeNone {
		pt = t
		token = token[1:]
	}

	// Optional promotion suffix "=X" (a bare trailing letter also accepted).
	promo := PieceTypeNone
	if n := len(token); n >= 2 && token[n-2] == '=' {
		promo = promotionPieceFromChar(token[n-1])
		if promo == PieceTypeNone {
			return Move{}, fmt.Errorf("%w: invalid promotion in %q", ErrParse, text)
		}
		token = token[:n-2]
	}

	if len(token) < 2 {
		return Move{}, fmt.Errorf("%w: SAN %q too short", ErrParse, text)
	}
	dest, err := ParseSquare(token[len(token)-2:])
	if err != nil {
		return Move{}, fmt.Errorf("%w: bad destination in %q", ErrParse, text)
	}
	token = token[:len(token)-2]

	// Remaining prefix: optional disambiguation file/rank and capture marker.
	wantCapture := false
	fromFile, fromRank := -1, -1
	for i := 0; i < len(token); i++ {
		ch := token[i]
		switch {
		case ch == 'x':
			wantCapture = true
		case ch >= 'a' && ch <= 'h':
			fromFile = int(ch - 'a')
		case ch >= '1' && ch <= '8':
			fromRank = int(ch - '1')
		default:
			return Move{}, fmt.Errorf("%w: unexpected character %q in %q", ErrParse, ch, text)
		}
	}

	var matches []Move
	for _, o := range legal {
		if o.Piece.Type() != pt || o.To != dest || o.Kind == MoveCastle {
			continue
		}
		if fromFile >= 0 && o.From.File() != fromFile {
			continue
		}
		if fromRank >= 0 && o.From.Rank() != fromRank {
			continue
		}
		if wantCapture && !o.IsCapture() {
			continue
		}
		if o.Kind == MovePromotion {
			want := promo
			if want == PieceTypeNone {
				want = PieceTypeQueen
			}
			if o.Promotion != want {
				continue
			}
		} else if promo != PieceTypeNone {
			continue
		}
		matches = append(matches, o)
	}

	switch len(matches) {
	case 1:
		return matches[0].WithAnnotation(annotation), nil
	case 0:
		return Move{}, fmt.Errorf("%w: %q matches no legal move", ErrIllegalMove, text)
	default:
		return Move{}, fmt.Errorf("%w: %q is ambiguous", ErrParse, text)
	}
}
