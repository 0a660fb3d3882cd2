// Package render draws board positions as SVG images.
package render

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"chesskit/chess"
)

// Options controls board appearance. The zero value renders a 400px board
// from White's point of view with the default palette.
type Options struct {
	Size       int    // board edge in pixels, default 400
	Flip       bool   // render from Black's point of view
	LightColor string // default "#f0d9b5"
	DarkColor  string // default "#b58863"
	Coords     bool   // draw file/rank labels along the edges

	// Highlight marks squares (typically the last move's from/to).
	Highlight []chess.Square
}

const (
	defaultSize  = 400
	defaultLight = "#f0d9b5"
	defaultDark  = "#b58863"
	highlight    = "#f7ec74"
)

var pieceGlyphs = map[chess.Piece]string{
	chess.WhiteKing:   "♔",
	chess.WhiteQueen:  "♕",
	chess.WhiteRook:   "♖",
	chess.WhiteBishop: "♗",
	chess.WhiteKnight: "♘",
	chess.WhitePawn:   "♙",
	chess.BlackKing:   "♚",
	chess.BlackQueen:  "♛",
	chess.BlackRook:   "♜",
	chess.BlackBishop: "♝",
	chess.BlackKnight: "♞",
	chess.BlackPawn:   "♟",
}

// WriteSVG renders the position to w as a standalone SVG document.
func WriteSVG(w io.Writer, b *chess.Board, opts Options) {
	size := opts.Size
	if size <= 0 {
		size = defaultSize
	}
	light, dark := opts.LightColor, opts.DarkColor
	if light == "" {
		light = defaultLight
	}
	if dark == "" {
		dark = defaultDark
	}
	cell := size / 8

	marked := make(map[chess.Square]bool, len(opts.Highlight))
	for _, sq := range opts.Highlight {
		marked[sq] = true
	}

	canvas := svg.New(w)
	canvas.Start(size, size)
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := chess.SquareAt(file, rank)
			x, y := cellOrigin(file, rank, cell, opts.Flip)

			fill := light
			if (file+rank)%2 == 0 {
				fill = dark
			}
			if marked[sq] {
				fill = highlight
			}
			canvas.Rect(x, y, cell, cell, "fill:"+fill)

			if glyph, ok := pieceGlyphs[b.PieceAt(sq)]; ok {
				style := fmt.Sprintf("font-size:%dpx;text-anchor:middle;dominant-baseline:central", cell*3/4)
				canvas.Text(x+cell/2, y+cell/2, glyph, style)
			}
		}
	}
	if opts.Coords {
		drawCoords(canvas, cell, opts.Flip)
	}
	canvas.End()
}

// SVG renders the position to a string.
func SVG(b *chess.Board, opts Options) string {
	var buf bytes.Buffer
	WriteSVG(&buf, b, opts)
	return buf.String()
}

// cellOrigin maps a board square to its top-left pixel. Rank 7 is drawn at
// the top for White's view; flipping inverts both axes.
func cellOrigin(file, rank, cell int, flip bool) (int, int) {
	if flip {
		return (7 - file) * cell, rank * cell
	}
	return file * cell, (7 - rank) * cell
}

func drawCoords(canvas *svg.SVG, cell int, flip bool) {
	style := fmt.Sprintf("font-size:%dpx;fill:#333", cell/5)
	for i := 0; i < 8; i++ {
		fileIdx, rankIdx := i, i
		if flip {
			fileIdx, rankIdx = 7-i, 7-i
		}
		fileLabel := string(rune('a' + fileIdx))
		rankLabel := string(rune('1' + rankIdx))
		// Files along the bottom edge, ranks along the left edge.
		canvas.Text(i*cell+cell-cell/6, 8*cell-cell/20, fileLabel, style)
		canvas.Text(cell/20, (7-i)*cell+cell/5, rankLabel, style)
	}
}
