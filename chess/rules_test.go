package chess

import (
	"errors"
	"testing"
)

func TestMakeMove_ScenarioE2E4(t *testing.T) {
	b := mustParse(t, FENStartPos)
	if got := len(LegalMoves(b)); got != 20 {
		t.Fatalf("start position: got %d legal moves, want 20", got)
	}
	m, err := ParseUCI(b, "e2e4")
	if err != nil {
		t.Fatalf("ParseUCI(e2e4) failed: %v", err)
	}
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("MakeMove(e2e4) failed: %v", err)
	}
	if b.SideToMove() != Black {
		t.Fatalf("side to move should flip to Black")
	}
	if b.HalfmoveClock() != 0 {
		t.Fatalf("halfmove clock should reset on a pawn move, got %d", b.HalfmoveClock())
	}
	if b.EnPassantTarget() != SquareAt(4, 2) {
		t.Fatalf("en passant target should be e3, got %s", b.EnPassantTarget())
	}
	if b.FullmoveNumber() != 1 {
		t.Fatalf("fullmove number must not change after White's move")
	}
}

func TestMakeMove_RejectsIllegal(t *testing.T) {
	b := mustParse(t, FENStartPos)
	before := b.Clone()

	// Geometrically impossible rook move.
	m := Move{From: SquareAt(0, 0), To: SquareAt(0, 4), Piece: WhiteRook, RookFrom: NoSquare, RookTo: NoSquare}
	if err := MakeMove(b, m); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("blocked rook move should be illegal, got %v", err)
	}
	// Moving the opponent's piece.
	m = Move{From: SquareAt(4, 6), To: SquareAt(4, 4), Piece: BlackPawn, RookFrom: NoSquare, RookTo: NoSquare}
	if err := MakeMove(b, m); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("moving black's pawn on white's turn should be illegal, got %v", err)
	}
	// Piece mismatch.
	m = Move{From: SquareAt(4, 1), To: SquareAt(4, 3), Piece: WhiteQueen, RookFrom: NoSquare, RookTo: NoSquare}
	if err := MakeMove(b, m); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("piece mismatch should be illegal, got %v", err)
	}
	if !b.Equal(before) {
		t.Fatalf("board must be unchanged after rejected moves")
	}
}

func TestMakeMove_CastleUpdatesRights(t *testing.T) {
	b := mustParse(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	m, err := ParseUCI(b, "e1g1")
	if err != nil {
		t.Fatalf("ParseUCI(e1g1) failed: %v", err)
	}
	if m.Kind != MoveCastle {
		t.Fatalf("e1g1 should parse as a castle here")
	}
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("castling failed: %v", err)
	}
	if b.PieceAt(SquareAt(6, 0)) != WhiteKing || b.PieceAt(SquareAt(5, 0)) != WhiteRook {
		t.Fatalf("castle geometry wrong: %s", b.ToFEN())
	}
	if b.CastlingRights()&(CastlingWhiteK|CastlingWhiteQ) != 0 {
		t.Fatalf("white rights should be gone after castling")
	}
	if b.CastlingRights()&(CastlingBlackK|CastlingBlackQ) != CastlingBlackK|CastlingBlackQ {
		t.Fatalf("black rights must be untouched")
	}
}

func TestMakeMove_RookMoveAndCaptureClearRights(t *testing.T) {
	b := mustParse(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	m, _ := ParseUCI(b, "a1b1")
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("a1b1 failed: %v", err)
	}
	if b.CastlingRights()&CastlingWhiteQ != 0 {
		t.Fatalf("queenside right should clear when the a-rook moves")
	}
	if b.CastlingRights()&CastlingWhiteK == 0 {
		t.Fatalf("kingside right must survive an a-rook move")
	}

	// Capturing a rook on its home square clears the owner's right.
	b = mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, _ = ParseUCI(b, "a1a8")
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("a1a8 failed: %v", err)
	}
	if b.CastlingRights()&CastlingBlackQ != 0 {
		t.Fatalf("black queenside right should clear when its rook is captured")
	}
}

func TestMakeMove_EnPassantRemovesPawn(t *testing.T) {
	b := mustParse(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	m, err := ParseUCI(b, "e5d6")
	if err != nil {
		t.Fatalf("ParseUCI(e5d6) failed: %v", err)
	}
	if m.Kind != MoveEnPassant {
		t.Fatalf("e5d6 should parse as en passant, got %v", m.Kind)
	}
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("en passant failed: %v", err)
	}
	if b.PieceAt(SquareAt(3, 4)) != NoPiece {
		t.Fatalf("captured pawn on d5 should be removed")
	}
	if b.PieceAt(SquareAt(3, 5)) != WhitePawn {
		t.Fatalf("capturing pawn should sit on d6")
	}
}

func TestMakeMove_PromotionReplacesPawn(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	m, err := ParseUCI(b, "a7a8n")
	if err != nil {
		t.Fatalf("ParseUCI(a7a8n) failed: %v", err)
	}
	if err := MakeMove(b, m); err != nil {
		t.Fatalf("promotion failed: %v", err)
	}
	if b.PieceAt(SquareAt(0, 7)) != WhiteKnight {
		t.Fatalf("a8 should hold the promoted knight")
	}
	if b.PieceAt(SquareAt(0, 6)) != NoPiece {
		t.Fatalf("a7 should be empty after promotion")
	}
}

func TestMakeMove_Clocks(t *testing.T) {
	b := mustParse(t, FENStartPos)
	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, err := ParseUCI(b, uci)
		if err != nil {
			t.Fatalf("ParseUCI(%s) failed: %v", uci, err)
		}
		if err := MakeMove(b, m); err != nil {
			t.Fatalf("MakeMove(%s) failed: %v", uci, err)
		}
	}
	if b.HalfmoveClock() != 4 {
		t.Fatalf("halfmove clock should be 4 after four knight moves, got %d", b.HalfmoveClock())
	}
	if b.FullmoveNumber() != 3 {
		t.Fatalf("fullmove number should be 3, got %d", b.FullmoveNumber())
	}
}

func TestEvaluatePosition_Checkmate(t *testing.T) {
	// Fool's mate: White to move, in check, no legal moves.
	b := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !IsInCheck(b, White) {
		t.Fatalf("expected White in check")
	}
	if got := EvaluatePosition(b, nil, nil); got != BlackWins {
		t.Fatalf("fool's mate: got %v, want black wins", got)
	}

	// Back-rank mate against Black.
	b = mustParse(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if got := EvaluatePosition(b, nil, nil); got != WhiteWins {
		t.Fatalf("back-rank mate: got %v, want white wins", got)
	}
}

func TestEvaluatePosition_Stalemate(t *testing.T) {
	b := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if IsInCheck(b, Black) {
		t.Fatalf("stalemated king must not be in check")
	}
	if got := EvaluatePosition(b, nil, nil); got != Stalemate {
		t.Fatalf("got %v, want stalemate", got)
	}
}

func TestEvaluatePosition_InsufficientMaterial(t *testing.T) {
	b := mustParse(t, "8/8/8/8/8/8/8/K6k w - - 0 1")
	if got := EvaluatePosition(b, nil, nil); got != InsufficientMaterial {
		t.Fatalf("bare kings: got %v, want insufficient material", got)
	}
}

func TestHasInsufficientMaterial_Table(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/8/8/8/8/K6k w - - 0 1", true},                // K vs K
		{"8/8/8/4B3/8/8/8/K6k w - - 0 1", true},              // K+B vs K
		{"8/8/8/4n3/8/8/8/K6k w - - 0 1", true},              // K vs K+N
		{"8/8/8/4P3/8/8/8/K6k w - - 0 1", false},             // K+P vs K
		{"8/8/8/4Q3/8/8/8/K6k w - - 0 1", false},             // K+Q vs K
		{"8/8/8/4R3/8/8/8/K6k w - - 0 1", false},             // K+R vs K
		{"8/8/8/2B1b3/8/8/8/K6k w - - 0 1", true},            // bishops both on light squares
		{"8/8/8/2B5/4b3/8/8/K6k w - - 0 1", false},           // opposite-colored bishops
		{"8/8/8/2N1n3/8/8/8/K6k w - - 0 1", false},           // two minors
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		if got := HasInsufficientMaterial(b); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestEvaluatePosition_FiftyMoveRule(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/8/8/4R3/4K3 w - - 100 80")
	if got := EvaluatePosition(b, nil, nil); got != FiftyMoveRule {
		t.Fatalf("got %v, want fifty-move rule", got)
	}
	// Checkmate still outranks the clock.
	b = mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 100 60")
	if got := EvaluatePosition(b, nil, nil); got != BlackWins {
		t.Fatalf("mate should outrank the fifty-move rule, got %v", got)
	}
}

func TestEvaluatePosition_ThreefoldRepetition(t *testing.T) {
	zt := NewZobristTable()
	b := mustParse(t, FENStartPos)

	history := []uint64{zt.Key(b)}
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for round := 0; round < 2; round++ {
		for _, uci := range shuffle {
			m, err := ParseUCI(b, uci)
			if err != nil {
				t.Fatalf("ParseUCI(%s) failed: %v", uci, err)
			}
			if err := MakeMove(b, m); err != nil {
				t.Fatalf("MakeMove(%s) failed: %v", uci, err)
			}
			history = append(history, zt.Key(b))
		}
	}

	// The start position has now occurred three times.
	if got := EvaluatePosition(b, zt, history); got != ThreefoldRepetition {
		t.Fatalf("got %v, want threefold repetition", got)
	}

	// One round earlier it had occurred only twice.
	if got := EvaluatePosition(b, zt, history[:5]); got == ThreefoldRepetition {
		t.Fatalf("two occurrences must not report repetition")
	}
}

func TestZobristKey_IgnoresClocks(t *testing.T) {
	zt := NewZobristTable()
	a := mustParse(t, "4k3/8/8/8/8/8/4R3/4K3 w - - 0 1")
	b := mustParse(t, "4k3/8/8/8/8/8/4R3/4K3 w - - 42 30")
	if zt.Key(a) != zt.Key(b) {
		t.Fatalf("keys must ignore move counters")
	}
	c := mustParse(t, "4k3/8/8/8/8/8/4R3/4K3 b - - 0 1")
	if zt.Key(a) == zt.Key(c) {
		t.Fatalf("keys must encode the side to move")
	}
}

func TestZobristTable_Deterministic(t *testing.T) {
	b := mustParse(t, FENStartPos)
	if NewZobristTable().Key(b) != NewZobristTable().Key(b) {
		t.Fatalf("fixed-seed tables must agree")
	}
	if NewZobristTableSeed(1).Key(b) == NewZobristTableSeed(2).Key(b) {
		t.Fatalf("different seeds should produce different keys")
	}
}

func TestBoard_MakeMoveMethod(t *testing.T) {
	b := mustParse(t, FENStartPos)
	m, err := ParseUCI(b, "e2e4")
	if err != nil {
		t.Fatalf("ParseUCI failed: %v", err)
	}
	if err := b.MakeMove(m); err != nil {
		t.Fatalf("method form should apply a legal move: %v", err)
	}
	if b.SideToMove() != Black {
		t.Fatalf("move was not applied")
	}
	if err := b.MakeMove(m); err == nil {
		t.Fatalf("method form should reject an illegal move")
	}
}
