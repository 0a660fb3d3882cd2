package chess

import "testing"

func mustParse(t *testing.T, fen string) *Board {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q) failed: %v", fen, err)
	}
	return b
}

func movesFrom(moves []Move, from Square) []Move {
	var out []Move
	for _, m := range moves {
		if m.From == from {
			out = append(out, m)
		}
	}
	return out
}

func TestLegalMoves_StartPosition(t *testing.T) {
	b := mustParse(t, FENStartPos)
	moves := LegalMoves(b)
	if len(moves) != 20 {
		t.Fatalf("start position: got %d legal moves, want 20", len(moves))
	}
}

func TestLegalMoves_LonePieceCounts(t *testing.T) {
	cases := []struct {
		fen  string
		from Square
		want int
	}{
		// Lone rook on an empty board: 7+7 unblocked squares.
		{"8/8/8/8/4R3/8/8/8 w - - 0 1", SquareAt(4, 3), 14},
		// Lone bishop on a center square: 13 diagonal squares.
		{"8/8/8/8/3B4/8/8/8 w - - 0 1", SquareAt(3, 3), 13},
		// Knight in the center: 8; knight in a corner: 2.
		{"8/8/8/8/3N4/8/8/8 w - - 0 1", SquareAt(3, 3), 8},
		{"N7/8/8/8/8/8/8/8 w - - 0 1", SquareAt(0, 7), 2},
		// Lone king in the center: 8.
		{"8/8/8/8/3K4/8/8/8 w - - 0 1", SquareAt(3, 3), 8},
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		got := movesFrom(LegalMoves(b), tc.from)
		if len(got) != tc.want {
			t.Fatalf("%s: piece on %s has %d moves, want %d", tc.fen, tc.from, len(got), tc.want)
		}
	}
}

func TestLegalMoves_PromotionCompleteness(t *testing.T) {
	b := mustParse(t, "8/P7/8/8/8/8/8/k6K w - - 0 1")
	promos := movesFrom(LegalMoves(b), SquareAt(0, 6))
	if len(promos) != 4 {
		t.Fatalf("pawn on a7: got %d moves, want 4 promotions", len(promos))
	}
	seen := map[PieceType]bool{}
	for _, m := range promos {
		if m.Kind != MovePromotion {
			t.Fatalf("move %s should be a promotion", m.UCI())
		}
		if m.To != SquareAt(0, 7) {
			t.Fatalf("promotion should land on a8, got %s", m.To)
		}
		seen[m.Promotion] = true
	}
	for _, pt := range promotionPieces {
		if !seen[pt] {
			t.Fatalf("missing promotion to %v", pt)
		}
	}
}

func TestLegalMoves_PromotionCapture(t *testing.T) {
	// Pawn on b7 may push to b8 or capture on a8/c8, each as 4 promotions.
	b := mustParse(t, "r1r5/1P6/8/8/8/8/8/k6K w - - 0 1")
	promos := movesFrom(LegalMoves(b), SquareAt(1, 6))
	if len(promos) != 12 {
		t.Fatalf("pawn on b7: got %d moves, want 12 (3 targets x 4 pieces)", len(promos))
	}
}

func TestLegalMoves_PawnBasics(t *testing.T) {
	b := mustParse(t, FENStartPos)
	moves := movesFrom(LegalMoves(b), SquareAt(4, 1)) // e2
	if len(moves) != 2 {
		t.Fatalf("e2 pawn: got %d moves, want single and double push", len(moves))
	}

	// Double push is blocked if either square is occupied.
	b = mustParse(t, "k7/8/8/8/8/4n3/4P3/K7 w - - 0 1")
	if got := movesFrom(LegalMoves(b), SquareAt(4, 1)); len(got) != 0 {
		t.Fatalf("blocked e2 pawn should have no pushes, got %d", len(got))
	}
}

func TestLegalMoves_EnPassant(t *testing.T) {
	// Black just played d7d5; white pawn on e5 may capture en passant on d6.
	b := mustParse(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	var ep *Move
	for _, m := range LegalMoves(b) {
		if m.Kind == MoveEnPassant {
			ep = &m
			break
		}
	}
	if ep == nil {
		t.Fatalf("expected an en passant capture to d6")
	}
	if ep.From != SquareAt(4, 4) || ep.To != SquareAt(3, 5) {
		t.Fatalf("en passant geometry wrong: %s", ep.UCI())
	}
	if ep.Captured != BlackPawn {
		t.Fatalf("en passant should capture the black pawn")
	}

	// Without the target set, the capture is not generated.
	b = mustParse(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq - 0 3")
	for _, m := range LegalMoves(b) {
		if m.Kind == MoveEnPassant {
			t.Fatalf("en passant generated without a target square")
		}
	}
}

func TestLegalMoves_Castling(t *testing.T) {
	b := mustParse(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	var castles []Move
	for _, m := range LegalMoves(b) {
		if m.Kind == MoveCastle {
			castles = append(castles, m)
		}
	}
	if len(castles) != 2 {
		t.Fatalf("expected both castles available, got %d", len(castles))
	}
	for _, m := range castles {
		switch m.To {
		case SquareAt(6, 0): // O-O
			if m.RookFrom != SquareAt(7, 0) || m.RookTo != SquareAt(5, 0) {
				t.Fatalf("kingside rook path wrong: %s -> %s", m.RookFrom, m.RookTo)
			}
		case SquareAt(2, 0): // O-O-O
			if m.RookFrom != SquareAt(0, 0) || m.RookTo != SquareAt(3, 0) {
				t.Fatalf("queenside rook path wrong: %s -> %s", m.RookFrom, m.RookTo)
			}
		default:
			t.Fatalf("unexpected castle destination %s", m.To)
		}
	}
}

func TestLegalMoves_CastlingRejections(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		// King currently in check.
		{"in check", "r3k2r/pppp1ppp/8/8/1b6/8/PPP1PPPP/R3K2R w KQkq - 0 1"},
		// f1 attacked by the bishop on b5..f1 diagonal.
		{"through attack", "r3k2r/pppppp1p/8/8/8/7b/PPPPPP1P/R3K2R w KQkq - 0 1"},
		// Piece between king and rook.
		{"blocked", "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/RN2K2R w KQkq - 0 1"},
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		// Queenside is the affected wing for "blocked"; kingside for the others.
		kingside := tc.name != "blocked"
		for _, m := range LegalMoves(b) {
			if m.Kind == MoveCastle && (m.To.File() > m.From.File()) == kingside {
				t.Fatalf("%s: castle should have been rejected", tc.name)
			}
		}
	}
}

func TestLegalMoves_Chess960Castle(t *testing.T) {
	// King on d1 with the kingside rook adjacent on e1: targets stay g1/f1.
	b := mustParse(t, "4k3/8/8/8/8/8/8/3KR3 w K - 0 1")
	var castle *Move
	for _, m := range LegalMoves(b) {
		if m.Kind == MoveCastle {
			castle = &m
			break
		}
	}
	if castle == nil {
		t.Fatalf("expected a flexible-rook kingside castle")
	}
	if castle.To != SquareAt(6, 0) || castle.RookFrom != SquareAt(4, 0) || castle.RookTo != SquareAt(5, 0) {
		t.Fatalf("castle geometry wrong: king to %s, rook %s -> %s", castle.To, castle.RookFrom, castle.RookTo)
	}
}

func TestLegalMoves_NeverLeavesOwnKingInCheck(t *testing.T) {
	fens := []string{
		FENStartPos,
		// Pinned knight on d2 must not move.
		"4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}
	for _, fen := range fens {
		b := mustParse(t, fen)
		us := b.SideToMove()
		for _, m := range LegalMoves(b) {
			c := b.Clone()
			c.apply(m)
			if IsInCheck(c, us) {
				t.Fatalf("%s: move %s leaves own king in check", fen, m.UCI())
			}
		}
	}
}

func TestLegalMoves_PinnedPiece(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	if got := movesFrom(LegalMoves(b), SquareAt(3, 1)); len(got) != 0 {
		t.Fatalf("pinned knight should have no legal moves, got %d", len(got))
	}
}

func TestIsSquareAttacked_Attackers(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"queen", "4k3/8/8/8/8/8/8/q3K3 w - - 0 1"},
		{"rook", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1"},
		{"bishop", "4k3/8/8/8/8/2b5/8/4K3 w - - 0 1"},
		{"knight", "4k3/8/8/8/8/3n4/8/4K3 w - - 0 1"},
		{"pawn", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1"},
	}
	for _, tc := range cases {
		b := mustParse(t, tc.fen)
		if !IsSquareAttacked(b, b.KingSquare(White), Black) {
			t.Fatalf("%s: king on e1 should be attacked", tc.name)
		}
		if !IsInCheck(b, White) {
			t.Fatalf("%s: white should be in check", tc.name)
		}
	}

	// No attacker present.
	b := mustParse(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if IsSquareAttacked(b, b.KingSquare(White), Black) {
		t.Fatalf("bare kings: e1 should not be attacked")
	}

	// A blocked slider does not attack through pieces: the knight on d1
	// stands between the rook on a1 and the king on e1.
	b = mustParse(t, "4k3/8/8/8/8/8/8/r2NK3 w - - 0 1")
	if IsInCheck(b, White) {
		t.Fatalf("rook blocked by knight should not give check")
	}
}
