package chess

// Perft counts leaf nodes of the legal move tree to the given depth. Used to
// validate the move generator against known node counts.
func Perft(b *Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := LegalMoves(b)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		c := b.Clone()
		c.apply(m)
		nodes += Perft(c, depth-1)
	}
	return nodes
}

// PerftDivide returns per-root-move node counts at the given depth, keyed by
// the move's UCI string.
func PerftDivide(b *Board, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	for _, m := range LegalMoves(b) {
		c := b.Clone()
		c.apply(m)
		div[m.UCI()] = Perft(c, depth-1)
	}
	return div
}
