package chess

import "math/rand"

// zobristSeed is the fixed default seed, so keys are reproducible across runs.
const zobristSeed = 0xC0DE

// ZobristTable holds the random keys used to hash positions for repetition
// detection. It is an explicitly constructed value passed to whatever needs
// hashing, not hidden package state, so tests stay deterministic and
// independent.
type ZobristTable struct {
	piece     [15][64]uint64
	castle    [16]uint64
	enPassant [8]uint64
	side      uint64
}

// NewZobristTable builds a table from the fixed default seed.
func NewZobristTable() *ZobristTable { return NewZobristTableSeed(zobristSeed) }

// NewZobristTableSeed builds a table from an explicit seed.
func NewZobristTableSeed(seed int64) *ZobristTable {
	rnd := rand.New(rand.NewSource(seed))
	zt := &ZobristTable{}
	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zt.piece[p][sq] = rnd.Uint64()
		}
	}
	for cr := 0; cr < 16; cr++ {
		zt.castle[cr] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zt.enPassant[f] = rnd.Uint64()
	}
	zt.side = rnd.Uint64()
	return zt
}

// Key hashes the position: piece placement, side to move, castling rights
// and en-passant file. Move clocks are deliberately excluded so repeated
// positions hash equal regardless of when they occur.
func (zt *ZobristTable) Key(b *Board) uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		p := b.squares[sq]
		if p != NoPiece {
			key ^= zt.piece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zt.side
	}
	key ^= zt.castle[int(b.castlingRights)]
	if b.enPassantTarget != NoSquare {
		key ^= zt.enPassant[b.enPassantTarget.File()]
	}
	return key
}
