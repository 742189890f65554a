package checkers

// Zobrist keys are derived on demand from a splitmix64 finaliser so that any
// board size hashes without a precomputed table.

const (
	zobristSeed  uint64 = 0x9E3779B97F4A7C15
	zobristPiece        = 5
)

func mix64(z uint64) uint64 {
	z += zobristSeed
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func pieceKey(pc Piece, idx int) uint64 {
	if pc == Empty {
		return 0
	}
	return mix64(uint64(idx)*zobristPiece + uint64(pc))
}

var sideKey = mix64(^uint64(0))

// Hash computes the full Zobrist hash of board + side to move.
func Hash(b Board, turn Colour) uint64 {
	var h uint64
	for i, pc := range b.cells {
		h ^= pieceKey(pc, i)
	}
	if turn == Black {
		h ^= sideKey
	}
	return h
}
