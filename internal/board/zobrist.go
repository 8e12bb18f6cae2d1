package board

// Zobrist hashing keys, generated once at package init time. Every
// process must derive the same keys from the same seed: a persisted
// transposition table or opening book keyed by Zobrist hash (see
// internal/bookstore) is worthless the moment two builds disagree on
// what "the hash for a white knight on g1" even is.
var (
	zobristPiece      [2][7][64]uint64 // [Color][PieceType][Square]; index 6 absorbs NoPieceType lookups
	zobristEnPassant  [8]uint64        // one key per file
	zobristCastling   [16]uint64       // one key per castling-rights combination
	zobristSideToMove uint64
)

// zobristSeed is arbitrary but fixed; changing it changes every key the
// engine ever produces, so it's wired once here and never touched at runtime.
const zobristSeed uint64 = 0xA17E1B4C9D3F5280

func init() {
	state := zobristSeed
	next := func() uint64 {
		var k uint64
		k, state = splitmix64(state)
		return k
	}

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = next()
			}
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = next()
	}
	for cr := range zobristCastling {
		zobristCastling[cr] = next()
	}
	zobristSideToMove = next()
}

// splitmix64 is Sebastiano Vigna's fixed-increment generator, the
// standard choice for seeding (or standing in for) a larger PRNG from
// a single 64-bit value. It returns the next output and the advanced
// state so callers don't need a struct just to hold one uint64.
func splitmix64(state uint64) (out, nextState uint64) {
	nextState = state + 0x9E3779B97F4A7C15
	z := nextState
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	out = z ^ (z >> 31)
	return out, nextState
}
