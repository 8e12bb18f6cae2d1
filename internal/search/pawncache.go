package search

import (
	"github.com/cespare/xxhash/v2"
	"github.com/chesscore/chesscore/internal/board"
)

// pawnCacheSize is the number of slots in the pawn evaluation cache.
// Power of 2 so indexing is a mask, not a modulo.
const pawnCacheSize = 1 << 14

// pawnCacheEntry holds the cached material+PST contribution of both
// sides' pawns, keyed by an xxhash digest of the two pawn bitboards.
// Pawn structure changes far less often than the rest of the board, so
// a direct-mapped cache keyed this way saves real work across the many
// sibling nodes of a search tree that share a pawn skeleton.
type pawnCacheEntry struct {
	key     uint64
	mgScore int
	egScore int
	valid   bool
}

// pawnCache is a fixed-size, always-replace cache of pawn evaluation
// results, local to one Searcher.
type pawnCache struct {
	entries [pawnCacheSize]pawnCacheEntry
}

func pawnCacheKey(pos *board.Position) uint64 {
	var buf [16]byte
	white := uint64(pos.Pieces[board.White][board.Pawn])
	black := uint64(pos.Pieces[board.Black][board.Pawn])
	for i := 0; i < 8; i++ {
		buf[i] = byte(white >> (8 * i))
		buf[8+i] = byte(black >> (8 * i))
	}
	return xxhash.Sum64(buf[:])
}

// probe returns the cached pawn score and whether it was a hit.
func (c *pawnCache) probe(key uint64) (mg, eg int, hit bool) {
	e := &c.entries[key&(pawnCacheSize-1)]
	if e.valid && e.key == key {
		return e.mgScore, e.egScore, true
	}
	return 0, 0, false
}

// store records a freshly computed pawn score, replacing whatever
// previously occupied that slot.
func (c *pawnCache) store(key uint64, mg, eg int) {
	c.entries[key&(pawnCacheSize-1)] = pawnCacheEntry{key: key, mgScore: mg, egScore: eg, valid: true}
}

// pawnStructureScore returns the combined material+PST contribution of
// all pawns on the board, from White's perspective, using c to skip
// recomputation for positions that share a pawn skeleton.
func pawnStructureScore(pos *board.Position, c *pawnCache) (mg, eg int) {
	key := pawnCacheKey(pos)
	if c != nil {
		if mg, eg, hit := c.probe(key); hit {
			return mg, eg
		}
	}

	for color := board.White; color <= board.Black; color++ {
		sign := 1
		if color == board.Black {
			sign = -1
		}
		bb := pos.Pieces[color][board.Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			mg += sign * PawnValue
			eg += sign * PawnValue

			pstSq := sq
			if color == board.White {
				pstSq = sq.Mirror()
			}
			mg += sign * pawnPST[pstSq]
			eg += sign * pawnPST[pstSq]
		}
	}

	if c != nil {
		c.store(key, mg, eg)
	}
	return mg, eg
}
