package search

import (
	"math"
	"unsafe"

	"github.com/chesscore/chesscore/internal/board"
)

// TTFlag indicates which side of the search window a stored score bounds.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // exact score
	TTLowerBound               // failed high (beta cutoff)
	TTUpperBound               // failed low
)

// TTEntry is one slot of the transposition table. This table is an
// optional hook, not required by the core negamax: Searcher.tt may be
// nil, in which case Probe/Store are skipped entirely.
type TTEntry struct {
	Key      uint32     // upper 32 bits of the Zobrist hash, for collision verification
	BestMove board.Move
	Score    int16
	Depth    int8
	Flag     TTFlag
	Age      uint8 // search generation, for replacement
}

// ttEntrySize is the real in-memory footprint of a slot, struct padding
// included, used to size the table instead of guessing at a byte count.
var ttEntrySize = uint64(unsafe.Sizeof(TTEntry{}))

// ttStats tracks table usage separately from the entries themselves,
// so Clear can reset counters without walking the whole entry slice.
type ttStats struct {
	hits   uint64
	probes uint64
}

// TranspositionTable is a fixed-size, always-replace-by-policy hash
// table keyed by Zobrist hash for caching search results across nodes.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	age     uint8
	stats   ttStats
}

// NewTranspositionTable creates a table sized to the largest power-of-2
// entry count that fits in sizeMB megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	sizeBytes := uint64(sizeMB) * 1024 * 1024

	var numEntries uint64
	if sizeBytes >= ttEntrySize {
		numEntries = uint64(1) << uint(math.Floor(math.Log2(float64(sizeBytes/ttEntrySize))))
	}

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		mask:    numEntries - 1,
	}
}

// Probe looks up hash in the table, verifying the stored key before
// treating the slot as a hit.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.stats.probes++

	entry := tt.entries[hash&tt.mask]
	if entry.Key == uint32(hash>>32) && entry.Depth > 0 {
		tt.stats.hits++
		return entry, true
	}

	return TTEntry{}, false
}

// Store records a search result, subject to a depth-preferred,
// age-aware replacement policy: a slot from an older search generation
// is always overwritten; within the same generation, only a result
// searched at least as deep as what's stored replaces it.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	entry := &tt.entries[hash&tt.mask]

	if entry.Age != tt.age || depth >= int(entry.Depth) {
		*entry = TTEntry{
			Key:      uint32(hash >> 32),
			BestMove: bestMove,
			Score:    int16(score),
			Depth:    int8(depth),
			Flag:     flag,
			Age:      tt.age,
		}
	}
}

// NewSearch advances the table's generation counter; entries from the
// previous generation become eligible for replacement regardless of depth.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear empties every entry and resets usage statistics.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.stats = ttStats{}
}

// HashFull returns the permille of the table currently occupied by the
// current search generation, sampled over the first 1000 entries (or
// fewer, if the table itself is smaller) per UCI's "info hashfull" convention.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(tt.entries)) {
		sampleSize = len(tt.entries)
	}
	if sampleSize == 0 {
		return 0
	}

	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 && tt.entries[i].Age == tt.age {
			used++
		}
	}

	return (used * 1000) / sampleSize
}

// HitRate returns the fraction of probes that found a usable entry, as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.stats.probes == 0 {
		return 0
	}
	return float64(tt.stats.hits) / float64(tt.stats.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.entries))
}

// AdjustScoreFromTT converts a stored mate score into one relative to
// the current search root, since a stored "mate in N from here" needs
// rebasing by how deep "here" is this time.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a root-relative mate score into the
// ply-independent form stored in the table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
