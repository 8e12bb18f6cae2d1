// Package board implements the bitboard position representation, magic
// sliding-attack tables, move generation, and make/unmake that back the
// search in internal/search.
package board

import (
	"fmt"
	"math/bits"
)

// Bitboard is a 64-bit occupancy set: bit i set means square i is occupied.
// Square 0 is a1, square 63 is h8 (little-endian rank-file mapping).
type Bitboard uint64

// File masks.
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileC Bitboard = FileA << 2
	FileD Bitboard = FileA << 3
	FileE Bitboard = FileA << 4
	FileF Bitboard = FileA << 5
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7
)

// Rank masks.
const (
	Rank1 Bitboard = 0x00000000000000FF
	Rank2 Bitboard = Rank1 << (8 * 1)
	Rank3 Bitboard = Rank1 << (8 * 2)
	Rank4 Bitboard = Rank1 << (8 * 3)
	Rank5 Bitboard = Rank1 << (8 * 4)
	Rank6 Bitboard = Rank1 << (8 * 5)
	Rank7 Bitboard = Rank1 << (8 * 6)
	Rank8 Bitboard = Rank1 << (8 * 7)
)

const (
	Empty    Bitboard = 0
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	NotFileA  Bitboard = ^FileA
	NotFileH  Bitboard = ^FileH
	NotFileAB Bitboard = ^(FileA | FileB)
	NotFileGH Bitboard = ^(FileG | FileH)
)

// FileMask maps a file index (0=a..7=h) to its bitboard.
var FileMask = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}

// RankMask maps a rank index (0=rank1..7=rank8) to its bitboard.
var RankMask = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}

// SquareBB returns the singleton bitboard for sq.
func SquareBB(sq Square) Bitboard { return 1 << Bitboard(sq) }

// Set returns b with sq occupied.
func (b Bitboard) Set(sq Square) Bitboard { return b | SquareBB(sq) }

// Clear returns b with sq vacated.
func (b Bitboard) Clear(sq Square) Bitboard { return b &^ SquareBB(sq) }

// IsSet reports whether sq is occupied in b.
func (b Bitboard) IsSet(sq Square) bool { return b&SquareBB(sq) != 0 }

// Toggle flips the bit at sq.
func (b Bitboard) Toggle(sq Square) Bitboard { return b ^ SquareBB(sq) }

// PopCount returns the number of occupied squares.
func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the index of the least-significant set bit.
// The caller must ensure b is non-zero; an empty board returns NoSquare.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB clears and returns the least-significant set bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Any reports whether any bit is set.
func (b Bitboard) Any() bool { return b != 0 }

// None reports whether no bit is set.
func (b Bitboard) None() bool { return b == 0 }

// shift moves b by delta squares in little-endian rank-file order
// (positive toward h8, negative toward a1), masking off any bit that
// would otherwise wrap across the a/h file edge. North/South never
// wrap a file so they shift unmasked.
func shift(b Bitboard, delta int, edgeMask Bitboard) Bitboard {
	if delta >= 0 {
		return (b << uint(delta)) & edgeMask
	}
	return (b >> uint(-delta)) & edgeMask
}

// North shifts the board one rank toward rank 8.
func (b Bitboard) North() Bitboard { return b << 8 }

// South shifts the board one rank toward rank 1.
func (b Bitboard) South() Bitboard { return b >> 8 }

// East shifts the board one file toward file h, suppressing wraparound.
func (b Bitboard) East() Bitboard { return shift(b, 1, NotFileA) }

// West shifts the board one file toward file a, suppressing wraparound.
func (b Bitboard) West() Bitboard { return shift(b, -1, NotFileH) }

// NorthEast shifts diagonally toward the h8 corner.
func (b Bitboard) NorthEast() Bitboard { return shift(b, 9, NotFileA) }

// NorthWest shifts diagonally toward the a8 corner.
func (b Bitboard) NorthWest() Bitboard { return shift(b, 7, NotFileH) }

// SouthEast shifts diagonally toward the h1 corner.
func (b Bitboard) SouthEast() Bitboard { return shift(b, -7, NotFileA) }

// SouthWest shifts diagonally toward the a1 corner.
func (b Bitboard) SouthWest() Bitboard { return shift(b, -9, NotFileH) }

// String renders the board as an 8x8 ASCII grid, rank 8 first.
func (b Bitboard) String() string {
	s := ""
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d ", rank+1)
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				s += "1 "
			} else {
				s += ". "
			}
		}
		s += "\n"
	}
	return s + "  a b c d e f g h\n"
}

// Squares returns, low to high, every set square. The slice is freshly
// allocated and safe to mutate or retain.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}
