package search

import (
	"github.com/chesscore/chesscore/internal/board"
)

// Move ordering score bands, highest first.
const (
	TTMoveScore     = 10000000
	GoodCaptureBase = 1000000
	KillerScore1    = 900000
	KillerScore2    = 800000
)

// mvvLva scores a capture by victim value then attacker value, so a pawn
// taking a queen always sorts ahead of a queen taking a pawn.
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// MoveOrderer ranks pseudo-legal moves before search visits them: the
// transposition-table move first, then captures by MVV-LVA, then killer
// quiet moves that recently caused a beta cutoff at the same ply, then
// the rest by history score.
type MoveOrderer struct {
	killers [MaxPly][2]board.Move
	history [64][64]int
}

// NewMoveOrderer creates an empty orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and ages the history table for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves assigns an ordering score to every move in the list.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	if m.IsCapture(pos) {
		attacker := m.Piece()
		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else if captured := pos.PieceAt(m.To()); captured != board.NoPiece {
			victim = captured.Type()
		} else {
			return GoodCaptureBase
		}
		return GoodCaptureBase + mvvLva[victim][attacker]*1000
	}

	if m.IsPromotion() {
		return GoodCaptureBase - 1000 + int(m.Promotion())*100
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	return mo.history[m.From()][m.To()]
}

// PickMove selects the best-scoring move at or after index and swaps it
// into place, giving a lazy selection sort that only orders as many
// moves as the search actually visits.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff at ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory adjusts the history score for a quiet move that caused
// (isGood) or failed to cause a beta cutoff, scaled by remaining depth.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth

	if isGood {
		mo.history[from][to] += bonus
		if mo.history[from][to] > 400000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[from][to] -= bonus
		if mo.history[from][to] < -400000 {
			mo.history[from][to] = -400000
		}
	}
}
