// Package perft counts leaf nodes of the legal-move tree to a fixed
// depth, the standard correctness check for a move generator: the
// counts at each depth are well-known for standard test positions, so a
// mismatch points straight at a move-generation bug.
package perft

import (
	"context"
	"sort"

	"github.com/chesscore/chesscore/internal/board"
	"golang.org/x/sync/errgroup"
)

// Count returns the number of leaf positions reachable from pos in
// exactly depth plies of legal moves.
func Count(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += Count(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}
	return nodes
}

// DivideEntry is one root move's subtree count, as reported by Divide.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Divide breaks perft down by root move, the standard way to bisect a
// move generator bug against a reference engine: compare each entry
// against the reference's output for the same position and depth, and
// the first mismatching move names the subtree to inspect next.
func Divide(pos *board.Position, depth int) []DivideEntry {
	moves := pos.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, moves.Len())

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		var nodes uint64
		if depth <= 1 {
			nodes = 1
		} else {
			nodes = Count(pos, depth-1)
		}
		pos.UnmakeMove(move, undo)
		entries = append(entries, DivideEntry{Move: move, Nodes: nodes})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries
}

// ParallelCount runs Count over each root move concurrently via an
// errgroup, one Position copy per root move so the goroutines don't
// share make/unmake state. Safe here in a way a parallel search would
// not be: perft's result is an order-insensitive sum with no alpha-beta
// window or transposition-table state to race on.
func ParallelCount(ctx context.Context, pos *board.Position, depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len()), nil
	}

	counts := make([]uint64, moves.Len())
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < moves.Len(); i++ {
		i := i
		move := moves.Get(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child := pos.Copy()
			undo := child.MakeMove(move)
			if !undo.Valid {
				return nil
			}
			counts[i] = Count(child, depth-1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total uint64
	for _, c := range counts {
		total += c
	}
	return total, nil
}
