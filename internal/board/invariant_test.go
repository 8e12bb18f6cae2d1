package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// assertBitboardConsistent checks the invariant from spec section 8.1:
// the piece-bitboard partition agrees with side/main occupancy, and no
// two piece bitboards of the same side overlap.
func assertBitboardConsistent(t *testing.T, p *Position) {
	t.Helper()

	var union [2]Bitboard
	for c := White; c <= Black; c++ {
		var seen Bitboard
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			require.Zero(t, seen&bb, "piece bitboards of side %v overlap", c)
			seen |= bb
		}
		union[c] = seen
		require.Equal(t, p.Occupied[c], seen, "side %v occupancy disagrees with piece bitboards", c)
	}
	require.Equal(t, p.AllOccupied, union[White]|union[Black])
	require.Zero(t, union[White]&union[Black], "white and black occupancy overlap")

	for sq := A1; sq <= H8; sq++ {
		piece := p.PieceAt(sq)
		bit := SquareBB(sq)
		if piece == NoPiece {
			require.Zero(t, p.AllOccupied&bit, "square %v empty per array but occupied per bitboard", sq)
			continue
		}
		require.NotZero(t, p.Pieces[piece.Color()][piece.Type()]&bit,
			"square %v has %v per array but bitboard disagrees", sq, piece)
	}
}

func TestInvariantsAcrossPlayedGame(t *testing.T) {
	pos, err := ParseFEN(StartFEN)
	require.NoError(t, err)

	// A fixed, deterministic sequence of plies (not engine search output,
	// so the test has no dependency on internal/search) that exercises
	// piece development, castling on both sides, and pawn pushes
	// (including double pushes that set en passant), verifying every invariant
	// after every make and restoring it after every unmake.
	line := []string{
		"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6",
		"b5a4", "g8f6", "e1g1", "f8e7", "f1e1", "b7b5",
		"a4b3", "d7d6", "c2c3", "e8g8",
	}

	type step struct {
		move Move
		undo UndoInfo
	}
	var played []step

	assertBitboardConsistent(t, pos)
	require.Equal(t, pos.ComputeHash(), pos.Hash, "hash mismatch at start")

	for _, s := range line {
		m, err := ParseMove(s, pos)
		require.NoErrorf(t, err, "ParseMove(%q)", s)

		undo := pos.MakeMove(m)
		require.True(t, undo.Valid, "MakeMove(%q) rejected as invalid", s)
		played = append(played, step{move: m, undo: undo})

		assertBitboardConsistent(t, pos)
		require.Equalf(t, pos.ComputeHash(), pos.Hash, "hash mismatch after %q", s)
	}

	for i := len(played) - 1; i >= 0; i-- {
		pos.UnmakeMove(played[i].move, played[i].undo)
		assertBitboardConsistent(t, pos)
		require.Equal(t, pos.ComputeHash(), pos.Hash, "hash mismatch unwinding ply %d", i)
	}

	require.Equal(t, StartFEN, pos.ToFEN(), "position did not return to the start after full unwind")
}

func TestInvariantsHoldThroughoutPerftTree(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	require.NoError(t, err)

	var walk func(depth int)
	walk = func(depth int) {
		assertBitboardConsistent(t, pos)
		require.Equal(t, pos.ComputeHash(), pos.Hash)

		if depth == 0 {
			return
		}
		moves := pos.GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			undo := pos.MakeMove(m)
			walk(depth - 1)
			pos.UnmakeMove(m, undo)
			assertBitboardConsistent(t, pos)
		}
	}
	walk(2)
}
