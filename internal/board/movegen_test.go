package board

import "testing"

func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// {4, 4085603}, // ~1s, enable for thorough testing
	}

	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftEnPassantPin(t *testing.T) {
	// A black pawn on e4 could capture en passant on d3, but doing so
	// would expose the black king on a4 to the white rook on h4.
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.IsEnPassant() {
			t.Errorf("en passant capture %v should be illegal (horizontal pin)", m)
		}
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 6},
		{2, 94},
	}
	for _, tc := range tests {
		if got := perft(pos, tc.depth); got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestCastlingRightsLostAfterRookMove(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move := NewMove(Rook, H1, G1, MoveQuiet, 0)
	pos.MakeMove(move)

	if pos.CastlingRights.CanCastle(White, true) {
		t.Errorf("moving the h1 rook should drop white's kingside castling right")
	}
	if !pos.CastlingRights.CanCastle(White, false) {
		t.Errorf("queenside castling right should survive an h1 rook move")
	}
}

func TestCastlingMovesRookToo(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move := NewMove(King, E1, G1, MoveCastle, 0)
	undo := pos.MakeMove(move)

	if pos.PieceAt(G1) != WhiteKing || pos.PieceAt(F1) != WhiteRook {
		t.Fatalf("castling should place the king on g1 and the rook on f1")
	}

	pos.UnmakeMove(move, undo)
	if pos.PieceAt(E1) != WhiteKing || pos.PieceAt(H1) != WhiteRook {
		t.Errorf("unmaking castling should restore the king to e1 and the rook to h1")
	}
}

func TestPromotionChoices(t *testing.T) {
	pos, err := ParseFEN("8/P7/8/8/8/8/8/k3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	var promos []PieceType
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From() == A7 && m.To() == A8 {
			promos = append(promos, m.Promotion())
		}
	}

	if len(promos) != 4 {
		t.Fatalf("expected 4 promotion choices from a7a8, got %d", len(promos))
	}
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	before := *pos
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := pos.MakeMove(m)
		pos.UnmakeMove(m, undo)

		if pos.Hash != before.Hash {
			t.Fatalf("move %v: hash not restored after unmake (got %016x, want %016x)", m, pos.Hash, before.Hash)
		}
		if pos.AllOccupied != before.AllOccupied {
			t.Fatalf("move %v: occupancy not restored after unmake", m)
		}
	}
}

func TestThreefoldRepetition(t *testing.T) {
	pos := NewPosition()

	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	// Two full round trips of the knight shuffle bring the starting
	// position back twice more, for three occurrences total.
	for rep := 0; rep < 2; rep++ {
		for _, s := range shuffle {
			m, err := ParseMove(s, pos)
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", s, err)
			}
			pos.MakeMove(m)
		}
	}

	if !pos.IsThreefoldRepetition() {
		t.Errorf("expected threefold repetition after two knight-shuffle round trips")
	}
}

func TestBetweenLineAligned(t *testing.T) {
	if got := Between(A1, A4); got != (SquareBB(A2) | SquareBB(A3)) {
		t.Errorf("Between(A1, A4) = %v, want A2|A3", got)
	}
	if got := Between(A1, B2); got != 0 {
		t.Errorf("Between(A1, B2) should be empty, squares are adjacent")
	}
	if !Aligned(A1, D4, H8) {
		t.Errorf("A1, D4, H8 are on the same diagonal")
	}
	if Aligned(A1, D4, H1) {
		t.Errorf("A1, D4, H1 are not collinear")
	}
	if got := Line(A1, H8); got&SquareBB(D4) == 0 {
		t.Errorf("Line(A1, H8) should include D4")
	}
}
