package board

import "testing"

func TestMoveEncodingRoundTrip(t *testing.T) {
	m := NewMove(Knight, G1, F3, MoveQuiet, 0)

	if m.Piece() != Knight {
		t.Errorf("Piece() = %v, want Knight", m.Piece())
	}
	if m.From() != G1 {
		t.Errorf("From() = %v, want G1", m.From())
	}
	if m.To() != F3 {
		t.Errorf("To() = %v, want F3", m.To())
	}
	if m.Type() != MoveQuiet {
		t.Errorf("Type() = %v, want MoveQuiet", m.Type())
	}
	if m.String() != "g1f3" {
		t.Errorf("String() = %q, want g1f3", m.String())
	}
}

func TestMovePromotionEncoding(t *testing.T) {
	m := NewMove(Pawn, E7, E8, MovePromotion, Queen)

	if !m.IsPromotion() {
		t.Fatalf("expected IsPromotion() true")
	}
	if m.Promotion() != Queen {
		t.Errorf("Promotion() = %v, want Queen", m.Promotion())
	}
	if m.String() != "e7e8q" {
		t.Errorf("String() = %q, want e7e8q", m.String())
	}
}

func TestMoveIsCaptureOnPromotion(t *testing.T) {
	pos := NewPosition()
	pos.Clear()
	pos.setPiece(WhitePawn, E7)
	pos.setPiece(BlackKing, A8)
	pos.setPiece(WhiteKing, A1)

	quiet := NewMove(Pawn, E7, E8, MovePromotion, Queen)
	if quiet.IsCapture(pos) {
		t.Errorf("promotion to an empty square should not be a capture")
	}

	pos.setPiece(BlackRook, D8)
	capturing := NewMove(Pawn, E7, D8, MovePromotion, Queen)
	if !capturing.IsCapture(pos) {
		t.Errorf("promotion onto an occupied square should be a capture")
	}
}

func TestParseMoveRecoversCastle(t *testing.T) {
	pos := NewPosition()
	move, err := ParseMove("e2e4", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if move.Type() != MoveQuiet {
		t.Errorf("e2e4 from the start position should be quiet, got %v", move.Type())
	}

	pos, err = ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	move, err = ParseMove("e1g1", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !move.IsCastle() {
		t.Errorf("e1g1 with a rook on h1 should parse as castling")
	}
}

func TestMoveListBasics(t *testing.T) {
	var ml MoveList
	if ml.Len() != 0 {
		t.Fatalf("zero-value MoveList should be empty")
	}

	m1 := NewMove(Pawn, E2, E4, MoveQuiet, 0)
	m2 := NewMove(Pawn, D2, D4, MoveQuiet, 0)
	ml.Add(m1)
	ml.Add(m2)

	if ml.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ml.Len())
	}
	if !ml.Contains(m1) || !ml.Contains(m2) {
		t.Errorf("Contains should find both added moves")
	}

	ml.Clear()
	if ml.Len() != 0 {
		t.Errorf("Clear() should reset Len() to 0")
	}
}
