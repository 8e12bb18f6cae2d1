package board

import "testing"

func TestBitboardSetClear(t *testing.T) {
	var bb Bitboard

	bb = bb.Set(E4)
	if !bb.IsSet(E4) {
		t.Errorf("expected E4 set after Set")
	}

	bb = bb.Clear(E4)
	if bb.IsSet(E4) {
		t.Errorf("expected E4 clear after Clear")
	}
}

func TestBitboardPopCountAndLSB(t *testing.T) {
	bb := SquareBB(A1) | SquareBB(H8) | SquareBB(D4)
	if got := bb.PopCount(); got != 3 {
		t.Errorf("PopCount() = %d, want 3", got)
	}

	first := bb.LSB()
	if first != A1 {
		t.Errorf("LSB() = %v, want A1", first)
	}

	popped := bb.PopLSB()
	if popped != A1 {
		t.Errorf("PopLSB() popped %v, want A1", popped)
	}
	if bb.IsSet(A1) {
		t.Errorf("PopLSB should clear the receiver's copy of the square")
	}
}

func TestBitboardDirectionalShifts(t *testing.T) {
	bb := SquareBB(E4)

	if got := bb.North(); got != SquareBB(E5) {
		t.Errorf("North() = %v, want E5", got)
	}
	if got := bb.South(); got != SquareBB(E3) {
		t.Errorf("South() = %v, want E3", got)
	}
	if got := bb.East(); got != SquareBB(F4) {
		t.Errorf("East() = %v, want F4", got)
	}
	if got := bb.West(); got != SquareBB(D4) {
		t.Errorf("West() = %v, want D4", got)
	}
}

func TestBitboardShiftWrapping(t *testing.T) {
	// Shifting off the board must not wrap to the opposite file.
	hFile := SquareBB(H4)
	if got := hFile.East(); got != 0 {
		t.Errorf("East() from H-file = %v, want empty", got)
	}

	aFile := SquareBB(A4)
	if got := aFile.West(); got != 0 {
		t.Errorf("West() from A-file = %v, want empty", got)
	}
}

func TestBitboardAnyNone(t *testing.T) {
	var empty Bitboard
	if !empty.None() || empty.Any() {
		t.Errorf("zero-value Bitboard should report None() and not Any()")
	}

	full := SquareBB(A1)
	if full.None() || !full.Any() {
		t.Errorf("non-empty Bitboard should report Any() and not None()")
	}
}
