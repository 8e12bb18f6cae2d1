package board

import "fmt"

// MoveType distinguishes how a Move mutates a Position during make/unmake.
type MoveType uint8

const (
	MoveQuiet MoveType = iota
	MoveCapture
	MoveEnPassant
	MoveCastle
	MovePromotion
)

// Move packs a chess move into the low 24 bits of a uint32 (bits 20-23
// are unused):
//
//	bits 0-2:   moving piece kind
//	bits 3-8:   from square
//	bits 9-14:  target square
//	bits 15-17: move type
//	bits 18-19: promotion piece index-1 (only meaningful when type is MovePromotion)
type Move uint32

const (
	moveShiftFrom   = 3
	moveShiftTarget = 9
	moveShiftType   = 15
	moveShiftPromo  = 18

	moveMaskPiece  = 0x7
	moveMaskSquare = 0x3F
	moveMaskType   = 0x7
	moveMaskPromo  = 0x3
)

// NoMove is the zero value, never produced by the generator.
const NoMove Move = 0

// NewMove builds a move of the given type. For MovePromotion, pass the
// promotion piece kind (Knight..Queen) as promo; it is ignored otherwise.
func NewMove(piece PieceType, from, to Square, mtype MoveType, promo PieceType) Move {
	m := Move(piece) |
		Move(from)<<moveShiftFrom |
		Move(to)<<moveShiftTarget |
		Move(mtype)<<moveShiftType
	if mtype == MovePromotion {
		m |= Move(promo-Knight) << moveShiftPromo
	}
	return m
}

// Piece returns the kind of the piece that is moving (pre-promotion).
func (m Move) Piece() PieceType { return PieceType(m & moveMaskPiece) }

// From returns the origin square.
func (m Move) From() Square { return Square((m >> moveShiftFrom) & moveMaskSquare) }

// To returns the destination square.
func (m Move) To() Square { return Square((m >> moveShiftTarget) & moveMaskSquare) }

// Type returns the move's MoveType.
func (m Move) Type() MoveType { return MoveType((m >> moveShiftType) & moveMaskType) }

// Promotion returns the promotion piece kind; only meaningful if Type() == MovePromotion.
func (m Move) Promotion() PieceType {
	return PieceType((m>>moveShiftPromo)&moveMaskPromo) + Knight
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Type() == MovePromotion }

// IsCastle reports whether the move is a castling move.
func (m Move) IsCastle() bool { return m.Type() == MoveCastle }

// IsEnPassant reports whether the move is an en-passant capture.
func (m Move) IsEnPassant() bool { return m.Type() == MoveEnPassant }

// IsCapture reports whether the move removes an enemy piece. Quiet
// promotions are not captures; capturing promotions are detected by
// occupancy at the target square, since MovePromotion doesn't carry a
// separate bit for "is also a capture" (spec §3 Move layout).
func (m Move) IsCapture(pos *Position) bool {
	switch m.Type() {
	case MoveCapture, MoveEnPassant:
		return true
	case MovePromotion:
		return !pos.IsEmpty(m.To())
	default:
		return false
	}
}

// String renders UCI move text, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseMove parses UCI move text against a position, recovering the move
// type (capture/en-passant/castle/promotion) that bare from-to text elides.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("board: invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("board: no piece on %s", from)
	}
	pt := piece.Type()

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("board: invalid promotion piece %q", s[4:])
		}
		return NewMove(pt, from, to, MovePromotion, promo), nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		return NewMove(pt, from, to, MoveCastle, 0), nil
	}
	if pt == Pawn && to == pos.EnPassant {
		return NewMove(pt, from, to, MoveEnPassant, 0), nil
	}
	if !pos.IsEmpty(to) {
		return NewMove(pt, from, to, MoveCapture, 0), nil
	}
	return NewMove(pt, from, to, MoveQuiet, 0), nil
}

// MoveList is a fixed-capacity move buffer sized for the largest plausible
// pseudo-legal move count, avoiding per-call allocation in the generator.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently in the list.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the populated portion of the list.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }
