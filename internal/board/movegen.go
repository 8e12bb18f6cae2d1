package board

// GenerateLegalMoves returns all legal moves for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves returns all pseudo-legal moves, which may leave
// the mover's own king in check.
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := &MoveList{}
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures returns all legal capturing moves (including
// promotions, which are always tactically live), used by quiescence search.
func (p *Position) GenerateCaptures() *MoveList {
	ml := &MoveList{}
	p.generateCaptures(ml)
	return p.filterLegalMoves(ml)
}

// pieceAttacker pairs a non-pawn piece type with the function that
// computes its attack set; occupied is ignored by the knight/king
// adapters so every piece type can share one generation loop below.
type pieceAttacker struct {
	pt   PieceType
	rays func(Square, Bitboard) Bitboard
}

func knightRays(sq Square, _ Bitboard) Bitboard { return KnightAttacks(sq) }
func kingRays(sq Square, _ Bitboard) Bitboard   { return KingAttacks(sq) }

var pieceAttackers = [5]pieceAttacker{
	{Knight, knightRays},
	{Bishop, BishopAttacks},
	{Rook, RookAttacks},
	{Queen, QueenAttacks},
	{King, kingRays},
}

func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]
	friendly := p.Occupied[us]

	p.generatePawnMoves(ml, us, enemies, occupied, true)

	for _, pa := range pieceAttackers {
		bb := p.Pieces[us][pa.pt]
		for bb != 0 {
			from := bb.PopLSB()
			attacks := pa.rays(from, occupied) &^ friendly
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(p.quietOrCapture(pa.pt, from, to))
			}
		}
	}

	p.generateCastlingMoves(ml, us)
}

func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	p.generatePawnMoves(ml, us, enemies, occupied, false)

	for _, pa := range pieceAttackers {
		bb := p.Pieces[us][pa.pt]
		for bb != 0 {
			from := bb.PopLSB()
			attacks := pa.rays(from, occupied) & enemies
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(NewMove(pa.pt, from, to, MoveCapture, 0))
			}
		}
	}
}

// quietOrCapture classifies a move by whether the target square is
// occupied; it is not used for pawn, en-passant, castling, or promotion
// moves, which carry their own explicit move type.
func (p *Position) quietOrCapture(pt PieceType, from, to Square) Move {
	if p.AllOccupied.IsSet(to) {
		return NewMove(pt, from, to, MoveCapture, 0)
	}
	return NewMove(pt, from, to, MoveQuiet, 0)
}

// generatePawnMoves adds every pawn move for us. Captures, en passant,
// and promotions (quiet or not - reaching the back rank is always
// tactically live) are added unconditionally; plain one- and two-square
// pushes are added only when includeQuietPushes is set, which lets
// generateCaptures reuse this instead of duplicating the push/capture
// math with capturesOnly logic threaded through it.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard, includeQuietPushes bool) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	if includeQuietPushes {
		nonPromo := push1 &^ promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			ml.Add(NewMove(Pawn, Square(int(to)-pushDir), to, MoveQuiet, 0))
		}
		for push2 != 0 {
			to := push2.PopLSB()
			ml.Add(NewMove(Pawn, Square(int(to)-2*pushDir), to, MoveQuiet, 0))
		}
	}

	addPawnCaptures(ml, attackL, promotionRank, pushDir-1)
	addPawnCaptures(ml, attackR, promotionRank, pushDir+1)

	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}

	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewMove(Pawn, from, p.EnPassant, MoveEnPassant, 0))
		}
	}
}

// addPawnCaptures expands one diagonal attack set (attackL or attackR)
// into capture moves, splitting off promotions by rank. delta is the
// from-to square difference along that diagonal.
func addPawnCaptures(ml *MoveList, targets, promotionRank Bitboard, delta int) {
	nonPromo := targets &^ promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Pawn, Square(int(to)-delta), to, MoveCapture, 0))
	}
	promo := targets & promotionRank
	for promo != 0 {
		to := promo.PopLSB()
		addPromotions(ml, Square(int(to)-delta), to)
	}
}

// addPromotions expands a pawn reaching the back rank into its four
// promotion choices.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewMove(Pawn, from, to, MovePromotion, Queen))
	ml.Add(NewMove(Pawn, from, to, MovePromotion, Rook))
	ml.Add(NewMove(Pawn, from, to, MovePromotion, Bishop))
	ml.Add(NewMove(Pawn, from, to, MovePromotion, Knight))
}

// castlingSpec is one of the two castling options available to a
// color: which right gates it, where the king starts and lands, which
// squares must be empty, and which squares (including the king's
// start and destination) must not be attacked for it to be legal.
type castlingSpec struct {
	right            CastlingRights
	kingFrom, kingTo Square
	mustBeEmpty      Bitboard
	mustBeSafe       [3]Square
}

var castlingSpecsByColor = [2][2]castlingSpec{
	White: {
		{WhiteKingSideCastle, E1, G1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}},
		{WhiteQueenSideCastle, E1, C1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}},
		{BlackQueenSideCastle, E8, C8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}},
	},
}

func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	for _, spec := range castlingSpecsByColor[us] {
		if p.CastlingRights&spec.right == 0 {
			continue
		}
		if p.AllOccupied&spec.mustBeEmpty != 0 {
			continue
		}
		safe := true
		for _, sq := range spec.mustBeSafe {
			if p.IsSquareAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(King, spec.kingFrom, spec.kingTo, MoveCastle, 0))
		}
	}
}

func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := &MoveList{}
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}
	return result
}

// IsLegal reports whether m leaves the mover's own king safe. King moves
// are checked by attack lookup against the destination square with the
// king itself removed from the blocker set; every other move is verified
// by actually making it and testing the king square, which is simpler to
// get right than threading pin information through the generator.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq && !m.IsCastle() {
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}
	if m.IsCastle() {
		return true // squares along the path were already checked during generation
	}

	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}
	attacked := p.IsSquareAttacked(ksq, them)
	p.UnmakeMove(m, undo)
	return !attacked
}

// rookCastleSquares returns the rook's from/to squares for the castle
// move landing on kingTo, derived from which side of the king it is.
func rookCastleSquares(from, to Square) (rookFrom, rookTo Square) {
	if to > from {
		return NewSquare(7, from.Rank()), NewSquare(5, from.Rank())
	}
	return NewSquare(0, from.Rank()), NewSquare(3, from.Rank())
}

// enPassantCapturedSquare returns the square of the pawn taken by an
// en passant capture landing on to, one rank behind the mover's direction.
func enPassantCapturedSquare(us Color, to Square) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// MakeMove applies m to the position, pushes undo and repetition state,
// and returns the UndoInfo needed to reverse it via UnmakeMove.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		Checkers:       p.Checkers,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece {
		return undo
	}
	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		capturedSq := enPassantCapturedSquare(us, to)
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
	}

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}
	p.Hash ^= zobristCastling[p.CastlingRights]

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	p.history = append(p.history, undo)
	p.hashes = append(p.hashes, p.Hash)

	return undo
}

// UnmakeMove reverses m using undo, restoring the position to exactly
// the state it was in before the matching MakeMove call. Calls must
// nest like a stack: the most recent MakeMove must be unmade first.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	if len(p.hashes) > 0 {
		p.hashes = p.hashes[:len(p.hashes)-1]
	}
	if len(p.history) > 0 {
		p.history = p.history[:len(p.history)-1]
	}

	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.Checkers = undo.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(from, to)
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			p.setPiece(undo.CapturedPiece, enPassantCapturedSquare(us, to))
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw reports whether the position is drawn by stalemate, the
// fifty-move rule, insufficient material, or threefold repetition.
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.IsThreefoldRepetition()
}

// IsThreefoldRepetition reports whether the current Zobrist hash has
// occurred three or more times within the irreversible-move-bounded
// history recorded by MakeMove, counting the current position itself.
// p.hashes[len-1] is the current hash (ParseFEN seeds index 0 with the
// starting hash, and MakeMove appends one entry per ply played since),
// so prior positions with the same side to move - the only ones that
// can equal p.Hash - sit two slots apart, at len-3, len-5, and so on.
func (p *Position) IsThreefoldRepetition() bool {
	count := 1
	limit := len(p.hashes) - 1 - p.HalfMoveClock
	if limit < 0 {
		limit = 0
	}
	for i := len(p.hashes) - 3; i >= limit; i -= 2 {
		if p.hashes[i] == p.Hash {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// IsInsufficientMaterial reports whether neither side has enough material
// to deliver checkmate (K vs K, or K+single-minor vs K).
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}
	return false
}
