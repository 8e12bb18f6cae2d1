package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped into every error ParseFEN returns, so callers
// (internal/uci's "position fen ..." handler in particular) can test
// for a malformed-FEN condition with errors.Is instead of string matching.
var ErrInvalidFEN = errors.New("invalid FEN")

// FEN field indices, in the order strings.Fields produces them. The
// last two are optional: a FEN with only the first four fields is
// still legal input, just missing move-clock bookkeeping.
const (
	fieldPlacement = iota
	fieldSideToMove
	fieldCastling
	fieldEnPassant
	fieldHalfMoveClock
	fieldFullMoveNumber
	minFENFields = fieldEnPassant + 1
)

// ParseFEN parses a FEN string and returns a Position.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < minFENFields {
		return nil, fmt.Errorf("%w: need at least %d fields, got %d", ErrInvalidFEN, minFENFields, len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(pos, parts[fieldPlacement]); err != nil {
		return nil, err
	}

	switch parts[fieldSideToMove] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[fieldSideToMove])
	}

	if err := parseCastlingRights(pos, parts[fieldCastling]); err != nil {
		return nil, err
	}

	if ep := parts[fieldEnPassant]; ep != "-" {
		sq, err := ParseSquare(ep)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square %q: %w", ErrInvalidFEN, ep, err)
		}
		pos.EnPassant = sq
	}

	if len(parts) > fieldHalfMoveClock {
		hmc, err := strconv.Atoi(parts[fieldHalfMoveClock])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid half-move clock %q: %w", ErrInvalidFEN, parts[fieldHalfMoveClock], err)
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > fieldFullMoveNumber {
		fmn, err := strconv.Atoi(parts[fieldFullMoveNumber])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid full-move number %q: %w", ErrInvalidFEN, parts[fieldFullMoveNumber], err)
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()
	pos.Hash = pos.ComputeHash()
	pos.PawnKey = pos.ComputePawnKey()
	pos.hashes = []uint64{pos.Hash}

	return pos, nil
}

// parsePiecePlacement parses the piece placement (first) field of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks in piece placement, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // rank 8 is listed first in FEN
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares, want 8", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// castlingChars maps each FEN castling letter to the right bit, so
// parseCastlingRights is a table lookup instead of a four-way switch.
var castlingChars = map[rune]CastlingRights{
	'K': WhiteKingSideCastle,
	'Q': WhiteQueenSideCastle,
	'k': BlackKingSideCastle,
	'q': BlackQueenSideCastle,
}

// parseCastlingRights parses the castling-rights (third) field of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		right, ok := castlingChars[c]
		if !ok {
			return fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
		}
		pos.CastlingRights |= right
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// ComputeHash computes the Zobrist hash for the position from scratch,
// by XOR-ing in the key for every piece plus side-to-move, castling
// rights, and en passant file. MakeMove/UnmakeMove maintain Hash
// incrementally afterward; this is only called when there's no prior
// hash to update from (FEN parsing, tests, invariant checks).
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= zobristPiece[c][pt][sq]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// ComputePawnKey computes the pawn-structure hash key from scratch,
// folding in only pawns so the key depends on pawn structure alone
// regardless of piece placement elsewhere. internal/search's pawn-eval
// cache does not read it; that cache keys on its own digest of the
// pawn bitboards.
func (p *Position) ComputePawnKey() uint64 {
	var key uint64

	for c := White; c <= Black; c++ {
		bb := p.Pieces[c][Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			key ^= zobristPiece[c][Pawn][sq]
		}
	}

	return key
}
