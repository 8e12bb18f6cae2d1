package board

// Color is one of the two players.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposing color.
func (c Color) Other() Color { return c ^ 1 }

var colorNames = [2]string{"white", "black"}

func (c Color) String() string {
	if c > Black {
		return "none"
	}
	return colorNames[c]
}

// PieceType is one of the six chess piece kinds.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

var pieceTypeNames = [7]string{"pawn", "knight", "bishop", "rook", "queen", "king", "none"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		return "none"
	}
	return pieceTypeNames[pt]
}

// PieceValue holds the material weight, in centipawns, of each piece type.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Piece packs a Color into the high bit and a PieceType into the low
// three bits: color<<3 | pieceType. NoPiece (an empty square) sets
// every low bit, which keeps it distinct from any real white or black
// piece without needing a separate boolean alongside every Piece value.
type Piece uint8

const pieceColorShift = 3

func packPiece(pt PieceType, c Color) Piece {
	return Piece(c)<<pieceColorShift | Piece(pt)
}

const (
	WhitePawn   = Piece(White)<<pieceColorShift | Piece(Pawn)
	WhiteKnight = Piece(White)<<pieceColorShift | Piece(Knight)
	WhiteBishop = Piece(White)<<pieceColorShift | Piece(Bishop)
	WhiteRook   = Piece(White)<<pieceColorShift | Piece(Rook)
	WhiteQueen  = Piece(White)<<pieceColorShift | Piece(Queen)
	WhiteKing   = Piece(White)<<pieceColorShift | Piece(King)
	BlackPawn   = Piece(Black)<<pieceColorShift | Piece(Pawn)
	BlackKnight = Piece(Black)<<pieceColorShift | Piece(Knight)
	BlackBishop = Piece(Black)<<pieceColorShift | Piece(Bishop)
	BlackRook   = Piece(Black)<<pieceColorShift | Piece(Rook)
	BlackQueen  = Piece(Black)<<pieceColorShift | Piece(Queen)
	BlackKing   = Piece(Black)<<pieceColorShift | Piece(King)
	NoPiece     Piece = 0xFF
)

// NewPiece builds a Piece from a type and color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return packPiece(pt, c)
}

// Type returns the piece's PieceType.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType(p & 0x7)
}

// Color returns the piece's Color.
func (p Piece) Color() Color {
	if p == NoPiece {
		return NoColor
	}
	return Color(p >> pieceColorShift)
}

// pieceChars indexes by [Color][PieceType] into the FEN letter for that
// piece, uppercase for white and lowercase for black.
var pieceChars = [2][6]byte{
	White: {'P', 'N', 'B', 'R', 'Q', 'K'},
	Black: {'p', 'n', 'b', 'r', 'q', 'k'},
}

func (p Piece) String() string {
	if p == NoPiece {
		return " "
	}
	return string(pieceChars[p.Color()][p.Type()])
}

// pieceFromChar maps a FEN piece letter to the Piece it denotes, the
// reverse of pieceChars.
var pieceFromChar = map[byte]Piece{
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
}

// PieceFromChar maps a FEN piece letter to a Piece.
func PieceFromChar(c byte) Piece {
	if p, ok := pieceFromChar[c]; ok {
		return p
	}
	return NoPiece
}

// Value returns the piece's material weight in centipawns.
func (p Piece) Value() int { return PieceValue[p.Type()] }
