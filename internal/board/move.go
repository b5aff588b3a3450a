package board

import "fmt"

// Move encodes a chess move in 32 bits:
// bits 0-7:   from square (0x88)
// bits 8-15:  to square (0x88)
// bits 16-19: moving piece
// bits 20-23: captured piece (Empty if none)
// bits 24-26: promotion piece type (NoPieceType if none)
// bit  27:    en passant capture
// bit  28:    castling
// The moving piece, captured piece and promotion type are all O(1)
// accessors so move ordering never has to consult the board.
type Move uint32

const (
	flagEnPassant Move = 1 << 27
	flagCastle    Move = 1 << 28
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a move. Capture is the captured piece (Empty for
// quiet moves) and promote the promotion piece type (NoPieceType when
// not promoting).
func NewMove(from, to Square, piece, capture Piece, promote PieceType) Move {
	return Move(from) | Move(to)<<8 | Move(piece)<<16 | Move(capture)<<20 |
		Move(promote)<<24
}

// NewEnPassant creates an en passant capture for the given pawn.
func NewEnPassant(from, to Square, piece, capture Piece) Move {
	return NewMove(from, to, piece, capture, NoPieceType) | flagEnPassant
}

// NewCastle creates a castling move (encoded as the king's movement).
func NewCastle(from, to Square, piece Piece) Move {
	return NewMove(from, to, piece, Empty, NoPieceType) | flagCastle
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0xFF)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 8) & 0xFF)
}

// Piece returns the moving piece.
func (m Move) Piece() Piece {
	return Piece((m >> 16) & 0x0F)
}

// PieceType returns the type of the moving piece.
func (m Move) PieceType() PieceType {
	return m.Piece().Type()
}

// Capture returns the captured piece, or Empty.
func (m Move) Capture() Piece {
	return Piece((m >> 20) & 0x0F)
}

// CaptureType returns the type of the captured piece, or NoPieceType.
func (m Move) CaptureType() PieceType {
	return m.Capture().Type()
}

// Promote returns the promotion piece type, or NoPieceType.
func (m Move) Promote() PieceType {
	return PieceType((m >> 24) & 0x07)
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Capture() != Empty
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promote() != NoPieceType
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&flagEnPassant != 0
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	return m&flagCastle != 0
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promote().Char())
	}
	return s
}

// ParseMove parses a UCI format move string against the position,
// returning the fully encoded move. The move must be legal.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := NoPieceType
	if len(s) >= 5 {
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
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	var moves [MaxMoves]Move
	n := p.GenerateLegalMoves(moves[:0])
	for _, m := range n {
		if m.From() == from && m.To() == to && m.Promote() == promo {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("illegal move: %s", s)
}

// MaxMoves bounds the number of moves in any reachable position.
const MaxMoves = 256
