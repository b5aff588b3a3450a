package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// SetPosition resets the position from a FEN string.
func (p *Position) SetPosition(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}

	// Piece placement (field 0): ranks 8 down to 1.
	rank, file := 7, 0
	for i := 0; i < len(parts[0]); i++ {
		c := parts[0][i]
		switch {
		case c == '/':
			rank--
			file = 0
			if rank < 0 {
				return fmt.Errorf("invalid FEN: too many ranks")
			}
		case c >= '1' && c <= '8':
			file += int(c - '0')
		default:
			piece := PieceFromChar(c)
			if piece == Empty {
				return fmt.Errorf("invalid FEN: bad piece character %c", c)
			}
			if file > 7 {
				return fmt.Errorf("invalid FEN: rank overflow")
			}
			p.addPiece(piece, NewSquare(file, rank))
			file++
		}
	}

	// Side to move (field 1).
	switch parts[1] {
	case "w":
		p.SideToMove = White
	case "b":
		p.SideToMove = Black
	default:
		return fmt.Errorf("invalid side to move: %s", parts[1])
	}

	// Castling rights (field 2).
	if parts[2] != "-" {
		for i := 0; i < len(parts[2]); i++ {
			switch parts[2][i] {
			case 'K':
				p.CastlingRights |= WhiteKingSideCastle
			case 'Q':
				p.CastlingRights |= WhiteQueenSideCastle
			case 'k':
				p.CastlingRights |= BlackKingSideCastle
			case 'q':
				p.CastlingRights |= BlackQueenSideCastle
			default:
				return fmt.Errorf("invalid castling rights: %s", parts[2])
			}
		}
	}

	// En passant square (field 3).
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		p.EnPassant = sq
	}

	// Half-move clock (field 4, optional).
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		p.FiftyMoveCounter = hmc
	}

	// Full move number (field 5, optional).
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return fmt.Errorf("invalid full move number: %s", parts[5])
		}
		p.FullMoveNumber = fmn
	}

	if p.PieceCount[White][King] != 1 || p.PieceCount[Black][King] != 1 {
		return fmt.Errorf("invalid FEN: each side needs exactly one king")
	}

	p.Hash = p.computeHash()
	p.history = append(p.history[:0], p.Hash)
	return nil
}

// ParseFEN parses a FEN string and returns a new Position.
func ParseFEN(fen string) (*Position, error) {
	pos := &Position{}
	if err := pos.SetPosition(fen); err != nil {
		return nil, err
	}
	return pos, nil
}

// FEN returns the position in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Board[NewSquare(file, rank)]
			if piece == Empty {
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
	fmt.Fprintf(&sb, " %d %d", p.FiftyMoveCounter, p.FullMoveNumber)
	return sb.String()
}
