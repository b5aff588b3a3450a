package board

// IsMoveLegal returns true if the move is fully legal: it must be
// pseudo-legal and must not leave the mover's king in check.
func (p *Position) IsMoveLegal(m Move) bool {
	if !p.IsPseudoMoveLegal(m) {
		return false
	}
	us := p.SideToMove
	var u Undo
	p.DoMove(m, &u)
	ok := !p.IsAttacked(p.Pieces[us][0], us.Other())
	p.UndoMove(m, &u)
	return ok
}

// IsPseudoMoveLegal verifies that a move makes sense on the current
// board: the encoded piece stands on the from square, the destination
// holds the encoded capture, the path is clear for sliders, and pawn
// and castling moves obey their movement rules. Used to vet hash and
// killer moves that were recorded at other nodes.
func (p *Position) IsPseudoMoveLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	from, to := m.From(), m.To()
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	piece := m.Piece()
	if p.Board[from] != piece || piece.Color() != p.SideToMove {
		return false
	}

	if m.IsCastle() {
		return p.castleIsPseudoLegal(m)
	}

	if m.IsEnPassant() {
		return piece.Type() == Pawn &&
			p.EnPassant == to &&
			p.Board[to] == Empty &&
			p.Board[to-PawnPush(p.SideToMove)] == m.Capture() &&
			PossibleAttack(from, to, piece)
	}

	if p.Board[to] != m.Capture() {
		return false
	}
	if m.IsCapture() && m.Capture().Color() != p.SideToMove.Other() {
		return false
	}

	if promo := m.Promote(); promo != NoPieceType {
		if piece.Type() != Pawn || to.RelativeRank(p.SideToMove) != Rank8 ||
			promo < Knight || promo > Queen {
			return false
		}
	} else if piece.Type() == Pawn && to.RelativeRank(p.SideToMove) == Rank8 {
		return false
	}

	switch piece.Type() {
	case Pawn:
		push := PawnPush(p.SideToMove)
		if m.IsCapture() {
			return PossibleAttack(from, to, piece)
		}
		if to == from+push {
			return p.Board[to] == Empty
		}
		if to == from+2*push {
			return from.RelativeRank(p.SideToMove) == Rank2 &&
				p.Board[from+push] == Empty && p.Board[to] == Empty
		}
		return false
	case Knight, King:
		return PossibleAttack(from, to, piece)
	case Bishop, Rook, Queen:
		return PossibleAttack(from, to, piece) && p.clearPath(from, to)
	}
	return false
}

// IsPlausibleMoveLegal is the screen applied to moves imported from
// another node (transposition and killer moves) before they are played.
// It accepts exactly the pseudo-legal moves.
func (p *Position) IsPlausibleMoveLegal(m Move) bool {
	return p.IsPseudoMoveLegal(m)
}

func (p *Position) castleIsPseudoLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	rank := Rank1
	kingSide, queenSide := WhiteKingSideCastle, WhiteQueenSideCastle
	if us == Black {
		rank = Rank8
		kingSide, queenSide = BlackKingSideCastle, BlackQueenSideCastle
	}
	if m.From() != NewSquare(FileE, rank) || m.PieceType() != King {
		return false
	}
	switch m.To() {
	case NewSquare(FileG, rank):
		return p.CastlingRights&kingSide != 0 &&
			p.Board[NewSquare(FileF, rank)] == Empty &&
			p.Board[NewSquare(FileG, rank)] == Empty &&
			!p.IsAttacked(m.From(), them) &&
			!p.IsAttacked(NewSquare(FileF, rank), them) &&
			!p.IsAttacked(NewSquare(FileG, rank), them)
	case NewSquare(FileC, rank):
		return p.CastlingRights&queenSide != 0 &&
			p.Board[NewSquare(FileD, rank)] == Empty &&
			p.Board[NewSquare(FileC, rank)] == Empty &&
			p.Board[NewSquare(FileB, rank)] == Empty &&
			!p.IsAttacked(m.From(), them) &&
			!p.IsAttacked(NewSquare(FileD, rank), them) &&
			!p.IsAttacked(NewSquare(FileC, rank), them)
	}
	return false
}

// CheckPseudoMoveLegality panics if m is not pseudo-legal. It is only
// active when DebugChecks is set.
func (p *Position) CheckPseudoMoveLegality(m Move) {
	if DebugChecks && !p.IsPseudoMoveLegal(m) {
		panic("move " + m.String() + " is not pseudo-legal in " + p.FEN())
	}
}
