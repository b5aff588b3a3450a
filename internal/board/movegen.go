package board

// Move generation is split the way the search consumes it: tactical
// moves (captures and promotions), quiet moves, check evasions, and the
// quiescence set. All generators append to buf and return the extended
// slice; callers pass a stack-allocated array sliced to zero length so
// generation never heap-allocates.

// GeneratePseudoMoves appends every pseudo-legal move.
func (p *Position) GeneratePseudoMoves(buf []Move) []Move {
	buf = p.GeneratePseudoTacticalMoves(buf)
	return p.GeneratePseudoQuietMoves(buf)
}

// GeneratePseudoTacticalMoves appends pseudo-legal captures and
// promotions (including underpromotions).
func (p *Position) GeneratePseudoTacticalMoves(buf []Move) []Move {
	us := p.SideToMove
	them := us.Other()
	push := PawnPush(us)

	for i := 0; i < p.NumPawns[us]; i++ {
		from := p.Pawns[us][i]
		piece := p.Board[from]
		promoting := from.RelativeRank(us) == Rank7

		for _, d := range [2]Square{push + East, push + West} {
			to := from + d
			if !to.IsValid() {
				continue
			}
			if target := p.Board[to]; target != Empty && target.Color() == them {
				if promoting {
					buf = appendPromotions(buf, from, to, piece, target)
				} else {
					buf = append(buf, NewMove(from, to, piece, target, NoPieceType))
				}
			} else if to == p.EnPassant && p.EnPassant != NoSquare {
				buf = append(buf, NewEnPassant(from, to, piece, p.Board[to-push]))
			}
		}

		if promoting {
			if to := from + push; p.Board[to] == Empty {
				buf = appendPromotions(buf, from, to, piece, Empty)
			}
		}
	}

	for i := 0; i < p.NumPieces[us]; i++ {
		from := p.Pieces[us][i]
		piece := p.Board[from]
		switch piece.Type() {
		case Knight:
			buf = p.appendStepCaptures(buf, from, piece, knightDeltas[:], them)
		case King:
			buf = p.appendStepCaptures(buf, from, piece, kingDeltas[:], them)
		case Bishop:
			buf = p.appendSlideCaptures(buf, from, piece, bishopDeltas[:], them)
		case Rook:
			buf = p.appendSlideCaptures(buf, from, piece, rookDeltas[:], them)
		case Queen:
			buf = p.appendSlideCaptures(buf, from, piece, kingDeltas[:], them)
		}
	}
	return buf
}

// GeneratePseudoQuietMoves appends pseudo-legal non-captures,
// promotions excluded, castling included.
func (p *Position) GeneratePseudoQuietMoves(buf []Move) []Move {
	us := p.SideToMove
	push := PawnPush(us)

	for i := 0; i < p.NumPawns[us]; i++ {
		from := p.Pawns[us][i]
		if from.RelativeRank(us) == Rank7 {
			continue // promotions are tactical
		}
		piece := p.Board[from]
		to := from + push
		if p.Board[to] != Empty {
			continue
		}
		buf = append(buf, NewMove(from, to, piece, Empty, NoPieceType))
		if from.RelativeRank(us) == Rank2 {
			if to2 := to + push; p.Board[to2] == Empty {
				buf = append(buf, NewMove(from, to2, piece, Empty, NoPieceType))
			}
		}
	}

	for i := 0; i < p.NumPieces[us]; i++ {
		from := p.Pieces[us][i]
		piece := p.Board[from]
		switch piece.Type() {
		case Knight:
			buf = p.appendStepQuiets(buf, from, piece, knightDeltas[:])
		case King:
			buf = p.appendStepQuiets(buf, from, piece, kingDeltas[:])
		case Bishop:
			buf = p.appendSlideQuiets(buf, from, piece, bishopDeltas[:])
		case Rook:
			buf = p.appendSlideQuiets(buf, from, piece, rookDeltas[:])
		case Queen:
			buf = p.appendSlideQuiets(buf, from, piece, kingDeltas[:])
		}
	}

	return p.appendCastles(buf)
}

// GenerateEvasions appends moves that may resolve the check the side to
// move is in: king retreats to unattacked squares, captures of a lone
// checker, and interpositions. Pins are left to the legality filter.
func (p *Position) GenerateEvasions(buf []Move) []Move {
	us := p.SideToMove
	them := us.Other()
	ksq := p.Pieces[us][0]
	king := p.Board[ksq]

	var checkers [2]Square
	numCheckers := 0
	for i := 0; i < p.NumPieces[them] && numCheckers < 2; i++ {
		if sq := p.Pieces[them][i]; p.Attacks(sq, ksq) {
			checkers[numCheckers] = sq
			numCheckers++
		}
	}
	for i := 0; i < p.NumPawns[them] && numCheckers < 2; i++ {
		if sq := p.Pawns[them][i]; p.Attacks(sq, ksq) {
			checkers[numCheckers] = sq
			numCheckers++
		}
	}

	// King moves, with the king lifted off the board so squares behind
	// it along a checking ray still count as attacked.
	p.Board[ksq] = Empty
	for _, d := range kingDeltas {
		to := ksq + d
		if !to.IsValid() {
			continue
		}
		target := p.Board[to]
		if target != Empty && target.Color() == us {
			continue
		}
		if p.IsAttacked(to, them) {
			continue
		}
		buf = append(buf, NewMove(ksq, to, king, target, NoPieceType))
	}
	p.Board[ksq] = king

	if numCheckers != 1 {
		return buf
	}

	checker := checkers[0]
	buf = p.appendCapturesOf(buf, checker)

	// Interpositions on the squares between a sliding checker and the king.
	dir := Direction(checker, ksq)
	if dir == 0 {
		return buf
	}
	for to := checker + dir; to != ksq; to += dir {
		buf = p.appendBlocks(buf, to)
	}
	return buf
}

// GenerateQuiescenceMoves appends the moves searched in quiescence:
// captures and promotions, plus quiet direct checks when withChecks is
// set.
func (p *Position) GenerateQuiescenceMoves(buf []Move, withChecks bool) []Move {
	buf = p.GeneratePseudoTacticalMoves(buf)
	if !withChecks {
		return buf
	}

	var quietBuf [MaxMoves]Move
	quiet := p.GeneratePseudoQuietMoves(quietBuf[:0])
	ek := p.Pieces[p.SideToMove.Other()][0]
	for _, m := range quiet {
		if p.givesDirectCheck(m.From(), m.To(), m.Piece(), ek) {
			buf = append(buf, m)
		}
	}
	return buf
}

// GenerateLegalMoves appends all fully legal moves.
func (p *Position) GenerateLegalMoves(buf []Move) []Move {
	var pseudo [MaxMoves]Move
	var moves []Move
	if p.IsCheck() {
		moves = p.GenerateEvasions(pseudo[:0])
	} else {
		moves = p.GeneratePseudoMoves(pseudo[:0])
	}
	for _, m := range moves {
		if p.IsMoveLegal(m) {
			buf = append(buf, m)
		}
	}
	return buf
}

func appendPromotions(buf []Move, from, to Square, piece, capture Piece) []Move {
	for pt := Queen; pt >= Knight; pt-- {
		buf = append(buf, NewMove(from, to, piece, capture, pt))
	}
	return buf
}

func (p *Position) appendStepCaptures(buf []Move, from Square, piece Piece, deltas []Square, them Color) []Move {
	for _, d := range deltas {
		to := from + d
		if !to.IsValid() {
			continue
		}
		if target := p.Board[to]; target != Empty && target.Color() == them {
			buf = append(buf, NewMove(from, to, piece, target, NoPieceType))
		}
	}
	return buf
}

func (p *Position) appendStepQuiets(buf []Move, from Square, piece Piece, deltas []Square) []Move {
	for _, d := range deltas {
		to := from + d
		if to.IsValid() && p.Board[to] == Empty {
			buf = append(buf, NewMove(from, to, piece, Empty, NoPieceType))
		}
	}
	return buf
}

func (p *Position) appendSlideCaptures(buf []Move, from Square, piece Piece, deltas []Square, them Color) []Move {
	for _, d := range deltas {
		for to := from + d; to.IsValid(); to += d {
			target := p.Board[to]
			if target == Empty {
				continue
			}
			if target.Color() == them {
				buf = append(buf, NewMove(from, to, piece, target, NoPieceType))
			}
			break
		}
	}
	return buf
}

func (p *Position) appendSlideQuiets(buf []Move, from Square, piece Piece, deltas []Square) []Move {
	for _, d := range deltas {
		for to := from + d; to.IsValid() && p.Board[to] == Empty; to += d {
			buf = append(buf, NewMove(from, to, piece, Empty, NoPieceType))
		}
	}
	return buf
}

// appendCastles appends the castling moves available to the side to
// move. Attack tests are done here so a generated castle is legal apart
// from discovered issues the legality filter would catch anyway.
func (p *Position) appendCastles(buf []Move) []Move {
	us := p.SideToMove
	them := us.Other()
	rank := Rank1
	kingSide, queenSide := WhiteKingSideCastle, WhiteQueenSideCastle
	if us == Black {
		rank = Rank8
		kingSide, queenSide = BlackKingSideCastle, BlackQueenSideCastle
	}
	ksq := NewSquare(FileE, rank)
	if p.Pieces[us][0] != ksq {
		return buf
	}
	king := p.Board[ksq]

	if p.CastlingRights&kingSide != 0 &&
		p.Board[NewSquare(FileF, rank)] == Empty &&
		p.Board[NewSquare(FileG, rank)] == Empty &&
		!p.IsAttacked(ksq, them) &&
		!p.IsAttacked(NewSquare(FileF, rank), them) &&
		!p.IsAttacked(NewSquare(FileG, rank), them) {
		buf = append(buf, NewCastle(ksq, NewSquare(FileG, rank), king))
	}
	if p.CastlingRights&queenSide != 0 &&
		p.Board[NewSquare(FileD, rank)] == Empty &&
		p.Board[NewSquare(FileC, rank)] == Empty &&
		p.Board[NewSquare(FileB, rank)] == Empty &&
		!p.IsAttacked(ksq, them) &&
		!p.IsAttacked(NewSquare(FileD, rank), them) &&
		!p.IsAttacked(NewSquare(FileC, rank), them) {
		buf = append(buf, NewCastle(ksq, NewSquare(FileC, rank), king))
	}
	return buf
}

// appendCapturesOf appends every non-king capture of the piece on sq.
func (p *Position) appendCapturesOf(buf []Move, sq Square) []Move {
	us := p.SideToMove
	target := p.Board[sq]
	push := PawnPush(us)

	for i := 0; i < p.NumPawns[us]; i++ {
		from := p.Pawns[us][i]
		if !p.Attacks(from, sq) {
			continue
		}
		piece := p.Board[from]
		if sq.RelativeRank(us) == Rank8 {
			buf = appendPromotions(buf, from, sq, piece, target)
		} else {
			buf = append(buf, NewMove(from, sq, piece, target, NoPieceType))
		}
	}
	// En passant capture of a double-pushed checking pawn.
	if p.EnPassant != NoSquare && sq == p.EnPassant-push {
		for _, d := range [2]Square{-1, 1} {
			from := sq + d
			if from.IsValid() && p.Board[from] == NewPiece(Pawn, us) {
				buf = append(buf, NewEnPassant(from, p.EnPassant, p.Board[from], target))
			}
		}
	}

	for i := 1; i < p.NumPieces[us]; i++ {
		from := p.Pieces[us][i]
		if p.Attacks(from, sq) {
			buf = append(buf, NewMove(from, sq, p.Board[from], target, NoPieceType))
		}
	}
	return buf
}

// appendBlocks appends every non-king move that lands on the empty
// square sq.
func (p *Position) appendBlocks(buf []Move, sq Square) []Move {
	us := p.SideToMove
	push := PawnPush(us)

	from := sq - push
	if from.IsValid() && p.Board[from] == NewPiece(Pawn, us) {
		piece := p.Board[from]
		if sq.RelativeRank(us) == Rank8 {
			buf = appendPromotions(buf, from, sq, piece, Empty)
		} else {
			buf = append(buf, NewMove(from, sq, piece, Empty, NoPieceType))
		}
	} else if sq.RelativeRank(us) == Rank4 && from.IsValid() && p.Board[from] == Empty {
		from2 := from - push
		if from2.IsValid() && p.Board[from2] == NewPiece(Pawn, us) {
			buf = append(buf, NewMove(from2, sq, p.Board[from2], Empty, NoPieceType))
		}
	}

	for i := 1; i < p.NumPieces[us]; i++ {
		psq := p.Pieces[us][i]
		if p.Attacks(psq, sq) {
			buf = append(buf, NewMove(psq, sq, p.Board[psq], Empty, NoPieceType))
		}
	}
	return buf
}

// givesDirectCheck reports whether moving piece from from to to would
// attack the enemy king on ek. Discovered checks are not detected.
func (p *Position) givesDirectCheck(from, to Square, piece Piece, ek Square) bool {
	if !PossibleAttack(to, ek, piece) {
		return false
	}
	switch piece.Type() {
	case Bishop, Rook, Queen:
		dir := Direction(to, ek)
		for sq := to + dir; sq != ek; sq += dir {
			if p.Board[sq] != Empty && sq != from {
				return false
			}
		}
	}
	return true
}
