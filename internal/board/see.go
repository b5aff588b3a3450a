package board

// StaticExchangeEval returns the expected material outcome, in
// centipawns, of the capture sequence starting with m on m.To(). Both
// sides are assumed to keep capturing with their least valuable
// attacker while doing so gains material. X-ray attackers behind the
// pieces that move are brought into play as the exchange unfolds.
func (p *Position) StaticExchangeEval(m Move) int {
	target := m.To()
	us := p.SideToMove
	them := us.Other()

	// A local occupancy overlay: pieces consumed by the exchange are
	// marked gone without touching the real board.
	var gone [128]bool

	gain := m.Capture().Value()
	attacker := m.PieceType()
	gone[m.From()] = true
	if m.IsEnPassant() {
		gone[target-PawnPush(us)] = true
	}
	if promo := m.Promote(); promo != NoPieceType {
		gain += promo.MaterialValue() - PawnValue
		attacker = promo
	}

	var gains [32]int
	gains[0] = gain
	depth := 1
	side := them

	for {
		from := p.leastValuableAttacker(target, side, &gone)
		if from == NoSquare {
			break
		}
		// The previous attacker is captured in turn.
		gains[depth] = attacker.MaterialValue() - gains[depth-1]
		attacker = p.Board[from].Type()
		if attacker == Pawn && target.RelativeRank(side) == Rank8 {
			gains[depth] += QueenValue - PawnValue
			attacker = Queen
		}
		gone[from] = true
		side = side.Other()
		depth++
	}

	// Negamax the gain list: each side may stand pat instead of
	// recapturing at a loss.
	for depth--; depth > 0; depth-- {
		if -gains[depth] < gains[depth-1] {
			gains[depth-1] = -gains[depth]
		}
	}
	return gains[0]
}

// leastValuableAttacker finds the cheapest piece of the given color
// attacking target, ignoring pieces already consumed by the exchange.
// Sliding attacks see through consumed pieces, which is how x-ray
// attackers enter the fight.
func (p *Position) leastValuableAttacker(target Square, c Color, gone *[128]bool) Square {
	best := NoSquare
	bestValue := KingValue + 1

	consider := func(from Square) {
		piece := p.Board[from]
		if !PossibleAttack(from, target, piece) {
			return
		}
		switch piece.Type() {
		case Bishop, Rook, Queen:
			dir := Direction(from, target)
			for sq := from + dir; sq != target; sq += dir {
				if p.Board[sq] != Empty && !gone[sq] {
					return
				}
			}
		}
		if v := piece.Value(); v < bestValue {
			best = from
			bestValue = v
		}
	}

	for i := 0; i < p.NumPawns[c]; i++ {
		if sq := p.Pawns[c][i]; !gone[sq] {
			consider(sq)
		}
	}
	for i := 0; i < p.NumPieces[c]; i++ {
		if sq := p.Pieces[c][i]; !gone[sq] {
			consider(sq)
		}
	}
	return best
}
