package engine

import (
	"github.com/forkme7/daydreamer/internal/board"
)

// Endgame knowledge comes in two forms. Scoring functions adjudicate a
// signature outright (forced win, dead draw, KBN mating technique) and
// replace the evaluation. Scaling functions recognize drawn or drawish
// configurations within a signature and shrink each side's evaluation
// contribution, 0..16 with 16 meaning full value.
//
// Both dispatch tables are indexed by EndgameType; a nil slot means the
// general evaluator stands. scaleKRPKR and scaleKPKB are implemented
// but deliberately left out of the table — enabling them is a tuning
// decision, not a default.

type egScoreFn func(pos *board.Position, ed *MaterialData) int
type egScaleFn func(pos *board.Position, ed *MaterialData, scale *[2]int)

var egScoreFns = [egLast]egScoreFn{
	EgWin:  scoreWin,
	EgDraw: scoreDraw,
	EgKBNK: scoreKBNK,
}

var egScaleFns = [egLast]egScaleFn{
	EgKRKP: scaleKRKP,
	EgKNPK: scaleKNPK,
	EgKBPK: scaleKBPK,
	EgKPK:  scaleKPK,
}

// EndgameScore returns the adjudicated score for the position if its
// endgame type has a scoring function.
func EndgameScore(pos *board.Position, ed *MaterialData) (int, bool) {
	if fn := egScoreFns[ed.EgType]; fn != nil {
		return fn(pos, ed), true
	}
	return 0, false
}

// DetermineEndgameScale starts from the signature's baseline scale and
// lets the type's scaling function reduce it further.
func DetermineEndgameScale(pos *board.Position, ed *MaterialData) [2]int {
	scale := ed.Scale
	if fn := egScaleFns[ed.EgType]; fn != nil {
		fn(pos, ed, &scale)
	}
	return scale
}

func scoreWin(pos *board.Position, ed *MaterialData) int {
	if ed.StrongSide == pos.SideToMove {
		return WonEndgame
	}
	return -WonEndgame
}

func scoreDraw(pos *board.Position, ed *MaterialData) int {
	return DrawValue
}

// scoreKBNK drives the defending king toward a corner of the bishop's
// color, then walks the attacking king in.
func scoreKBNK(pos *board.Position, ed *MaterialData) int {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 3 && pos.NumPawns[strong] == 0)
	assertSignature(pos.NumPieces[weak] == 1 && pos.NumPawns[weak] == 0)

	wk := pos.Pieces[strong][0]
	bk := pos.Pieces[weak][0]
	var bishop board.Square
	for i := 1; i < pos.NumPieces[strong]; i++ {
		if pos.Board[pos.Pieces[strong][i]].Type() == board.Bishop {
			bishop = pos.Pieces[strong][i]
		}
	}

	bc := bishop.Color()
	t1, t2 := board.A1, board.H8
	if bc == board.White {
		t1, t2 = board.A8, board.H1
	}
	cornerDist := min(board.Distance(bk, t1), board.Distance(bk, t2)) +
		min(bk.Rank(), bk.File())

	score := WonEndgame - 10*cornerDist - board.Distance(wk, bk)
	if strong != pos.SideToMove {
		return -score
	}
	return score
}

// scaleKPK is an exhaustive rule-based draw detector for king and pawn
// against king. The board is normalized so the pawn sits on files A-D;
// the rules then run in the strong side's frame via PawnPush and
// relative ranks.
func scaleKPK(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	sstm := pos.SideToMove == strong
	assertSignature(pos.NumPieces[strong] == 1 && pos.NumPawns[strong] == 1)
	assertSignature(pos.NumPieces[weak] == 1 && pos.NumPawns[weak] == 0)

	p := pos.Pawns[strong][0]
	sk := pos.Pieces[strong][0]
	wk := pos.Pieces[weak][0]
	if p.File() >= board.FileE {
		p = p.MirrorFile()
		sk = sk.MirrorFile()
		wk = wk.MirrorFile()
	}

	push := board.PawnPush(strong)
	pRank := p.RelativeRank(strong)
	draw := false
	switch {
	case wk == p+push:
		if pRank <= board.Rank6 {
			draw = true
		} else if sstm {
			draw = sk == p-push-1 || sk == p-push+1
		} else {
			draw = sk != p-push-1 && sk != p-push+1
		}
	case wk == p+2*push:
		if pRank <= board.Rank5 {
			draw = true
		} else {
			assertSignature(pRank == board.Rank6)
			draw = !sstm || (sk != p-1 && sk != p+1)
		}
	case sk == p-1 || sk == p+1:
		draw = wk == sk+2*push && sstm
	case sk >= p+push-1 && sk <= p+push+1:
		// A pawn still at home keeps its double-step in reserve, so
		// losing the opposition here does not cost the win.
		draw = pRank > board.Rank2 && pRank <= board.Rank4 &&
			wk == sk+2*push && sstm
	}

	// A king trailing its own pawn cannot force its way in front when
	// the defender owns the file ahead: the defender wins the race to
	// the promotion square and falls back keeping the opposition. A
	// defender even one file over loses that race.
	if !draw && wk.File() == p.File() && sk.File() == p.File() &&
		sk.RelativeRank(strong) < pRank && wk.RelativeRank(strong) > pRank {
		promSq := board.NewSquare(p.File(), board.Rank8)
		if strong == board.Black {
			promSq = board.NewSquare(p.File(), board.Rank1)
		}
		if board.Distance(wk, promSq) < board.Distance(sk, promSq) {
			draw = true
		}
	}

	if !draw && p.File() == board.FileA {
		promCorner := board.A8
		if strong == board.Black {
			promCorner = board.A1
		}
		if board.Distance(wk, promCorner) <= 1 {
			draw = true
		} else if sk.File() == board.FileA && wk.File() == board.FileC {
			edge := pRank
			if pRank == board.Rank2 {
				edge++
			}
			if wk.RelativeRank(strong) > edge {
				draw = true
			}
		}
	}

	if draw {
		scale[0], scale[1] = 0, 0
	}
}

// scaleKNPK: knight and rook pawn on the 7th cannot make progress when
// the defender holds the corner.
func scaleKNPK(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 2 && pos.NumPawns[strong] == 1)
	assertSignature(pos.NumPieces[weak] == 1 && pos.NumPawns[weak] == 0)

	p := pos.Pawns[strong][0]
	wk := pos.Pieces[weak][0]
	if strong == board.Black {
		p = p.MirrorRank()
		wk = wk.MirrorRank()
	}
	if p.File() == board.FileH {
		p = p.MirrorFile()
		wk = wk.MirrorFile()
	}
	if p == board.A7 && board.Distance(wk, board.A8) <= 1 {
		scale[0], scale[1] = 0, 0
	}
}

// scaleKBPK: a rook pawn with the wrong-colored bishop is a draw once
// the defending king reaches the promotion corner.
func scaleKBPK(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 2 && pos.NumPawns[strong] == 1)
	assertSignature(pos.NumPieces[weak] == 1 && pos.NumPawns[weak] == 0)

	pf := pos.Pawns[strong][0].File()
	var bishop board.Square
	for i := 1; i < pos.NumPieces[strong]; i++ {
		if pos.Board[pos.Pieces[strong][i]].Type() == board.Bishop {
			bishop = pos.Pieces[strong][i]
		}
	}
	bc := bishop.Color()
	if pf == board.FileH {
		pf = board.FileA
		bc = bc.Other()
	}

	corner := board.A8
	if strong == board.Black {
		corner = board.A1
	}
	if pf == board.FileA && board.Distance(pos.Pieces[weak][0], corner) <= 1 &&
		bc != strong {
		scale[0], scale[1] = 0, 0
	}
}

// scaleKRKP races the rook's king against the pawn. Normalized so the
// strong side is White; the weak pawn runs south toward rank 1.
func scaleKRKP(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 2 && pos.NumPawns[strong] == 0)
	assertSignature(pos.NumPieces[weak] == 1 && pos.NumPawns[weak] == 1)

	bp := pos.Pawns[weak][0]
	wr := pos.Pieces[strong][1]
	wk := pos.Pieces[strong][0]
	bk := pos.Pieces[weak][0]
	if strong == board.Black {
		wr = wr.MirrorRank()
		wk = wk.MirrorRank()
		bk = bk.MirrorRank()
		bp = bp.MirrorRank()
	}

	promSq := board.Square(bp.File())
	tempo := 0
	if pos.SideToMove == strong {
		tempo = 1
	}

	if (wk < bp && wk.File() == bp.File()) ||
		board.Distance(wk, promSq)+1-tempo < board.Distance(bk, promSq) ||
		(board.Distance(bk, bp)-(tempo^1) >= 3 && board.Distance(bk, wr) >= 3) {
		scale[strong] = 16
		scale[weak] = 0
		return
	}

	dist := max(1, board.Distance(bk, promSq)) + board.Distance(bp, promSq)
	if bk == bp+board.South {
		if promSq == board.A1 || promSq == board.H1 {
			return
		}
		dist++
	}
	if wr.File() != bp.File() && wr.Rank() != board.Rank1 {
		dist--
	}
	if tempo == 0 {
		dist--
	}
	if board.Distance(wk, promSq) > dist {
		scale[0], scale[1] = 0, 0
	}
}

// scaleKRPKR covers the classic rook endgame draws: defender on the
// promotion square or in front of the pawn, and the back-rank defense
// against a 7th-rank pawn. Not wired into the dispatch table.
func scaleKRPKR(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 2 && pos.NumPawns[strong] == 1)
	assertSignature(pos.NumPieces[weak] == 2 && pos.NumPawns[weak] == 0)

	wp := pos.Pawns[strong][0]
	wk := pos.Pieces[strong][0]
	wr := pos.Pieces[strong][1]
	bk := pos.Pieces[weak][0]
	br := pos.Pieces[weak][1]
	if strong == board.Black {
		wr = wr.MirrorRank()
		wk = wk.MirrorRank()
		wp = wp.MirrorRank()
		bk = bk.MirrorRank()
		br = br.MirrorRank()
	}

	wpFile := wp.File()
	wpRank := wp.Rank()
	brFile := br.File()
	promSq := board.Square(wpFile) + board.A8
	switch {
	case bk == promSq:
		if brFile > wpFile {
			scale[0], scale[1] = 0, 0
		}
	case bk.File() == wpFile && bk.Rank() > wpRank:
		scale[0], scale[1] = 0, 0
	case wr == promSq && wpRank == board.Rank7 && brFile == wpFile &&
		(bk == board.A7 || bk == board.B7 || bk == board.G7 || bk == board.H7) &&
		((br.Rank() <= board.Rank3 && board.Distance(wk, wp) > 1) ||
			board.Distance(wk, wp) > 2):
		scale[0], scale[1] = 0, 0
	}
}

// scaleKPKB: the bishop holds the pawn when it stands on, or controls,
// a square on the pawn's path. Not wired into the dispatch table.
func scaleKPKB(pos *board.Position, ed *MaterialData, scale *[2]int) {
	strong := ed.StrongSide
	weak := strong.Other()
	assertSignature(pos.NumPieces[strong] == 1 && pos.NumPawns[strong] == 1)
	assertSignature(pos.NumPieces[weak] == 2 && pos.NumPawns[weak] == 0)

	wp := pos.Pawns[strong][0]
	bk := pos.Pieces[weak][0]
	bb := pos.Pieces[weak][1]
	if strong == board.Black {
		wp = wp.MirrorRank()
		bk = bk.MirrorRank()
		bb = bb.MirrorRank()
	}
	promSq := board.Square(wp.File()) + board.A8

	for to := wp + board.North; to != promSq; to += board.North {
		if to == bb {
			scale[0], scale[1] = 0, 0
			return
		}
		if board.PossibleAttack(bb, to, board.WhiteBishop) {
			dir := board.Direction(bb, to)
			sq := bb + dir
			for ; sq != to && sq != bk; sq += dir {
			}
			if sq == to {
				scale[0], scale[1] = 0, 0
			}
			return
		}
	}
}

func assertSignature(cond bool) {
	if board.DebugChecks && !cond {
		panic("endgame function applied to wrong material signature")
	}
}
