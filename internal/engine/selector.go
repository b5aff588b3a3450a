package engine

import (
	"math"

	"github.com/forkme7/daydreamer/internal/board"
)

// Generator selects the move generation strategy for one search node.
type Generator int

const (
	RootGen Generator = iota
	PVGen
	NonPVGen
	EscapeGen
	QGen
	QCheckGen
)

type selectionPhase int

const (
	phaseBegin selectionPhase = iota
	phaseEnd
	phaseTrans
	phaseRoot
	phaseEvasions
	phaseGoodTactics
	phaseBadTactics
	phaseKillers
	phaseQuiet
	phaseQSearch
	phaseQSearchCh
)

// phaseTable lists the phases each generator walks through, as data so
// the selection loop stays free of dynamic dispatch.
var phaseTable = [6][]selectionPhase{
	RootGen:   {phaseBegin, phaseRoot, phaseEnd},
	PVGen:     {phaseBegin, phaseTrans, phaseGoodTactics, phaseKillers, phaseQuiet, phaseBadTactics, phaseEnd},
	NonPVGen:  {phaseBegin, phaseTrans, phaseGoodTactics, phaseKillers, phaseQuiet, phaseBadTactics, phaseEnd},
	EscapeGen: {phaseBegin, phaseEvasions, phaseEnd},
	QGen:      {phaseBegin, phaseTrans, phaseQSearch, phaseEnd},
	QCheckGen: {phaseBegin, phaseTrans, phaseQSearchCh, phaseEnd},
}

// orderedMoveCount says how many moves per generator the evasion and
// quiescence phases select by scanning for the highest score; beyond
// that those phases return moves in generation order. The tactical and
// quiet phases always scan for the best remaining move. Root is 0
// because root moves are pre-sorted.
var orderedMoveCount = [6]int{0, 256, 16, 16, 4, 4}

// Move ordering score bands. The grain keeps history scores (bounded
// by MaxHistory) below every band.
const (
	scoreGrain      = MaxHistory
	hashMoveScore   = 1000 * scoreGrain
	killerMoveScore = 700 * scoreGrain
	goodTacticScore = 800 * scoreGrain
)

// MoveSelector lazily generates and orders the moves of one search
// node. All buffers live inline so creating a selector never
// allocates; selectors nest naturally across the recursion.
type MoveSelector struct {
	pos       *board.Position
	data      *SearchData
	generator Generator
	phases    []selectionPhase
	phaseIdx  int

	hashMove   [2]board.Move
	killers    [5]board.Move
	numKillers int
	mateKiller board.Move

	depth        int
	ply          int
	orderedMoves int
	movesSoFar   int
	singleReply  bool

	moves        []board.Move
	scores       []int
	movesEnd     int
	currentIndex int

	badTactics      [board.MaxMoves]board.Move
	badTacticScores [board.MaxMoves]int
	numBadTactics   int

	buf      [board.MaxMoves]board.Move
	scoreBuf [board.MaxMoves]int
}

// Init readies the selector for one node. node carries the current
// ply's killers and mate killer; prev2 the killers from two plies up
// (nil near the root). A position in check overrides any non-root
// generator with escape generation.
func (sel *MoveSelector) Init(pos *board.Position, data *SearchData, genType Generator,
	node, prev2 *SearchNode, hashMove board.Move, depth, ply int) {

	sel.pos = pos
	sel.data = data
	if pos.IsCheck() && genType != RootGen {
		sel.generator = EscapeGen
	} else {
		sel.generator = genType
	}
	sel.phases = phaseTable[sel.generator]
	sel.phaseIdx = 0
	sel.hashMove[0] = hashMove
	sel.hashMove[1] = board.NoMove
	sel.depth = depth
	sel.ply = ply
	sel.movesSoFar = 0
	sel.numBadTactics = 0
	sel.singleReply = false
	sel.orderedMoves = orderedMoveCount[sel.generator]

	sel.numKillers = 0
	for i := range sel.killers {
		sel.killers[i] = board.NoMove
	}
	sel.mateKiller = board.NoMove
	if node != nil {
		sel.mateKiller = node.MateKiller
		if node.Killers[0] != board.NoMove {
			sel.killers[0] = node.Killers[0]
			sel.numKillers++
			if node.Killers[1] != board.NoMove {
				sel.killers[1] = node.Killers[1]
				sel.numKillers++
			}
		}
		if prev2 != nil {
			s2k := prev2.Killers
			if s2k[0] != board.NoMove && s2k[0] != sel.killers[0] && s2k[0] != sel.killers[1] {
				sel.killers[sel.numKillers] = s2k[0]
				sel.numKillers++
				if s2k[1] != board.NoMove && s2k[1] != sel.killers[0] && s2k[1] != sel.killers[1] {
					sel.killers[sel.numKillers] = s2k[1]
					sel.numKillers++
				}
			}
		}
	}

	sel.generatePhase()
}

// HasSingleReply returns true when the side to move is in check with
// exactly one evasion. The search uses it to extend.
func (sel *MoveSelector) HasSingleReply() bool {
	return sel.phase() == phaseEvasions && sel.movesEnd == 1
}

func (sel *MoveSelector) phase() selectionPhase {
	return sel.phases[sel.phaseIdx]
}

// generatePhase advances to the next phase and fills the move buffer
// for it.
func (sel *MoveSelector) generatePhase() {
	sel.phaseIdx++
	sel.movesEnd = 0
	sel.currentIndex = 0
	sel.moves = sel.buf[:0]
	sel.scores = sel.scoreBuf[:0]

	switch sel.phase() {
	case phaseEnd:
		return
	case phaseTrans:
		sel.moves = sel.hashMove[:]
		sel.movesEnd = 1
	case phaseEvasions:
		sel.moves = sel.pos.GenerateEvasions(sel.buf[:0])
		sel.movesEnd = len(sel.moves)
		sel.scoreMoves()
	case phaseRoot:
		sel.sortRootMoves()
	case phaseGoodTactics:
		sel.moves = sel.pos.GeneratePseudoTacticalMoves(sel.buf[:0])
		sel.movesEnd = len(sel.moves)
		sel.numBadTactics = 0
		sel.scoreTactics()
	case phaseBadTactics:
		sel.moves = sel.badTactics[:sel.numBadTactics]
		sel.scores = sel.badTacticScores[:sel.numBadTactics]
		sel.movesEnd = sel.numBadTactics
	case phaseKillers:
		sel.moves = sel.killers[:sel.numKillers]
		sel.movesEnd = sel.numKillers
	case phaseQuiet:
		sel.moves = sel.pos.GeneratePseudoQuietMoves(sel.buf[:0])
		sel.movesEnd = len(sel.moves)
		sel.scoreQuiet()
	case phaseQSearch:
		sel.moves = sel.pos.GenerateQuiescenceMoves(sel.buf[:0], false)
		sel.movesEnd = len(sel.moves)
		sel.scoreMoves()
	case phaseQSearchCh:
		sel.moves = sel.pos.GenerateQuiescenceMoves(sel.buf[:0], true)
		sel.movesEnd = len(sel.moves)
		sel.scoreMoves()
	}

	sel.singleReply = sel.generator == EscapeGen && sel.movesEnd == 1
}

// SelectMove returns the next move to search, or NoMove when the node
// is exhausted. In the evasion and quiescence phases the first
// orderedMoves moves come back best score first and the rest in
// generation order; the tactical and quiet phases always return the
// best-scored remaining move.
func (sel *MoveSelector) SelectMove() board.Move {
	for {
		switch sel.phase() {
		case phaseEnd:
			return board.NoMove

		case phaseTrans:
			for sel.currentIndex < sel.movesEnd {
				move := sel.moves[sel.currentIndex]
				sel.currentIndex++
				if move == board.NoMove || !sel.pos.IsPlausibleMoveLegal(move) {
					continue
				}
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseKillers:
			for sel.currentIndex < sel.movesEnd {
				move := sel.moves[sel.currentIndex]
				sel.currentIndex++
				if move == board.NoMove || move == sel.hashMove[0] ||
					!sel.pos.IsPlausibleMoveLegal(move) {
					continue
				}
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseRoot:
			if sel.currentIndex < sel.movesEnd {
				move := sel.moves[sel.currentIndex]
				sel.currentIndex++
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseEvasions:
			if sel.currentIndex >= sel.orderedMoves {
				if sel.currentIndex < sel.movesEnd {
					move := sel.moves[sel.currentIndex]
					sel.currentIndex++
					sel.movesSoFar++
					return move
				}
			} else if move := sel.getBestMove(nil); move != board.NoMove {
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseGoodTactics:
			for {
				move := sel.getBestMove(nil)
				if move == board.NoMove {
					break
				}
				if move == sel.hashMove[0] || !sel.pos.IsPseudoMoveLegal(move) {
					continue
				}
				if see := sel.pos.StaticExchangeEval(move); see < 0 {
					sel.badTacticScores[sel.numBadTactics] = see
					sel.badTactics[sel.numBadTactics] = move
					sel.numBadTactics++
					continue
				}
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseQuiet:
			for {
				move := sel.getBestMove(nil)
				if move == board.NoMove {
					break
				}
				if move == sel.hashMove[0] || sel.isKiller(move) ||
					!sel.pos.IsPseudoMoveLegal(move) {
					continue
				}
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}

		case phaseBadTactics:
			if sel.currentIndex < sel.movesEnd {
				move := sel.moves[sel.currentIndex]
				sel.currentIndex++
				sel.movesSoFar++
				return move
			}

		case phaseQSearch, phaseQSearchCh:
			// Generation-order tail after the ordered prefix is spent.
			tailDone := false
			for sel.currentIndex >= sel.orderedMoves {
				if sel.currentIndex >= sel.movesEnd {
					tailDone = true
					break
				}
				move := sel.moves[sel.currentIndex]
				sel.currentIndex++
				if move == sel.hashMove[0] || !sel.pos.IsPseudoMoveLegal(move) {
					continue
				}
				sel.movesSoFar++
				return move
			}
			if tailDone {
				break
			}
			for {
				var bestScore int
				move := sel.getBestMove(&bestScore)
				if move == board.NoMove {
					break
				}
				// Quiet underpromotions are almost never worth a
				// quiescence node.
				if move.IsPromotion() && move.Promote() != board.Queen &&
					!move.IsCapture() && bestScore < MaxHistory {
					continue
				}
				if move == sel.hashMove[0] || !sel.pos.IsPseudoMoveLegal(move) {
					continue
				}
				sel.pos.CheckPseudoMoveLegality(move)
				sel.movesSoFar++
				return move
			}
		}

		if sel.phase() == phaseEnd {
			return board.NoMove
		}
		sel.generatePhase()
	}
}

// getBestMove swaps the highest-scored remaining move to the front and
// returns it.
func (sel *MoveSelector) getBestMove(score *int) board.Move {
	offset := sel.currentIndex
	bestScore := math.MinInt
	index := -1
	for i := offset; i < sel.movesEnd; i++ {
		if sel.scores[i] > bestScore {
			bestScore = sel.scores[i]
			index = i
		}
	}
	if index == -1 {
		return board.NoMove
	}
	move := sel.moves[index]
	sel.moves[index] = sel.moves[offset]
	sel.scores[index] = sel.scores[offset]
	sel.moves[offset] = move
	sel.scores[offset] = bestScore
	sel.currentIndex++
	if score != nil {
		*score = bestScore
	}
	return move
}

func (sel *MoveSelector) isKiller(m board.Move) bool {
	for _, k := range sel.killers {
		if m == k && m != board.NoMove {
			return true
		}
	}
	return false
}

// scoreMoves identifies the key classes of moves - hash move, mate
// killer, tactics, killers - and scores the rest by history.
func (sel *MoveSelector) scoreMoves() {
	sel.scores = sel.scoreBuf[:sel.movesEnd]
	for i := 0; i < sel.movesEnd; i++ {
		move := sel.moves[i]
		var score int
		switch {
		case move == sel.hashMove[0]:
			score = hashMoveScore
		case move == sel.mateKiller:
			score = hashMoveScore - 1
		case move.IsCapture() || move.IsPromotion():
			score = scoreTacticalMove(sel.pos, move)
		case move == sel.killers[0]:
			score = killerMoveScore
		case move == sel.killers[1]:
			score = killerMoveScore - 1
		case move == sel.killers[2]:
			score = killerMoveScore - 2
		case move == sel.killers[3]:
			score = killerMoveScore - 3
		default:
			score = sel.data.History.Get(move)
		}
		sel.scores[i] = score
	}
}

// scoreTactics orders the tactical phase by victim-before-attacker,
// penalizing underpromotions.
func (sel *MoveSelector) scoreTactics() {
	sel.scores = sel.scoreBuf[:sel.movesEnd]
	for i := 0; i < sel.movesEnd; i++ {
		move := sel.moves[i]
		score := 6*int(move.CaptureType()) - int(move.PieceType())
		if promo := move.Promote(); promo != board.NoPieceType && promo != board.Queen {
			score -= 1000
		}
		sel.scores[i] = score
	}
}

func (sel *MoveSelector) scoreQuiet() {
	sel.scores = sel.scoreBuf[:sel.movesEnd]
	for i := 0; i < sel.movesEnd; i++ {
		sel.scores[i] = sel.data.History.Get(sel.moves[i])
	}
}

// scoreTacticalMove scores a capture or promotion. Winning or equal
// tactics land in a band above the killers, losing ones far below.
func scoreTacticalMove(pos *board.Position, move board.Move) int {
	var good bool
	piece := move.PieceType()
	promote := move.Promote()
	capture := move.CaptureType()
	if promote != board.NoPieceType && promote != board.Queen {
		good = false
	} else if capture != board.NoPieceType && piece <= capture {
		good = true
	} else {
		good = pos.StaticExchangeEval(move) >= 0
	}
	score := 6*int(capture) - int(piece) + 5
	if good {
		return score + goodTacticScore
	}
	return score - goodTacticScore
}

// sortRootMoves orders the root move list: by qsearch score in the
// first iterations, then by subtree size (or by score when several PVs
// are wanted). The hash move always sorts first.
func (sel *MoveSelector) sortRootMoves() {
	rootMoves := sel.data.RootMoves
	var scores [board.MaxMoves]uint64
	n := 0
	for i := range rootMoves {
		rm := &rootMoves[i]
		if rm.Move == board.NoMove {
			break
		}
		sel.buf[n] = rm.Move
		switch {
		case sel.depth <= 2:
			scores[n] = uint64(int64(rm.QSearchScore) + Infinity)
		case sel.data.Options.MultiPV > 1:
			scores[n] = uint64(int64(rm.Score) + Infinity)
		default:
			scores[n] = rm.Nodes
		}
		if rm.Move == sel.hashMove[0] {
			scores[n] = math.MaxUint64
		}
		n++
	}
	sel.movesEnd = n
	sel.moves = sel.buf[:n]

	for i := 1; i < n; i++ {
		move := sel.moves[i]
		score := scores[i]
		j := i - 1
		for ; j >= 0 && scores[j] < score; j-- {
			scores[j+1] = scores[j]
			sel.moves[j+1] = sel.moves[j]
		}
		scores[j+1] = score
		sel.moves[j+1] = move
	}
}
