// Package engine implements the search core: evaluation, endgame
// recognition, the transposition table, move selection and the
// iterative-deepening driver.
package engine

import (
	"github.com/forkme7/daydreamer/internal/board"
)

// Score constants. Mate and won-endgame sentinels lie well outside the
// range static evaluation can produce.
const (
	Infinity   = 30000
	MateScore  = 29000
	WonEndgame = 10000
	DrawValue  = 0
	MaxPly     = 128
)

// InitEval initializes the evaluation tables. The board package builds
// them at init time already; this entry point exists for explicit
// engine resets.
func InitEval() {
	board.InitEval()
}

// SimpleEval evaluates the position from the side to move's
// perspective using just material and piece-square bonuses. Both are
// maintained incrementally by the board, so this is a handful of adds.
func SimpleEval(pos *board.Position) int {
	side := pos.SideToMove
	xside := side.Other()
	return pos.MaterialEval[side] - pos.MaterialEval[xside] +
		pos.PieceSquareEval[side] - pos.PieceSquareEval[xside]
}

// InsufficientMaterial returns true when neither side can possibly
// deliver mate: no pawns anywhere and both sides below a rook of
// material.
func InsufficientMaterial(pos *board.Position) bool {
	return pos.PieceCount[board.White][board.Pawn] == 0 &&
		pos.PieceCount[board.Black][board.Pawn] == 0 &&
		pos.MaterialEval[board.White] < board.RookValue &&
		pos.MaterialEval[board.Black] < board.RookValue
}

// IsDraw returns true if the position is drawn by the 50-move rule,
// insufficient material, or threefold repetition.
func IsDraw(pos *board.Position) bool {
	return pos.FiftyMoveCounter >= 100 ||
		InsufficientMaterial(pos) ||
		pos.IsRepetition(3)
}

// Evaluate produces the leaf score for the search: the simple
// evaluation, overridden or rescaled by endgame knowledge when the
// material signature calls for it.
func Evaluate(pos *board.Position, mt *MaterialTable) int {
	ed := mt.Get(pos)

	if score, ok := EndgameScore(pos, ed); ok {
		return score
	}

	scale := DetermineEndgameScale(pos, ed)
	if scale[board.White] == 16 && scale[board.Black] == 16 {
		return SimpleEval(pos)
	}

	side := pos.SideToMove
	xside := side.Other()
	our := (pos.MaterialEval[side] + pos.PieceSquareEval[side]) * scale[side] / 16
	their := (pos.MaterialEval[xside] + pos.PieceSquareEval[xside]) * scale[xside] / 16
	return our - their
}
