package engine

import (
	"github.com/forkme7/daydreamer/internal/board"
	"github.com/forkme7/daydreamer/internal/logging"
)

var log = logging.GetLog("engine")

// Engine ties the search core together: it owns the transposition
// table, the material cache and the search state, and exposes the
// operations the UCI layer drives. The search itself is
// single-threaded; only the status flag is shared with the I/O
// goroutine.
type Engine struct {
	tt   *TransTable
	data *SearchData
}

// New creates an engine with a transposition table of the given size
// in megabytes.
func New(hashMB int) *Engine {
	tt := NewTransTable(uint64(hashMB) << 20)
	e := &Engine{
		tt:   tt,
		data: NewSearchData(tt),
	}
	log.Infof("transposition table: %d entries", tt.NumEntries())
	return e
}

// Data exposes the search state for the UCI layer (status flag,
// options, info callback).
func (e *Engine) Data() *SearchData {
	return e.data
}

// Options returns the engine's mutable option block.
func (e *Engine) Options() *Options {
	return &e.data.Options
}

// ResizeHash replaces the transposition table with one of the given
// size in megabytes.
func (e *Engine) ResizeHash(hashMB int) {
	e.tt = NewTransTable(uint64(hashMB) << 20)
	e.data.TT = e.tt
	e.data.Options.HashMB = hashMB
	log.Infof("transposition table resized: %d entries", e.tt.NumEntries())
}

// NewGame clears every cache that carries state between games.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.data.Material.Clear()
	e.data.History.Clear()
	e.data.bestMove = board.NoMove
}

// Search runs an iterative deepening search and returns the best move.
func (e *Engine) Search(pos *board.Position, limits Limits) board.Move {
	return e.data.DeepeningSearch(pos, limits)
}

// Stop asks a running search to unwind.
func (e *Engine) Stop() {
	e.data.SetStatus(EngineAborted)
}

// PonderHit switches a pondering search onto the clock.
func (e *Engine) PonderHit() {
	if e.data.Status() == EnginePondering {
		e.data.SetStatus(EngineThinking)
	}
}

// TT returns the transposition table, for diagnostics.
func (e *Engine) TT() *TransTable {
	return e.tt
}

// Evaluate returns the static evaluation of a position, endgame
// knowledge included.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos, e.data.Material)
}

// Perft counts move-tree leaves, for movegen debugging.
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var buf [board.MaxMoves]board.Move
	moves := pos.GenerateLegalMoves(buf[:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		var u board.Undo
		pos.DoMove(m, &u)
		nodes += e.Perft(pos, depth-1)
		pos.UndoMove(m, &u)
	}
	return nodes
}

// Divide returns the perft count under each root move and their total.
func (e *Engine) Divide(pos *board.Position, depth int) (map[string]uint64, uint64) {
	var buf [board.MaxMoves]board.Move
	moves := pos.GenerateLegalMoves(buf[:0])
	counts := make(map[string]uint64, len(moves))
	var total uint64
	for _, m := range moves {
		var u board.Undo
		pos.DoMove(m, &u)
		n := e.Perft(pos, depth-1)
		pos.UndoMove(m, &u)
		counts[m.String()] = n
		total += n
	}
	return counts, total
}

// ScoreToUCI renders a score as a UCI score fragment ("cp 35" or
// "mate 4").
func ScoreToUCI(score int) (kind string, value int) {
	if score > MateScore-MaxPly {
		return "mate", (MateScore - score + 1) / 2
	}
	if score < -MateScore+MaxPly {
		return "mate", -(MateScore + score + 1) / 2
	}
	return "cp", score
}
