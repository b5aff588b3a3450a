package engine

import (
	"github.com/forkme7/daydreamer/internal/board"
)

// MaxHistory caps quiet-move history scores. It doubles as the scoring
// grain of the move selector, which keeps history scores strictly below
// the winning-tactic, killer and hash bands; losing tactics score below
// history.
const MaxHistory = 512

// History is the quiet-move history heuristic, indexed by moving piece
// and destination square.
type History struct {
	scores [2048]int
}

// HistoryIndex maps a move to its history slot.
func HistoryIndex(m board.Move) int {
	return int(m.Piece())<<7 | int(m.To())
}

// Get returns the history score for a move.
func (h *History) Get(m board.Move) int {
	return h.scores[HistoryIndex(m)]
}

// Add credits a move that caused a cutoff at the given depth. When any
// score reaches the cap the whole table is halved so relative order
// survives.
func (h *History) Add(m board.Move, depth int) {
	idx := HistoryIndex(m)
	h.scores[idx] += depth * depth
	if h.scores[idx] >= MaxHistory {
		for i := range h.scores {
			h.scores[i] /= 2
		}
	}
}

// Clear zeroes the table.
func (h *History) Clear() {
	for i := range h.scores {
		h.scores[i] = 0
	}
}
