package engine

import (
	"github.com/forkme7/daydreamer/internal/board"
)

// EndgameType identifies a recognized material signature.
type EndgameType int

const (
	EgNone EndgameType = iota
	EgWin
	EgDraw
	EgKBNK
	EgKPK
	EgKBPK
	EgKNPK
	EgKRKP
	EgKPKB
	EgKRPKR
	egLast
)

// MaterialData records what the recognizer concluded about a material
// signature: the endgame type, which side is trying to win, and the
// baseline evaluation scale for each side (0..16, 16 = full).
type MaterialData struct {
	EgType     EndgameType
	StrongSide board.Color
	Scale      [2]int
}

type materialKey [2][8]int

// MaterialTable caches MaterialData per material signature. Signatures
// recur constantly within a search, so the classification runs once
// per distinct piece-count vector.
type MaterialTable struct {
	cache map[materialKey]*MaterialData
}

// NewMaterialTable creates an empty material table.
func NewMaterialTable() *MaterialTable {
	return &MaterialTable{cache: make(map[materialKey]*MaterialData)}
}

// Clear drops all cached signatures.
func (mt *MaterialTable) Clear() {
	mt.cache = make(map[materialKey]*MaterialData)
}

// Get returns the MaterialData for the position's signature, computing
// and caching it on first sight.
func (mt *MaterialTable) Get(pos *board.Position) *MaterialData {
	key := materialKey(pos.PieceCount)
	if md, ok := mt.cache[key]; ok {
		return md
	}
	md := classifyMaterial(pos)
	mt.cache[key] = md
	return md
}

// classifyMaterial determines the endgame type of the position's
// material signature. Signatures are matched from either color's
// perspective; the matching orientation decides the strong side.
func classifyMaterial(pos *board.Position) *MaterialData {
	md := &MaterialData{EgType: EgNone, StrongSide: board.White, Scale: [2]int{16, 16}}
	if pos.MaterialEval[board.Black] > pos.MaterialEval[board.White] {
		md.StrongSide = board.Black
	}

	exactly := func(c board.Color, p, n, b, r, q int) bool {
		return pos.NumPawns[c] == p &&
			pos.PieceCount[c][board.Knight] == n &&
			pos.PieceCount[c][board.Bishop] == b &&
			pos.PieceCount[c][board.Rook] == r &&
			pos.PieceCount[c][board.Queen] == q
	}
	bare := func(c board.Color) bool {
		return exactly(c, 0, 0, 0, 0, 0)
	}

	for strong := board.White; strong <= board.Black; strong++ {
		weak := strong.Other()
		found := true
		switch {
		// Dead draws: a lone minor or two knights cannot mate.
		case bare(weak) && (exactly(strong, 0, 1, 0, 0, 0) ||
			exactly(strong, 0, 0, 1, 0, 0) ||
			exactly(strong, 0, 2, 0, 0, 0)):
			md.EgType = EgDraw
			md.Scale = [2]int{0, 0}
		case exactly(strong, 0, 1, 1, 0, 0) && bare(weak):
			md.EgType = EgKBNK
		case exactly(strong, 1, 0, 0, 0, 0) && bare(weak):
			md.EgType = EgKPK
		case exactly(strong, 1, 0, 1, 0, 0) && bare(weak):
			md.EgType = EgKBPK
		case exactly(strong, 1, 1, 0, 0, 0) && bare(weak):
			md.EgType = EgKNPK
		case exactly(strong, 0, 0, 0, 1, 0) && exactly(weak, 1, 0, 0, 0, 0):
			md.EgType = EgKRKP
		case exactly(strong, 1, 0, 0, 1, 0) && exactly(weak, 0, 0, 0, 1, 0):
			md.EgType = EgKRPKR
		case exactly(strong, 1, 0, 0, 0, 0) && exactly(weak, 0, 0, 1, 0, 0):
			md.EgType = EgKPKB
		// Mating material, no pawns, against a bare king.
		case bare(weak) && pos.NumPawns[strong] == 0 &&
			pos.MaterialEval[strong] >= board.RookValue:
			md.EgType = EgWin
			md.Scale[weak] = 0
		default:
			found = false
		}
		if found {
			md.StrongSide = strong
			break
		}
	}

	if bare(board.White) && bare(board.Black) {
		md.EgType = EgDraw
		md.Scale = [2]int{0, 0}
	}

	return md
}
