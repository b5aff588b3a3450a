package engine

import (
	"testing"

	"github.com/forkme7/daydreamer/internal/board"
)

// posWithHash fabricates a position carrying a chosen hash, which is
// all Get and Put consult.
func posWithHash(h uint64) *board.Position {
	pos := &board.Position{}
	pos.Hash = h
	return pos
}

func TestTransTableRoundTrip(t *testing.T) {
	tt := NewTransTable(1 << 20)

	move := board.NewMove(board.E2, board.E4, board.WhitePawn, board.Empty, board.NoPieceType)
	pos := posWithHash(0xDEADBEEF12345678)
	tt.Put(pos, move, 7, 42, ScoreLowerBound)

	entry := tt.Get(pos)
	if entry == nil {
		t.Fatal("stored entry not found")
	}
	if entry.Move != move || entry.Depth != 7 || entry.Score != 42 ||
		entry.ScoreType != ScoreLowerBound {
		t.Errorf("entry = %+v, want move=%v depth=7 score=42 lower bound", entry, move)
	}
	if entry.Age != 0 {
		t.Errorf("entry age = %d, want current generation 0", entry.Age)
	}

	// A probe after aging refreshes the entry to the new generation.
	tt.IncrementAge()
	entry = tt.Get(pos)
	if entry == nil {
		t.Fatal("entry lost after aging")
	}
	if entry.Age != 1 {
		t.Errorf("entry age = %d, want refreshed generation 1", entry.Age)
	}

	if got := tt.Get(posWithHash(0x1111111111111111)); got != nil {
		t.Errorf("probe of unknown key returned %+v", got)
	}
}

func TestTransTableExactKeyOverwrite(t *testing.T) {
	tt := NewTransTable(1 << 20)
	pos := posWithHash(42)
	m1 := board.NewMove(board.E2, board.E4, board.WhitePawn, board.Empty, board.NoPieceType)
	m2 := board.NewMove(board.D2, board.D4, board.WhitePawn, board.Empty, board.NoPieceType)

	tt.Put(pos, m1, 9, 100, ScoreExact)
	// A shallower result for the same key still overwrites.
	tt.Put(pos, m2, 2, -30, ScoreUpperBound)

	entry := tt.Get(pos)
	if entry == nil {
		t.Fatal("entry not found")
	}
	if entry.Move != m2 || entry.Depth != 2 || entry.Score != -30 ||
		entry.ScoreType != ScoreUpperBound {
		t.Errorf("exact-key update did not overwrite: %+v", entry)
	}
}

// Replacement inside a full bucket: lowest depth goes first within one
// generation, and aged entries are preferred over deep ones.
func TestTransTableReplacement(t *testing.T) {
	tt := NewTransTable(1024)
	numBuckets := uint64(tt.NumEntries() / ttBucketSize)
	keyFor := func(i uint64) uint64 { return (i + 1) * numBuckets } // all in bucket 0

	move := board.NewMove(board.G1, board.F3, board.WhiteKnight, board.Empty, board.NoPieceType)
	depths := []int{5, 3, 8, 1}
	for i, d := range depths {
		tt.Put(posWithHash(keyFor(uint64(i))), move, d, 0, ScoreExact)
	}

	// Same generation, full bucket: the depth-1 entry is the victim.
	tt.Put(posWithHash(keyFor(10)), move, 4, 0, ScoreExact)
	if tt.Get(posWithHash(keyFor(3))) != nil {
		t.Error("depth-1 entry should have been evicted")
	}
	for _, i := range []uint64{0, 1, 2} {
		if tt.Get(posWithHash(keyFor(i))) == nil {
			t.Errorf("deeper entry %d evicted instead", i)
		}
	}
}

// S5 from the design scenarios: after two age increments a stale
// shallow entry must be chosen over deeper but equally stale peers.
func TestTransTableAgeOrdering(t *testing.T) {
	tt := NewTransTable(1024)
	numBuckets := uint64(tt.NumEntries() / ttBucketSize)
	keyFor := func(i uint64) uint64 { return (i + 1) * numBuckets }

	move := board.NewMove(board.G1, board.F3, board.WhiteKnight, board.Empty, board.NoPieceType)
	depths := []int{5, 3, 8, 1}
	for i, d := range depths {
		tt.Put(posWithHash(keyFor(uint64(i))), move, d, 0, ScoreExact)
	}

	tt.IncrementAge()
	tt.IncrementAge()

	// All four entries are two generations old; replace score is
	// 256 - depth, so the depth-1 slot wins.
	tt.Put(posWithHash(keyFor(20)), move, 1, 0, ScoreExact)
	if tt.Get(posWithHash(keyFor(3))) != nil {
		t.Error("stale depth-1 entry should have been evicted")
	}
	if tt.Get(posWithHash(keyFor(2))) == nil {
		t.Error("stale depth-8 entry should have survived")
	}

	// The probe above refreshed the depth-8 entry to the current
	// generation; the new entry is current too, so the next eviction
	// takes one of the two remaining stale slots, not the new one.
	tt.Put(posWithHash(keyFor(21)), move, 1, 0, ScoreExact)
	if tt.Get(posWithHash(keyFor(20))) == nil {
		t.Error("current-generation entry evicted before stale ones")
	}
}

func TestPutLine(t *testing.T) {
	tt := NewTransTable(1 << 20)
	pos := board.NewPosition()

	e2e4, err := pos.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	var u board.Undo
	pos.DoMove(e2e4, &u)
	e7e5, err := pos.ParseMove("e7e5")
	if err != nil {
		t.Fatal(err)
	}
	pos.UndoMove(e2e4, &u)

	line := []board.Move{e2e4, e7e5}
	tt.PutLine(pos, line, 6, 25)

	entry := tt.Get(pos)
	if entry == nil || entry.Move != e2e4 || entry.Depth != 6 || entry.ScoreType != ScoreExact {
		t.Fatalf("root of PV not stored: %+v", entry)
	}

	pos.DoMove(e2e4, &u)
	entry = tt.Get(pos)
	if entry == nil || entry.Move != e7e5 || entry.Depth != 5 {
		t.Fatalf("second ply of PV not stored: %+v", entry)
	}
	pos.UndoMove(e2e4, &u)
}

func TestTransTableClear(t *testing.T) {
	tt := NewTransTable(1 << 20)
	pos := posWithHash(99)
	tt.Put(pos, board.NoMove, 3, 1, ScoreExact)
	tt.Clear()
	if tt.Get(pos) != nil {
		t.Error("entry survived Clear")
	}
	if s := tt.Stats(); s.Occupied != 0 || s.Hits != 0 {
		t.Errorf("stats survived Clear: %+v", s)
	}
}
