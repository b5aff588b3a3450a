package engine

import (
	"fmt"
	"unsafe" // for sizeof

	"github.com/forkme7/daydreamer/internal/board"
)

// ScoreType classifies a stored score relative to the search window.
type ScoreType uint8

const (
	ScoreExact      ScoreType = iota // score was inside the window
	ScoreLowerBound                  // failed high: true score >= stored
	ScoreUpperBound                  // failed low: true score <= stored
)

// TTEntry is one slot of the transposition table. A zero key means the
// slot is empty.
type TTEntry struct {
	Key       uint64
	Move      board.Move
	Depth     int16
	Score     int16
	ScoreType ScoreType
	Age       uint8
}

const ttBucketSize = 4
const ttGenerationLimit = 8

// TTStats tracks table traffic. None of it is load-bearing; it feeds
// the hashstats diagnostic output.
type TTStats struct {
	Hits      int
	Misses    int
	Occupied  int
	Evictions int
	Alpha     int
	Beta      int
	Exact     int
}

// TransTable is a bucketed transposition table. Buckets hold four
// entries; replacement prefers stale generations, then shallow depth.
type TransTable struct {
	entries       []TTEntry
	numBuckets    uint64
	generation    uint8
	ageScoreTable [ttGenerationLimit]int
	stats         TTStats
}

// NewTransTable creates a transposition table whose bucket count is the
// largest power of two that keeps twice the table's size within
// maxBytes, which must be at least 1KB.
func NewTransTable(maxBytes uint64) *TransTable {
	if maxBytes < 1024 {
		panic(fmt.Sprintf("transposition table size %d too small", maxBytes))
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	size := entrySize * ttBucketSize
	numBuckets := uint64(1)
	for size <= maxBytes>>2 {
		size <<= 1
		numBuckets <<= 1
	}

	tt := &TransTable{
		entries:    make([]TTEntry, numBuckets*ttBucketSize),
		numBuckets: numBuckets,
	}
	tt.setAge(0)
	return tt
}

// Clear wipes every entry and all statistics.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.stats = TTStats{}
}

// setAge rebuilds the replacement-score table so that the current
// generation scores 0 and each older generation 128 per age step.
func (tt *TransTable) setAge(age uint8) {
	tt.generation = age
	for i := 0; i < ttGenerationLimit; i++ {
		diff := int(tt.generation) - i
		if diff < 0 {
			diff += ttGenerationLimit
		}
		tt.ageScoreTable[i] = diff * 128
	}
}

// IncrementAge moves the table to the next generation. Called once per
// deepening iteration so older results become preferred victims.
func (tt *TransTable) IncrementAge() {
	tt.setAge((tt.generation + 1) % ttGenerationLimit)
}

func (tt *TransTable) replaceScore(e *TTEntry) int {
	return tt.ageScoreTable[e.Age] - int(e.Depth)
}

// Get returns the entry for the position if present, refreshing its
// age. The pointer aliases table memory; it is valid until the next
// Put into the same bucket.
func (tt *TransTable) Get(pos *board.Position) *TTEntry {
	base := (pos.Hash % tt.numBuckets) * ttBucketSize
	for i := uint64(0); i < ttBucketSize; i++ {
		entry := &tt.entries[base+i]
		if entry.Key == 0 || entry.Key != pos.Hash {
			continue
		}
		tt.stats.Hits++
		entry.Age = tt.generation
		return entry
	}
	tt.stats.Misses++
	return nil
}

// Put stores a search result. An entry with the same key is always
// overwritten; otherwise the bucket's most replaceable slot (oldest
// generation, then shallowest depth) is evicted.
func (tt *TransTable) Put(pos *board.Position, move board.Move, depth, score int, scoreType ScoreType) {
	base := (pos.Hash % tt.numBuckets) * ttBucketSize
	var victim *TTEntry
	bestReplaceScore := -1 << 31

	for i := uint64(0); i < ttBucketSize; i++ {
		entry := &tt.entries[base+i]
		if entry.Key == pos.Hash {
			tt.countBound(scoreType, 1)
			tt.countBound(entry.ScoreType, -1)
			entry.Age = tt.generation
			entry.Depth = int16(depth)
			entry.Move = move
			entry.Score = int16(score)
			entry.ScoreType = scoreType
			return
		}
		if rs := tt.replaceScore(entry); rs > bestReplaceScore {
			victim = entry
			bestReplaceScore = rs
		}
	}

	if victim.Key == 0 || victim.Age != tt.generation {
		tt.stats.Occupied++
	} else {
		tt.stats.Evictions++
	}
	tt.countBound(scoreType, 1)
	victim.Age = tt.generation
	victim.Key = pos.Hash
	victim.Move = move
	victim.Depth = int16(depth)
	victim.Score = int16(score)
	victim.ScoreType = scoreType
}

// PutLine walks a move sequence, storing each position as an exact
// score at decreasing depth. Used to re-insert the PV at the end of
// each deepening iteration in case parts of it were evicted.
func (tt *TransTable) PutLine(pos *board.Position, moves []board.Move, depth, score int) {
	if len(moves) == 0 || moves[0] == board.NoMove {
		return
	}
	tt.Put(pos, moves[0], depth, score, ScoreExact)
	var undo board.Undo
	pos.DoMove(moves[0], &undo)
	tt.PutLine(pos, moves[1:], depth-1, score)
	pos.UndoMove(moves[0], &undo)
}

func (tt *TransTable) countBound(st ScoreType, delta int) {
	switch st {
	case ScoreLowerBound:
		tt.stats.Beta += delta
	case ScoreUpperBound:
		tt.stats.Alpha += delta
	case ScoreExact:
		tt.stats.Exact += delta
	}
}

// NumEntries returns the table capacity in entries.
func (tt *TransTable) NumEntries() int {
	return len(tt.entries)
}

// Stats returns a copy of the traffic counters.
func (tt *TransTable) Stats() TTStats {
	return tt.stats
}

// StatsString formats the table statistics the way the hashstats
// command reports them.
func (tt *TransTable) StatsString() string {
	numEntries := len(tt.entries)
	s := tt.stats
	probes := s.Hits + s.Misses
	if probes == 0 {
		probes = 1
	}
	return fmt.Sprintf("hash entries %d filled: %d (%.2f%%) evictions: %d "+
		"hits: %d (%.2f%%) misses: %d (%.2f%%) alpha: %d beta: %d exact: %d",
		numEntries,
		s.Occupied, float64(s.Occupied)/float64(numEntries)*100,
		s.Evictions,
		s.Hits, float64(s.Hits)/float64(probes)*100,
		s.Misses, float64(s.Misses)/float64(probes)*100,
		s.Alpha, s.Beta, s.Exact)
}

// Mate scores are stored relative to the probing node, so they need a
// ply adjustment in each direction.

// AdjustScoreFromTT converts a stored score to the current ply.
func AdjustScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT converts a search score for storage.
func AdjustScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
