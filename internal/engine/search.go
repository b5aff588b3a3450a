package engine

import (
	"sync/atomic"
	"time"

	"github.com/forkme7/daydreamer/internal/board"
)

// EngineStatus is the cooperative cancellation flag. The I/O layer
// flips it to EngineAborted; the search polls it at a coarse node
// cadence and unwinds with its best result so far.
type EngineStatus int32

const (
	EngineThinking EngineStatus = iota
	EnginePondering
	EngineAborted
)

// Options holds the engine settings the search consults.
type Options struct {
	MultiPV int
	Ponder  bool
	HashMB  int
}

// DefaultOptions returns the option defaults advertised over UCI.
func DefaultOptions() Options {
	return Options{MultiPV: 1, Ponder: false, HashMB: 64}
}

// SearchNode is the per-ply search state the move selector reads.
type SearchNode struct {
	Killers    [2]board.Move
	MateKiller board.Move
}

// RootMove tracks one legal root move across iterations. The subtree
// node counts feed root move ordering.
type RootMove struct {
	Move         board.Move
	Score        int
	QSearchScore int
	Nodes        uint64
}

// SearchInfo is a progress report for one completed iteration.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []board.Move
}

// PVTable stores the principal variation triangularly.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// SearchData owns all state of one running search: position, stack,
// transposition table, history, root move list and limits. It is
// created once and reused across searches.
type SearchData struct {
	Pos      *board.Position
	TT       *TransTable
	Material *MaterialTable
	History  History
	Options  Options

	RootMoves []RootMove
	Stack     [MaxPly]SearchNode

	NodesSearched uint64
	status        atomic.Int32

	// firstIteration suppresses aborts until depth 1 completes, so a
	// stop that races the search start still yields a searched move.
	firstIteration bool

	tm        TimeManager
	limits    Limits
	startTime time.Time

	pv        PVTable
	bestMove  board.Move
	bestScore int
	bestDepth int

	// OnInfo, when set, is called after every completed iteration.
	OnInfo func(SearchInfo)
}

// NewSearchData creates search state bound to a transposition table.
func NewSearchData(tt *TransTable) *SearchData {
	return &SearchData{
		TT:       tt,
		Material: NewMaterialTable(),
		Options:  DefaultOptions(),
	}
}

// Status returns the engine status flag.
func (s *SearchData) Status() EngineStatus {
	return EngineStatus(s.status.Load())
}

// SetStatus sets the engine status flag. Safe to call from the I/O
// goroutine while the search runs.
func (s *SearchData) SetStatus(st EngineStatus) {
	s.status.Store(int32(st))
}

func (s *SearchData) aborted() bool {
	return !s.firstIteration && s.Status() == EngineAborted
}

// Reset clears the per-search state that should not leak between
// searches.
func (s *SearchData) Reset() {
	s.NodesSearched = 0
	s.RootMoves = s.RootMoves[:0]
	s.Stack = [MaxPly]SearchNode{}
	s.pv = PVTable{}
	s.bestMove = board.NoMove
	s.bestScore = -Infinity
	s.bestDepth = 0
}

// BestMove returns the best move of the last search.
func (s *SearchData) BestMove() board.Move {
	return s.bestMove
}

// BestScore returns the score of the last search.
func (s *SearchData) BestScore() int {
	return s.bestScore
}

// BestDepth returns the deepest completed iteration of the last search.
func (s *SearchData) BestDepth() int {
	return s.bestDepth
}

// PV returns the principal variation of the last search.
func (s *SearchData) PV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	copy(pv, s.pv.moves[0][:s.pv.length[0]])
	return pv
}

// DeepeningSearch runs iterative deepening on pos under the given
// limits and returns the best move found.
func (s *SearchData) DeepeningSearch(pos *board.Position, limits Limits) board.Move {
	s.Pos = pos
	s.limits = limits
	s.Reset()
	s.startTime = time.Now()
	s.tm.Init(limits, pos.SideToMove, s.Options.Ponder || limits.Ponder)
	if limits.Ponder {
		s.SetStatus(EnginePondering)
	} else {
		s.SetStatus(EngineThinking)
	}

	s.initRootMoves()
	if len(s.RootMoves) == 0 {
		return board.NoMove
	}

	maxDepth := MaxPly - 1
	if limits.Depth > 0 && limits.Depth < maxDepth {
		maxDepth = limits.Depth
	}

	s.firstIteration = true
	for depth := 1; depth <= maxDepth; depth++ {
		s.TT.IncrementAge()
		score := s.searchRoot(depth)
		if s.aborted() {
			break
		}
		s.firstIteration = false

		s.bestScore = score
		s.bestDepth = depth
		pv := s.PV()
		s.TT.PutLine(s.Pos, pv, depth, score)

		if s.OnInfo != nil {
			s.OnInfo(SearchInfo{
				Depth: depth,
				Score: score,
				Nodes: s.NodesSearched,
				Time:  time.Since(s.startTime),
				PV:    pv,
			})
		}

		// A forced mate needs no deeper confirmation.
		if score > MateScore-MaxPly || score < -MateScore+MaxPly {
			break
		}
		if s.Status() != EnginePondering && s.tm.PastTarget() {
			break
		}
	}

	s.SetStatus(EngineAborted)
	return s.bestMove
}

// initRootMoves builds the root move list with a quiescence score per
// move for the first iterations' ordering.
func (s *SearchData) initRootMoves() {
	var buf [board.MaxMoves]board.Move
	legal := s.Pos.GenerateLegalMoves(buf[:0])
	s.RootMoves = s.RootMoves[:0]
	for _, m := range legal {
		var u board.Undo
		s.Pos.DoMove(m, &u)
		qscore := -s.qsearch(1, -Infinity, Infinity, 0)
		s.Pos.UndoMove(m, &u)
		s.RootMoves = append(s.RootMoves, RootMove{Move: m, QSearchScore: qscore})
	}
	if s.bestMove == board.NoMove && len(s.RootMoves) > 0 {
		s.bestMove = s.RootMoves[0].Move
	}
}

func (s *SearchData) rootMove(m board.Move) *RootMove {
	for i := range s.RootMoves {
		if s.RootMoves[i].Move == m {
			return &s.RootMoves[i]
		}
	}
	return nil
}

// searchRoot searches all root moves at the given depth, maintaining
// the principal variation and per-move subtree sizes.
func (s *SearchData) searchRoot(depth int) int {
	pos := s.Pos
	alpha, beta := -Infinity, Infinity

	hashMove := board.NoMove
	if entry := s.TT.Get(pos); entry != nil {
		hashMove = entry.Move
	}
	if s.bestMove != board.NoMove {
		hashMove = s.bestMove
	}

	var sel MoveSelector
	sel.Init(pos, s, RootGen, &s.Stack[0], nil, hashMove, depth, 0)

	s.pv.length[0] = 0
	bestScore := -Infinity
	for m := sel.SelectMove(); m != board.NoMove; m = sel.SelectMove() {
		rm := s.rootMove(m)
		if rm == nil {
			continue
		}
		nodesBefore := s.NodesSearched

		var u board.Undo
		pos.DoMove(m, &u)
		var score int
		if bestScore == -Infinity {
			score = -s.search(depth-1, 1, -beta, -alpha, true)
		} else {
			score = -s.search(depth-1, 1, -alpha-1, -alpha, false)
			if score > alpha && !s.aborted() {
				score = -s.search(depth-1, 1, -beta, -alpha, true)
			}
		}
		pos.UndoMove(m, &u)

		rm.Nodes += s.NodesSearched - nodesBefore
		if s.aborted() {
			break
		}
		rm.Score = score

		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
			s.bestMove = m
			s.updatePV(0, m)
		}
	}
	return bestScore
}

// search is the negamax alpha-beta recursion driven by the move
// selector.
func (s *SearchData) search(depth, ply, alpha, beta int, isPV bool) int {
	if s.poll() {
		return 0
	}
	s.NodesSearched++
	s.pv.length[ply] = ply

	pos := s.Pos
	if ply >= MaxPly-1 {
		return Evaluate(pos, s.Material)
	}
	if IsDraw(pos) {
		return DrawValue
	}

	hashMove := board.NoMove
	if entry := s.TT.Get(pos); entry != nil {
		hashMove = entry.Move
		if !isPV && int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.ScoreType {
			case ScoreExact:
				return score
			case ScoreLowerBound:
				if score > alpha {
					alpha = score
				}
			case ScoreUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		s.NodesSearched--
		return s.qsearch(ply, alpha, beta, 0)
	}

	inCheck := pos.IsCheck()
	gen := NonPVGen
	if isPV {
		gen = PVGen
	}
	var prev2 *SearchNode
	if ply >= 2 {
		prev2 = &s.Stack[ply-2]
	}
	node := &s.Stack[ply]

	var sel MoveSelector
	sel.Init(pos, s, gen, node, prev2, hashMove, depth, ply)

	// A forced reply costs nothing to look at more deeply.
	ext := 0
	if sel.HasSingleReply() {
		ext = 1
	}

	bestScore := -Infinity
	bestMove := board.NoMove
	scoreType := ScoreUpperBound
	movesSearched := 0

	for m := sel.SelectMove(); m != board.NoMove; m = sel.SelectMove() {
		if !pos.IsMoveLegal(m) {
			continue
		}

		var u board.Undo
		pos.DoMove(m, &u)
		var score int
		if movesSearched == 0 {
			score = -s.search(depth-1+ext, ply+1, -beta, -alpha, isPV)
		} else {
			score = -s.search(depth-1+ext, ply+1, -alpha-1, -alpha, false)
			if score > alpha && score < beta && isPV && !s.aborted() {
				score = -s.search(depth-1+ext, ply+1, -beta, -alpha, true)
			}
		}
		pos.UndoMove(m, &u)

		if s.aborted() {
			return 0
		}
		movesSearched++

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				scoreType = ScoreExact
				s.updatePV(ply, m)
				if score >= beta {
					scoreType = ScoreLowerBound
					s.recordCutoff(node, m, depth, ply, score)
					break
				}
			}
		}
	}

	if movesSearched == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawValue
	}

	s.TT.Put(pos, bestMove, depth, AdjustScoreToTT(bestScore, ply), scoreType)
	return bestScore
}

// qsearch resolves captures (and checks at the first level) until the
// position is quiet.
func (s *SearchData) qsearch(ply, alpha, beta, qdepth int) int {
	if s.poll() {
		return 0
	}
	s.NodesSearched++
	s.pv.length[ply] = ply

	pos := s.Pos
	if ply >= MaxPly-1 {
		return Evaluate(pos, s.Material)
	}
	if IsDraw(pos) {
		return DrawValue
	}

	inCheck := pos.IsCheck()
	bestScore := -Infinity
	if !inCheck {
		bestScore = Evaluate(pos, s.Material)
		if bestScore >= beta {
			return bestScore
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	hashMove := board.NoMove
	if entry := s.TT.Get(pos); entry != nil {
		hashMove = entry.Move
	}

	gen := QGen
	if qdepth == 0 {
		gen = QCheckGen
	}
	var sel MoveSelector
	sel.Init(pos, s, gen, nil, nil, hashMove, 0, ply)

	movesSearched := 0
	for m := sel.SelectMove(); m != board.NoMove; m = sel.SelectMove() {
		if !pos.IsMoveLegal(m) {
			continue
		}

		var u board.Undo
		pos.DoMove(m, &u)
		score := -s.qsearch(ply+1, -beta, -alpha, qdepth-1)
		pos.UndoMove(m, &u)

		if s.aborted() {
			return 0
		}
		movesSearched++

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				s.updatePV(ply, m)
				if score >= beta {
					break
				}
			}
		}
	}

	if inCheck && movesSearched == 0 {
		return -MateScore + ply
	}
	return bestScore
}

// recordCutoff stores the TT entry for a fail-high and promotes the
// move in the killer and history tables when it is quiet.
func (s *SearchData) recordCutoff(node *SearchNode, m board.Move, depth, ply, score int) {
	s.TT.Put(s.Pos, m, depth, AdjustScoreToTT(score, ply), ScoreLowerBound)
	if !m.IsQuiet() {
		return
	}
	if score >= MateScore-MaxPly {
		node.MateKiller = m
	}
	if node.Killers[0] != m {
		node.Killers[1] = node.Killers[0]
		node.Killers[0] = m
	}
	s.History.Add(m, depth)
}

func (s *SearchData) updatePV(ply int, m board.Move) {
	s.pv.moves[ply][ply] = m
	child := ply + 1
	for i := child; i < s.pv.length[child]; i++ {
		s.pv.moves[ply][i] = s.pv.moves[child][i]
	}
	s.pv.length[ply] = s.pv.length[child]
}

// poll checks the abort conditions every few thousand nodes. Returns
// true when the search should unwind.
func (s *SearchData) poll() bool {
	if s.NodesSearched&4095 == 0 {
		if s.Status() == EngineThinking {
			if s.tm.ShouldStop() {
				s.SetStatus(EngineAborted)
			} else if s.limits.Nodes > 0 && s.NodesSearched >= s.limits.Nodes {
				s.SetStatus(EngineAborted)
			}
		}
	}
	return s.aborted()
}
