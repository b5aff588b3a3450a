package engine

import (
	"time"

	"github.com/forkme7/daydreamer/internal/board"
)

// Limits contains the UCI search constraints for one "go" command.
type Limits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Mate      int              // search for mate in N
	Infinite  bool             // search until stopped
	Ponder    bool             // start in ponder mode
}

// TimeManager computes a target time (what we would like to spend) and
// a hard limit (what we must not exceed) for one search.
type TimeManager struct {
	targetTime time.Duration
	limitTime  time.Duration
	startTime  time.Time
	unlimited  bool
}

// Init initializes the time manager for a new search.
func (tm *TimeManager) Init(limits Limits, us board.Color, ponderOption bool) {
	tm.startTime = time.Now()
	tm.unlimited = false

	if limits.MoveTime > 0 {
		tm.targetTime = limits.MoveTime
		tm.limitTime = limits.MoveTime
		return
	}

	if limits.Infinite || limits.Time[us] == 0 {
		tm.unlimited = true
		tm.targetTime = time.Hour
		tm.limitTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	if limits.MovesToGo == 0 {
		// x+y time control: budget a fortieth of the clock plus the
		// increment; the hard limit is a fifth of what remains, or the
		// increment less 250ms when that is larger.
		tm.targetTime = timeLeft/40 + inc
		tm.limitTime = max(timeLeft/5, inc-250*time.Millisecond)
	} else if limits.MovesToGo == 1 {
		tm.targetTime = timeLeft / 2
		tm.limitTime = max(timeLeft-250*time.Millisecond, timeLeft*3/4)
	} else {
		mtg := min(limits.MovesToGo, 20)
		tm.targetTime = timeLeft / time.Duration(mtg)
		tm.limitTime = min(timeLeft/4, timeLeft*4/time.Duration(limits.MovesToGo))
	}

	if ponderOption {
		// Budget a little extra; some of it is spent on the
		// opponent's clock.
		tm.targetTime = min(tm.limitTime, tm.targetTime*5/4)
	}
	if tm.limitTime < tm.targetTime {
		tm.limitTime = tm.targetTime
	}
}

// Elapsed returns the time spent since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// TargetTime returns the soft time budget.
func (tm *TimeManager) TargetTime() time.Duration {
	return tm.targetTime
}

// ShouldStop returns true once the hard limit is exceeded.
func (tm *TimeManager) ShouldStop() bool {
	return !tm.unlimited && tm.Elapsed() >= tm.limitTime
}

// PastTarget returns true once the soft budget is spent; the deepening
// loop finishes the current iteration and stops.
func (tm *TimeManager) PastTarget() bool {
	return !tm.unlimited && tm.Elapsed() >= tm.targetTime
}
