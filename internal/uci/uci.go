// Package uci implements the Universal Chess Interface protocol.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/forkme7/daydreamer/internal/board"
	"github.com/forkme7/daydreamer/internal/engine"
	"github.com/forkme7/daydreamer/internal/logging"
	"github.com/forkme7/daydreamer/internal/storage"
)

const (
	engineName    = "Daydreamer"
	engineVersion = "2.0"
	engineAuthor  = "Aaron Becker"
)

var log = logging.GetLog("uci")

// out formats numbers with digit grouping for the diagnostic commands
// (perft, divide, bench, eval).
var out = message.NewPrinter(language.English)

// UCI is the protocol handler: it owns the engine, the current
// position, and the goroutine a search runs on.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	store    *storage.Storage

	searchDone chan struct{}

	w io.Writer
}

// New creates a UCI protocol handler. store may be nil; stats
// recording is skipped then.
func New(eng *engine.Engine, store *storage.Storage) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		store:    store,
		w:        os.Stdout,
	}
	eng.Data().OnInfo = u.printInfo
	return u
}

// Run reads commands from r until EOF or quit.
func (u *UCI) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<16), 1<<20)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !u.handleCommand(line) {
			break
		}
	}
	u.waitForSearch()
}

// handleCommand dispatches one command line. Returns false on quit.
func (u *UCI) handleCommand(line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.waitForSearch()
		u.engine.NewGame()
		u.position = board.NewPosition()
	case "position":
		u.waitForSearch()
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "stop":
		u.engine.Stop()
	case "ponderhit":
		u.engine.PonderHit()
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		u.engine.Stop()
		return false

	// Diagnostic extensions.
	case "d", "print":
		u.handlePrint()
	case "perft":
		u.handlePerft(args, false)
	case "divide":
		u.handlePerft(args, true)
	case "see":
		u.handleSee(args)
	case "bench":
		u.handleBench(args)
	case "hashstats":
		u.println("info string " + u.engine.TT().StatsString())
	case "eval":
		u.println(out.Sprintf("info string eval %d", u.engine.Evaluate(u.position)))
	default:
		log.Debugf("unknown command: %s", line)
	}
	return true
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.w, s)
}

func (u *UCI) handleUCI() {
	u.println("id name " + engineName + " " + engineVersion)
	u.println("id author " + engineAuthor)
	u.println("")
	opts := u.engine.Options()
	u.println(fmt.Sprintf("option name Hash type spin default %d min 1 max 4096", opts.HashMB))
	u.println(fmt.Sprintf("option name MultiPV type spin default %d min 1 max 256", opts.MultiPV))
	u.println(fmt.Sprintf("option name Ponder type check default %v", opts.Ponder))
	u.println("option name Clear Hash type button")
	u.println("uciok")
}

// handlePosition parses "position [startpos|fen <fen>] [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesIdx := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesIdx = i
			break
		}
	}
	moveStart := movesIdx + 1

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
	case "fen":
		fen := strings.Join(args[1:movesIdx], " ")
		pos, err := board.ParseFEN(fen)
		if err != nil {
			u.println("info string invalid fen: " + err.Error())
			return
		}
		u.position = pos
	default:
		return
	}

	if moveStart > len(args) {
		moveStart = len(args)
	}
	for _, moveStr := range args[moveStart:] {
		m, err := u.position.ParseMove(moveStr)
		if err != nil {
			u.println("info string invalid move " + moveStr)
			return
		}
		var undo board.Undo
		u.position.DoMove(m, &undo)
	}
}

// handleGo parses limits and launches the search on its own goroutine.
func (u *UCI) handleGo(args []string) {
	u.waitForSearch()

	var limits engine.Limits
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			limits.Ponder = true
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.Time[board.White] = u.msArg(args, &i)
		case "btime":
			limits.Time[board.Black] = u.msArg(args, &i)
		case "winc":
			limits.Inc[board.White] = u.msArg(args, &i)
		case "binc":
			limits.Inc[board.Black] = u.msArg(args, &i)
		case "movestogo":
			limits.MovesToGo = u.intArg(args, &i)
		case "depth":
			limits.Depth = u.intArg(args, &i)
		case "nodes":
			limits.Nodes = uint64(u.intArg(args, &i))
		case "mate":
			limits.Mate = u.intArg(args, &i)
		case "movetime":
			limits.MoveTime = u.msArg(args, &i)
		}
	}

	pos := u.position.Copy()
	u.searchDone = make(chan struct{})
	go func() {
		defer close(u.searchDone)
		start := time.Now()
		best := u.engine.Search(pos, limits)
		u.recordSearch(start)
		u.printBestMove(best)
	}()
}

func (u *UCI) msArg(args []string, i *int) time.Duration {
	return time.Duration(u.intArg(args, i)) * time.Millisecond
}

func (u *UCI) intArg(args []string, i *int) int {
	if *i+1 >= len(args) {
		return 0
	}
	*i++
	v, err := strconv.Atoi(args[*i])
	if err != nil {
		return 0
	}
	return v
}

func (u *UCI) waitForSearch() {
	if u.searchDone != nil {
		u.engine.Stop()
		<-u.searchDone
		u.searchDone = nil
	}
}

func (u *UCI) printBestMove(best board.Move) {
	if best == board.NoMove {
		u.println("bestmove 0000")
		return
	}
	line := "bestmove " + best.String()
	if pv := u.engine.Data().PV(); len(pv) >= 2 {
		line += " ponder " + pv[1].String()
	}
	u.println(line)
}

func (u *UCI) printInfo(info engine.SearchInfo) {
	kind, value := engine.ScoreToUCI(info.Score)
	ms := info.Time.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(info.Nodes) * 1000 / ms
	}

	var pv strings.Builder
	for _, m := range info.PV {
		pv.WriteByte(' ')
		pv.WriteString(m.String())
	}

	// The protocol line uses plain formatting; GUIs parse it.
	u.println(fmt.Sprintf("info depth %d score %s %d nodes %d nps %d time %d pv%s",
		info.Depth, kind, value, info.Nodes, nps, ms, pv.String()))
}

func (u *UCI) recordSearch(start time.Time) {
	if u.store == nil {
		return
	}
	data := u.engine.Data()
	rec := storage.SearchRecord{
		Depth:    data.BestDepth(),
		Nodes:    data.NodesSearched,
		Duration: time.Since(start),
	}
	if err := u.store.RecordSearch(rec); err != nil {
		log.Warningf("could not record search stats: %v", err)
	}
}

func (u *UCI) handleSetOption(args []string) {
	// setoption name <name...> [value <value...>]
	name, value := "", ""
	field := ""
	for _, arg := range args {
		switch arg {
		case "name":
			field = "name"
		case "value":
			field = "value"
		default:
			if field == "name" {
				if name != "" {
					name += " "
				}
				name += arg
			} else if field == "value" {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	opts := u.engine.Options()
	switch strings.ToLower(name) {
	case "hash":
		if mb, err := strconv.Atoi(value); err == nil && mb >= 1 {
			u.waitForSearch()
			u.engine.ResizeHash(mb)
		}
	case "multipv":
		if n, err := strconv.Atoi(value); err == nil && n >= 1 {
			opts.MultiPV = n
		}
	case "ponder":
		opts.Ponder = strings.EqualFold(value, "true")
	case "clear hash":
		u.waitForSearch()
		u.engine.NewGame()
	default:
		log.Debugf("unknown option: %s", name)
	}
	u.savePreferences()
}

func (u *UCI) savePreferences() {
	if u.store == nil {
		return
	}
	opts := u.engine.Options()
	prefs := &storage.Preferences{
		HashMB:  opts.HashMB,
		MultiPV: opts.MultiPV,
		Ponder:  opts.Ponder,
	}
	if err := u.store.SavePreferences(prefs); err != nil {
		log.Warningf("could not save preferences: %v", err)
	}
}

// handlePrint shows the board, the legal moves, and the move stream
// the selector would produce for this position.
func (u *UCI) handlePrint() {
	u.println(u.position.String())

	var buf [board.MaxMoves]board.Move
	var sb strings.Builder
	sb.WriteString("moves:")
	for _, m := range u.position.GenerateLegalMoves(buf[:0]) {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	u.println(sb.String())

	data := engine.NewSearchData(u.engine.TT())
	var sel engine.MoveSelector
	sel.Init(u.position, data, engine.PVGen, nil, nil, board.NoMove, 0, 0)
	sb.Reset()
	sb.WriteString("ordered moves:")
	for m := sel.SelectMove(); m != board.NoMove; m = sel.SelectMove() {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	u.println(sb.String())
}

func (u *UCI) handlePerft(args []string, divide bool) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	if divide {
		counts, total := u.engine.Divide(u.position, depth)
		moves := make([]string, 0, len(counts))
		for mv := range counts {
			moves = append(moves, mv)
		}
		sort.Strings(moves)
		for _, mv := range moves {
			u.println(out.Sprintf("%s: %d", mv, counts[mv]))
		}
		u.println(out.Sprintf("total: %d (%v)", total, time.Since(start).Round(time.Millisecond)))
		return
	}
	nodes := u.engine.Perft(u.position, depth)
	u.println(out.Sprintf("perft %d: %d nodes (%v)", depth, nodes, time.Since(start).Round(time.Millisecond)))
}

func (u *UCI) handleSee(args []string) {
	if len(args) == 0 {
		return
	}
	m, err := u.position.ParseMove(args[0])
	if err != nil {
		u.println("info string invalid move " + args[0])
		return
	}
	u.println(fmt.Sprintf("see: %d", u.position.StaticExchangeEval(m)))
}

// benchPositions exercise the opening, middlegame and endgame.
var benchPositions = []string{
	board.StartFEN,
	"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",
}

func (u *UCI) handleBench(args []string) {
	depth := 8
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}

	var totalNodes uint64
	start := time.Now()
	for _, fen := range benchPositions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			continue
		}
		u.engine.NewGame()
		u.engine.Search(pos, engine.Limits{Depth: depth})
		totalNodes += u.engine.Data().NodesSearched
	}
	elapsed := time.Since(start)
	nps := int64(0)
	if ms := elapsed.Milliseconds(); ms > 0 {
		nps = int64(totalNodes) * 1000 / ms
	}
	u.println(out.Sprintf("bench: %d nodes in %v (%d nps)", totalNodes, elapsed.Round(time.Millisecond), nps))
}
