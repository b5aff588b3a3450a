package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/forkme7/daydreamer/internal/engine"
)

func runCommands(t *testing.T, commands string) string {
	t.Helper()
	u := New(engine.New(16), nil)
	var buf bytes.Buffer
	u.w = &buf
	u.Run(strings.NewReader(commands))
	return buf.String()
}

func TestHandshake(t *testing.T) {
	got := runCommands(t, "uci\nisready\nquit\n")

	for _, want := range []string{
		"id name Daydreamer",
		"option name Hash type spin",
		"option name MultiPV type spin",
		"option name Ponder type check",
		"uciok",
		"readyok",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestGoProducesBestMove(t *testing.T) {
	got := runCommands(t, "position startpos moves e2e4 e7e5\ngo depth 3\nquit\n")

	if !strings.Contains(got, "info depth") {
		t.Errorf("no info lines in output:\n%s", got)
	}
	if !strings.Contains(got, "bestmove ") {
		t.Errorf("no bestmove in output:\n%s", got)
	}
}

func TestMateAnnounced(t *testing.T) {
	got := runCommands(t, "position fen 6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1\ngo depth 3\nquit\n")

	if !strings.Contains(got, "score mate 1") {
		t.Errorf("mate score not reported:\n%s", got)
	}
	if !strings.Contains(got, "bestmove d1d8") {
		t.Errorf("mating move not chosen:\n%s", got)
	}
}

func TestPerftCommand(t *testing.T) {
	got := runCommands(t, "position startpos\nperft 2\nquit\n")
	if !strings.Contains(got, "perft 2: 400 nodes") {
		t.Errorf("wrong perft output:\n%s", got)
	}
}

func TestSeeCommand(t *testing.T) {
	got := runCommands(t, "position fen 4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1\nsee e4d5\nquit\n")
	if !strings.Contains(got, "see: 100") {
		t.Errorf("wrong see output:\n%s", got)
	}
}

func TestPrintCommand(t *testing.T) {
	got := runCommands(t, "position startpos\nprint\nquit\n")
	if !strings.Contains(got, "moves:") || !strings.Contains(got, "ordered moves:") {
		t.Errorf("print output incomplete:\n%s", got)
	}
}

func TestInvalidPositionRejected(t *testing.T) {
	got := runCommands(t, "position fen not a fen\nquit\n")
	if !strings.Contains(got, "invalid fen") {
		t.Errorf("bad FEN not reported:\n%s", got)
	}
}
