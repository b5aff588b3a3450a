package engine

import (
	"testing"

	"github.com/forkme7/daydreamer/internal/board"
)

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPieceSquareValues(t *testing.T) {
	InitEval()

	if v := board.PieceSquareValue(board.WhitePawn, board.A2); v != 5 {
		t.Errorf("white pawn a2 = %d, want 5", v)
	}
	if v := board.PieceSquareValue(board.BlackPawn, board.A7); v != 5 {
		t.Errorf("black pawn a7 = %d, want 5", v)
	}
	if v := board.PieceSquareValue(board.WhitePawn, board.E4); v != 20 {
		t.Errorf("white pawn e4 = %d, want 20", v)
	}
	if v := board.PieceSquareValue(board.WhiteKing, board.E1); v != 0 {
		t.Errorf("white king e1 = %d, want 0", v)
	}
	if v := board.PieceSquareValue(board.BlackKing, board.E8); v != 0 {
		t.Errorf("black king e8 = %d, want 0", v)
	}
}

// Every piece type's black table must be the rank mirror of its white
// table.
func TestPieceSquareSymmetry(t *testing.T) {
	for pt := board.Pawn; pt <= board.King; pt++ {
		white := board.NewPiece(pt, board.White)
		black := board.NewPiece(pt, board.Black)
		board.EachSquare(func(sq board.Square) {
			w := board.PieceSquareValue(white, sq)
			b := board.PieceSquareValue(black, sq.Flip())
			if w != b {
				t.Errorf("%v: pst[white][%v]=%d != pst[black][%v]=%d",
					pt, sq, w, sq.Flip(), b)
			}
		})
	}
}

// Flipping only the side to move must negate the simple evaluation.
func TestSimpleEvalAntisymmetry(t *testing.T) {
	cases := [][2]string{
		{
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2",
		},
		{
			"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 3 3",
			"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		},
		{
			"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
			"4k3/8/8/8/8/8/4P3/4K3 b - - 0 1",
		},
	}
	for _, c := range cases {
		white := mustPosition(t, c[0])
		black := mustPosition(t, c[1])
		if SimpleEval(white) != -SimpleEval(black) {
			t.Errorf("%s: eval %d, side-flipped %d; want negation",
				c[0], SimpleEval(white), SimpleEval(black))
		}
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},       // KK
		{"4k3/8/8/8/8/8/8/3BK3 w - - 0 1", true},      // KBK
		{"4k3/8/8/8/8/8/8/3NK3 w - - 0 1", true},      // KNK
		{"3nk3/8/8/8/8/8/8/3BK3 w - - 0 1", true},     // KBKN
		{"4k3/8/8/8/8/8/8/3RK3 w - - 0 1", false},     // KRK
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},    // KPK
		{"4k3/8/8/8/8/8/8/2NNK3 w - - 0 1", false}, // KNNK: 640cp is not below a rook
	}
	for _, c := range cases {
		pos := mustPosition(t, c.fen)
		if got := InsufficientMaterial(pos); got != c.want {
			t.Errorf("InsufficientMaterial(%s) = %v, want %v", c.fen, got, c.want)
		}
	}
}

func TestIsDraw(t *testing.T) {
	pos := mustPosition(t, "4k3/4r3/8/8/8/8/4R3/4K3 w - - 100 80")
	if !IsDraw(pos) {
		t.Error("50-move rule draw not detected")
	}

	pos = mustPosition(t, "4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if !IsDraw(pos) {
		t.Error("insufficient material draw not detected")
	}

	pos = mustPosition(t, "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1")
	if IsDraw(pos) {
		t.Error("live position reported drawn")
	}
}
