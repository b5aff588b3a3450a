package board

import "testing"

func seeFor(t *testing.T, fen, move string) int {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	m, err := pos.ParseMove(move)
	if err != nil {
		t.Fatalf("%s in %s: %v", move, fen, err)
	}
	return pos.StaticExchangeEval(m)
}

func TestStaticExchangeEval(t *testing.T) {
	// Undefended pawn: clean win of a pawn.
	if got := seeFor(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5"); got != PawnValue {
		t.Errorf("PxP undefended = %d, want %d", got, PawnValue)
	}

	// Defended pawn taken by a knight: loses knight for pawn.
	want := PawnValue - KnightValue
	if got := seeFor(t, "4k3/8/2p5/3p4/8/4N3/8/4K3 w - - 0 1", "e3d5"); got != want {
		t.Errorf("NxP defended = %d, want %d", got, want)
	}

	// Pawn takes knight defended by a pawn: wins knight, loses pawn.
	want = KnightValue - PawnValue
	if got := seeFor(t, "4k3/8/2p5/3n4/4P3/8/8/4K3 w - - 0 1", "e4d5"); got != want {
		t.Errorf("PxN defended = %d, want %d", got, want)
	}

	// Rook takes pawn, recapture by rook, but our queen backs up the
	// file behind the rook: the x-ray keeps the exchange winning.
	if got := seeFor(t, "3rk3/8/8/3p4/8/8/3R4/3QK3 w - - 0 1", "d2d5"); got != PawnValue {
		t.Errorf("RxP with queen x-ray = %d, want %d", got, PawnValue)
	}

	// Queen grabs a rook-defended pawn: pawn minus queen for rook is a
	// disaster, the exchange must be negative.
	if got := seeFor(t, "4k3/8/8/r2p4/8/8/3Q4/4K3 w - - 0 1", "d2d5"); got >= 0 {
		t.Errorf("QxP defended by rook = %d, want < 0", got)
	}
}
