package board

import "testing"

// perft counts leaf nodes of the legal move tree, the standard
// correctness check for move generation and make/unmake.
func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var buf [MaxMoves]Move
	moves := pos.GenerateLegalMoves(buf[:0])
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		var u Undo
		pos.DoMove(m, &u)
		nodes += perft(pos, depth-1)
		pos.UndoMove(m, &u)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		depth int
		nodes uint64
	}{
		{"startpos-1", StartFEN, 1, 20},
		{"startpos-2", StartFEN, 2, 400},
		{"startpos-3", StartFEN, 3, 8902},
		{"startpos-4", StartFEN, 4, 197281},
		{"kiwipete-1", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 1, 48},
		{"kiwipete-2", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
		{"kiwipete-3", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 3, 97862},
		{"endgame-3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
		{"endgame-4", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 4, 43238},
		{"promotions-3", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 3, 9467},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := perft(pos, tc.depth); got != tc.nodes {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.nodes)
			}
		})
	}
}

func TestTacticalPlusQuietEqualsAll(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}

		var aBuf, tBuf, qBuf [MaxMoves]Move
		all := pos.GeneratePseudoMoves(aBuf[:0])
		tactical := pos.GeneratePseudoTacticalMoves(tBuf[:0])
		quiet := pos.GeneratePseudoQuietMoves(qBuf[:0])

		if len(all) != len(tactical)+len(quiet) {
			t.Errorf("%s: %d pseudo moves, but %d tactical + %d quiet",
				fen, len(all), len(tactical), len(quiet))
		}
		for _, m := range tactical {
			if !m.IsCapture() && !m.IsPromotion() {
				t.Errorf("%s: quiet move %s from tactical generator", fen, m)
			}
		}
		for _, m := range quiet {
			if m.IsCapture() || m.IsPromotion() {
				t.Errorf("%s: tactical move %s from quiet generator", fen, m)
			}
		}
		for _, m := range all {
			if !pos.IsPseudoMoveLegal(m) {
				t.Errorf("%s: generated move %s fails its own pseudo-legality test", fen, m)
			}
		}
	}
}

func TestEvasionsMatchLegalMoves(t *testing.T) {
	// Positions with the side to move in check.
	fens := []string{
		"rnbqkbnr/ppp1pppp/8/1B1p4/4P3/8/PPPP1PPP/RNBQK1NR b KQkq - 1 2", // bishop check
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",  // queen check
		"4k3/8/8/4q3/8/8/3B4/4K3 w - - 0 1",                              // interposable
		"4k3/8/8/8/8/3n4/8/4K3 w - - 0 1",                                // knight check
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		if !pos.IsCheck() {
			t.Fatalf("%s: expected side to move in check", fen)
		}

		var eBuf, lBuf [MaxMoves]Move
		evasions := pos.GenerateEvasions(eBuf[:0])
		legal := pos.GenerateLegalMoves(lBuf[:0])

		legalSet := make(map[Move]bool, len(legal))
		for _, m := range legal {
			legalSet[m] = true
		}

		seen := make(map[Move]bool, len(evasions))
		survivors := 0
		for _, m := range evasions {
			if seen[m] {
				t.Errorf("%s: evasion %s generated twice", fen, m)
			}
			seen[m] = true
			if pos.IsMoveLegal(m) {
				survivors++
				if !legalSet[m] {
					t.Errorf("%s: evasion %s not in legal move list", fen, m)
				}
			}
		}
		if survivors != len(legal) {
			t.Errorf("%s: %d legal evasions, want %d", fen, survivors, len(legal))
		}
	}
}
