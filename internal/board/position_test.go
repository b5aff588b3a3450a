package board

import "testing"

func TestStartingPosition(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove != White {
		t.Errorf("SideToMove = %v, want White", pos.SideToMove)
	}
	if pos.CastlingRights != AllCastling {
		t.Errorf("CastlingRights = %v, want KQkq", pos.CastlingRights)
	}
	if pos.NumPawns[White] != 8 || pos.NumPawns[Black] != 8 {
		t.Errorf("pawn counts = %d/%d, want 8/8", pos.NumPawns[White], pos.NumPawns[Black])
	}
	if pos.NumPieces[White] != 8 || pos.NumPieces[Black] != 8 {
		t.Errorf("piece counts = %d/%d, want 8/8", pos.NumPieces[White], pos.NumPieces[Black])
	}
	if pos.Pieces[White][0] != E1 || pos.Pieces[Black][0] != E8 {
		t.Errorf("kings at %v/%v, want e1/e8", pos.Pieces[White][0], pos.Pieces[Black][0])
	}
	wantMaterial := 8*PawnValue + 2*KnightValue + 2*BishopValue + 2*RookValue + QueenValue
	if pos.MaterialEval[White] != wantMaterial || pos.MaterialEval[Black] != wantMaterial {
		t.Errorf("material = %d/%d, want %d", pos.MaterialEval[White], pos.MaterialEval[Black], wantMaterial)
	}
	if err := pos.CheckValidity(); err != nil {
		t.Fatalf("starting position invalid: %v", err)
	}
}

// TestDoUndoRestoresState plays move sequences and verifies that every
// denormalized field and the hash return to their original values.
func TestDoUndoRestoresState(t *testing.T) {
	DebugChecks = true
	defer func() { DebugChecks = false }()

	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		before := *pos

		var buf [MaxMoves]Move
		for _, m := range pos.GenerateLegalMoves(buf[:0]) {
			var u Undo
			pos.DoMove(m, &u)
			pos.UndoMove(m, &u)

			if pos.Hash != before.Hash {
				t.Errorf("%s: hash not restored after %s", fen, m)
			}
			if pos.MaterialEval != before.MaterialEval {
				t.Errorf("%s: material not restored after %s", fen, m)
			}
			if pos.PieceSquareEval != before.PieceSquareEval {
				t.Errorf("%s: piece-square sums not restored after %s", fen, m)
			}
			if pos.PieceCount != before.PieceCount {
				t.Errorf("%s: piece counts not restored after %s", fen, m)
			}
			if pos.Board != before.Board {
				t.Errorf("%s: board not restored after %s", fen, m)
			}
			if pos.CastlingRights != before.CastlingRights ||
				pos.EnPassant != before.EnPassant ||
				pos.FiftyMoveCounter != before.FiftyMoveCounter {
				t.Errorf("%s: game state not restored after %s", fen, m)
			}
		}
	}
}

func TestHashMatchesRecompute(t *testing.T) {
	pos := NewPosition()

	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "g8f6", "e1g1"}
	for _, ms := range moves {
		m, err := pos.ParseMove(ms)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", ms, err)
		}
		var u Undo
		pos.DoMove(m, &u)
		if pos.Hash != pos.computeHash() {
			t.Fatalf("after %s: incremental hash %016x != recomputed %016x",
				ms, pos.Hash, pos.computeHash())
		}
	}
}

func TestRepetitionDetection(t *testing.T) {
	pos := NewPosition()

	// Shuffle the knights back and forth twice; the starting position
	// recurs for the third time at the end.
	moves := []string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	}
	for i, ms := range moves {
		if pos.IsRepetition(3) {
			t.Fatalf("repetition flagged early, after %d moves", i)
		}
		m, err := pos.ParseMove(ms)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", ms, err)
		}
		var u Undo
		pos.DoMove(m, &u)
	}
	if !pos.IsRepetition(3) {
		t.Error("threefold repetition not detected")
	}
}

func TestEnPassantRoundTrip(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	if err != nil {
		t.Fatal(err)
	}

	m, err := pos.ParseMove("e5f6")
	if err != nil {
		t.Fatalf("en passant capture rejected: %v", err)
	}
	if !m.IsEnPassant() {
		t.Fatal("e5f6 should be en passant")
	}

	before := *pos
	var u Undo
	pos.DoMove(m, &u)
	if pos.Board[F5] != Empty {
		t.Error("captured pawn still on f5")
	}
	if pos.Board[F6] != WhitePawn {
		t.Error("capturing pawn not on f6")
	}
	pos.UndoMove(m, &u)
	if pos.Board != before.Board || pos.Hash != before.Hash {
		t.Error("en passant not fully undone")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN round trip: got %q, want %q", got, fen)
		}
	}
}

func TestSquareHelpers(t *testing.T) {
	if Distance(E4, A8) != 4 {
		t.Errorf("Distance(e4, a8) = %d, want 4", Distance(E4, A8))
	}
	if A1.MirrorRank() != A8 || A1.MirrorFile() != H1 {
		t.Error("mirror helpers broken for a1")
	}
	if E4.File() != FileE || E4.Rank() != Rank4 {
		t.Errorf("e4 decomposes to file %d rank %d", E4.File(), E4.Rank())
	}
	if A1.Color() != Black || A8.Color() != White || F4.Color() != Black {
		t.Error("square colors wrong: a1 and f4 are dark, a8 is light")
	}
	if Square(0x78).IsValid() || Square(8).IsValid() {
		t.Error("off-board squares reported valid")
	}
}
