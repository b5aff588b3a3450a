package board

// Piece-square tables for positional evaluation. These are the
// "simplified evaluation" values by Tomasz Michniewski, see
// https://www.chessprogramming.org/Simplified_Evaluation_Function
//
// Each table is written as the board looks from White's side: the top
// row is rank 8. initEvalTables unpacks them into 0x88-indexed tables
// for both colors; the black tables are the white ones mirrored by rank.

var pawnSquareValues = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightSquareValues = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopSquareValues = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookSquareValues = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenSquareValues = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingSquareValues = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var visualTables = [...]*[64]int{
	Pawn:   &pawnSquareValues,
	Knight: &knightSquareValues,
	Bishop: &bishopSquareValues,
	Rook:   &rookSquareValues,
	Queen:  &queenSquareValues,
	King:   &kingSquareValues,
}

var pieceSquareValues [16][128]int

func initEvalTables() {
	for pt := Pawn; pt <= King; pt++ {
		table := visualTables[pt]
		for sq := A1; sq <= H8; sq++ {
			if !sq.IsValid() {
				continue
			}
			file, rank := sq.File(), sq.Rank()
			pieceSquareValues[NewPiece(pt, White)][sq] = table[(7-rank)*8+file]
			pieceSquareValues[NewPiece(pt, Black)][sq] = table[rank*8+file]
		}
	}
}

// InitEval (re)builds the piece-square tables. The package init already
// runs it; the explicit entry point exists for callers that reset
// engine state.
func InitEval() {
	initEvalTables()
}

// PieceSquareValue returns the piece-square bonus for the piece on sq.
func PieceSquareValue(p Piece, sq Square) int {
	return pieceSquareValues[p][sq]
}
