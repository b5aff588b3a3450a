package board

// Zobrist hash keys for position hashing.
// Uses a PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [16][128]uint64
	zobristEnPassant  [8]uint64 // one per file
	zobristCastling   [16]uint64
	zobristSideToMove uint64 // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys.
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for _, piece := range allPieces {
		for sq := A1; sq <= H8; sq++ {
			if !sq.IsValid() {
				continue
			}
			zobristPiece[piece][sq] = rng.next()
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

var allPieces = [12]Piece{
	WhitePawn, WhiteKnight, WhiteBishop, WhiteRook, WhiteQueen, WhiteKing,
	BlackPawn, BlackKnight, BlackBishop, BlackRook, BlackQueen, BlackKing,
}

// computeHash calculates the Zobrist hash of the position from scratch.
func (p *Position) computeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if !sq.IsValid() || p.Board[sq] == Empty {
			continue
		}
		h ^= zobristPiece[p.Board[sq]][sq]
	}
	if p.EnPassant != NoSquare {
		h ^= zobristEnPassant[p.EnPassant.File()]
	}
	h ^= zobristCastling[p.CastlingRights]
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
