package game

import "fmt"

// frozenPlane is the index of the fourth board plane (not a piece type).
const frozenPlane = 3

// Position is the full state of a Corintho game: a 4x4 board with three
// piece-type planes plus a frozen-flag plane, the side to play, and each
// player's remaining piece counts. It is a plain value type (no pointers),
// so copying it by assignment is a full, cheap clone. This is what lets
// Node own its game position directly and lets move generation simulate
// trial moves without allocating.
type Position struct {
	planes    [4]uint16 // planes[Base], planes[Column], planes[Capital], planes[frozenPlane]
	side      uint8     // 0 or 1
	remaining [6]uint8  // index = player*3 + piece type, initial/max 4
}

// New returns the starting position: empty board, player 0 to move, four
// of each piece type per player.
func New() Position {
	p := Position{}
	for i := range p.remaining {
		p.remaining[i] = 4
	}
	return p
}

// Side returns the player to move, 0 or 1.
func (p Position) Side() int { return int(p.side) }

// Remaining returns how many pieces of pt player still has off-board.
func (p Position) Remaining(player int, pt PieceType) int {
	return int(p.remaining[player*3+int(pt)])
}

func (p Position) has(pt PieceType, s Space) bool {
	return p.planes[pt]&(uint16(1)<<uint(s.index())) != 0
}

func (p *Position) setPiece(pt PieceType, s Space, present bool) {
	bit := uint16(1) << uint(s.index())
	if present {
		p.planes[pt] |= bit
	} else {
		p.planes[pt] &^= bit
	}
}

// Frozen reports whether s is frozen: it cannot be acted upon this move
// because it was the destination of the move played immediately before.
func (p Position) Frozen(s Space) bool {
	return p.planes[frozenPlane]&(uint16(1)<<uint(s.index())) != 0
}

func (p *Position) setFrozen(s Space, frozen bool) {
	bit := uint16(1) << uint(s.index())
	if frozen {
		p.planes[frozenPlane] |= bit
	} else {
		p.planes[frozenPlane] &^= bit
	}
}

// Empty reports whether no piece occupies s.
func (p Position) Empty(s Space) bool {
	return !(p.has(Base, s) || p.has(Column, s) || p.has(Capital, s))
}

// Top returns the highest piece type present at s, or -1 if s is empty.
func (p Position) Top(s Space) int {
	for pt := PieceType(NumPieceTypes - 1); pt >= 0; pt-- {
		if p.has(pt, s) {
			return int(pt)
		}
	}
	return -1
}

// Bottom returns the lowest piece type present at s, or NumPieceTypes if
// s is empty.
func (p Position) Bottom(s Space) int {
	for pt := PieceType(0); pt < NumPieceTypes; pt++ {
		if p.has(pt, s) {
			return int(pt)
		}
	}
	return NumPieceTypes
}

// canPlace reports whether placing m.Piece at m.To is legal, ignoring any
// line-breaker restriction.
func (p Position) canPlace(m Move) bool {
	if p.remaining[int(p.side)*3+int(m.Piece)] == 0 {
		return false
	}
	if p.Empty(m.To) {
		return true
	}
	if p.Frozen(m.To) {
		return false
	}
	switch m.Piece {
	case Base:
		return false
	case Column:
		return !(p.has(Column, m.To) || p.has(Capital, m.To))
	default: // Capital
		return !(p.has(Capital, m.To) || (p.has(Base, m.To) && !p.has(Column, m.To)))
	}
}

// canMove reports whether sliding the stack at m.From onto m.To is legal,
// ignoring any line-breaker restriction.
func (p Position) canMove(m Move) bool {
	if p.Empty(m.From) || p.Empty(m.To) {
		return false
	}
	if p.Frozen(m.From) || p.Frozen(m.To) {
		return false
	}
	// The bottom of the moving stack must sit exactly on top of the
	// receiving stack for the merged stack to stay a legal 0..2 tower.
	return p.Bottom(m.From)-p.Top(m.To) == 1
}

// legalIgnoringLines reports whether m obeys the placement/slide adjacency
// and piece-availability rules, without considering line-breaker masking.
func (p Position) legalIgnoringLines(m Move) bool {
	if m.Kind == Place {
		return p.canPlace(m)
	}
	return p.canMove(m)
}

// Apply plays move id on p, returning the resulting position. p is left
// unmodified. Precondition: id is legal in p; callers validate against
// LegalMoves, and violations are undefined behavior.
func (p Position) Apply(id int) Position {
	next := p
	next.planes[frozenPlane] = 0
	m, err := Decode(id)
	if err != nil {
		panic(fmt.Sprintf("game: Apply: %v", err))
	}
	if m.Kind == Place {
		next.remaining[int(next.side)*3+int(m.Piece)]--
		next.setPiece(m.Piece, m.To, true)
		next.setFrozen(m.To, true)
	} else {
		for pt := PieceType(0); pt < NumPieceTypes; pt++ {
			if p.has(pt, m.From) {
				next.setPiece(pt, m.To, true)
			}
		}
		for pt := PieceType(0); pt < NumPieceTypes; pt++ {
			next.setPiece(pt, m.From, false)
		}
		next.setFrozen(m.To, true)
	}
	next.side = 1 - next.side
	return next
}

// GameStateSize is the length of the dense feature tensor WriteFeatures
// emits: 4 board planes of 16 bits each plus 6 remaining-piece counts.
const GameStateSize = 4*16 + 6

// WriteFeatures fills out with the 70-float feature tensor: 64 board bits
// (row-major, then column-major, then piece-type-major within a space;
// plane 4 is frozen) followed by 6 remaining-piece counts normalized to
// [0,1], canonicalized so the side-to-play's three counts come first.
func (p Position) WriteFeatures(out []float32) {
	if len(out) != GameStateSize {
		panic(fmt.Sprintf("game: WriteFeatures: out must have length %d, got %d", GameStateSize, len(out)))
	}
	for row := int8(0); row < 4; row++ {
		for col := int8(0); col < 4; col++ {
			s := Space{row, col}
			base := int(row)*16 + int(col)*4
			for pt := PieceType(0); pt < NumPieceTypes; pt++ {
				if p.has(pt, s) {
					out[base+int(pt)] = 1
				} else {
					out[base+int(pt)] = 0
				}
			}
			if p.Frozen(s) {
				out[base+frozenPlane] = 1
			} else {
				out[base+frozenPlane] = 0
			}
		}
	}
	for i := 0; i < 6; i++ {
		out[64+i] = float32(p.remaining[(int(p.side)*3+i)%6]) * 0.25
	}
}

// String renders the board and remaining pieces for logging.
func (p Position) String() string {
	s := ""
	for row := int8(0); row < 4; row++ {
		for col := int8(0); col < 4; col++ {
			sp := Space{row, col}
			glyph := "   "
			for pt := PieceType(NumPieceTypes - 1); pt >= 0; pt-- {
				if p.has(pt, sp) {
					glyph = pt.String() + "  "
					break
				}
			}
			s += glyph
			if p.Frozen(sp) {
				s = s[:len(s)-1] + "#"
			}
			if col < 3 {
				s += "|"
			}
		}
		s += "\n"
	}
	for player := 0; player < 2; player++ {
		s += fmt.Sprintf("player %d: B:%d C:%d A:%d\n", player+1,
			p.remaining[player*3+0], p.remaining[player*3+1], p.remaining[player*3+2])
	}
	s += fmt.Sprintf("player %d to play", p.side+1)
	return s
}
