package game

// MapSpaces returns a new position with every occupied space relocated
// through f: the returned position has, for every space s, the same
// piece/frozen bits p has at f's inverse... in practice f is applied
// forward (source -> destination), which is what board symmetries need.
// Side to move and remaining piece counts are untouched, since a board
// symmetry does not change whose turn it is or what is left to place.
func (p Position) MapSpaces(f func(Space) Space) Position {
	next := Position{side: p.side, remaining: p.remaining}
	for row := int8(0); row < 4; row++ {
		for col := int8(0); col < 4; col++ {
			src := Space{row, col}
			dst := f(src)
			for pt := PieceType(0); pt < NumPieceTypes; pt++ {
				if p.has(pt, src) {
					next.setPiece(pt, dst, true)
				}
			}
			if p.Frozen(src) {
				next.setFrozen(dst, true)
			}
		}
	}
	return next
}
