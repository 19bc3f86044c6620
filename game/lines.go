package game

// lanes lists the ten 4-space tracks a long line can form on: the four
// rows, the four columns, and the two long diagonals, in board order.
var lanes = [10][4]Space{
	{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
	{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
	{{3, 0}, {3, 1}, {3, 2}, {3, 3}},
	{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
	{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
	{{0, 3}, {1, 3}, {2, 3}, {3, 3}},
	{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
	{{0, 3}, {1, 2}, {2, 1}, {3, 0}},
}

// shortDiagonals lists the four 3-space diagonals, which form a line
// only when all three tops match.
var shortDiagonals = [4][3]Space{
	{{1, 1}, {0, 2}, {2, 0}},
	{{1, 2}, {0, 1}, {2, 3}},
	{{2, 2}, {1, 3}, {3, 1}},
	{{2, 1}, {1, 0}, {3, 2}},
}

// LegalMoves computes the legal-move mask for p and reports whether at
// least one line currently exists. A line is a run of three or four
// consecutive matching non-empty tops along a lane, or three matching
// tops on a short diagonal. Generation starts with all moves legal,
// intersects the breaker mask of every line found, and finally drops
// any move that fails the placement/slide legality rules. The side to
// move must resolve every line at once; an empty mask with a line
// present means they have lost.
func (p Position) LegalMoves() (Mask, bool) {
	mask := FullMask()
	hasLine := false

	for _, lane := range lanes {
		t1 := p.Top(lane[1])
		if t1 == -1 || t1 != p.Top(lane[2]) {
			continue
		}
		left := p.Top(lane[0]) == t1
		right := p.Top(lane[3]) == t1
		if !left && !right {
			continue
		}
		hasLine = true
		extendable := !(left && right)
		mask = mask.And(p.laneBreakers(lane, extendable))
	}

	for _, sd := range shortDiagonals {
		top := p.Top(sd[0])
		if top == -1 || top != p.Top(sd[1]) || top != p.Top(sd[2]) {
			continue
		}
		hasLine = true
		mask = mask.And(p.shortDiagBreakers(sd))
	}

	var filtered Mask
	mask.ForEach(func(id int) {
		mv, err := Decode(id)
		if err == nil && p.legalIgnoringLines(mv) {
			filtered.Set(id)
		}
	})
	return filtered, hasLine
}

// laneBreakers returns the ids of moves that resolve the line on lane:
// moves leaving no three consecutive matching tops there, plus, when the
// line is a three-run, moves completing the lane to a full four-run.
// Completing a line hands the obligation to the opponent, so it counts
// as a resolution; completing a capital line by sliding needs a capital
// on top of the moving stack, since any other slide into the end space
// leaves the original run standing. Moves are trial-applied to a cloned position (a
// cheap value copy) rather than looked up in a precomputed table, so
// the breaking condition is computed directly from its definition; ids
// that are not legal moves at all are harmless here, since the caller
// filters them afterward.
func (p Position) laneBreakers(lane [4]Space, extendable bool) Mask {
	var m Mask
	for id := 0; id < NumMoves; id++ {
		next := p.Apply(id)
		t0 := next.Top(lane[0])
		t1 := next.Top(lane[1])
		t2 := next.Top(lane[2])
		t3 := next.Top(lane[3])
		triple := t1 != -1 && t1 == t2 && (t0 == t1 || t3 == t2)
		full := triple && t0 == t1 && t3 == t2
		if !triple || (extendable && full) {
			m.Set(id)
		}
	}
	return m
}

// shortDiagBreakers returns the ids of moves after which the three
// diagonal spaces no longer all share a top. A short diagonal has no
// fourth space, so there is no extension escape.
func (p Position) shortDiagBreakers(sd [3]Space) Mask {
	var m Mask
	for id := 0; id < NumMoves; id++ {
		next := p.Apply(id)
		top := next.Top(sd[0])
		if top == -1 || top != next.Top(sd[1]) || top != next.Top(sd[2]) {
			m.Set(id)
		}
	}
	return m
}
