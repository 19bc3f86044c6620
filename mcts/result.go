package mcts

// Result is the game-theoretic status of a node, always from the
// perspective of the side to move at that node.
type Result uint8

const (
	// ResultNone means the position's outcome is not yet known.
	ResultNone Result = iota
	// ResultTerminalLoss is a position with no legal moves and at least
	// one completed line: the side to move has lost.
	ResultTerminalLoss
	// ResultTerminalDraw is a position with no legal moves and no line.
	ResultTerminalDraw
	// ResultTerminalWin exists only for symmetry with the logging codes
	// in the glossary; no node ever constructs one directly, since a
	// side to move with no legal moves never wins outright; a winning
	// node is always DeducedWin, inferred from a child's loss.
	ResultTerminalWin
	// ResultDeducedLoss: every legal move leads to a DeducedWin for the
	// opponent.
	ResultDeducedLoss
	// ResultDeducedDraw: every legal move is resolved, none losing for
	// the opponent, and at least one is drawn.
	ResultDeducedDraw
	// ResultDeducedWin: at least one legal move leads to an opponent
	// loss.
	ResultDeducedWin
)

// String renders the log codes: N, L, D, W, DL, DD, DW.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "N"
	case ResultTerminalLoss:
		return "L"
	case ResultTerminalDraw:
		return "D"
	case ResultTerminalWin:
		return "W"
	case ResultDeducedLoss:
		return "DL"
	case ResultDeducedDraw:
		return "DD"
	case ResultDeducedWin:
		return "DW"
	}
	return "?"
}

// Known reports whether the result has been determined one way or another.
func (r Result) Known() bool { return r != ResultNone }

// Terminal reports whether r is an immediate terminal result (no legal
// moves in the position itself, as opposed to a result deduced from
// descendants).
func (r Result) Terminal() bool {
	return r == ResultTerminalLoss || r == ResultTerminalDraw
}

// Won reports whether the side to move at the node has a known win.
func (r Result) Won() bool { return r == ResultDeducedWin }

// Lost reports whether the side to move at the node has already lost.
func (r Result) Lost() bool { return r == ResultTerminalLoss || r == ResultDeducedLoss }

// Drawn reports whether the position is a known or deduced draw.
func (r Result) Drawn() bool { return r == ResultTerminalDraw || r == ResultDeducedDraw }
