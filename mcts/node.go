package mcts

import (
	"fmt"
	"io"

	"github.com/corintho/engine/game"
)

// MaxProbability is the scale every edge's quantized weight is rescaled
// to hit at least once per node: the largest weight equals exactly this,
// so a weight fits in 9 bits.
const MaxProbability = 511

// noIndex marks an absent arena link (no parent, no sibling, no child).
const noIndex int32 = -1

// edge is one legal move out of a node: the move id, its quantized prior
// weight, and the arena index of the child it leads to (noIndex until
// the searcher descends through it). child is redundant with the
// firstChild/nextSibling list below: edges are walked far more often
// than the sibling list during search (once per descent, vs. only by
// node counting, re-rooting and the printers), so it is cached here
// rather than re-derived by a linked
// list walk on every PUCT evaluation.
type edge struct {
	moveID int8
	weight uint16
	child  int32
}

// Node is one position in a search tree. Nodes live in a Searcher's
// arena and reference each other by slice index rather than pointer, so
// subtrees stay addressable across arena growth.
//
// Children form a singly-linked list ordered by ascending move id,
// mirroring edges, and almost always walked in lockstep with the edges
// array rather than looked up by id.
type Node struct {
	pos game.Position

	parent, nextSibling, firstChild int32

	edges       []edge
	denominator float32

	evaluation float32
	visits     int16
	result     Result

	childID       int8
	numLegalMoves int8
	depth         int8
	allVisited    bool
}

// newNode builds a node for pos, reached from parent by moveID (0 and
// ignored for the root), at the given depth. It runs legal-move
// generation once to size the edge array and to detect an immediate
// terminal result. A non-terminal node starts with visits = 1: nodes
// are always created
// immediately before their first descent-time visit, so pre-counting
// that visit at construction saves a separate increment.
func newNode(pos game.Position, parent int32, moveID int8, depth int8) Node {
	mask, hasLine := pos.LegalMoves()
	n := Node{
		pos:         pos,
		parent:      parent,
		nextSibling: noIndex,
		firstChild:  noIndex,
		childID:     moveID,
		depth:       depth,
	}
	mask.ForEach(func(id int) {
		n.edges = append(n.edges, edge{moveID: int8(id), child: noIndex})
	})
	n.numLegalMoves = int8(len(n.edges))
	if n.numLegalMoves == 0 {
		// No edges to expand: vacuously, every (zero) child is visited.
		n.allVisited = true
		n.visits = 0
		if hasLine {
			n.result = ResultTerminalLoss
		} else {
			n.result = ResultTerminalDraw
		}
		return n
	}
	n.visits = 1
	return n
}

// Position returns the node's owned game position.
func (n *Node) Position() game.Position { return n.pos }

// Evaluation returns the running evaluation sum.
func (n *Node) Evaluation() float32 { return n.evaluation }

// Visits returns the visit count.
func (n *Node) Visits() int16 { return n.visits }

// Result returns the node's game-theoretic status.
func (n *Node) Result() Result { return n.result }

// ChildID returns the move id this node was reached by.
func (n *Node) ChildID() int8 { return n.childID }

// NumLegalMoves returns the size of the edge array.
func (n *Node) NumLegalMoves() int8 { return n.numLegalMoves }

// Depth returns the node's ply distance from the game's starting position.
func (n *Node) Depth() int8 { return n.depth }

// Parent returns the arena index of n's parent, or noIndex for the root.
func (n *Node) Parent() int32 { return n.parent }

// FirstChild returns the arena index of n's first materialized child in
// ascending move-id order, or noIndex if none has been materialized yet.
func (n *Node) FirstChild() int32 { return n.firstChild }

// NextSibling returns the arena index of the next materialized child of
// n's parent in ascending move-id order, or noIndex if n is the last.
func (n *Node) NextSibling() int32 { return n.nextSibling }

// NoChild is the sentinel index meaning "no materialized child", for
// callers outside the package comparing against FirstChild/NextSibling.
const NoChild = noIndex

// MoveID returns the move id of edge i.
func (n *Node) MoveID(i int) int8 { return n.edges[i].moveID }

// Probability returns the normalized prior of edge i: weight * denominator.
// Requires a response to have been applied (denominator > 0).
func (n *Node) Probability(i int) float32 {
	return float32(n.edges[i].weight) * n.denominator
}

// WriteFeatures delegates to the owned position.
func (n *Node) WriteFeatures(out []float32) { n.pos.WriteFeatures(out) }

// LegalMoves delegates to the owned position.
func (n *Node) LegalMoves() (game.Mask, bool) { return n.pos.LegalMoves() }

// countNodes returns the size of the subtree rooted at idx, including
// idx itself.
func (s *Searcher) countNodes(idx int32) int {
	if idx == noIndex {
		return 0
	}
	count := 1
	child := s.nodes[idx].firstChild
	for child != noIndex {
		count += s.countNodes(child)
		child = s.nodes[child].nextSibling
	}
	return count
}

// CountNodes returns the number of live nodes in the tree.
func (s *Searcher) CountNodes() int { return s.countNodes(s.root) }

// PrintMainLine writes the most-visited line from idx to w: at each
// node a child whose side to move has lost is chosen outright, otherwise
// the most-visited child, ties broken by the higher evaluation sum.
// Unlike ChooseMove, known-won children are not skipped and drawn
// children are not scored as 0.
func (s *Searcher) PrintMainLine(w io.Writer, idx int32) {
	n := &s.nodes[idx]
	var best int32 = noIndex
	var maxVisits int16
	var maxEval float32
	var prob float32
	edgeIndex := 0
	child := n.firstChild
	for child != noIndex {
		c := &s.nodes[child]
		if n.edges[edgeIndex].moveID == c.childID {
			if c.result.Lost() {
				best = child
				maxVisits = c.visits
				prob = n.Probability(edgeIndex)
				break
			}
			if c.visits > maxVisits || (c.visits == maxVisits && c.evaluation > maxEval) {
				best = child
				maxVisits = c.visits
				maxEval = c.evaluation
				prob = n.Probability(edgeIndex)
			}
			child = c.nextSibling
		}
		edgeIndex++
	}
	if best == noIndex {
		return
	}
	c := &s.nodes[best]
	mv, _ := game.Decode(int(c.childID))
	fmt.Fprintf(w, "%d. %v v:%d e:", c.depth, mv, maxVisits)
	if c.result.Known() {
		fmt.Fprint(w, c.result)
	} else {
		fmt.Fprintf(w, "%v", c.evaluation/float32(maxVisits))
	}
	fmt.Fprintf(w, " p:%v\t", prob)
	s.PrintMainLine(w, best)
}

// PrintKnownLines writes every resolved subtree rooted at idx to w.
func (s *Searcher) PrintKnownLines(w io.Writer, idx int32) {
	n := &s.nodes[idx]
	if !n.result.Known() {
		return
	}
	mv, _ := game.Decode(int(n.childID))
	fmt.Fprintf(w, "%d. %v %v ( ", n.depth, mv, n.result)
	child := n.firstChild
	for child != noIndex {
		s.PrintKnownLines(w, child)
		child = s.nodes[child].nextSibling
	}
	fmt.Fprint(w, " ) ")
}
