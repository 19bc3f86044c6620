// Package visualize renders a Searcher's subtree as a Graphviz DOT
// graph, the structured counterpart to mcts.PrintMainLine and
// PrintKnownLines for callers that want to look at more than just the
// main line.
package visualize

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/corintho/engine/game"
	"github.com/corintho/engine/mcts"
)

const graphName = "search"

// Tree renders the subtree rooted at root (pass s.Root() for the whole
// tree) to a DOT graph string, down to maxDepth plies below root (pass
// a negative number for no limit). Each node is labeled with its move,
// visit count, evaluation (or known result), and prior.
func Tree(s *mcts.Searcher, root int32, maxDepth int) string {
	g := gographviz.NewGraph()
	g.SetName(graphName)
	g.SetDir(true)

	name := nodeName(root)
	g.AddNode(graphName, name, map[string]string{
		"label": quote(rootLabel(s.Node(root))),
		"shape": "box",
	})
	addChildren(g, s, root, name, 0, maxDepth)
	return g.String()
}

func addChildren(g *gographviz.Graph, s *mcts.Searcher, parent int32, parentName string, depth, maxDepth int) {
	if maxDepth >= 0 && depth >= maxDepth {
		return
	}
	n := s.Node(parent)
	for child := n.FirstChild(); child != mcts.NoChild; child = s.Node(child).NextSibling() {
		cn := s.Node(child)
		name := nodeName(child)
		g.AddNode(graphName, name, map[string]string{
			"label": quote(nodeLabel(n, cn)),
			"shape": "box",
		})
		g.AddEdge(parentName, name, true, nil)
		addChildren(g, s, child, name, depth+1, maxDepth)
	}
}

func nodeName(idx int32) string { return fmt.Sprintf("n%d", idx) }

func rootLabel(n *mcts.Node) string {
	return fmt.Sprintf("root\\nv:%d\\ne:%.3f", n.Visits(), safeEval(n))
}

// nodeLabel labels a materialized child, finding its prior by scanning
// the parent's edges for the matching move id.
func nodeLabel(parent, n *mcts.Node) string {
	mv, _ := game.Decode(int(n.ChildID()))
	var prior float32
	for i := 0; i < int(parent.NumLegalMoves()); i++ {
		if parent.MoveID(i) == n.ChildID() {
			prior = parent.Probability(i)
			break
		}
	}
	label := fmt.Sprintf("%v\\nv:%d\\np:%.3f", mv, n.Visits(), prior)
	if n.Result().Known() {
		label += fmt.Sprintf("\\n%v", n.Result())
	} else {
		label += fmt.Sprintf("\\ne:%.3f", safeEval(n))
	}
	return label
}

func safeEval(n *mcts.Node) float32 {
	if n.Visits() == 0 {
		return 0
	}
	return n.Evaluation() / float32(n.Visits())
}

func quote(s string) string { return fmt.Sprintf("%q", s) }
