// Package evaluator defines the boundary between the search engine and
// the external position evaluator (the neural network). The core only
// ever sees a Batch in and a slice of mcts.Response out; how the
// network is hosted, trained, or marshaled across a process boundary is
// an orchestration concern this package deliberately says nothing
// about.
package evaluator

import (
	"github.com/corintho/engine/game"
	"github.com/corintho/engine/mcts"
)

// Batch is a contiguous block of game-state tensors awaiting
// evaluation: one game.GameStateSize run of floats per leaf, back to
// back.
type Batch struct {
	Features []float32
}

// NumLeaves reports how many tensors Features holds.
func (b Batch) NumLeaves() int { return len(b.Features) / game.GameStateSize }

// Leaf returns the i'th tensor as a slice view into Features.
func (b Batch) Leaf(i int) []float32 {
	return b.Features[i*game.GameStateSize : (i+1)*game.GameStateSize]
}

// Evaluator is anything that can turn a Batch of leaf tensors into one
// mcts.Response per leaf, in the same order. Implementations are free to
// run the model out of process; this interface only commits to the
// shape of the round trip.
type Evaluator interface {
	Evaluate(b Batch) ([]mcts.Response, error)
}

// Func adapts a plain function to Evaluator, for tests and simple
// heuristic hooks.
type Func func(b Batch) ([]mcts.Response, error)

// Evaluate calls f.
func (f Func) Evaluate(b Batch) ([]mcts.Response, error) { return f(b) }
