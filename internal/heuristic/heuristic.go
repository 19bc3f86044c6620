// Package heuristic is a minimal, non-learned evaluator.Evaluator: a
// material-difference evaluation with a uniform move prior. The real
// evaluator is an external neural network supplied by the orchestrating
// process; this exists only so cmd/selfplay and cmd/tourney have
// something runnable to plug in by default.
package heuristic

import (
	"github.com/corintho/engine/evaluator"
	"github.com/corintho/engine/mcts"
)

// Evaluator implements evaluator.Evaluator.
type Evaluator struct{}

// Evaluate scores every leaf in b independently.
func (Evaluator) Evaluate(b evaluator.Batch) ([]mcts.Response, error) {
	out := make([]mcts.Response, b.NumLeaves())
	for i := range out {
		out[i] = evaluate(b.Leaf(i))
	}
	return out, nil
}

// evaluate reads the 6 remaining-piece-count features of the tensor
// (the side-to-play's three counts come first) and returns their
// difference, clamped to [-1, 1], as the evaluation, with a uniform
// prior over every move id.
func evaluate(features []float32) mcts.Response {
	var r mcts.Response
	var own, opp float32
	for i := 0; i < 6; i++ {
		if i < 3 {
			own += features[64+i]
		} else {
			opp += features[64+i]
		}
	}
	r.Eval = clamp(own - opp)
	for i := range r.Priors {
		r.Priors[i] = 1
	}
	return r
}

func clamp(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
