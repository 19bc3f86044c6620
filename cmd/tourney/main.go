// Command tourney runs a scored match between two evaluators: a
// parity-balanced, fully automated tournament in which each model plays
// first in half the games.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/corintho/engine/driver"
	"github.com/corintho/engine/evaluator"
	"github.com/corintho/engine/fleet"
	"github.com/corintho/engine/internal/heuristic"
	"github.com/corintho/engine/internal/noise"
	"github.com/corintho/engine/mcts"
)

var (
	numGames        = flag.Int("num_games", 100, "number of games in the match")
	maxSearches     = flag.Int("max_searches", 800, "per-move search budget M")
	searchesPerEval = flag.Int("searches_per_eval", 16, "leaf batch size B")
	cPuct           = flag.Float64("c_puct", 1.0, "PUCT exploration constant")
	numThreads      = flag.Int("num_threads", 4, "worker goroutines ticking drivers in parallel")
	seed            = flag.Uint64("seed", 1, "RNG seed")
)

// baseline is a zero-information evaluator (flat evaluation, uniform
// prior) used as model B so this command is runnable without a trained
// network; swap evaluator.Evaluator implementations in to compare real
// models.
type baseline struct{}

func (baseline) Evaluate(b evaluator.Batch) ([]mcts.Response, error) {
	out := make([]mcts.Response, b.NumLeaves())
	for i := range out {
		for j := range out[i].Priors {
			out[i].Priors[j] = 1
		}
	}
	return out, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := mcts.Config{
		MaxSearches:     *maxSearches,
		SearchesPerEval: *searchesPerEval,
		CPuct:           float32(*cPuct),
		Epsilon:         0,
		Testing:         true,
	}
	if !cfg.IsValid() {
		log.Fatalf("tourney: invalid mcts config %+v", cfg)
	}

	modelA := heuristic.Evaluator{}
	modelB := baseline{}

	f := fleet.New(*numGames, func(i int, rng *rand.Rand) (*mcts.Searcher, *mcts.Searcher) {
		a := mcts.NewSearcher(cfg, noise.New(*seed+uint64(i)*2), rng)
		b := mcts.NewSearcher(cfg, noise.New(*seed+uint64(i)*2+1), rng)
		if i%2 == 0 {
			return a, b // driver i's side 0 is model A
		}
		return b, a // driver i's side 0 is model B
	}, func(i int) uint64 { return *seed + uint64(i) }, fleet.Testing, 0, *numThreads)

	sideOf := func(model int) func(driverIdx, side int) bool {
		return func(driverIdx, side int) bool {
			wantSide := 0
			if driverIdx%2 != 0 {
				wantSide = 1
			}
			if model == 1 {
				wantSide = 1 - wantSide
			}
			return side == wantSide
		}
	}

	batchA := f.NewGames(sideOf(0))
	for !f.AllDone() {
		respA, err := modelA.Evaluate(batchA)
		if err != nil {
			log.Fatalf("tourney: model A evaluator error: %v", err)
		}
		f.Advance(respA)

		batchB := f.PendingBatch(sideOf(1))
		respB, err := modelB.Evaluate(batchB)
		if err != nil {
			log.Fatalf("tourney: model B evaluator error: %v", err)
		}
		f.Advance(respB)

		batchA = f.PendingBatch(sideOf(0))
	}

	sb := f.Scoreboard()
	sb.Wins, sb.Losses = 0, 0
	for i, o := range f.Scores() {
		if o == driver.Draw {
			continue
		}
		// Outcomes are relative to player 0, which is model B on odd drivers.
		if (o == driver.Win) == (i%2 == 0) {
			sb.Wins++
		} else {
			sb.Losses++
		}
	}
	log.Printf("match finished: %v (model A's perspective)", sb)
}
