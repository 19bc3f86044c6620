package main

import (
	"encoding/gob"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/corintho/engine/fleet"
	"github.com/corintho/engine/internal/heuristic"
	"github.com/corintho/engine/internal/noise"
	"github.com/corintho/engine/mcts"
)

var (
	numGames        = flag.Int("num_games", 32, "number of self-play games to run")
	maxSearches     = flag.Int("max_searches", 800, "per-move search budget M")
	searchesPerEval = flag.Int("searches_per_eval", 16, "leaf batch size B")
	cPuct           = flag.Float64("c_puct", 1.0, "PUCT exploration constant")
	epsilon         = flag.Float64("epsilon", 0.25, "Dirichlet noise mixing weight")
	numLogged       = flag.Int("num_logged", 4, "number of games to log in full")
	numThreads      = flag.Int("num_threads", 4, "worker goroutines ticking drivers in parallel")
	startDelay      = flag.Int("start_delay", 4, "ticks staggering each driver's first iteration")
	outPath         = flag.String("out", "samples.gob", "file to write training samples to")
	logPath         = flag.String("log_path", "selfplay.log", "file to write logged games to")
	seed            = flag.Uint64("seed", 1, "RNG seed")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := mcts.Config{
		MaxSearches:     *maxSearches,
		SearchesPerEval: *searchesPerEval,
		CPuct:           float32(*cPuct),
		Epsilon:         float32(*epsilon),
	}
	if !cfg.IsValid() {
		log.Fatalf("selfplay: invalid mcts config %+v", cfg)
	}

	eval := heuristic.Evaluator{}

	f := fleet.New(*numGames, func(i int, rng *rand.Rand) (*mcts.Searcher, *mcts.Searcher) {
		noiseA := noise.New(*seed + uint64(i)*2)
		noiseB := noise.New(*seed + uint64(i)*2 + 1)
		return mcts.NewSearcher(cfg, noiseA, rng), mcts.NewSearcher(cfg, noiseB, rng)
	}, func(i int) uint64 { return *seed + uint64(i) }, fleet.Training, *startDelay, *numThreads)

	batch := f.NewGames(nil)
	tick := 0
	for !f.AllDone() {
		responses, err := eval.Evaluate(batch)
		if err != nil {
			log.Fatalf("selfplay: evaluator error: %v", err)
		}
		f.Advance(responses)
		batch = f.PendingBatch(nil)
		tick++
		if tick%200 == 0 {
			log.Printf("tick %d", tick)
		}
	}
	log.Printf("finished after %d ticks: %v", tick, f.Scoreboard())

	logFile, err := os.Create(*logPath)
	if err != nil {
		log.Fatalf("selfplay: creating log file: %v", err)
	}
	defer logFile.Close()
	if err := f.WriteLogs(logFile, *numLogged); err != nil {
		log.Printf("selfplay: writing logs: %v", err)
	}

	samples := f.TrainingSamples()
	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("selfplay: creating output file: %v", err)
	}
	defer out.Close()
	if err := gob.NewEncoder(out).Encode(samples); err != nil {
		log.Fatalf("selfplay: encoding samples: %v", err)
	}
	log.Printf("wrote %d training samples to %s", len(samples), *outPath)
}
