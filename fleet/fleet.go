// Package fleet runs many game drivers in lock-step ticks, batching
// their evaluator requests into one contiguous block per tick and
// producing the training samples, match scores, and game logs of a
// self-play or evaluation run.
package fleet

import (
	"fmt"
	"io"
	"math/rand"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/corintho/engine/driver"
	"github.com/corintho/engine/evaluator"
	"github.com/corintho/engine/mcts"
	"github.com/corintho/engine/symmetry"
)

// Mode selects how a tick's participating drivers are chosen.
type Mode int

const (
	// Training evaluates every undone driver each tick, regardless of
	// which side is to move: both searchers in a driver share the same
	// evaluator (self-play of one model).
	Training Mode = iota
	// Testing evaluates only the drivers for which the filter passed to
	// PendingBatch accepts the driver index and active side, so the two
	// halves of a two-model match can be queried on alternating ticks.
	Testing
)

// Fleet holds a vector of drivers with per-driver done flags and
// start-delay staggering.
type Fleet struct {
	drivers    []*driver.Driver
	delay      []int
	started    []bool
	done       []bool
	mode       Mode
	startDelay int
	numThreads int

	participants []int // driver indices assembled into the last PendingBatch
	offsets      []int // per-participant leaf offset into that batch
}

// New builds a fleet of n drivers, ticked by numThreads workers
// (clamped up to 1). seed(i) seeds driver i's own shared RNG; pair(i,
// rng) constructs the two searchers (or random stand-ins, nil) for
// driver i against that same RNG, so the driver's random-move fallback
// and both its searchers draw from one shared source. In testing mode
// the caller is responsible for flipping which searcher is passed first
// by driver index parity, so both models play first equally often
// across the pool. startDelay staggers driver i's first iteration by
// i*startDelay ticks, bounding peak resident node count well below the
// naive all-trees-full-at-once worst case.
func New(n int, pair func(i int, rng *rand.Rand) (*mcts.Searcher, *mcts.Searcher), seed func(i int) uint64, mode Mode, startDelay, numThreads int) *Fleet {
	if numThreads < 1 {
		numThreads = 1
	}
	f := &Fleet{
		drivers:    make([]*driver.Driver, n),
		delay:      make([]int, n),
		started:    make([]bool, n),
		done:       make([]bool, n),
		mode:       mode,
		startDelay: startDelay,
		numThreads: numThreads,
	}
	for i := 0; i < n; i++ {
		rng := rand.New(rand.NewSource(int64(seed(i))))
		a, b := pair(i, rng)
		f.drivers[i] = driver.New(a, b, rng)
		f.delay[i] = i * startDelay
	}
	return f
}

// NewGames resets every driver to a fresh game and its start delay to
// i*startDelay ticks, returning the initial batch for the drivers
// filter selects (see PendingBatch; pass nil in Training mode).
func (f *Fleet) NewGames(filter func(driverIdx, side int) bool) evaluator.Batch {
	for i := range f.done {
		f.done[i] = false
		f.started[i] = false
		f.delay[i] = i * f.startDelay
	}
	return f.PendingBatch(filter)
}

// Driver returns driver i, for callers that need to inspect or log an
// individual game.
func (f *Fleet) Driver(i int) *driver.Driver { return f.drivers[i] }

// NumDrivers returns the number of drivers in the fleet.
func (f *Fleet) NumDrivers() int { return len(f.drivers) }

// AllDone reports whether every driver has finished its game.
func (f *Fleet) AllDone() bool {
	for _, done := range f.done {
		if !done {
			return false
		}
	}
	return true
}

// PendingBatch assembles a contiguous block of feature tensors for this
// tick's participating drivers: every driver not yet done and past its
// start delay, restricted in testing mode to those for which
// filter(driverIdx, activeSide) reports true, e.g. "this driver's
// active side is the model currently being queried", which, under a
// parity-flipped pairing, is a different raw side per driver. filter is
// ignored in Training mode (pass nil) since every driver always
// participates there. Remembers participation and per-driver offsets so
// the matching Advance call can scatter responses back to the right
// driver. Calling PendingBatch also consumes one tick of every
// not-yet-participating driver's start delay.
func (f *Fleet) PendingBatch(filter func(driverIdx, side int) bool) evaluator.Batch {
	f.participants = f.participants[:0]
	f.offsets = f.offsets[:0]
	var feats []float32
	leafOffset := 0
	for i, d := range f.drivers {
		if f.done[i] {
			continue
		}
		if f.delay[i] > 0 {
			f.delay[i]--
			continue
		}
		if !f.started[i] {
			// The driver's start delay just ran out: prime its first game
			// now, so any bootstrap evaluation request joins this batch.
			d.NewGame()
			f.started[i] = true
		}
		if f.mode == Testing && filter != nil && !filter(i, d.ActiveSide()) {
			continue
		}
		f.participants = append(f.participants, i)
		f.offsets = append(f.offsets, leafOffset)
		feats = append(feats, d.Buffer()...)
		leafOffset += d.NumRequests()
	}
	return evaluator.Batch{Features: feats}
}

// Advance applies responses (one per leaf PendingBatch assembled, in
// the same order) and runs one DoIteration for every driver that
// participated in the matching PendingBatch call, scattering each its
// own slice. Drivers that finish this tick are marked done. Must be
// called exactly once per PendingBatch call, with driver state
// otherwise untouched in between.
//
// Iterations run data-parallel across numThreads workers: each
// driver touches only its own tree, its own slice of responses, and its
// own RNG, and the fleet's bookkeeping is partitioned by driver index,
// so the only synchronization needed is the end-of-tick barrier.
func (f *Fleet) Advance(responses []mcts.Response) {
	work := make(chan int, len(f.participants))
	for i := range f.participants {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for t := 0; t < f.numThreads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				driverIdx := f.participants[i]
				d := f.drivers[driverIdx]
				n := d.NumRequests()
				var slice []mcts.Response
				if n > 0 {
					start := f.offsets[i]
					slice = responses[start : start+n]
				}
				if d.DoIteration(slice) {
					f.done[driverIdx] = true
				}
			}
		}()
	}
	wg.Wait()
}

// TrainingSamples returns every sample captured across all drivers,
// replicated under the 8 board symmetries with each copy's
// probability target permuted to match.
func (f *Fleet) TrainingSamples() []mcts.TrainingSample {
	var out []mcts.TrainingSample
	for _, d := range f.drivers {
		for _, s := range d.Samples() {
			for _, sym := range symmetry.All() {
				var ts mcts.TrainingSample
				sym.Position(s.Position).WriteFeatures(ts.Features[:])
				copy(ts.Probs[:], sym.Policy(s.Probs[:]))
				ts.Outcome = s.Outcome
				out = append(out, ts)
			}
		}
	}
	return out
}

// Scoreboard summarizes a finished fleet run.
type Scoreboard struct {
	Wins, Losses, Draws int
	// AvgSolvedLength is the mean ply count of decisive (non-draw)
	// games.
	AvgSolvedLength float64
}

func (sb Scoreboard) String() string {
	return fmt.Sprintf("W:%d L:%d D:%d avg_mate_len:%.1f", sb.Wins, sb.Losses, sb.Draws, sb.AvgSolvedLength)
}

// Scores returns every driver's outcome relative to player 0, in driver
// order.
func (f *Fleet) Scores() []driver.Outcome {
	out := make([]driver.Outcome, len(f.drivers))
	for i, d := range f.drivers {
		out[i] = d.Outcome()
	}
	return out
}

// Scoreboard tallies outcomes across every driver, valid once AllDone
// reports true.
func (f *Fleet) Scoreboard() Scoreboard {
	var sb Scoreboard
	var decisivePlies int
	for _, d := range f.drivers {
		switch d.Outcome() {
		case driver.Win:
			sb.Wins++
			decisivePlies += int(d.Depth())
		case driver.Loss:
			sb.Losses++
			decisivePlies += int(d.Depth())
		default:
			sb.Draws++
		}
	}
	if decisive := sb.Wins + sb.Losses; decisive > 0 {
		sb.AvgSolvedLength = float64(decisivePlies) / float64(decisive)
	}
	return sb
}

// WriteLogs writes the first numLogged drivers' human-readable move
// logs to w, aggregating per-driver write failures instead of stopping
// at the first one.
func (f *Fleet) WriteLogs(w io.Writer, numLogged int) error {
	var result *multierror.Error
	for i := 0; i < numLogged && i < len(f.drivers); i++ {
		if _, err := fmt.Fprintf(w, "=== game %d: %v ===\n%s\n", i, f.drivers[i].Outcome(), f.drivers[i].Log()); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "fleet: writing log for driver %d", i))
		}
	}
	return result.ErrorOrNil()
}
