// Package driver runs one Corintho game to completion, alternating two
// trees (or a randomly-playing stand-in) against each other over a
// shared evaluator scratch buffer.
package driver

import (
	"bytes"
	"log"
	"math/rand"

	"github.com/corintho/engine/game"
	"github.com/corintho/engine/mcts"
)

// Outcome is a finished game's result relative to player 0.
type Outcome int

const (
	Draw Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	default:
		return "Draw"
	}
}

// Sample pairs a captured training target with the position it was
// taken from, so a consumer (the fleet coordinator's symmetry
// expansion) can re-derive transformed feature tensors without
// inverting the dense encoding.
type Sample struct {
	mcts.TrainingSample
	Position game.Position
}

// recordedSample additionally tracks the side that was to move when the
// sample was taken, so the terminal outcome can be signed correctly per
// sample even when one player is a non-recording random stand-in and
// the two sides' samples do not simply alternate.
type recordedSample struct {
	sample Sample
	side   int8
}

// Driver owns the two players of one game. A nil entry in searchers
// stands for a uniformly-random player.
type Driver struct {
	searchers [2]*mcts.Searcher
	started   [2]bool

	pos   game.Position
	depth int8

	buf []float32
	rng *rand.Rand

	samples []recordedSample

	done    bool
	outcome Outcome

	logBuf bytes.Buffer
	logger *log.Logger
}

// New builds a driver for one game between a (searcher a, searcher b)
// pair, either of which may be nil for a random stand-in, sharing an
// evaluator scratch buffer sized to the larger of the two search
// batches and a single RNG. The one rng serves both searchers and the
// driver's own random-move fallback; they never draw concurrently,
// since only the active side searches. Whether training samples are
// captured at all is controlled per searcher by its own
// mcts.Config.Testing.
func New(a, b *mcts.Searcher, rng *rand.Rand) *Driver {
	maxBatch := 0
	if a != nil && a.Config().SearchesPerEval > maxBatch {
		maxBatch = a.Config().SearchesPerEval
	}
	if b != nil && b.Config().SearchesPerEval > maxBatch {
		maxBatch = b.Config().SearchesPerEval
	}
	d := &Driver{
		rng: rng,
		buf: make([]float32, maxBatch*game.GameStateSize),
	}
	d.searchers[0] = a
	d.searchers[1] = b
	d.logger = log.New(&d.logBuf, "", log.Ltime)
	d.pos = game.New()
	return d
}

// NewGame resets d to a fresh starting position and primes the first
// mover, returning true iff an evaluator response is needed before the
// first DoIteration call.
func (d *Driver) NewGame() bool {
	d.pos = game.New()
	d.depth = 0
	d.started = [2]bool{}
	d.samples = d.samples[:0]
	d.done = false
	d.logBuf.Reset()
	return d.activate(0, 0)
}

// activate makes player the active side for the current position,
// priming its searcher: NewGame on its very first turn, otherwise
// ReceiveOpponentMove with the move that was just played. A random
// stand-in never needs an evaluator response.
func (d *Driver) activate(player int, lastMove int8) bool {
	s := d.searchers[player]
	if s == nil {
		d.started[player] = true
		return false
	}
	// Point the searcher at the scratch buffer before priming it: both
	// NewGame and ReceiveOpponentMove may push the new root as a pending
	// leaf, and pending leaves write their feature tensors on push.
	s.SetBuffer(d.buf)
	var needsEval bool
	if !d.started[player] {
		needsEval = s.NewGame(d.pos, d.depth)
	} else {
		needsEval = s.ReceiveOpponentMove(lastMove, d.pos, d.depth)
	}
	d.started[player] = true
	return needsEval
}

// ActiveSide returns the side (0 or 1) to move in the current position.
func (d *Driver) ActiveSide() int { return d.pos.Side() }

// Done reports whether the game has ended.
func (d *Driver) Done() bool { return d.done }

// Depth returns the ply count reached so far (the final game length,
// once Done reports true).
func (d *Driver) Depth() int8 { return d.depth }

// Outcome returns the finished game's result relative to player 0.
// Valid only once Done reports true.
func (d *Driver) Outcome() Outcome { return d.outcome }

// NumRequests returns how many evaluator requests the active searcher
// has pending; 0 if the active side is random or nothing is pending.
func (d *Driver) NumRequests() int {
	s := d.searchers[d.ActiveSide()]
	if s == nil {
		return 0
	}
	return s.NumRequests()
}

// Buffer returns the scratch feature buffer the active searcher writes
// its pending requests into, trimmed to the number of live requests.
func (d *Driver) Buffer() []float32 {
	n := d.NumRequests()
	return d.buf[:n*game.GameStateSize]
}

// Samples returns the training samples captured so far, with outcome
// fields populated once the game has ended.
func (d *Driver) Samples() []Sample {
	out := make([]Sample, len(d.samples))
	for i, r := range d.samples {
		out[i] = r.sample
	}
	return out
}

// Log returns the driver's accumulated human-readable move log.
func (d *Driver) Log() string { return d.logBuf.String() }

// DoIteration runs one tick of the game: it drives whichever side is
// active (applying a uniform random move directly, or delegating to
// that side's searcher) until an evaluator batch is required or the
// game ends. responses must answer the active
// searcher's previously reported NumRequests(); pass nil when nothing
// is pending (a fresh game whose first mover is random, or immediately
// after NewGame/activate reported no evaluator need). Returns true iff
// the game has ended.
func (d *Driver) DoIteration(responses []mcts.Response) bool {
	if d.done {
		return true
	}
	for {
		side := d.ActiveSide()
		active := d.searchers[side]

		if active == nil {
			ended, needsEval := d.playRandomMove()
			if ended {
				return true
			}
			if needsEval {
				return false
			}
			continue
		}

		turnComplete := active.DoIteration(responses)
		responses = nil
		if !turnComplete {
			return false
		}

		pos := active.RootNode().Position()
		moveID, sample := active.ChooseMove()
		if sample != nil {
			d.samples = append(d.samples, recordedSample{
				sample: Sample{TrainingSample: *sample, Position: pos},
				side:   int8(side),
			})
		}
		d.logger.Printf("%d. p%d %v\n", d.depth, side, moveID)
		if d.applyMove(moveID) {
			return true
		}
		if d.activate(d.ActiveSide(), moveID) {
			return false
		}
	}
}

// playRandomMove applies a uniformly-chosen legal move for the active
// (random) side. ended reports the game finishing as a result;
// needsEval reports the newly-active opponent needing an evaluator
// response before it can search.
func (d *Driver) playRandomMove() (ended, needsEval bool) {
	mask, hasLine := d.pos.LegalMoves()
	if mask.Empty() {
		d.finish(hasLine)
		return true, false
	}
	var moves []int
	mask.ForEach(func(id int) { moves = append(moves, id) })
	moveID := int8(moves[d.rng.Intn(len(moves))])
	d.logger.Printf("%d. p%d %v (random)\n", d.depth, d.ActiveSide(), moveID)
	if d.applyMove(moveID) {
		return true, false
	}
	return false, d.activate(d.ActiveSide(), moveID)
}

// applyMove plays moveID on d.pos and checks for game end, returning
// true iff the game just ended.
func (d *Driver) applyMove(moveID int8) bool {
	d.pos = d.pos.Apply(int(moveID))
	d.depth++
	mask, hasLine := d.pos.LegalMoves()
	if !mask.Empty() {
		return false
	}
	d.finish(hasLine)
	return true
}

// finish records the terminal outcome (no legal moves is a loss for
// the side to move if a line exists, else a draw) and finalizes every
// recorded training sample.
func (d *Driver) finish(hasLine bool) {
	d.done = true
	switch {
	case !hasLine:
		d.outcome = Draw
	case d.pos.Side() == 0:
		d.outcome = Loss
	default:
		d.outcome = Win
	}
	d.finalizeSamples()
}

// finalizeSamples attaches the terminal outcome to every recorded
// sample, signed from that sample's own side-to-move perspective: +1
// for the winner's positions, -1 for the loser's, 0 everywhere on a
// draw. Signing by the side recorded at capture time rather than by
// alternation keeps a random opponent, which contributes no samples of
// its own, from flipping the signs of everything after it.
func (d *Driver) finalizeSamples() {
	var forPlayer0 float32
	switch d.outcome {
	case Win:
		forPlayer0 = 1
	case Loss:
		forPlayer0 = -1
	}
	for i := range d.samples {
		if d.samples[i].side == 0 {
			d.samples[i].sample.Outcome = forPlayer0
		} else {
			d.samples[i].sample.Outcome = -forPlayer0
		}
	}
}
