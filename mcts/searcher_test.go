package mcts

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/corintho/engine/game"
	"github.com/corintho/engine/internal/noise"
)

func newTestSearcher(cfg Config, seed uint64) *Searcher {
	return NewSearcher(cfg, noise.New(seed), rand.New(rand.NewSource(int64(seed))))
}

// uniformResponses builds n responses with a flat prior and zero eval,
// enough to drive a searcher through DoIteration without needing a real
// evaluator.
func uniformResponses(n int) []Response {
	out := make([]Response, n)
	for i := range out {
		for j := range out[i].Priors {
			out[i].Priors[j] = 1
		}
	}
	return out
}

// runToTurnComplete feeds s uniform responses until a turn finishes,
// seeding the loop from s's currently pending request count (set by
// whatever NewGame/ReceiveOpponentMove call preceded it).
func runToTurnComplete(t *testing.T, s *Searcher) {
	t.Helper()
	responses := uniformResponses(s.NumRequests())
	for i := 0; i < 10000; i++ {
		if s.DoIteration(responses) {
			return
		}
		responses = uniformResponses(s.NumRequests())
	}
	t.Fatal("searcher did not complete a turn within 10000 iterations")
}

func TestNewSearcherPanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewSearcher(Config{MaxSearches: 1}, noise.New(1), rand.New(rand.NewSource(1)))
	})
}

func TestNewGameOnFreshPositionNeedsEvaluation(t *testing.T) {
	cfg := Config{MaxSearches: 4, SearchesPerEval: 2, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	needsEval := s.NewGame(game.New(), 0)
	assert.True(t, needsEval)
	assert.Equal(t, 1, s.NumRequests())
	assert.Equal(t, int32(0), s.Root())
}

func TestDoIterationPanicsOnResponseLengthMismatch(t *testing.T) {
	cfg := Config{MaxSearches: 4, SearchesPerEval: 2, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.NewGame(game.New(), 0)
	assert.Panics(t, func() {
		s.DoIteration(uniformResponses(s.NumRequests() + 1))
	})
}

func TestDoIterationStopsAtMoveBudget(t *testing.T) {
	cfg := Config{MaxSearches: 2, SearchesPerEval: 1, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))
	s.NewGame(game.New(), 0)
	runToTurnComplete(t, s)

	root := s.RootNode()
	assert.GreaterOrEqual(t, root.Visits(), int16(cfg.MaxSearches))
}

func TestApplyResponsePriorsSumToOne(t *testing.T) {
	cfg := Config{MaxSearches: 4, SearchesPerEval: 1, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.NewGame(game.New(), 0)
	s.DoIteration(uniformResponses(s.NumRequests()))

	root := s.RootNode()
	var sum float32
	for i := 0; i < int(root.NumLegalMoves()); i++ {
		p := root.Probability(i)
		assert.GreaterOrEqual(t, p, float32(0))
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestEdgeWeightsStayWithinQuantizationBounds(t *testing.T) {
	cfg := Config{MaxSearches: 4, SearchesPerEval: 1, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.NewGame(game.New(), 0)
	s.DoIteration(uniformResponses(s.NumRequests()))

	root := s.RootNode()
	for i := 0; i < int(root.NumLegalMoves()); i++ {
		p := root.Probability(i)
		assert.LessOrEqual(t, p, float32(1))
		w := root.edges[i].weight
		assert.GreaterOrEqual(t, w, uint16(1))
		assert.LessOrEqual(t, w, uint16(MaxProbability))
	}
}

func TestChooseMovePromotesRootAndEmitsTrainingSample(t *testing.T) {
	cfg := Config{MaxSearches: 8, SearchesPerEval: 2, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))
	s.NewGame(game.New(), 0)
	runToTurnComplete(t, s)

	moveID, sample := s.ChooseMove()
	require.NotNil(t, sample)

	mv, err := game.Decode(int(moveID))
	require.NoError(t, err)
	assert.NotNil(t, mv)

	var probSum float32
	for _, p := range sample.Probs {
		probSum += p
	}
	assert.InDelta(t, 1.0, probSum, 0.01)

	assert.EqualValues(t, 1, s.RootNode().Depth())
}

func TestChooseMoveOmitsSampleWhenTesting(t *testing.T) {
	cfg := Config{MaxSearches: 4, SearchesPerEval: 1, CPuct: 1, Epsilon: 0, Testing: true}
	s := newTestSearcher(cfg, 1)
	s.NewGame(game.New(), 0)
	runToTurnComplete(t, s)

	_, sample := s.ChooseMove()
	assert.Nil(t, sample)
}

func TestReceiveOpponentMoveFallsBackWithoutMaterializedChild(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSearcher(cfg, 1)
	s.NewGame(game.New(), 0)

	mask, _ := game.New().LegalMoves()
	var moveID int8 = -1
	mask.ForEach(func(id int) {
		if moveID == -1 {
			moveID = int8(id)
		}
	})
	require.NotEqual(t, int8(-1), moveID)

	fallback := game.New().Apply(int(moveID))
	needsEval := s.ReceiveOpponentMove(moveID, fallback, 1)
	assert.True(t, needsEval)
	assert.Equal(t, fallback, s.RootNode().Position())
	assert.EqualValues(t, 1, s.RootNode().Depth())
}

func TestCountNodesGrowsWithSearch(t *testing.T) {
	cfg := Config{MaxSearches: 16, SearchesPerEval: 4, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 1)
	s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))
	s.NewGame(game.New(), 0)
	before := s.CountNodes()
	runToTurnComplete(t, s)
	after := s.CountNodes()
	assert.Greater(t, after, before)
}

// capitalThreatPosition builds a position with capitals atop columns on
// the first three spaces of the top row and the fourth space empty, so
// the side to move wins outright by placing its own capital there: the
// completed capital line cannot be covered or slid away from, leaving
// the opponent with no legal reply.
func capitalThreatPosition(t *testing.T) game.Position {
	t.Helper()
	p := game.New()
	for _, m := range []struct {
		piece game.PieceType
		to    game.Space
	}{
		{game.Column, game.Space{Row: 0, Col: 0}},
		{game.Column, game.Space{Row: 0, Col: 1}},
		{game.Capital, game.Space{Row: 0, Col: 0}},
		{game.Capital, game.Space{Row: 0, Col: 1}},
		{game.Column, game.Space{Row: 0, Col: 2}},
		{game.Column, game.Space{Row: 2, Col: 0}},
		{game.Capital, game.Space{Row: 0, Col: 2}},
	} {
		id, err := game.EncodePlace(m.piece, m.to)
		require.NoError(t, err)
		p = p.Apply(id)
	}
	return p
}

func TestSearchDeducesWinAndConcentratesProbabilityTarget(t *testing.T) {
	cfg := Config{MaxSearches: 400, SearchesPerEval: 4, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 5)
	s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))

	needsEval := s.NewGame(capitalThreatPosition(t), 7)
	require.True(t, needsEval)
	runToTurnComplete(t, s)

	require.Equal(t, ResultDeducedWin, s.RootNode().Result())

	winID, err := game.EncodePlace(game.Capital, game.Space{Row: 0, Col: 3})
	require.NoError(t, err)

	moveID, sample := s.ChooseMove()
	assert.EqualValues(t, winID, moveID)
	require.NotNil(t, sample)
	assert.Equal(t, float32(1), sample.Probs[winID])
	assert.True(t, s.RootNode().Result().Lost(), "the promoted root is the opponent's lost position")
}

func TestTerminalRootReportsTurnCompleteWithoutRequests(t *testing.T) {
	// Complete the capital line so the new root is itself terminal: the
	// searcher must not request an evaluation and the first DoIteration
	// must immediately report the turn complete.
	p := capitalThreatPosition(t)
	winID, err := game.EncodePlace(game.Capital, game.Space{Row: 0, Col: 3})
	require.NoError(t, err)
	p = p.Apply(winID)

	cfg := Config{MaxSearches: 4, SearchesPerEval: 2, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 9)
	needsEval := s.NewGame(p, 8)
	assert.False(t, needsEval)
	assert.Equal(t, 0, s.NumRequests())
	assert.Equal(t, ResultTerminalLoss, s.RootNode().Result())
	assert.True(t, s.DoIteration(nil))
}

func TestChildVisitsNeverExceedParentVisits(t *testing.T) {
	cfg := Config{MaxSearches: 64, SearchesPerEval: 8, CPuct: 1, Epsilon: 0.25}
	s := newTestSearcher(cfg, 11)
	s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))
	s.NewGame(game.New(), 0)
	runToTurnComplete(t, s)

	root := s.RootNode()
	var childVisits int16
	for child := root.FirstChild(); child != NoChild; child = s.Node(child).NextSibling() {
		childVisits += s.Node(child).Visits()
	}
	assert.LessOrEqual(t, childVisits, root.Visits())
}

// With uniform priors and zero evaluations, opening move choice samples
// from the visit distribution, which should be statistically
// indistinguishable from uniform over the legal opening moves. This is
// a scaled-down chi-squared goodness-of-fit check; the very loose
// significance level keeps seed-to-seed variation from flaking it.
func TestOpeningSampleDistributionIsNearUniform(t *testing.T) {
	cfg := Config{MaxSearches: 96, SearchesPerEval: 8, CPuct: 1, Epsilon: 0.25}
	mask, _ := game.New().LegalMoves()
	numLegal := mask.PopCount()

	const trials = 480
	counts := make(map[int8]int, numLegal)
	for trial := 0; trial < trials; trial++ {
		s := newTestSearcher(cfg, uint64(trial)+1)
		s.SetBuffer(make([]float32, cfg.SearchesPerEval*game.GameStateSize))
		s.NewGame(game.New(), 0)
		runToTurnComplete(t, s)
		moveID, _ := s.ChooseMove()
		counts[moveID]++
	}

	expected := float64(trials) / float64(numLegal)
	var chi2 float64
	mask.ForEach(func(id int) {
		diff := float64(counts[int8(id)]) - expected
		chi2 += diff * diff / expected
	})
	critical := distuv.ChiSquared{K: float64(numLegal - 1)}.Quantile(0.999)
	assert.Less(t, chi2, critical,
		"opening histogram deviates from uniform: chi2 %.1f over %d moves", chi2, numLegal)
}
