package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corintho/engine/game"
	"github.com/corintho/engine/mcts"
)

func TestBatchNumLeavesAndLeafSlicing(t *testing.T) {
	b := Batch{Features: make([]float32, 3*game.GameStateSize)}
	require.Equal(t, 3, b.NumLeaves())

	for i := 0; i < 3; i++ {
		leaf := b.Leaf(i)
		assert.Len(t, leaf, game.GameStateSize)
	}

	b.Leaf(1)[0] = 42
	assert.Equal(t, float32(42), b.Features[game.GameStateSize])
}

func TestEmptyBatchHasNoLeaves(t *testing.T) {
	b := Batch{}
	assert.Equal(t, 0, b.NumLeaves())
}

func TestFuncAdapterImplementsEvaluator(t *testing.T) {
	var called bool
	f := Func(func(b Batch) ([]mcts.Response, error) {
		called = true
		return make([]mcts.Response, b.NumLeaves()), nil
	})

	var e Evaluator = f
	resp, err := e.Evaluate(Batch{Features: make([]float32, game.GameStateSize)})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Len(t, resp, 1)
}
