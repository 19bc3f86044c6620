package symmetry

import (
	"testing"

	"github.com/corintho/engine/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsEightDistinctSymmetries(t *testing.T) {
	syms := All()
	require.Len(t, syms, 8)
	seen := map[string]bool{}
	for _, s := range syms {
		assert.False(t, seen[s.String()], "duplicate symmetry %s", s)
		seen[s.String()] = true
	}
}

func TestMovePermutationIsABijection(t *testing.T) {
	for _, s := range All() {
		perm := s.movePermutation()
		seen := map[int]bool{}
		for _, id := range perm {
			assert.GreaterOrEqual(t, id, 0)
			assert.Less(t, id, game.NumMoves)
			assert.False(t, seen[id], "symmetry %s maps two move ids onto %d", s, id)
			seen[id] = true
		}
	}
}

func TestIdentityPreservesPosition(t *testing.T) {
	p := game.New()
	id, err := game.EncodePlace(game.Base, game.Space{Row: 1, Col: 2})
	require.NoError(t, err)
	p = p.Apply(id)

	transformed := identity.Position(p)
	assert.Equal(t, p, transformed)
}

func TestRot180IsInvolution(t *testing.T) {
	p := game.New()
	id, err := game.EncodePlace(game.Base, game.Space{Row: 0, Col: 0})
	require.NoError(t, err)
	p = p.Apply(id)

	twice := rot180.Position(rot180.Position(p))
	assert.Equal(t, p, twice)
}

func TestPolicyConservesTotalMass(t *testing.T) {
	probs := make([]float32, game.NumMoves)
	var total float32
	for i := range probs {
		probs[i] = float32(i%7) * 0.01
		total += probs[i]
	}
	for _, s := range All() {
		out := s.Policy(probs)
		var got float32
		for _, v := range out {
			got += v
		}
		assert.InDelta(t, total, got, 1e-4, "symmetry %s must conserve total probability mass", s)
	}
}
