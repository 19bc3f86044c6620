package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for id := 0; id < NumMoves; id++ {
		m, err := Decode(id)
		require.NoError(t, err)
		got, err := Encode(m)
		require.NoError(t, err)
		assert.Equalf(t, id, got, "move %v decoded from %d re-encoded to %d", m, id, got)
	}
}

func TestDecodeOutOfRange(t *testing.T) {
	_, err := Decode(-1)
	assert.Error(t, err)
	_, err = Decode(NumMoves)
	assert.Error(t, err)
}

func TestEncodeSlideRejectsNonNeighbors(t *testing.T) {
	_, err := EncodeSlide(Space{0, 0}, Space{2, 2})
	assert.Error(t, err)
	_, err = EncodeSlide(Space{0, 0}, Space{1, 1})
	assert.Error(t, err)
}

func TestMoveStringPlacement(t *testing.T) {
	m := Move{Kind: Place, Piece: Base, To: Space{Row: 1, Col: 1}}
	assert.Equal(t, "Bb3", m.String())
}

func TestMoveStringSlide(t *testing.T) {
	right, err := Decode(0)
	require.NoError(t, err)
	assert.Equal(t, "a4R", right.String())
}

func TestDecodeBandBoundaries(t *testing.T) {
	right, _ := Decode(0)
	assert.Equal(t, Move{Kind: Slide, From: Space{0, 0}, To: Space{0, 1}}, right)

	down, _ := Decode(12)
	assert.Equal(t, Move{Kind: Slide, From: Space{0, 0}, To: Space{1, 0}}, down)

	left, _ := Decode(24)
	assert.Equal(t, Move{Kind: Slide, From: Space{0, 1}, To: Space{0, 0}}, left)

	up, _ := Decode(36)
	assert.Equal(t, Move{Kind: Slide, From: Space{1, 0}, To: Space{0, 0}}, up)

	place, _ := Decode(48)
	assert.Equal(t, Move{Kind: Place, Piece: Base, To: Space{0, 0}}, place)

	lastPlace, _ := Decode(95)
	assert.Equal(t, Move{Kind: Place, Piece: Capital, To: Space{3, 3}}, lastPlace)
}
