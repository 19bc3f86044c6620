// Package symmetry expands a single game position and its move-probability
// target into the 8 board symmetries of the square Corintho board, the
// training-sample augmentation described in the glossary as "symmetry
// expansion". Move-id permutations are never hand-tabulated: each
// symmetry's coordinate transform is applied to the space(s) a move id
// decodes to, and the result is re-encoded through the same codec the
// rest of the engine uses, so a permutation is correct by construction.
package symmetry

import "github.com/corintho/engine/game"

// Symmetry is one of the 8 elements of the dihedral group of the square:
// identity, the 3 non-trivial rotations, and the 4 reflections.
type Symmetry struct {
	name  string
	coord func(game.Space) game.Space
}

func (s Symmetry) String() string { return s.name }

var (
	identity = Symmetry{"identity", func(s game.Space) game.Space { return s }}
	rot90    = Symmetry{"rot90", func(s game.Space) game.Space { return game.Space{Row: s.Col, Col: 3 - s.Row} }}
	rot180   = Symmetry{"rot180", func(s game.Space) game.Space { return game.Space{Row: 3 - s.Row, Col: 3 - s.Col} }}
	rot270   = Symmetry{"rot270", func(s game.Space) game.Space { return game.Space{Row: 3 - s.Col, Col: s.Row} }}
	flipCols = Symmetry{"flip_cols", func(s game.Space) game.Space { return game.Space{Row: s.Row, Col: 3 - s.Col} }}
	flipRows = Symmetry{"flip_rows", func(s game.Space) game.Space { return game.Space{Row: 3 - s.Row, Col: s.Col} }}
	diag     = Symmetry{"diag", func(s game.Space) game.Space { return game.Space{Row: s.Col, Col: s.Row} }}
	antiDiag = Symmetry{"anti_diag", func(s game.Space) game.Space { return game.Space{Row: 3 - s.Col, Col: 3 - s.Row} }}
)

// All returns the 8 board symmetries, identity first.
func All() []Symmetry {
	return []Symmetry{identity, rot90, rot180, rot270, flipCols, flipRows, diag, antiDiag}
}

// Position returns p transformed under s.
func (s Symmetry) Position(p game.Position) game.Position {
	return p.MapSpaces(s.coord)
}

// movePermutation decodes every move id, transforms the space(s) it
// touches, and re-encodes. It is not cached: Policy derives it afresh
// on every call.
func (s Symmetry) movePermutation() [game.NumMoves]int {
	var perm [game.NumMoves]int
	for id := 0; id < game.NumMoves; id++ {
		m, err := game.Decode(id)
		if err != nil {
			panic(err)
		}
		var transformed game.Move
		if m.Kind == game.Place {
			transformed = game.Move{Kind: game.Place, Piece: m.Piece, To: s.coord(m.To)}
		} else {
			transformed = game.Move{Kind: game.Slide, From: s.coord(m.From), To: s.coord(m.To)}
		}
		newID, err := game.Encode(transformed)
		if err != nil {
			panic(err)
		}
		perm[id] = newID
	}
	return perm
}

// Policy permutes a length-NumMoves move-probability vector to match the
// symmetry's transformed position: the probability mass on move id
// moves to whatever id that move becomes under s.
func (s Symmetry) Policy(probs []float32) []float32 {
	if len(probs) != game.NumMoves {
		panic("symmetry: Policy: probs must have length game.NumMoves")
	}
	perm := s.movePermutation()
	out := make([]float32, game.NumMoves)
	for id, p := range probs {
		out[perm[id]] = p
	}
	return out
}

// Move maps a single move id through s.
func (s Symmetry) Move(id int) (int, error) {
	m, err := game.Decode(id)
	if err != nil {
		return 0, err
	}
	if m.Kind == game.Place {
		return game.EncodePlace(m.Piece, s.coord(m.To))
	}
	return game.EncodeSlide(s.coord(m.From), s.coord(m.To))
}
