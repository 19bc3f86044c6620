// Package game implements the Corintho board, move codec, and legal-move
// generation that the search tree is built on.
package game

import (
	"fmt"
)

// PieceType is one of the three piece types a player may place.
type PieceType int8

// Piece types, ordered bottom-to-top of a legal stack.
const (
	Base PieceType = iota
	Column
	Capital
	NumPieceTypes = 3
)

func (pt PieceType) String() string {
	switch pt {
	case Base:
		return "B"
	case Column:
		return "C"
	case Capital:
		return "A"
	}
	return "?"
}

// Space identifies one of the 16 board squares.
type Space struct {
	Row, Col int8
}

// valid reports whether s is within the 4x4 board.
func (s Space) valid() bool {
	return s.Row >= 0 && s.Row < 4 && s.Col >= 0 && s.Col < 4
}

func (s Space) index() int { return int(s.Row)*4 + int(s.Col) }

func colName(col int8) byte { return byte('a') + byte(col) }

// String renders a space in the game's own notation: column letter then
// row number counting up from the bottom (row 3 is rank 1).
func (s Space) String() string {
	return fmt.Sprintf("%c%d", colName(s.Col), 4-s.Row)
}

// Kind distinguishes the two move shapes.
type Kind uint8

const (
	// Slide moves a whole stack from one space to an orthogonal neighbor.
	Slide Kind = iota
	// Place puts a single piece of Piece type onto To.
	Place
)

// Move is one of Place(piece, To) or Slide(From, To).
type Move struct {
	Kind  Kind
	Piece PieceType // valid when Kind == Place
	From  Space      // valid when Kind == Slide
	To    Space
}

// NumMoves is the size of the dense move-id space, [0, NumMoves).
const NumMoves = 96

// String renders a move in log notation: placements as
// "<piece><col><row>" (e.g. "Bb3"), slides as "<col><row><L|R|U|D>".
func (m Move) String() string {
	if m.Kind == Place {
		return fmt.Sprintf("%s%s", m.Piece, m.To)
	}
	var dir byte
	switch {
	case m.To.Col < m.From.Col:
		dir = 'L'
	case m.To.Col > m.From.Col:
		dir = 'R'
	case m.To.Row < m.From.Row:
		dir = 'U'
	default:
		dir = 'D'
	}
	return fmt.Sprintf("%s%c", m.From, dir)
}

// Decode returns the Move a move id denotes.
//
// [0,12) right slides (row*3+col) -> (row,col) to (row,col+1)
// [12,24) down slides (12+row*4+col) -> (row,col) to (row+1,col)
// [24,36) left slides (24+row*3+(col-1)) -> (row,col) to (row,col-1)
// [36,48) up slides (36+(row-1)*4+col) -> (row,col) to (row-1,col)
// [48,96) placements (48+piece*16+row*4+col)
func Decode(id int) (Move, error) {
	if id < 0 || id >= NumMoves {
		return Move{}, fmt.Errorf("game: move id %d out of range [0,%d)", id, NumMoves)
	}
	if id >= 48 {
		rest := id - 48
		piece := PieceType(rest / 16)
		rest %= 16
		row := int8(rest / 4)
		col := int8(rest % 4)
		return Move{Kind: Place, Piece: piece, To: Space{row, col}}, nil
	}
	switch {
	case id < 12:
		row := int8(id / 3)
		col := int8(id % 3)
		return Move{Kind: Slide, From: Space{row, col}, To: Space{row, col + 1}}, nil
	case id < 24:
		rest := id - 12
		row := int8(rest / 4)
		col := int8(rest % 4)
		return Move{Kind: Slide, From: Space{row, col}, To: Space{row + 1, col}}, nil
	case id < 36:
		rest := id - 24
		row := int8(rest / 3)
		col := int8(rest%3) + 1
		return Move{Kind: Slide, From: Space{row, col}, To: Space{row, col - 1}}, nil
	default:
		rest := id - 36
		row := int8(rest/4) + 1
		col := int8(rest % 4)
		return Move{Kind: Slide, From: Space{row, col}, To: Space{row - 1, col}}, nil
	}
}

// EncodePlace returns the move id for placing piece at to.
func EncodePlace(piece PieceType, to Space) (int, error) {
	if !to.valid() {
		return 0, fmt.Errorf("game: space %v off board", to)
	}
	if piece < 0 || piece >= NumPieceTypes {
		return 0, fmt.Errorf("game: invalid piece type %d", piece)
	}
	return 48 + int(piece)*16 + to.index(), nil
}

// EncodeSlide returns the move id for sliding the stack at from to the
// orthogonally adjacent space to. Returns an error if from and to are not
// orthogonal neighbors.
func EncodeSlide(from, to Space) (int, error) {
	if !from.valid() || !to.valid() {
		return 0, fmt.Errorf("game: space off board (from %v to %v)", from, to)
	}
	dRow := int(to.Row) - int(from.Row)
	dCol := int(to.Col) - int(from.Col)
	switch {
	case dRow == 0 && dCol == 1: // right
		return int(from.Row)*3 + int(from.Col), nil
	case dRow == 1 && dCol == 0: // down
		return 12 + int(from.Row)*4 + int(from.Col), nil
	case dRow == 0 && dCol == -1: // left
		return 24 + int(from.Row)*3 + (int(from.Col) - 1), nil
	case dRow == -1 && dCol == 0: // up
		return 36 + (int(from.Row)-1)*4 + int(from.Col), nil
	default:
		return 0, fmt.Errorf("game: %v and %v are not orthogonal neighbors", from, to)
	}
}

// Encode returns the move id for m, the inverse of Decode.
func Encode(m Move) (int, error) {
	if m.Kind == Place {
		return EncodePlace(m.Piece, m.To)
	}
	return EncodeSlide(m.From, m.To)
}
