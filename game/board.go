package game

// StartPosition is where every player begins.
const StartPosition = 9

// Board is an immutable cyclic sequence of cells.
type Board []Cell

var canonicalBoard = Board{
	CheckConflict, Possibilities, Market, Possibilities, Luxury, Possibilities,
	Dismissal, Possibilities, CheckConflict, Possibilities, Market, Possibilities,
	Luxury, Possibilities, CharityAcquaintance, Possibilities, CheckConflict, Possibilities,
	Market, Possibilities, Luxury, Possibilities, Child, Possibilities,
}

// DefaultBoard returns a copy of the canonical 24 cell layout.
func DefaultBoard() Board {
	return append(Board(nil), canonicalBoard...)
}

// Len returns the number of cells.
func (b Board) Len() int {
	return len(b)
}

// Wrap maps any position onto a valid index.
func (b Board) Wrap(position int) int {
	n := len(b)
	if n == 0 {
		return 0
	}
	p := position % n
	if p < 0 {
		p += n
	}
	return p
}

// At returns the cell at position, wrapping around the board.
func (b Board) At(position int) Cell {
	return b[b.Wrap(position)]
}
