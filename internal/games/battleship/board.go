// Package battleship implements single-player Battleship against the computer:
// square boards, random fleet placement, the turn engine and win evaluation.
// It has no UI dependencies; the platform layer drives an Engine and observes
// it through events and snapshots.
package battleship

// DefaultWidth is the side length of a standard board.
const DefaultWidth = 10

// Side identifies the owner of a board or the player taking a turn.
type Side int

const (
	SideUser Side = iota
	SideComputer
)

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case SideUser:
		return "user"
	case SideComputer:
		return "computer"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideUser {
		return SideComputer
	}
	return SideUser
}

// Cell is one square of a board.
// Taken is set only by placement; Fired never clears during a game.
type Cell struct {
	Taken bool
	Fired bool
	Ship  string // Name of the occupying ship, empty for water
}

// Hit reports whether the cell holds a ship and has been fired upon.
func (c Cell) Hit() bool {
	return c.Taken && c.Fired
}

// Miss reports whether the cell is water and has been fired upon.
func (c Cell) Miss() bool {
	return !c.Taken && c.Fired
}

// Board is a width×width grid of cells stored in row-major order.
type Board struct {
	width int
	cells []Cell
}

// NewBoard creates an empty board. Non-positive widths fall back to DefaultWidth.
func NewBoard(width int) *Board {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Board{
		width: width,
		cells: make([]Cell, width*width),
	}
}

// Width returns the number of columns (and rows).
func (b *Board) Width() int {
	return b.width
}

// Size returns the total number of cells.
func (b *Board) Size() int {
	return len(b.cells)
}

// InBounds reports whether idx addresses a cell on this board.
func (b *Board) InBounds(idx int) bool {
	return idx >= 0 && idx < len(b.cells)
}

// Cell returns the cell at idx, or a zero Cell when out of bounds.
func (b *Board) Cell(idx int) Cell {
	if !b.InBounds(idx) {
		return Cell{}
	}
	return b.cells[idx]
}

// Cells returns a copy of all cells.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Index converts a row and column to a cell index, or -1 if outside the grid.
func (b *Board) Index(row, col int) int {
	if row < 0 || row >= b.width || col < 0 || col >= b.width {
		return -1
	}
	return row*b.width + col
}

// RowCol converts a cell index to its row and column.
func (b *Board) RowCol(idx int) (row, col int) {
	return idx / b.width, idx % b.width
}

// Reset clears every cell.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = Cell{}
	}
}

// TakenCount returns the number of cells occupied by ships.
func (b *Board) TakenCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Taken {
			n++
		}
	}
	return n
}

// FiredCount returns the number of cells that have been fired upon.
func (b *Board) FiredCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Fired {
			n++
		}
	}
	return n
}

// mark places a ship segment on a cell.
func (b *Board) mark(idx int, ship string) {
	b.cells[idx].Taken = true
	b.cells[idx].Ship = ship
}
