package battleship

// Orientation is the direction a ship extends from its start cell.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns a human-readable name for the orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Ship describes a ship class. Ships exist only as templates; once placed,
// their footprint lives in the board cells.
type Ship struct {
	Name   string
	Length int
}

// Offsets returns the index offsets of the ship's cells from its start cell.
// Horizontal ships step by one column, vertical ships by one row.
func (s Ship) Offsets(o Orientation, width int) []int {
	step := 1
	if o == Vertical {
		step = width
	}
	offsets := make([]int, s.Length)
	for i := range offsets {
		offsets[i] = i * step
	}
	return offsets
}

// DefaultFleet returns the standard five-ship fleet in placement order.
func DefaultFleet() []Ship {
	return []Ship{
		{Name: "destroyer", Length: 2},
		{Name: "submarine", Length: 3},
		{Name: "cruiser", Length: 3},
		{Name: "battleship", Length: 4},
		{Name: "carrier", Length: 5},
	}
}

// FleetCells returns the number of cells the fleet occupies once placed.
func FleetCells(fleet []Ship) int {
	n := 0
	for _, s := range fleet {
		n += s.Length
	}
	return n
}
