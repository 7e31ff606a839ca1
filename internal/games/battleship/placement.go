package battleship

// DefaultMaxAttempts bounds the random retries spent on a single ship.
const DefaultMaxAttempts = 1000

// Rand is the randomness source used for placement and targeting.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// PlaceFleet places every ship of the fleet on the board in order.
// Each ship gets up to maxAttempts random positions; ships already placed are
// never moved. On failure the board keeps the ships placed so far.
func PlaceFleet(b *Board, fleet []Ship, rng Rand, maxAttempts int) error {
	for _, ship := range fleet {
		if err := PlaceShip(b, ship, rng, maxAttempts); err != nil {
			return err
		}
	}
	return nil
}

// PlaceShip places one ship at a random orientation and start cell.
// The start cell is drawn from 0..size-length; candidates that leave the board,
// overlap a taken cell or wrap across a row are rejected and redrawn.
func PlaceShip(b *Board, ship Ship, rng Rand, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if ship.Length < 1 || ship.Length > b.width {
		return &PlacementError{Ship: ship.Name, Length: ship.Length, Width: b.width}
	}

	starts := b.Size() - ship.Length + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		o := Orientation(rng.Intn(2))
		start := rng.Intn(starts)
		cells, ok := footprint(b, ship, o, start)
		if !ok {
			continue
		}
		for _, idx := range cells {
			b.mark(idx, ship.Name)
		}
		return nil
	}

	return &PlacementError{
		Ship:     ship.Name,
		Length:   ship.Length,
		Width:    b.width,
		Attempts: maxAttempts,
	}
}

// footprint returns the cells a ship would occupy, and whether that
// position is legal on the board as it stands.
func footprint(b *Board, ship Ship, o Orientation, start int) ([]int, bool) {
	offsets := ship.Offsets(o, b.width)
	cells := make([]int, len(offsets))
	row := start / b.width
	for i, off := range offsets {
		idx := start + off
		if !b.InBounds(idx) || b.cells[idx].Taken {
			return nil, false
		}
		if o == Horizontal && idx/b.width != row {
			return nil, false
		}
		cells[i] = idx
	}
	return cells, true
}
