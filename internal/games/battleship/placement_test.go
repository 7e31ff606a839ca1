package battleship

import (
	"errors"
	"math/rand"
	"testing"
)

func TestShipOffsets(t *testing.T) {
	ship := Ship{Name: "cruiser", Length: 3}

	tests := []struct {
		name     string
		o        Orientation
		expected []int
	}{
		{"horizontal", Horizontal, []int{0, 1, 2}},
		{"vertical", Vertical, []int{0, 10, 20}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ship.Offsets(tc.o, 10)
			if len(got) != len(tc.expected) {
				t.Fatalf("Offsets() = %v, expected %v", got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("Offsets() = %v, expected %v", got, tc.expected)
					break
				}
			}
		})
	}
}

func TestDefaultFleetCells(t *testing.T) {
	if n := FleetCells(DefaultFleet()); n != 17 {
		t.Errorf("FleetCells(DefaultFleet()) = %d, expected 17", n)
	}
}

func TestFootprint(t *testing.T) {
	b := NewBoard(10)
	b.mark(55, "carrier")
	destroyer := Ship{Name: "destroyer", Length: 2}
	cruiser := Ship{Name: "cruiser", Length: 3}

	tests := []struct {
		name  string
		ship  Ship
		o     Orientation
		start int
		ok    bool
	}{
		{"horizontal at origin", destroyer, Horizontal, 0, true},
		{"horizontal ends on right edge", destroyer, Horizontal, 8, true},
		{"horizontal wraps row", destroyer, Horizontal, 9, false},
		{"horizontal wraps mid board", cruiser, Horizontal, 48, false},
		{"vertical at origin", cruiser, Vertical, 0, true},
		{"vertical ends on bottom edge", cruiser, Vertical, 79, true},
		{"vertical leaves board", cruiser, Vertical, 85, false},
		{"overlaps taken cell", cruiser, Horizontal, 54, false},
		{"vertical overlaps taken cell", cruiser, Vertical, 35, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := footprint(b, tc.ship, tc.o, tc.start)
			if ok != tc.ok {
				t.Errorf("footprint(%s, %v, %d) ok = %v, expected %v", tc.ship.Name, tc.o, tc.start, ok, tc.ok)
			}
		})
	}
}

func TestPlaceShipScripted(t *testing.T) {
	b := NewBoard(10)
	// Horizontal at 0.
	rng := &seqRand{vals: []int{0, 0}}

	if err := PlaceShip(b, Ship{Name: "destroyer", Length: 2}, rng, 10); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}

	for idx := 0; idx < b.Size(); idx++ {
		expected := idx == 0 || idx == 1
		if b.Cell(idx).Taken != expected {
			t.Errorf("Cell(%d).Taken = %v, expected %v", idx, b.Cell(idx).Taken, expected)
		}
	}
	if b.Cell(1).Ship != "destroyer" {
		t.Errorf("Cell(1).Ship = %q, expected destroyer", b.Cell(1).Ship)
	}
}

func TestPlaceShipRetriesAfterRejection(t *testing.T) {
	b := NewBoard(10)
	// First try wraps (horizontal at 9), second is vertical at 9.
	rng := &seqRand{vals: []int{0, 9, 1, 9}}

	if err := PlaceShip(b, Ship{Name: "destroyer", Length: 2}, rng, 10); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}
	if !b.Cell(9).Taken || !b.Cell(19).Taken {
		t.Errorf("Expected vertical destroyer at 9 and 19")
	}
	if b.TakenCount() != 2 {
		t.Errorf("TakenCount() = %d, expected 2", b.TakenCount())
	}
}

func TestPlaceFleetProperties(t *testing.T) {
	fleet := DefaultFleet()

	for seed := int64(1); seed <= 200; seed++ {
		b := NewBoard(10)
		rng := rand.New(rand.NewSource(seed))
		if err := PlaceFleet(b, fleet, rng, DefaultMaxAttempts); err != nil {
			t.Fatalf("seed %d: PlaceFleet() failed: %v", seed, err)
		}

		if n := b.TakenCount(); n != 17 {
			t.Fatalf("seed %d: TakenCount() = %d, expected 17", seed, n)
		}

		for _, ship := range fleet {
			checkShipShape(t, b, ship, seed)
		}
	}
}

// checkShipShape verifies a placed ship is one straight, contiguous run.
func checkShipShape(t *testing.T, b *Board, ship Ship, seed int64) {
	t.Helper()

	var rows, cols []int
	for idx, c := range b.Cells() {
		if c.Ship == ship.Name {
			r, col := b.RowCol(idx)
			rows = append(rows, r)
			cols = append(cols, col)
		}
	}
	if len(rows) != ship.Length {
		t.Fatalf("seed %d: %s occupies %d cells, expected %d", seed, ship.Name, len(rows), ship.Length)
	}

	minR, maxR := spread(rows)
	minC, maxC := spread(cols)
	switch {
	case minR == maxR:
		if maxC-minC != ship.Length-1 {
			t.Errorf("seed %d: horizontal %s spans columns %d..%d", seed, ship.Name, minC, maxC)
		}
	case minC == maxC:
		if maxR-minR != ship.Length-1 {
			t.Errorf("seed %d: vertical %s spans rows %d..%d", seed, ship.Name, minR, maxR)
		}
	default:
		t.Errorf("seed %d: %s is not straight (rows %v, cols %v)", seed, ship.Name, rows, cols)
	}
}

func spread(vals []int) (lo, hi int) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func TestPlaceShipTooLong(t *testing.T) {
	b := NewBoard(4)
	err := PlaceShip(b, Ship{Name: "carrier", Length: 5}, rand.New(rand.NewSource(1)), 10)

	var pe *PlacementError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PlacementError, got %v", err)
	}
	if pe.Attempts != 0 {
		t.Errorf("Attempts = %d, expected 0 for a ship that never fits", pe.Attempts)
	}
	if b.TakenCount() != 0 {
		t.Errorf("Failed placement should not mark cells, got %d taken", b.TakenCount())
	}
}

func TestPlaceFleetExhaustsAttempts(t *testing.T) {
	b := NewBoard(2)
	fleet := []Ship{
		{Name: "a", Length: 2},
		{Name: "b", Length: 2},
		{Name: "c", Length: 2},
	}

	err := PlaceFleet(b, fleet, rand.New(rand.NewSource(7)), 1000)

	var pe *PlacementError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PlacementError, got %v", err)
	}
	if pe.Ship != "c" {
		t.Errorf("Ship = %q, expected c", pe.Ship)
	}
	if pe.Attempts != 1000 {
		t.Errorf("Attempts = %d, expected 1000", pe.Attempts)
	}
}
