package battleship

import (
	"errors"
	"testing"
)

func TestApplyShot(t *testing.T) {
	b := NewBoard(10)
	b.mark(0, "destroyer")
	b.mark(1, "destroyer")

	tests := []struct {
		name     string
		idx      int
		expected ShotResult
		err      error
	}{
		{"hit", 0, ShotHit, nil},
		{"miss", 50, ShotMiss, nil},
		{"repeat hit", 0, ShotAlreadyFired, nil},
		{"repeat miss", 50, ShotAlreadyFired, nil},
		{"negative index", -1, ShotNone, ErrInvalidTarget},
		{"past last cell", 100, ShotNone, ErrInvalidTarget},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := b.Cells()
			res, err := ApplyShot(b, tc.idx)
			if !errors.Is(err, tc.err) {
				t.Fatalf("ApplyShot(%d) error = %v, expected %v", tc.idx, err, tc.err)
			}
			if res != tc.expected {
				t.Errorf("ApplyShot(%d) = %v, expected %v", tc.idx, res, tc.expected)
			}
			if tc.expected == ShotAlreadyFired || tc.err != nil {
				after := b.Cells()
				for i := range before {
					if before[i] != after[i] {
						t.Errorf("Cell %d changed on a rejected shot", i)
					}
				}
			}
		})
	}
}

func TestTwoCellShipScenario(t *testing.T) {
	b := NewBoard(10)
	if err := PlaceShip(b, Ship{Name: "destroyer", Length: 2}, &seqRand{vals: []int{0, 0}}, 10); err != nil {
		t.Fatalf("PlaceShip() failed: %v", err)
	}

	if IsFleetDestroyed(b) {
		t.Fatal("Fleet should not be destroyed before any shot")
	}

	res, err := ApplyShot(b, 0)
	if err != nil || res != ShotHit {
		t.Fatalf("ApplyShot(0) = %v, %v, expected hit", res, err)
	}
	if IsFleetDestroyed(b) {
		t.Error("Fleet should not be destroyed after one hit")
	}

	res, err = ApplyShot(b, 1)
	if err != nil || res != ShotHit {
		t.Fatalf("ApplyShot(1) = %v, %v, expected hit", res, err)
	}
	if !IsFleetDestroyed(b) {
		t.Error("Fleet should be destroyed after both cells are hit")
	}
}

func TestFleetDestroyedIsMonotonic(t *testing.T) {
	b := NewBoard(10)
	b.mark(10, "destroyer")
	b.mark(11, "destroyer")
	for _, idx := range []int{10, 11} {
		if _, err := ApplyShot(b, idx); err != nil {
			t.Fatalf("ApplyShot(%d) failed: %v", idx, err)
		}
	}

	for idx := 0; idx < b.Size(); idx++ {
		if _, err := ApplyShot(b, idx); err != nil {
			t.Fatalf("ApplyShot(%d) failed: %v", idx, err)
		}
		if !IsFleetDestroyed(b) {
			t.Fatalf("Fleet no longer destroyed after shot at %d", idx)
		}
	}
}

func TestShotResultString(t *testing.T) {
	tests := []struct {
		r        ShotResult
		expected string
	}{
		{ShotNone, "none"},
		{ShotAlreadyFired, "already fired"},
		{ShotHit, "hit"},
		{ShotMiss, "miss"},
	}

	for _, tc := range tests {
		if tc.r.String() != tc.expected {
			t.Errorf("String() = %q, expected %q", tc.r.String(), tc.expected)
		}
	}
}
