package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
)

//go:embed defaults/battleship.yaml
var defaultBattleshipYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBattleshipYAML
}

// DefaultBattleshipConfig returns the default Battleship configuration.
func DefaultBattleshipConfig() BattleshipConfig {
	fleet := battleship.DefaultFleet()
	ships := make([]ShipConfig, len(fleet))
	for i, s := range fleet {
		ships[i] = ShipConfig{Name: s.Name, Length: s.Length}
	}

	return BattleshipConfig{
		Board: BoardConfig{
			Width: battleship.DefaultWidth,
		},
		Fleet: ships,
		Placement: PlacementConfig{
			MaxAttempts: battleship.DefaultMaxAttempts,
		},
		Computer: ComputerConfig{
			DelayMS: int(battleship.DefaultComputerDelay.Milliseconds()),
		},
	}
}
