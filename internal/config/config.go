// Package config provides YAML-based game configuration loading for
// Battleship: board size, fleet composition, placement retries and the
// computer's thinking delay.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
)

// BattleshipConfig contains all configuration for a Battleship game.
type BattleshipConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Fleet     []ShipConfig    `yaml:"fleet"`
	Placement PlacementConfig `yaml:"placement"`
	Computer  ComputerConfig  `yaml:"computer"`
}

// BoardConfig defines the board dimensions.
type BoardConfig struct {
	Width int `yaml:"width"` // Boards are width x width
}

// ShipConfig defines one ship class of the fleet.
type ShipConfig struct {
	Name   string `yaml:"name"`
	Length int    `yaml:"length"`
}

// PlacementConfig defines random fleet placement parameters.
type PlacementConfig struct {
	MaxAttempts int `yaml:"max_attempts"` // Retries per ship before giving up
}

// ComputerConfig defines the computer opponent's behaviour.
type ComputerConfig struct {
	DelayMS int `yaml:"delay_ms"` // Pause before the computer fires back
}

// Delay returns the computer delay as a duration.
func (c ComputerConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// Validate checks that the configuration describes a playable game.
func (c BattleshipConfig) Validate() error {
	if c.Board.Width < 2 || c.Board.Width > 26 {
		return fmt.Errorf("config: board width %d out of range 2..26", c.Board.Width)
	}
	if len(c.Fleet) == 0 {
		return errors.New("config: fleet is empty")
	}

	seen := make(map[string]bool, len(c.Fleet))
	cells := 0
	for _, s := range c.Fleet {
		if s.Name == "" {
			return errors.New("config: ship without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate ship %q", s.Name)
		}
		seen[s.Name] = true
		if s.Length < 1 || s.Length > c.Board.Width {
			return fmt.Errorf("config: ship %q length %d out of range 1..%d", s.Name, s.Length, c.Board.Width)
		}
		cells += s.Length
	}
	if cells > c.Board.Width*c.Board.Width {
		return fmt.Errorf("config: fleet needs %d cells, board has %d", cells, c.Board.Width*c.Board.Width)
	}

	if c.Placement.MaxAttempts < 0 {
		return fmt.Errorf("config: placement max_attempts %d is negative", c.Placement.MaxAttempts)
	}
	if c.Computer.DelayMS < 0 {
		return fmt.Errorf("config: computer delay_ms %d is negative", c.Computer.DelayMS)
	}
	return nil
}

// Engine converts the configuration into engine rules.
func (c BattleshipConfig) Engine() battleship.Config {
	fleet := make([]battleship.Ship, len(c.Fleet))
	for i, s := range c.Fleet {
		fleet[i] = battleship.Ship{Name: s.Name, Length: s.Length}
	}
	return battleship.Config{
		Width:         c.Board.Width,
		Fleet:         fleet,
		MaxAttempts:   c.Placement.MaxAttempts,
		ComputerDelay: c.Computer.Delay(),
	}
}
