package core

// RuntimeConfig contains configuration passed to a game screen at initialization.
// Screens use this to adapt to terminal size and for deterministic play.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	Seed    int64  // RNG seed for fleet placement and computer targeting
	Player  string // Name recorded with scores and game history
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}
