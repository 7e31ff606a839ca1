// battleship is a single-player Battleship game for the terminal.
//
// Usage:
//
//	battleship play          - Play a game against the computer
//	battleship menu          - Start menu with game and scoreboard
//	battleship serve         - Start SSH server for remote play
//	battleship scores        - Show high scores
//	battleship stats         - Show game statistics
//	battleship config        - Print the effective configuration
//
// Global flags:
//
//	--seed <value>     - Set RNG seed for reproducible fleets
//	--db <path>        - Set database path (default: ~/.battleship/scores.db)
//	--config <path>    - Use a custom game config YAML
//	--log-file <path>  - Write debug logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-battleship/internal/config"
	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
	flagDelay   int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "battleship",
	Short: "Battleship - sink the computer's fleet in your terminal",
	Long: `Battleship places two fleets at random on 10x10 grids. You and the
computer take turns firing until one fleet is destroyed.

Available commands:
  play     - Play a game directly
  menu     - Interactive menu with scoreboard
  serve    - Start SSH server for remote play
  scores   - View high scores
  stats    - View win/loss statistics
  config   - Print or initialize the game configuration

Examples:
  battleship play
  battleship play --seed 42 --delay 0
  battleship menu
  battleship serve --ssh :2222
  battleship stats --player alice`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.battleship/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write debug logs to this file")
	rootCmd.PersistentFlags().IntVar(&flagDelay, "delay", -1, "Computer delay in milliseconds (-1 = from config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger returns a debug logger writing to --log-file, or one that
// discards everything. The TUI owns the terminal, so nothing goes to stderr.
// The returned close func must be called on exit.
func newLogger() (*log.Logger, func(), error) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
		Prefix:          "battleship",
	})
	return logger, func() { f.Close() }, nil
}

// loadGameConfig loads the YAML config and applies command line overrides.
func loadGameConfig() (battleship.Config, error) {
	cfg, err := config.LoadBattleship(flagConfig)
	if err != nil {
		return battleship.Config{}, err
	}
	if flagDelay >= 0 {
		cfg.Computer.DelayMS = flagDelay
	}
	return cfg.Engine(), nil
}
