package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-battleship/internal/storage"
)

var (
	flagStatsPlayer string
	flagStatsRecent int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show game statistics",
	Long: `Display win/loss statistics and the most recent games.

Examples:
  battleship stats
  battleship stats --player alice
  battleship stats --recent 20`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Only count games of this player")
	statsCmd.Flags().IntVar(&flagStatsRecent, "recent", 10, "Number of recent games to list")
}

func runStats(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	stats, err := store.GetGameStats(flagStatsPlayer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	title := "Statistics - Battleship"
	if flagStatsPlayer != "" {
		title += " (" + flagStatsPlayer + ")"
	}
	fmt.Println(title)
	fmt.Println()

	if stats.Games == 0 {
		fmt.Println("No games recorded yet.")
		return
	}

	fmt.Printf("  Games played:  %d\n", stats.Games)
	fmt.Printf("  Won:           %d\n", stats.Wins)
	fmt.Printf("  Lost:          %d\n", stats.Losses)
	fmt.Printf("  Abandoned:     %d\n", stats.Abandoned)
	fmt.Printf("  Best score:    %d\n", stats.HighScore)
	fmt.Printf("  Shots per win: %.1f\n", stats.AvgShots)
	fmt.Printf("  Accuracy:      %.0f%%\n", stats.Accuracy*100)
	fmt.Printf("  Last played:   %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))

	var games []storage.GameRecord
	if flagStatsPlayer != "" {
		games, err = store.PlayerGames(flagStatsPlayer, flagStatsRecent)
	} else {
		games, err = store.RecentGames(flagStatsRecent)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Recent games")
	fmt.Println()
	fmt.Printf("  %-10s  %-12s  %-9s  %-6s  %-5s  %-8s  %s\n", "Game", "Player", "Result", "Shots", "Score", "Time", "Date")
	for _, g := range games {
		player := g.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-10s  %-12s  %-9s  %-6d  %-5d  %-8s  %s\n",
			shortID(g.GameUUID),
			player,
			result(g),
			g.UserShots,
			g.Score,
			(time.Duration(g.Duration) * time.Second).String(),
			g.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

// result describes how a recorded game ended.
func result(g storage.GameRecord) string {
	switch g.Winner {
	case "user":
		return "won"
	case "computer":
		return "lost"
	}
	if g.EndReason == storage.EndReasonRestarted {
		return "restarted"
	}
	return "quit"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
