package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

// newTestModel builds a game screen around an engine without a scheduler,
// so the computer only moves when a test calls ComputerTurn.
func newTestModel(t *testing.T, ec battleship.Config, store *storage.Store) GameModel {
	t.Helper()

	engine := battleship.New(ec, battleship.WithSeed(42))
	t.Cleanup(engine.Close)

	cfg := core.DefaultConfig()
	cfg.Player = "tester"
	m := NewGameModel(engine, store, cfg, nil)

	if msg := startGame(engine)(); msg != nil {
		t.Fatalf("startGame() = %v, expected nil", msg)
	}
	return pump(t, m)
}

// pump feeds every buffered engine event into the model.
func pump(t *testing.T, m GameModel) GameModel {
	t.Helper()
	for {
		select {
		case evt := <-m.sub.Events():
			next, _ := m.Update(engineEventMsg{sub: m.sub, event: evt})
			m = next.(GameModel)
		default:
			return m
		}
	}
}

func press(m GameModel, msg tea.KeyMsg) (GameModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(GameModel), cmd
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGameModelStart(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)

	if m.snap.State.Phase != battleship.PhaseUserTurn {
		t.Errorf("Phase = %v, expected UserTurn", m.snap.State.Phase)
	}
	if m.cursor != 55 {
		t.Errorf("Initial cursor = %d, expected 55", m.cursor)
	}
	if !strings.Contains(m.message, "Fleets placed") {
		t.Errorf("Message = %q, expected start message", m.message)
	}
	if !strings.Contains(m.View(), "Your turn") {
		t.Error("View() should announce the user's turn")
	}
}

func TestGameModelCursor(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.cursor != 54 {
		t.Errorf("Cursor after left = %d, expected 54", m.cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 44 {
		t.Errorf("Cursor after up = %d, expected 44", m.cursor)
	}

	// Stops at the top edge
	for i := 0; i < 12; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.cursor != 4 {
		t.Errorf("Cursor at top edge = %d, expected 4", m.cursor)
	}

	// Stops at the right edge without wrapping to the next row
	for i := 0; i < 12; i++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.cursor != 9 {
		t.Errorf("Cursor at right edge = %d, expected 9", m.cursor)
	}
}

func TestGameModelFireFlow(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)

	m, _ = press(m, spaceKey)
	m = pump(t, m)

	if got := m.engine.State().User.Shots; got != 1 {
		t.Fatalf("User shots = %d, expected 1", got)
	}
	if !strings.HasPrefix(m.message, "You fire at F6") {
		t.Errorf("Message = %q, expected shot report for F6", m.message)
	}
	if m.snap.State.Phase != battleship.PhaseComputerTurn {
		t.Fatalf("Phase = %v, expected ComputerTurn", m.snap.State.Phase)
	}

	// Out of turn
	m, _ = press(m, spaceKey)
	if !strings.Contains(m.message, "Hold fire") {
		t.Errorf("Message = %q, expected out-of-turn warning", m.message)
	}

	// Computer answers
	idx, _, err := m.engine.ComputerTurn(m.engine.State().Generation)
	if err != nil {
		t.Fatalf("ComputerTurn() failed: %v", err)
	}
	m = pump(t, m)
	if m.lastComputerShot != idx {
		t.Errorf("lastComputerShot = %d, expected %d", m.lastComputerShot, idx)
	}
	if !strings.HasPrefix(m.message, "Computer fires at") {
		t.Errorf("Message = %q, expected computer shot report", m.message)
	}

	// Same cell again keeps the turn
	m, _ = press(m, spaceKey)
	if !strings.Contains(m.message, "Already fired at F6") {
		t.Errorf("Message = %q, expected already-fired notice", m.message)
	}
	if m.engine.State().CurrentPlayer != battleship.SideUser {
		t.Error("Repeated shot should not pass the turn")
	}
}

func TestGameModelIgnoresForeignEvents(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)
	before := m.message

	other := battleship.New(battleship.DefaultConfig()).Subscribe(1)
	next, cmd := m.Update(engineEventMsg{
		sub:   other,
		event: battleship.ShotEvent{Generation: m.snap.State.Generation, Index: 0, Result: battleship.ShotHit},
	})
	m = next.(GameModel)

	if cmd != nil {
		t.Error("Foreign subscription events should not re-arm the listener")
	}
	if m.message != before {
		t.Errorf("Message changed to %q by a foreign event", m.message)
	}
}

func TestGameModelIgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)
	before := m.message

	next, _ := m.Update(engineEventMsg{
		sub:   m.sub,
		event: battleship.ShotEvent{Generation: m.snap.State.Generation - 1, Shooter: battleship.SideComputer, Index: 3},
	})
	m = next.(GameModel)

	if m.message != before || m.lastComputerShot != -1 {
		t.Errorf("Stale event changed the model: message %q, last shot %d", m.message, m.lastComputerShot)
	}
}

// shipCell returns a cell of the computer's fleet.
func shipCell(t *testing.T, m GameModel) int {
	t.Helper()
	for idx, c := range m.engine.Snapshot().Computer {
		if c.Taken {
			return idx
		}
	}
	t.Fatal("Computer board has no ships")
	return -1
}

func TestGameModelWinRecordsScore(t *testing.T) {
	store := openTestStore(t)
	ec := battleship.Config{Width: 2, Fleet: []battleship.Ship{{Name: "boat", Length: 1}}}
	m := newTestModel(t, ec, store)

	m.cursor = shipCell(t, m)
	m, _ = press(m, spaceKey)
	m = pump(t, m)

	if m.snap.State.Phase != battleship.PhaseGameOver {
		t.Fatalf("Phase = %v, expected GameOver", m.snap.State.Phase)
	}
	if !strings.Contains(m.message, "Score 3") {
		t.Errorf("Message = %q, expected victory with score 3", m.message)
	}

	high, err := store.HighScore(battleship.GameID)
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 3 {
		t.Errorf("HighScore() = %d, expected 3", high)
	}

	games, err := store.PlayerGames("tester", 10)
	if err != nil {
		t.Fatalf("PlayerGames() failed: %v", err)
	}
	if len(games) != 1 || games[0].Winner != "user" || games[0].EndReason != storage.EndReasonCompleted {
		t.Fatalf("PlayerGames() = %+v, expected one won game", games)
	}

	// Restarting a finished game does not record it twice
	m, _ = press(m, runeKey('r'))
	m = pump(t, m)
	if games, _ := store.RecentGames(10); len(games) != 1 {
		t.Errorf("Expected 1 recorded game after restart, got %d", len(games))
	}
	if m.snap.State.Phase != battleship.PhaseUserTurn {
		t.Errorf("Phase after restart = %v, expected UserTurn", m.snap.State.Phase)
	}
}

func TestGameModelWinRecordedAsCompletedBeforeGameOverEvent(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"restart", runeKey('r')},
		{"quit", runeKey('q')},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := openTestStore(t)
			ec := battleship.Config{Width: 2, Fleet: []battleship.Ship{{Name: "boat", Length: 1}}}
			m := newTestModel(t, ec, store)

			// The winning shot's events are still queued when the key arrives
			m.cursor = shipCell(t, m)
			m, _ = press(m, spaceKey)
			m, _ = press(m, tc.key)

			games, err := store.PlayerGames("tester", 10)
			if err != nil {
				t.Fatalf("PlayerGames() failed: %v", err)
			}
			if len(games) != 1 {
				t.Fatalf("Expected 1 recorded game, got %d", len(games))
			}
			g := games[0]
			if g.EndReason != storage.EndReasonCompleted || g.Winner != "user" || g.Score != 3 {
				t.Errorf("Recorded game = %+v, expected a completed win with score 3", g)
			}
			if high, _ := store.HighScore(battleship.GameID); high != 3 {
				t.Errorf("HighScore() = %d, expected 3", high)
			}
		})
	}
}

func TestScreenshotText(t *testing.T) {
	s := core.NewScreen(6, 3)
	s.DrawText(0, 0, "ab")
	s.DrawText(2, 2, "cd")

	if got, expected := screenshotText(s), "ab\n\n  cd\n"; got != expected {
		t.Errorf("screenshotText() = %q, expected %q", got, expected)
	}
}

func TestGameModelRestartRecordsAbandonedGame(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, battleship.DefaultConfig(), store)

	// Restart before any shot records nothing
	m, _ = press(m, runeKey('r'))
	m = pump(t, m)
	if games, _ := store.RecentGames(10); len(games) != 0 {
		t.Fatalf("Expected no recorded games, got %d", len(games))
	}

	m, _ = press(m, spaceKey)
	m, _ = press(m, runeKey('r'))
	m = pump(t, m)

	games, err := store.RecentGames(10)
	if err != nil {
		t.Fatalf("RecentGames() failed: %v", err)
	}
	if len(games) != 1 || games[0].EndReason != storage.EndReasonRestarted || games[0].UserShots != 1 {
		t.Errorf("RecentGames() = %+v, expected one restarted game with 1 shot", games)
	}
	if m.engine.State().User.Shots != 0 {
		t.Error("Restart should start a fresh game")
	}
	if high, _ := store.HighScore(battleship.GameID); high != 0 {
		t.Errorf("Abandoned game should not save a score, got %d", high)
	}
}

func TestGameModelQuit(t *testing.T) {
	store := openTestStore(t)
	m := newTestModel(t, battleship.DefaultConfig(), store)

	m, _ = press(m, spaceKey)
	m, cmd := press(m, runeKey('q'))

	if !m.IsQuitting() || cmd == nil {
		t.Error("Quit key should stop the program")
	}
	select {
	case <-m.sub.Done():
	default:
		t.Error("Quitting should close the engine subscription")
	}
	if games, _ := store.RecentGames(10); len(games) != 1 || games[0].EndReason != storage.EndReasonQuit {
		t.Errorf("RecentGames() = %+v, expected one quit game", games)
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestGameModelBack(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Error("Back key should return to the menu")
	}
	if cmd != nil {
		t.Error("Back key should not quit inside a session")
	}

	standalone := newTestModel(t, battleship.DefaultConfig(), nil)
	standalone.exitOnBack = true
	_, cmd = press(standalone, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("Back key should quit a standalone game")
	}
}

func TestGameModelOrientationToggle(t *testing.T) {
	m := newTestModel(t, battleship.DefaultConfig(), nil)

	m, _ = press(m, runeKey('o'))
	m = pump(t, m)

	if m.snap.State.Orientation != battleship.Vertical {
		t.Errorf("Orientation = %v, expected vertical", m.snap.State.Orientation)
	}
	if !strings.Contains(m.message, "vertical") {
		t.Errorf("Message = %q, expected orientation notice", m.message)
	}
	if m.snap.State.Phase != battleship.PhaseUserTurn {
		t.Error("Orientation toggle should not affect the turn")
	}
}

func TestGameModelPlacementFailure(t *testing.T) {
	ec := battleship.Config{Width: 2, Fleet: []battleship.Ship{{Name: "long", Length: 3}}}
	engine := battleship.New(ec, battleship.WithSeed(1))
	t.Cleanup(engine.Close)
	m := NewGameModel(engine, nil, core.DefaultConfig(), nil)

	msg := startGame(engine)()
	errMsg, ok := msg.(engineErrMsg)
	if !ok {
		t.Fatalf("startGame() = %T, expected engineErrMsg", msg)
	}
	next, _ := m.Update(errMsg)
	m = next.(GameModel)

	if !m.failed || !strings.Contains(m.message, "long") {
		t.Errorf("Message = %q, expected placement error naming the ship", m.message)
	}
	if m.snap.State.Phase != battleship.PhaseIdle {
		t.Errorf("Phase = %v, expected Idle", m.snap.State.Phase)
	}
}
