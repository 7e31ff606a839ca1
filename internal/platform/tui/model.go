// Package tui provides the Bubble Tea integration for Battleship.
// It drives the game engine from key presses, renders engine events and
// persists finished games.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
	"github.com/vovakirdan/tui-battleship/internal/storage"
)

// eventBuffer is the subscription buffer of a game screen. A full game start
// publishes one event per user ship cell, so this leaves headroom.
const eventBuffer = 128

// engineEventMsg carries an engine event into the Bubble Tea loop.
type engineEventMsg struct {
	sub   *battleship.Subscription
	event battleship.Event
}

// subscriptionClosedMsg is sent once the engine ends the subscription.
type subscriptionClosedMsg struct {
	sub *battleship.Subscription
}

// engineErrMsg reports an error from an engine command.
type engineErrMsg struct {
	err error
}

var (
	turnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// NewEngine creates an engine that schedules its own computer turns.
// A zero seed in cfg means time-based randomness.
func NewEngine(ec battleship.Config, cfg core.RuntimeConfig, logger *log.Logger) *battleship.Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return battleship.New(ec,
		battleship.WithSeed(seed),
		battleship.WithScheduler(battleship.TimerScheduler{}),
		battleship.WithLogger(logger),
	)
}

// GameModel is the Bubble Tea model for one Battleship screen.
// It owns the engine for its lifetime and closes it when the user leaves.
type GameModel struct {
	engine           *battleship.Engine
	sub              *battleship.Subscription
	recorder         *gameRecorder // Shared by every copy of the model
	logger           *log.Logger
	config           core.RuntimeConfig
	keyMapper        *KeyMapper
	help             help.Model
	spinner          spinner.Model
	screen           *core.Screen
	snap             battleship.Snapshot
	cursor           int
	lastComputerShot int
	message          string
	failed           bool // message is an error
	width            int
	height           int
	quitting         bool
	backToMenu       bool
	exitOnBack       bool // No menu to return to
}

// NewGameModel creates a game screen around engine. The engine is started
// by Init.
func NewGameModel(engine *battleship.Engine, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) GameModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	h := help.New()
	h.ShowAll = false
	h.Width = cfg.ScreenW

	snap := engine.Snapshot()
	mid := snap.Width / 2

	return GameModel{
		engine:           engine,
		sub:              engine.Subscribe(eventBuffer),
		recorder:         &gameRecorder{store: store, logger: logger, player: cfg.Player},
		logger:           logger,
		config:           cfg,
		keyMapper:        NewKeyMapper(),
		help:             h,
		spinner:          sp,
		screen:           core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		snap:             snap,
		cursor:           mid*snap.Width + mid,
		lastComputerShot: -1,
		width:            cfg.ScreenW,
		height:           cfg.ScreenH,
	}
}

// Init starts the game and begins listening for engine events.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.sub),
		startGame(m.engine),
		m.spinner.Tick,
	)
}

// waitForEvent returns a command that waits for the next engine event.
func waitForEvent(sub *battleship.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-sub.Events():
			return engineEventMsg{sub: sub, event: evt}
		case <-sub.Done():
			return subscriptionClosedMsg{sub: sub}
		}
	}
}

// startGame returns a command that places both fleets.
func startGame(engine *battleship.Engine) tea.Cmd {
	return func() tea.Msg {
		if err := engine.Start(); err != nil && !errors.Is(err, battleship.ErrAlreadyStarted) {
			return engineErrMsg{err: err}
		}
		return nil
	}
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case engineEventMsg:
		// A previous screen's subscription may still deliver
		if msg.sub != m.sub {
			return m, nil
		}
		m.handleEvent(msg.event)
		return m, waitForEvent(m.sub)

	case subscriptionClosedMsg:
		return m, nil

	case engineErrMsg:
		m.logger.Error("engine command failed", "error", msg.err)
		m.setError(msg.err)
		m.snap = m.engine.Snapshot()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		m.moveCursor(action)
	case core.ActionFire:
		m.fire()
	case core.ActionRotate:
		m.engine.ToggleOrientation()
	case core.ActionRestart:
		m.restart()
	case core.ActionBack:
		m.leave()
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// moveCursor moves the target cursor, stopping at the board edges.
func (m *GameModel) moveCursor(a core.Action) {
	w := m.snap.Width
	if w <= 0 {
		return
	}
	dx, dy := a.Delta()
	row := core.Clamp(m.cursor/w+dy, 0, w-1)
	col := core.Clamp(m.cursor%w+dx, 0, w-1)
	m.cursor = row*w + col
}

// fire shoots at the cursor. Hits and misses are reported through events.
func (m *GameModel) fire() {
	res, err := m.engine.Fire(battleship.SideUser, m.cursor)
	switch {
	case errors.Is(err, battleship.ErrNotYourTurn):
		m.setMessage("Hold fire, the computer is aiming")
	case errors.Is(err, battleship.ErrGameOver):
		m.setMessage("The game is over. Press r for a new game")
	case errors.Is(err, battleship.ErrNotStarted):
		m.setMessage("Fleets are not placed yet. Press r to try again")
	case err != nil:
		m.setError(err)
	case res == battleship.ShotAlreadyFired:
		m.setMessage(fmt.Sprintf("Already fired at %s", CellName(m.cursor, m.snap.Width)))
	}
	m.snap = m.engine.Snapshot()
}

// restart records the abandoned game and starts a new one.
func (m *GameModel) restart() {
	m.recordGame(storage.EndReasonRestarted)
	if err := m.engine.Restart(); err != nil {
		m.logger.Error("restart failed", "error", err)
		m.setError(err)
	}
	m.lastComputerShot = -1
	m.snap = m.engine.Snapshot()
}

// leave records an unfinished game and shuts the engine down. It is safe to
// call more than once and from another goroutine.
func (m GameModel) leave() {
	m.recordGame(storage.EndReasonQuit)
	m.engine.Close()
}

// handleEvent refreshes the view from an engine event. Events from an
// abandoned game are ignored.
func (m *GameModel) handleEvent(evt battleship.Event) {
	if evt.EventGeneration() != m.engine.State().Generation {
		return
	}
	m.snap = m.engine.Snapshot()

	switch e := evt.(type) {
	case battleship.GameStartedEvent:
		m.lastComputerShot = -1
		m.setMessage("Fleets placed. Pick a target on the enemy grid")

	case battleship.ShotEvent:
		name := CellName(e.Index, m.snap.Width)
		if e.Shooter == battleship.SideUser {
			m.setMessage(fmt.Sprintf("You fire at %s: %s", name, e.Result))
		} else {
			m.lastComputerShot = e.Index
			m.setMessage(fmt.Sprintf("Computer fires at %s: %s", name, e.Result))
		}

	case battleship.GameOverEvent:
		if e.Winner == battleship.SideUser {
			m.setMessage(fmt.Sprintf("Enemy fleet destroyed! Score %d", e.Score))
		} else {
			m.setMessage("Your fleet was destroyed")
		}
		m.recordGame(storage.EndReasonCompleted)

	case battleship.OrientationChangedEvent:
		m.setMessage(fmt.Sprintf("Orientation %s. Fleets are still placed at random", e.Orientation))
	}
}

// recordGame writes the current game to storage once per generation.
func (m GameModel) recordGame(reason string) {
	m.recorder.record(m.engine, reason)
}

// gameRecorder writes each game generation to storage at most once.
type gameRecorder struct {
	mu      sync.Mutex
	store   *storage.Store
	logger  *log.Logger
	player  string
	lastGen uint64 // Generation already written to storage
}

// record stores the engine's current game. A finished game is always
// recorded as completed, whatever ended the screen. Abandoned games without
// a single user shot are not recorded.
func (r *gameRecorder) record(engine *battleship.Engine, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := engine.State()
	if st.Over {
		reason = storage.EndReasonCompleted
	}
	if st.Phase == battleship.PhaseIdle || st.Generation == r.lastGen {
		return
	}
	if reason != storage.EndReasonCompleted && st.User.Shots == 0 {
		return
	}
	r.lastGen = st.Generation

	if r.store == nil {
		return
	}

	rec := storage.GameRecord{
		Player:        r.player,
		EndReason:     reason,
		UserShots:     st.User.Shots,
		UserHits:      st.User.Hits,
		ComputerShots: st.Computer.Shots,
		ComputerHits:  st.Computer.Hits,
		Duration:      int(st.Duration(time.Now()).Seconds()),
	}
	if st.Over {
		rec.Winner = st.Winner.String()
		rec.Score = st.Score
	}

	id, err := r.store.SaveGame(rec)
	if err != nil {
		r.logger.Warn("could not save game", "error", err)
		return
	}
	r.logger.Debug("game recorded", "id", id, "reason", reason, "score", rec.Score)

	if st.Over && st.Score > 0 {
		if _, err := r.store.SaveScore(battleship.GameID, r.player, st.Score); err != nil {
			r.logger.Warn("could not save score", "error", err)
		}
	}
}

func (m *GameModel) setMessage(s string) {
	m.message = s
	m.failed = false
}

func (m *GameModel) setError(err error) {
	m.message = err.Error()
	m.failed = true
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	DrawGame(m.screen, m.gameView(), m.layoutWidth())

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".battleship", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", battleship.GameID, timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(screenshotText(m.screen)), 0o600); err != nil {
		m.setError(err)
		return
	}
	m.setMessage("Screenshot saved to " + path)
}

// screenshotText returns the screen as plain text without trailing spaces.
func screenshotText(s *core.Screen) string {
	var sb strings.Builder
	for y := 0; y < s.Height(); y++ {
		sb.WriteString(strings.TrimRight(s.Row(y), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m GameModel) gameView() GameView {
	return GameView{
		Snapshot:         m.snap,
		Cursor:           m.cursor,
		LastComputerShot: m.lastComputerShot,
	}
}

func (m GameModel) layoutWidth() int {
	if m.width <= 0 {
		return core.DefaultConfig().ScreenW
	}
	return m.width
}

// statusLine describes whose turn it is.
func (m GameModel) statusLine() string {
	st := m.snap.State
	switch st.Phase {
	case battleship.PhaseUserTurn:
		return turnStyle.Render("Your turn. Target " + CellName(m.cursor, m.snap.Width))
	case battleship.PhaseComputerTurn:
		return m.spinner.View() + turnStyle.Render(" Computer is aiming...")
	case battleship.PhaseGameOver:
		if st.Winner == battleship.SideUser {
			return turnStyle.Render("You win! Press r to play again")
		}
		return turnStyle.Render("You lose. Press r to play again")
	default:
		return turnStyle.Render("Placing fleets...")
	}
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	DrawGame(m.screen, m.gameView(), m.layoutWidth())

	msg := messageStyle.Render(m.message)
	if m.failed {
		msg = errorStyle.Render(m.message)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		RenderScreen(m.screen),
		"",
		m.statusLine(),
		msg,
		"",
		helpStyle.Render(m.help.View(m.keyMapper.Keys())),
	)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a single game in its own Bubble Tea program.
func Run(engine *battleship.Engine, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewGameModel(engine, store, cfg, logger)
	model.exitOnBack = true
	defer engine.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
