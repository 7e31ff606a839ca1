package battleship

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// GameID identifies Battleship in score storage.
const GameID = "battleship"

// DefaultComputerDelay is how long the computer waits before firing back.
const DefaultComputerDelay = time.Second

// Config holds the rules an Engine plays by.
type Config struct {
	Width         int
	Fleet         []Ship
	MaxAttempts   int           // Placement retries per ship
	ComputerDelay time.Duration // Delay before the computer's scheduled shot
}

// DefaultConfig returns the standard 10x10 game with the five-ship fleet.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Fleet:         DefaultFleet(),
		MaxAttempts:   DefaultMaxAttempts,
		ComputerDelay: DefaultComputerDelay,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithScheduler makes the engine schedule the computer's shot itself after
// every user shot that hands over control. Without a scheduler the caller
// drives the computer through ComputerTurn.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRand sets the randomness source for placement and targeting.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds a deterministic randomness source. Zero means time-based.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithClock overrides the time source used for game timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine runs one Battleship game at a time between the user and the computer.
// All methods are safe for concurrent use; scheduled computer turns run on
// the scheduler's goroutine.
type Engine struct {
	mu        sync.Mutex
	cfg       Config
	boards    [2]*Board // Indexed by Side
	state     GameState
	rng       Rand
	scheduler Scheduler
	pending   func() // Cancels the scheduled computer turn
	logger    *log.Logger
	subs      []*Subscription
	now       func() time.Time
}

// New creates an idle engine. A zero Width, Fleet or MaxAttempts takes its
// default. A zero ComputerDelay means the computer fires without delay.
func New(cfg Config, opts ...Option) *Engine {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if len(cfg.Fleet) == 0 {
		cfg.Fleet = def.Fleet
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.ComputerDelay < 0 {
		cfg.ComputerDelay = 0
	}

	e := &Engine{
		cfg:    cfg,
		boards: [2]*Board{NewBoard(cfg.Width), NewBoard(cfg.Width)},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.CurrentPlayer = SideUser
	return e
}

// Config returns the rules the engine plays by.
func (e *Engine) Config() Config {
	return e.cfg
}

// Subscribe registers a new event subscription with the given buffer size.
func (e *Engine) Subscribe(buffer int) *Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := newSubscription(buffer)
	e.subs = append(e.subs, sub)
	return sub
}

// Start places both fleets and gives the user the first turn.
// If placement fails the engine stays idle with empty boards.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase != PhaseIdle {
		return ErrAlreadyStarted
	}
	return e.startLocked()
}

// Restart abandons the current game, clears both boards and starts a new one.
// A computer turn scheduled by the abandoned game never fires into the new one.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	return e.startLocked()
}

// Reset abandons the current game and leaves the engine idle with every cell
// cleared and the user to move first.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
}

// Fire applies a shot by side at cell idx of the opposing board.
// ShotAlreadyFired is reported without an error and keeps the turn.
func (e *Engine) Fire(side Side, idx int) (ShotResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fireLocked(side, idx)
}

// ComputerTurn makes the computer fire at a random unfired cell of the user's
// board. gen must match the current generation; turns scheduled by an earlier
// game return ErrStaleGeneration without touching state.
func (e *Engine) ComputerTurn(gen uint64) (int, ShotResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.state.Generation {
		e.logger.Debug("dropping stale computer turn", "generation", gen, "current", e.state.Generation)
		return -1, ShotNone, ErrStaleGeneration
	}
	e.cancelPendingLocked()

	if e.state.Phase != PhaseComputerTurn {
		return -1, ShotNone, e.checkTurnLocked(SideComputer)
	}

	idx := e.pickTargetLocked(e.boards[SideUser])
	res, err := e.fireLocked(SideComputer, idx)
	return idx, res, err
}

// ToggleOrientation flips the orientation flag and returns the new value.
// Fleet placement is always random, so the flag does not affect it.
func (e *Engine) ToggleOrientation() Orientation {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Orientation = e.state.Orientation.Toggle()
	e.publishLocked(OrientationChangedEvent{
		Generation:  e.state.Generation,
		Orientation: e.state.Orientation,
	})
	return e.state.Orientation
}

// State returns the current game state.
func (e *Engine) State() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Snapshot returns a copy of both boards and the game state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Snapshot{
		State:    e.state,
		Width:    e.cfg.Width,
		User:     e.boards[SideUser].Cells(),
		Computer: e.boards[SideComputer].Cells(),
	}
}

// Close cancels any scheduled computer turn and ends all subscriptions.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancelPendingLocked()
	for _, sub := range e.subs {
		sub.Close()
	}
	e.subs = nil
}

func (e *Engine) startLocked() error {
	e.state.Generation++
	for side, b := range e.boards {
		if err := PlaceFleet(b, e.cfg.Fleet, e.rng, e.cfg.MaxAttempts); err != nil {
			e.logger.Debug("fleet placement failed", "side", Side(side), "error", err)
			e.boards[SideUser].Reset()
			e.boards[SideComputer].Reset()
			return fmt.Errorf("place %s fleet: %w", Side(side), err)
		}
	}

	e.state.Phase = PhaseUserTurn
	e.state.CurrentPlayer = SideUser
	e.state.StartedAt = e.now()
	e.logger.Debug("game started", "generation", e.state.Generation)

	gen := e.state.Generation
	e.publishLocked(GameStartedEvent{Generation: gen, Width: e.cfg.Width})
	user := e.boards[SideUser]
	for idx, c := range user.cells {
		if c.Taken {
			e.publishLocked(CellChangedEvent{Generation: gen, Side: SideUser, Index: idx, Cell: c})
		}
	}
	e.publishLocked(TurnChangedEvent{Generation: gen, Player: SideUser, Phase: PhaseUserTurn})
	return nil
}

func (e *Engine) resetLocked() {
	e.cancelPendingLocked()
	for _, b := range e.boards {
		b.Reset()
	}
	e.state = GameState{
		Phase:         PhaseIdle,
		CurrentPlayer: SideUser,
		Generation:    e.state.Generation + 1,
		Orientation:   e.state.Orientation,
	}
	e.publishLocked(GameResetEvent{Generation: e.state.Generation})
}

// checkTurnLocked returns nil if side may fire now.
func (e *Engine) checkTurnLocked(side Side) error {
	switch e.state.Phase {
	case PhaseIdle:
		return ErrNotStarted
	case PhaseGameOver:
		return ErrGameOver
	}
	if side != e.state.CurrentPlayer {
		return ErrNotYourTurn
	}
	return nil
}

func (e *Engine) fireLocked(side Side, idx int) (ShotResult, error) {
	if err := e.checkTurnLocked(side); err != nil {
		return ShotNone, err
	}

	defender := side.Opponent()
	target := e.boards[defender]
	res, err := ApplyShot(target, idx)
	if err != nil || res == ShotAlreadyFired {
		return res, err
	}

	stats := &e.state.User
	if side == SideComputer {
		stats = &e.state.Computer
	}
	stats.Shots++
	if res == ShotHit {
		stats.Hits++
	}

	gen := e.state.Generation
	e.publishLocked(CellChangedEvent{Generation: gen, Side: defender, Index: idx, Cell: target.cells[idx]})
	e.publishLocked(ShotEvent{Generation: gen, Shooter: side, Index: idx, Result: res})

	if IsFleetDestroyed(target) {
		e.finishLocked(side)
		return res, nil
	}

	e.state.CurrentPlayer = defender
	e.state.Phase = PhaseUserTurn
	if defender == SideComputer {
		e.state.Phase = PhaseComputerTurn
	}
	e.publishLocked(TurnChangedEvent{Generation: gen, Player: defender, Phase: e.state.Phase})

	if defender == SideComputer {
		e.scheduleComputerLocked()
	}
	return res, nil
}

func (e *Engine) finishLocked(winner Side) {
	e.cancelPendingLocked()
	e.state.Phase = PhaseGameOver
	e.state.Over = true
	e.state.Winner = winner
	e.state.EndedAt = e.now()
	if winner == SideUser {
		e.state.Score = e.boards[SideComputer].Size() - e.state.User.Shots
	}
	e.logger.Debug("game over", "winner", winner, "score", e.state.Score)
	e.publishLocked(GameOverEvent{Generation: e.state.Generation, Winner: winner, Score: e.state.Score})
}

func (e *Engine) scheduleComputerLocked() {
	if e.scheduler == nil {
		return
	}
	e.cancelPendingLocked()

	gen := e.state.Generation
	e.pending = e.scheduler.Schedule(e.cfg.ComputerDelay, func() {
		if _, _, err := e.ComputerTurn(gen); err != nil {
			e.logger.Debug("scheduled computer turn skipped", "generation", gen, "error", err)
		}
	})
}

func (e *Engine) cancelPendingLocked() {
	if e.pending != nil {
		e.pending()
		e.pending = nil
	}
}

// pickTargetLocked draws uniform random cells until it finds an unfired one.
// After a bounded number of draws it picks uniformly among the unfired cells
// instead, which has the same distribution. Returns -1 if every cell is fired.
func (e *Engine) pickTargetLocked(b *Board) int {
	size := b.Size()
	for i := 0; i < size*4; i++ {
		idx := e.rng.Intn(size)
		if !b.cells[idx].Fired {
			return idx
		}
	}

	open := make([]int, 0, size)
	for idx, c := range b.cells {
		if !c.Fired {
			open = append(open, idx)
		}
	}
	if len(open) == 0 {
		return -1
	}
	return open[e.rng.Intn(len(open))]
}

func (e *Engine) publishLocked(evt Event) {
	live := e.subs[:0]
	for _, sub := range e.subs {
		if sub.closed() {
			continue
		}
		sub.send(evt)
		live = append(live, sub)
	}
	for i := len(live); i < len(e.subs); i++ {
		e.subs[i] = nil
	}
	e.subs = live
}
