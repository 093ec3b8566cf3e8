// Package app composes the screen and phase state machines, the session, the turn
// loop and the overlay into a tick driven application.
package app

import (
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"igo-local/diagnostics"
	"igo-local/engine"
	"igo-local/fpscounter"
	"igo-local/game"
	"igo-local/scene"
	"igo-local/sgf"
	"igo-local/state"
	"igo-local/types"
)

// Screen is the top level application mode.
type Screen int

const (
	Title Screen = iota
	InGame
	Settings
)

func (s Screen) String() string {
	switch s {
	case Title:
		return "Title"
	case InGame:
		return "InGame"
	case Settings:
		return "Settings"
	}
	return "Unknown"
}

// Phase is the sub-state of InGame that decides whether turns advance.
type Phase int

const (
	Running Phase = iota
	Paused
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case GameOver:
		return "GameOver"
	}
	return "Unknown"
}

// Key is an input the application reacts to.
type Key int

const (
	KeyEscape Key = iota
)

// Logical window size in terminal cells; the resize scale is measured against it.
const (
	LogicalWidth  = 80
	LogicalHeight = 24
)

// Options configures an App.
type Options struct {
	Engine  engine.Game
	Chooser game.Chooser
	Palette game.Palette
	Overlay fpscounter.Options
	Komi    float64

	// HistoryDir receives one SGF record per game when Record is set.
	HistoryDir string
	Record     bool

	// SaveOverlay persists overlay options toggled on the settings screen.
	SaveOverlay func(fpscounter.Options) error

	Now func() time.Time
	Log *zap.Logger
}

// App owns the world, the session and every state machine. All methods must be
// called from one goroutine.
type App struct {
	log   *zap.Logger
	now   func() time.Time
	world *scene.World

	screen *state.Machine[Screen]
	phase  *state.Machine[Phase]

	session engine.Game
	driver  *game.TurnDriver
	grid    *game.BoardGrid
	palette game.Palette

	store   *diagnostics.Store
	frames  *diagnostics.FrameTimer
	counter *fpscounter.Counter

	keys   []Key
	clicks []scene.EntityID

	sessionID   string
	komi        float64
	historyDir  string
	record      *sgf.GameRecord
	result      *engine.Result
	saveOverlay func(fpscounter.Options) error
	toggles     [4]*scene.Node
	onGameOver  []func(engine.Result)

	exit          bool
	width, height int
	scale         float64
	ticks         int
}

// New wires the application. Nothing is spawned until Startup.
func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	chooser := opts.Chooser
	if chooser == nil {
		seed, err := game.NewSeed()
		if err != nil {
			log.Warn("falling back to a fixed seed", zap.Error(err))
		}
		chooser = game.NewRandomChooser(seed)
	}

	a := &App{
		log:         log,
		now:         now,
		world:       scene.NewWorld(),
		session:     opts.Engine,
		palette:     opts.Palette,
		store:       diagnostics.NewStore(),
		komi:        opts.Komi,
		saveOverlay: opts.SaveOverlay,
		scale:       1,
	}
	if opts.Record {
		a.historyDir = opts.HistoryDir
	}
	a.driver = game.NewTurnDriver(chooser, log)
	a.frames = diagnostics.NewFrameTimer(a.store)
	a.counter = fpscounter.New(a.world, a.store, opts.Overlay, log)

	a.screen = state.New("screen", Title, a.world, log).
		Allow(Title, InGame).
		Allow(Title, Settings).
		Allow(InGame, Title).
		Allow(Settings, Title)
	a.phase = state.Sub(a.screen, "phase", Running, func(s Screen) bool { return s == InGame }, a.world, log).
		Allow(Running, Paused).
		Allow(Paused, Running).
		Allow(Running, GameOver).
		Allow(GameOver, Running)

	a.screen.OnEnter(Title, a.setupTitle)
	a.screen.OnEnter(InGame, a.setupInGame)
	a.screen.OnExit(InGame, a.teardownInGame)
	a.screen.OnEnter(Settings, a.setupSettings)
	a.screen.OnExit(Settings, func() { a.toggles = [4]*scene.Node{} })
	a.phase.OnEnter(Paused, a.setupPause)
	a.phase.OnEnter(GameOver, a.setupGameOver)
	return a
}

// Startup runs the enter hooks of the initial states.
func (a *App) Startup() {
	a.screen.Enter()
	a.counter.Enter()
	a.log.Info("started", zap.Stringer("screen", Title))
}

// Tick runs one frame: every system, then every pending transition.
func (a *App) Tick() {
	a.Update()
	a.ApplyTransitions()
}

// Update runs the per-frame systems in dependency order.
func (a *App) Update() {
	a.ticks++
	a.frames.Frame(a.now())
	a.handleInput()
	if a.screen.Is(InGame) && a.phase.Is(Running) {
		a.runTurn()
		a.grid.Sync(a.session.Board())
	}
	if a.screen.Is(Settings) {
		a.refreshToggles()
	}
	a.counter.UpdateVisibility()
	a.counter.Refresh()
}

// ApplyTransitions performs pending transitions: screen, then phase, then overlay.
func (a *App) ApplyTransitions() {
	a.screen.Apply()
	a.phase.Apply()
	a.counter.Apply()
}

func (a *App) runTurn() {
	hand, ok := a.driver.Tick(a.session)
	a.recordHand(hand)
	if !ok {
		a.setPhase(GameOver)
	}
}

// PressKey queues a key press for the next Update.
func (a *App) PressKey(k Key) {
	a.keys = append(a.keys, k)
}

// Click queues a button activation for the next Update.
func (a *App) Click(id scene.EntityID) {
	a.clicks = append(a.clicks, id)
}

func (a *App) handleInput() {
	keys, clicks := a.keys, a.clicks
	a.keys, a.clicks = nil, nil

	for _, k := range keys {
		if k != KeyEscape {
			continue
		}
		switch {
		case a.screen.Is(Settings):
			a.setScreen(Title)
		case a.phase.Is(Paused):
			a.setPhase(Running)
		case a.phase.Is(Running):
			a.setPhase(Paused)
		}
	}

	for _, id := range clicks {
		a.activate(id)
	}
}

// activate runs the click handler of id if it is a button on the topmost panel.
func (a *App) activate(id scene.EntityID) {
	for _, b := range a.world.Buttons() {
		if b.ID != id {
			continue
		}
		a.log.Debug("button", zap.String("label", b.Text))
		if b.OnClick != nil {
			b.OnClick()
		}
		return
	}
	a.log.Debug("click ignored", zap.Uint64("entity", uint64(id)))
}

func (a *App) setScreen(s Screen) {
	if err := a.screen.Set(s); err != nil {
		a.log.Warn("screen change rejected", zap.Stringer("to", s), zap.Error(err))
	}
}

func (a *App) setPhase(p Phase) {
	if err := a.phase.Set(p); err != nil {
		a.log.Warn("phase change rejected", zap.Stringer("to", p), zap.Error(err))
	}
}

// WindowResized records the terminal size and the scale against the logical size.
func (a *App) WindowResized(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.width, a.height = width, height
	a.scale = math.Min(float64(width)/LogicalWidth, float64(height)/LogicalHeight)
	a.log.Info("window resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("scale", a.scale))
}

// Scale returns the last computed window scale factor.
func (a *App) Scale() float64 {
	return a.scale
}

// RequestExit asks the runner to stop after the current tick.
func (a *App) RequestExit() {
	if !a.exit {
		a.log.Info("exit requested")
	}
	a.exit = true
}

func (a *App) ExitRequested() bool {
	return a.exit
}

// OnGameOver registers fn to run with the judged result whenever a game ends.
func (a *App) OnGameOver(fn func(engine.Result)) {
	a.onGameOver = append(a.onGameOver, fn)
}

// StartGame requests the in-game screen, as the title's "Game Start" button does.
func (a *App) StartGame() {
	a.setScreen(InGame)
}

func (a *App) World() *scene.World             { return a.world }
func (a *App) Screen() *state.Machine[Screen]  { return a.screen }
func (a *App) Phase() *state.Machine[Phase]    { return a.phase }
func (a *App) Counter() *fpscounter.Counter    { return a.counter }
func (a *App) Diagnostics() *diagnostics.Store { return a.store }
func (a *App) Session() engine.Game            { return a.session }
func (a *App) SessionID() string               { return a.sessionID }
func (a *App) Turn() types.Stone               { return a.driver.Turn() }
func (a *App) Ticks() int                      { return a.ticks }

// Grid returns the board grid, nil outside InGame.
func (a *App) Grid() *game.BoardGrid {
	return a.grid
}

// Result returns the result of the last finished game.
func (a *App) Result() (engine.Result, bool) {
	if a.result == nil {
		return engine.Result{}, false
	}
	return *a.result, true
}

// RecordPath returns the SGF file of the current game, if one is being written.
func (a *App) RecordPath() string {
	if a.record == nil {
		return ""
	}
	return a.record.FilePath
}

// Close finishes the current record and stops an engine that holds a process.
func (a *App) Close() error {
	a.closeRecord()
	if c, ok := a.session.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
