package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"igo-local/fpscounter"
	"igo-local/game"
	"igo-local/scene"
	"igo-local/sgf"
	"igo-local/types"
)

// Panel depths. The overlay sits above all of them.
const (
	zTitle    = 10
	zSettings = 10
	zGameOver = 99
	zPause    = 100
)

var (
	panelBackground = tcell.PaletteColor(236)
	titleColor      = tcell.PaletteColor(109)
	textColor       = tcell.PaletteColor(250)
)

type panel struct {
	w    *scene.World
	root *scene.Node
	slot int
}

func (a *App) spawnPanel(scope any, name string, z int) *panel {
	root := a.world.Spawn(0, scope, scene.Node{
		Kind:       scene.KindPanel,
		Name:       name,
		Visible:    true,
		Z:          z,
		Background: panelBackground,
	})
	return &panel{w: a.world, root: root}
}

func (p *panel) add(n scene.Node) *scene.Node {
	n.Visible = true
	n.Slot = p.slot
	p.slot++
	return p.w.Spawn(p.root.ID, nil, n)
}

func (p *panel) title(text string) *scene.Node {
	return p.add(scene.Node{Kind: scene.KindText, Text: text, Color: titleColor})
}

func (p *panel) text(text string) *scene.Node {
	return p.add(scene.Node{Kind: scene.KindText, Text: text, Color: textColor})
}

func (p *panel) button(label string, onClick func()) *scene.Node {
	return p.add(scene.Node{Kind: scene.KindButton, Text: label, Color: textColor, OnClick: onClick})
}

func (a *App) setupTitle() {
	p := a.spawnPanel(a.screen.Scope(Title), "title", zTitle)
	p.title("igo-local")
	p.button("Game Start", a.StartGame)
	p.button("Settings", func() { a.setScreen(Settings) })
	p.button("Exit", a.RequestExit)
}

func (a *App) setupInGame() {
	a.startSession()
	a.grid = game.SpawnGrid(a.world, a.screen.Scope(InGame), a.session.Size(), a.palette)
	a.log.Info("game started",
		zap.String("session", a.sessionID),
		zap.Int("size", a.session.Size()),
		zap.Stringer("turn", a.driver.Turn()))
}

func (a *App) teardownInGame() {
	a.closeRecord()
	a.grid = nil
}

// startSession resets the engine and opens a fresh record under a new session id.
func (a *App) startSession() {
	a.closeRecord()
	a.session.Reset()
	a.sessionID = uuid.NewString()
	a.result = nil
	if a.historyDir == "" {
		return
	}
	rec, err := sgf.NewGameRecord(a.historyDir, sgf.Header{
		GameName:    a.sessionID,
		BoardSize:   a.session.Size(),
		Komi:        a.komi,
		PlayerBlack: "Random",
		PlayerWhite: "Random",
	})
	if err != nil {
		a.log.Warn("game will not be recorded", zap.Error(err))
		return
	}
	a.record = rec
	a.log.Debug("recording", zap.String("path", rec.FilePath))
}

func (a *App) recordHand(h types.Hand) {
	if a.record == nil {
		return
	}
	if err := a.record.AddHand(h); err != nil {
		a.log.Warn("recording stopped", zap.String("path", a.record.FilePath), zap.Error(err))
		a.closeRecord()
	}
}

func (a *App) closeRecord() {
	if a.record == nil {
		return
	}
	if err := a.record.Close(); err != nil {
		a.log.Warn("close record", zap.String("path", a.record.FilePath), zap.Error(err))
	}
	a.record = nil
}

func (a *App) setupPause() {
	p := a.spawnPanel(a.phase.Scope(Paused), "pause", zPause)
	p.title("Paused")
	p.button("Resume", func() { a.setPhase(Running) })
	p.button("Back To Title", func() { a.setScreen(Title) })
}

func (a *App) setupGameOver() {
	res := a.session.Judge()
	a.result = &res
	a.log.Info("game over",
		zap.String("session", a.sessionID),
		zap.Stringer("result", res),
		zap.Int("moves", a.session.Board().MoveNumber))
	if a.record != nil {
		if err := a.record.SetResult(res.SGF()); err != nil {
			a.log.Warn("record result", zap.Error(err))
		}
	}

	p := a.spawnPanel(a.phase.Scope(GameOver), "game_over", zGameOver)
	p.title("Game Over")
	p.text("Winner: " + res.String())
	p.button("Reset", a.resetGame)
	p.button("Back To Title", func() { a.setScreen(Title) })

	for _, fn := range a.onGameOver {
		fn(res)
	}
}

// resetGame starts a new game on the same screen. Cells catch up on the next sync.
func (a *App) resetGame() {
	a.startSession()
	a.log.Info("game reset", zap.String("session", a.sessionID))
	a.setPhase(Running)
}

// overlayToggles lists the settings screen switches in overlay line order.
var overlayToggles = [4]struct {
	label string
	flag  func(*fpscounter.Options) *bool
}{
	{"FPS Counter", func(o *fpscounter.Options) *bool { return &o.Visible }},
	{"Average FPS", func(o *fpscounter.Options) *bool { return &o.ShowAverage }},
	{"Frame Time", func(o *fpscounter.Options) *bool { return &o.ShowFrameTime }},
	{"Average Frame Time", func(o *fpscounter.Options) *bool { return &o.ShowAverageFrameTime }},
}

func toggleLabel(name string, on bool) string {
	if on {
		return fmt.Sprintf("%s: On", name)
	}
	return fmt.Sprintf("%s: Off", name)
}

func (a *App) setupSettings() {
	p := a.spawnPanel(a.screen.Scope(Settings), "settings", zSettings)
	p.title("Settings")
	opts := a.counter.Options()
	for i, ot := range overlayToggles {
		a.toggles[i] = p.button(toggleLabel(ot.label, *ot.flag(&opts)), func() { a.toggle(i) })
	}
	p.button("Back", func() { a.setScreen(Title) })
}

func (a *App) toggle(i int) {
	opts := a.counter.Options()
	flag := overlayToggles[i].flag(&opts)
	*flag = !*flag
	a.counter.SetOptions(opts)
	a.log.Info("overlay option changed", zap.String("option", overlayToggles[i].label), zap.Bool("on", *flag))
	if a.saveOverlay != nil {
		if err := a.saveOverlay(opts); err != nil {
			a.log.Warn("save settings", zap.Error(err))
		}
	}
}

// refreshToggles keeps the switch labels in step with the overlay options.
func (a *App) refreshToggles() {
	opts := a.counter.Options()
	for i, ot := range overlayToggles {
		if b := a.toggles[i]; b != nil {
			b.Text = toggleLabel(ot.label, *ot.flag(&opts))
		}
	}
}
