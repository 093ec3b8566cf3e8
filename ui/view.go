package ui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"igo-local/app"
	"igo-local/config"
	"igo-local/fpscounter"
	"igo-local/scene"
)

// hit is the screen area of a clickable button.
type hit struct {
	id    scene.EntityID
	x, y  int
	width int
}

// View shows an App in the terminal. Ticks run on tview's event goroutine, so the
// application is only ever touched from there.
type View struct {
	tv     *tview.Application
	box    *tview.Box
	app    *app.App
	theme  config.Theme
	styles boardStyles
	log    *zap.Logger

	focus       int
	focusTarget scene.EntityID
	hits        []hit
	width       int
	height      int
}

// NewView builds the terminal view of a.
func NewView(a *app.App, theme config.Theme, log *zap.Logger) *View {
	v := &View{
		tv:     tview.NewApplication(),
		box:    tview.NewBox(),
		app:    a,
		theme:  theme,
		styles: newBoardStyles(theme),
		log:    log.Named("ui"),
	}
	v.box.SetBorder(true).SetTitle(" ⬡ igo-local ")
	v.box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		v.checkSize(screen)
		ix, iy, iw, ih := x+1, y+1, width-2, height-2
		v.render(screen, ix, iy, iw, ih)
		return ix, iy, iw, ih
	})
	v.box.SetInputCapture(v.handleKey)
	v.box.SetMouseCapture(v.handleMouse)
	v.tv.SetRoot(v.box, true).EnableMouse(true)
	return v
}

// SetScreen replaces the terminal, for tests.
func (v *View) SetScreen(s tcell.Screen) {
	v.tv.SetScreen(s)
}

// Run shows the view and ticks the application tps times a second until the
// application asks to exit, the terminal app stops or ctx ends.
func (v *View) Run(ctx context.Context, tps int) error {
	if tps <= 0 {
		return app.ErrTickRate
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return v.tv.Run()
	})
	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(tps))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				v.tv.Stop()
				return nil
			case <-ticker.C:
				v.tv.QueueUpdateDraw(v.tick)
			}
		}
	})
	return g.Wait()
}

func (v *View) tick() {
	v.app.Tick()
	if v.app.ExitRequested() {
		v.tv.Stop()
	}
}

func (v *View) checkSize(screen tcell.Screen) {
	w, h := screen.Size()
	if w == v.width && h == v.height {
		return
	}
	v.width, v.height = w, h
	v.app.WindowResized(w, h)
}

// render draws the world roots in depth order into the given area.
func (v *View) render(screen tcell.Screen, x, y, width, height int) {
	w := v.app.World()
	v.hits = v.hits[:0]
	v.syncFocus()

	var input *scene.Node
	if buttons := w.Buttons(); len(buttons) > 0 {
		input, _ = w.Get(buttons[0].Parent)
	}

	for _, root := range w.Roots() {
		if !root.Visible {
			continue
		}
		switch {
		case root.Z >= fpscounter.RootZ:
			v.drawOverlay(screen, root, x, y)
		case root.Kind == scene.KindBoard:
			if grid := v.app.Grid(); grid != nil {
				v.drawBoard(screen, grid, x, y, width, height)
			}
		case root.Kind == scene.KindPanel:
			v.drawPanel(screen, root, root == input, x, y, width, height)
		}
	}
}

// syncFocus moves focus back to the first button when the input panel changes.
func (v *View) syncFocus() {
	buttons := v.app.World().Buttons()
	if len(buttons) == 0 {
		v.focus, v.focusTarget = 0, 0
		return
	}
	if buttons[0].ID != v.focusTarget {
		v.focus, v.focusTarget = 0, buttons[0].ID
	}
	if v.focus >= len(buttons) {
		v.focus = len(buttons) - 1
	}
}

func (v *View) moveFocus(delta int) {
	v.syncFocus()
	n := len(v.app.World().Buttons())
	if n == 0 {
		return
	}
	v.focus = (v.focus + delta + n) % n
}

func (v *View) activate() {
	v.syncFocus()
	buttons := v.app.World().Buttons()
	if v.focus < len(buttons) {
		v.app.Click(buttons[v.focus].ID)
	}
}

func (v *View) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		v.app.PressKey(app.KeyEscape)
	case tcell.KeyUp, tcell.KeyBacktab:
		v.moveFocus(-1)
	case tcell.KeyDown, tcell.KeyTab:
		v.moveFocus(1)
	case tcell.KeyEnter:
		v.activate()
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k':
			v.moveFocus(-1)
		case 'j':
			v.moveFocus(1)
		case 'q':
			v.app.RequestExit()
		default:
			return event
		}
	default:
		return event
	}
	return nil
}

func (v *View) handleMouse(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
	if action != tview.MouseLeftClick {
		return action, event
	}
	mx, my := event.Position()
	for _, h := range v.hits {
		if my == h.y && mx >= h.x && mx < h.x+h.width {
			v.log.Debug("click", zap.Uint64("entity", uint64(h.id)))
			v.app.Click(h.id)
			return action, nil
		}
	}
	return action, event
}
