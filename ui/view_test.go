package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"igo-local/app"
	"igo-local/config"
	"igo-local/engine"
	"igo-local/engine/local"
	"igo-local/fpscounter"
	"igo-local/game"
	"igo-local/types"
)

func first(hands []types.Hand) types.Hand { return hands[0] }

func newTestView(t *testing.T) (*View, *app.App, tcell.SimulationScreen) {
	t.Helper()
	log := zaptest.NewLogger(t)
	a := app.New(app.Options{
		Engine:  local.New(engine.GameConfig{BoardSize: 9, Komi: 6.5}),
		Chooser: game.ChooserFunc(first),
		Palette: Palette(config.DefaultTheme),
		Overlay: fpscounter.DefaultOptions(),
		Log:     log,
	})
	a.Startup()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)
	return NewView(a, config.DefaultTheme, log), a, screen
}

func screenText(s tcell.SimulationScreen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func TestGetGridRune(t *testing.T) {
	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, '┌'},
		{8, 0, '┐'},
		{0, 8, '└'},
		{8, 8, '┘'},
		{4, 0, '┬'},
		{4, 8, '┴'},
		{0, 4, '├'},
		{8, 4, '┤'},
		{4, 4, '┼'},
	}
	for _, tt := range tests {
		if got := getGridRune(tt.x, tt.y, 9, 9); got != tt.want {
			t.Errorf("getGridRune(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCellWidth(t *testing.T) {
	assert.Equal(t, 2, cellWidth(1))
	assert.Equal(t, 2, cellWidth(2.5))
	assert.Equal(t, 1, cellWidth(0.5))
}

func TestRenderTitle(t *testing.T) {
	v, _, screen := newTestView(t)
	v.render(screen, 0, 0, 80, 24)
	text := screenText(screen)

	assert.Contains(t, text, "igo-local")
	assert.Contains(t, text, "▶ Game Start")
	assert.Contains(t, text, "[Settings]")
	assert.Contains(t, text, "[Exit]")
	assert.Contains(t, text, "FPS:"+fpscounter.NotAvailable)
	assert.Len(t, v.hits, 3)
}

func TestRenderBoard(t *testing.T) {
	v, a, screen := newTestView(t)
	a.StartGame()
	a.Tick()
	a.Tick()

	v.render(screen, 0, 0, 80, 24)
	left := (80 - boardWidth(9, 2)) / 2
	top := (24 - 9 - 1) / 2
	at := func(bx, by int) (rune, tcell.Style) {
		r, _, style, _ := screen.GetContent(left+4+bx*2, top+by)
		return r, style
	}

	r, style := at(0, 0)
	assert.Equal(t, config.DefaultTheme.Symbols.BlackStone, r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.PaletteColor(config.DefaultTheme.Colors.BlackColor), fg)

	r, _ = at(1, 0)
	assert.Equal(t, '┬', r)
	r, _ = at(8, 8)
	assert.Equal(t, '┘', r)
	r, _ = at(2, 2)
	assert.Equal(t, config.DefaultTheme.Symbols.Hoshi, r)

	label, _, _, _ := screen.GetContent(left+2, top)
	assert.Equal(t, '9', label)
	letter, _, _, _ := screen.GetContent(left+4, top+9)
	assert.Equal(t, 'A', letter)
	assert.Empty(t, v.hits, "no panel takes input while running")
}

func TestKeyboardNavigation(t *testing.T) {
	v, a, _ := newTestView(t)

	assert.Nil(t, v.handleKey(key(tcell.KeyDown)))
	assert.Equal(t, 1, v.focus)
	assert.Nil(t, v.handleKey(key(tcell.KeyEnter)))
	a.Tick()
	require.True(t, a.Screen().Is(app.Settings))

	v.syncFocus()
	assert.Equal(t, 0, v.focus, "focus resets when the panel changes")

	assert.Nil(t, v.handleKey(key(tcell.KeyEscape)))
	a.Tick()
	assert.True(t, a.Screen().Is(app.Title))

	assert.Nil(t, v.handleKey(key(tcell.KeyUp)))
	assert.Equal(t, 2, v.focus, "focus wraps")

	other := tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)
	assert.Same(t, other, v.handleKey(other))

	v.handleKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.True(t, a.ExitRequested())
}

func TestPauseKeepsBoardAndShowsPanel(t *testing.T) {
	v, a, screen := newTestView(t)
	a.StartGame()
	a.Tick()
	v.handleKey(key(tcell.KeyEscape))
	a.Tick()
	require.True(t, a.Phase().Is(app.Paused))

	v.render(screen, 0, 0, 80, 24)
	text := screenText(screen)
	assert.Contains(t, text, "Paused")
	assert.Contains(t, text, "▶ Resume")
	assert.Contains(t, text, "[Back To Title]")
	assert.Len(t, v.hits, 2)
}

func TestMouseClick(t *testing.T) {
	v, a, screen := newTestView(t)
	v.render(screen, 0, 0, 80, 24)

	var target *hit
	for i := range v.hits {
		if b, ok := a.World().Get(v.hits[i].id); ok && b.Text == "Settings" {
			target = &v.hits[i]
		}
	}
	require.NotNil(t, target)

	ev := tcell.NewEventMouse(target.x+1, target.y, tcell.Button1, tcell.ModNone)
	_, out := v.handleMouse(tview.MouseLeftClick, ev)
	assert.Nil(t, out)
	a.Tick()
	assert.True(t, a.Screen().Is(app.Settings))

	miss := tcell.NewEventMouse(0, 23, tcell.Button1, tcell.ModNone)
	_, out = v.handleMouse(tview.MouseLeftClick, miss)
	assert.Same(t, miss, out)
}

func TestCheckSizeReportsResize(t *testing.T) {
	v, a, screen := newTestView(t)
	screen.SetSize(40, 12)
	v.checkSize(screen)
	assert.Equal(t, 0.5, a.Scale())
}
