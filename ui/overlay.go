package ui

import (
	"github.com/gdamore/tcell/v2"

	"igo-local/scene"
)

// drawOverlay writes one line per overlay item, top left, label then value in the
// value's tier colour.
func (v *View) drawOverlay(screen tcell.Screen, root *scene.Node, x, y int) {
	w := v.app.World()
	bg := tcell.StyleDefault.Background(MenuColors.OverlayBG)
	row := y
	for _, line := range w.Children(root.ID) {
		if !line.Visible {
			continue
		}
		col := x
		for _, part := range w.Children(line.ID) {
			text := []rune(part.Text)
			drawText(screen, col, row, part.Text, bg.Foreground(part.Color))
			col += len(text)
		}
		row++
	}
}
