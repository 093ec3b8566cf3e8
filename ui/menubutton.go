package ui

import (
	"github.com/gdamore/tcell/v2"

	"igo-local/scene"
)

// MenuButton draws a button node as a pill when focused and as a bracketed label
// otherwise.
type MenuButton struct {
	node    *scene.Node
	primary bool
	focused bool
}

func newMenuButton(n *scene.Node, primary, focused bool) MenuButton {
	return MenuButton{node: n, primary: primary, focused: focused}
}

func (b MenuButton) label() string {
	if b.primary {
		return "▶ " + b.node.Text
	}
	return b.node.Text
}

// Width returns the button width.
func (b MenuButton) Width() int {
	return len([]rune(b.label())) + 2 // 1 padding on each side (or brackets)
}

// Draw renders the button at the given position and returns the width used.
func (b MenuButton) Draw(screen tcell.Screen, x, y int) int {
	label := b.label()
	width := b.Width()

	if b.focused {
		style := tcell.StyleDefault.
			Foreground(MenuColors.ButtonText).
			Background(MenuColors.ButtonFocus)
		for i := 0; i < width; i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawText(screen, x+1, y, label, style)
		return width
	}

	dimStyle := tcell.StyleDefault.
		Foreground(MenuColors.Hint).
		Background(MenuColors.CardBG)
	bracketStyle := tcell.StyleDefault.
		Foreground(MenuColors.Border).
		Background(MenuColors.CardBG)

	screen.SetContent(x, y, '[', nil, bracketStyle)
	drawText(screen, x+1, y, label, dimStyle)
	screen.SetContent(x+width-1, y, ']', nil, bracketStyle)
	return width
}
