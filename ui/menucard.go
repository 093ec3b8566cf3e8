package ui

import (
	"github.com/gdamore/tcell/v2"

	"igo-local/scene"
)

// MenuCard is a rounded card with a title row and a divider.
type MenuCard struct {
	title   string
	focused bool
}

// Card geometry: rows start below the title divider, one blank line apart.
const (
	cardHeader  = 6
	cardRowStep = 2
	cardMinW    = 30
)

// Draw fills the card area and draws its border and title.
func (c MenuCard) Draw(screen tcell.Screen, x, y, width, height int) {
	if width < 10 || height < 5 {
		return
	}

	borderColor := MenuColors.Border
	if c.focused {
		borderColor = MenuColors.BorderFocus
	}
	borderStyle := tcell.StyleDefault.Foreground(borderColor).Background(MenuColors.CardBG)
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
	}

	// ╭───╮
	screen.SetContent(x, y, '╭', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, y, '╮', nil, borderStyle)

	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, borderStyle)
		screen.SetContent(x+width-1, row, '│', nil, borderStyle)
	}

	// ╰───╯
	screen.SetContent(x, y+height-1, '╰', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y+height-1, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, y+height-1, '╯', nil, borderStyle)

	if c.title == "" {
		return
	}
	titleStyle := tcell.StyleDefault.Foreground(MenuColors.Title).Background(MenuColors.CardBG).Bold(true)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)

	titleLen := len([]rune(c.title)) + 3
	titleX := x + (width-titleLen)/2
	titleY := y + 2
	screen.SetContent(titleX, titleY, '⬡', nil, accentStyle)
	drawText(screen, titleX+3, titleY, c.title, titleStyle)

	divY := y + 4
	screen.SetContent(x, divY, '├', nil, borderStyle)
	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, divY, '─', nil, borderStyle)
	}
	screen.SetContent(x+width-1, divY, '┤', nil, borderStyle)
}

// panelRows splits a panel's children into its title and the rows below it.
func panelRows(w *scene.World, p *scene.Node) (title string, rows []*scene.Node) {
	for _, n := range w.Children(p.ID) {
		if !n.Visible {
			continue
		}
		if title == "" && n.Kind == scene.KindText {
			title = n.Text
			continue
		}
		rows = append(rows, n)
	}
	return title, rows
}

// drawPanel centres a panel card in the area and draws its rows. Buttons of the
// input panel are recorded as click targets.
func (v *View) drawPanel(screen tcell.Screen, p *scene.Node, input bool, x, y, width, height int) {
	title, rows := panelRows(v.app.World(), p)

	cardW := len([]rune(title)) + 10
	for i, n := range rows {
		w := len([]rune(n.Text)) + 8
		if n.Kind == scene.KindButton {
			w = newMenuButton(n, i == 0, false).Width() + 8
		}
		cardW = max(cardW, w)
	}
	cardW = min(max(cardW, cardMinW), width)
	cardH := min(cardHeader+len(rows)*cardRowStep, height)
	left := x + (width-cardW)/2
	top := y + (height-cardH)/2

	MenuCard{title: title, focused: input}.Draw(screen, left, top, cardW, cardH)

	textStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	buttonIndex := 0
	for i, n := range rows {
		rowY := top + cardHeader - 1 + i*cardRowStep
		if rowY >= top+cardH-1 {
			break
		}
		switch n.Kind {
		case scene.KindButton:
			focused := input && buttonIndex == v.focus
			b := newMenuButton(n, i == 0, focused)
			bx := left + (cardW-b.Width())/2
			b.Draw(screen, bx, rowY)
			if input {
				v.hits = append(v.hits, hit{id: n.ID, x: bx, y: rowY, width: b.Width()})
			}
			buttonIndex++
		default:
			tx := left + (cardW-len([]rune(n.Text)))/2
			drawText(screen, tx, rowY, n.Text, textStyle)
		}
	}
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
