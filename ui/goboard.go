// Package ui draws the application world in the terminal with tview and maps terminal
// input onto application input.
package ui

import (
	"github.com/gdamore/tcell/v2"

	"igo-local/config"
	"igo-local/game"
)

// boardStyles holds the theme colours used by the board.
type boardStyles struct {
	board tcell.Color
	black tcell.Color
	white tcell.Color
	line  tcell.Color
	hoshi tcell.Color
}

func newBoardStyles(t config.Theme) boardStyles {
	return boardStyles{
		board: tcell.PaletteColor(t.Colors.BoardColor),
		black: tcell.PaletteColor(t.Colors.BlackColor),
		white: tcell.PaletteColor(t.Colors.WhiteColor),
		line:  tcell.PaletteColor(t.Colors.LineColor),
		hoshi: tcell.PaletteColor(t.Colors.HoshiColor),
	}
}

// Palette returns the stone colours of a theme, for the board grid.
func Palette(t config.Theme) game.Palette {
	s := newBoardStyles(t)
	return game.Palette{Black: s.black, White: s.white}
}

// cellWidth is 2 characters per point for a square look, 1 on small windows.
func cellWidth(scale float64) int {
	if scale < 1 {
		return 1
	}
	return 2
}

// coordLetters skips I, as GTP does.
const coordLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

// boardWidth is the drawn width of a board including the row numbers.
func boardWidth(size, cw int) int {
	return size*cw + 4
}

// drawBoard centres the grid in the area. Shown cells are stones in their node colour;
// hidden cells are grid intersections.
func (v *View) drawBoard(screen tcell.Screen, grid *game.BoardGrid, x, y, width, height int) {
	size := grid.Size()
	cw := cellWidth(v.app.Scale())
	left := x + max(0, (width-boardWidth(size, cw))/2)
	top := y + max(0, (height-size-1)/2)
	bg := tcell.StyleDefault.Background(v.styles.board)

	for by := 0; by < size; by++ {
		for bx := 0; bx < size; bx++ {
			cell := grid.Cell(bx, by)
			if cell.Visible {
				r := v.theme.Symbols.BlackStone
				if cell.Color == v.styles.white {
					r = v.theme.Symbols.WhiteStone
				}
				style := bg.Foreground(cell.Color)
				if v.theme.DrawStoneBackground {
					style = style.Background(cell.Color)
				}
				drawStoneCell(screen, style, r, bx, by, left+4, top, cw)
				continue
			}

			style := bg.Foreground(v.styles.line)
			r := v.theme.Symbols.BoardSquare
			if cell.Hoshi {
				r = v.theme.Symbols.Hoshi
				style = bg.Foreground(v.styles.hoshi)
			} else if v.theme.UseGridLines {
				r = getGridRune(bx, by, size, size)
			}
			if !v.theme.UseGridLines {
				drawStoneCell(screen, style, r, bx, by, left+4, top, cw)
				continue
			}
			stoneRight := bx < size-1 && grid.Cell(bx+1, by).Visible
			drawGridCell(screen, style, r, bx, by, left+4, top, size, stoneRight, cw)
		}
	}
	drawCoordinates(screen, left, top, size, cw)
}

// drawStoneCell draws a stone cell; the second column, if any, is blank.
func drawStoneCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, cw int) {
	s.SetContent(l+x*cw, t+y, r, nil, c)
	if cw > 1 {
		s.SetContent(l+x*cw+1, t+y, ' ', nil, c)
	}
}

// drawGridCell draws an intersection and, on wide cells, the line to its right.
func drawGridCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t, boardWidth int, hasStoneRight bool, cw int) {
	s.SetContent(l+x*cw, t+y, r, nil, c)
	if cw == 1 {
		return
	}
	rightConn := '─'
	if x == boardWidth-1 || hasStoneRight {
		rightConn = ' '
	}
	s.SetContent(l+x*cw+1, t+y, rightConn, nil, c)
}

// getGridRune returns the box-drawing character for a grid position.
func getGridRune(x, y, width, height int) rune {
	isTop := y == 0
	isBottom := y == height-1
	isLeft := x == 0
	isRight := x == width-1

	switch {
	case isTop && isLeft:
		return '┌'
	case isTop && isRight:
		return '┐'
	case isBottom && isLeft:
		return '└'
	case isBottom && isRight:
		return '┘'
	case isTop:
		return '┬'
	case isBottom:
		return '┴'
	case isLeft:
		return '├'
	case isRight:
		return '┤'
	default:
		return '┼'
	}
}

// drawCoordinates labels columns below the board and rows, counted from the bottom,
// on its left.
func drawCoordinates(s tcell.Screen, left, top, size, cw int) {
	style := tcell.StyleDefault.Foreground(MenuColors.Hint)
	for ix := 0; ix < size && ix < len(coordLetters); ix++ {
		s.SetContent(left+4+ix*cw, top+size, rune(coordLetters[ix]), nil, style)
	}
	for iy := 0; iy < size; iy++ {
		n := size - iy
		tens := ' '
		if n >= 10 {
			tens = rune('0' + n/10)
		}
		s.SetContent(left+1, top+iy, tens, nil, style)
		s.SetContent(left+2, top+iy, rune('0'+n%10), nil, style)
	}
}
