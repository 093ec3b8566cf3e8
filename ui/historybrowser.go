package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"igo-local/sgf"
	"igo-local/types"
)

// HistoryBrowser lists recorded games with a preview of their final position.
type HistoryBrowser struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	games    []sgf.GameInfo
	boards   map[int]*types.BoardState // cached final positions
	selected int
	onDone   func()
	log      *zap.Logger
}

// NewHistoryBrowser creates a browser over the records in dir.
func NewHistoryBrowser(dir string, log *zap.Logger, onDone func()) *HistoryBrowser {
	hb := &HistoryBrowser{
		dir:    dir,
		onDone: onDone,
		boards: make(map[int]*types.BoardState),
		log:    log.Named("history"),
	}

	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Game History ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Preview ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetText("  [dimgray]d[-] delete  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
	})
	hb.gameList.SetInputCapture(hb.handleInput)

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 46, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadGames()
	return hb
}

// Flex returns the root primitive of the browser.
func (hb *HistoryBrowser) Flex() *tview.Flex {
	return hb.flex
}

// Games returns the listed records, newest first.
func (hb *HistoryBrowser) Games() []sgf.GameInfo {
	return hb.games
}

// Run shows the browser on its own until it is closed.
func (hb *HistoryBrowser) Run() error {
	tv := tview.NewApplication()
	done := hb.onDone
	hb.onDone = func() {
		if done != nil {
			done()
		}
		tv.Stop()
	}
	return tv.SetRoot(hb.flex, true).Run()
}

func (hb *HistoryBrowser) loadGames() {
	hb.gameList.Clear()
	hb.games = nil
	hb.selected = 0

	games, err := sgf.ListGames(hb.dir)
	if err != nil {
		hb.log.Warn("list games", zap.String("dir", hb.dir), zap.Error(err))
	}
	if len(games) == 0 {
		hb.gameList.AddItem("[dimgray]No games found[-]", "", 0, nil)
		return
	}

	hb.games = games
	for _, g := range games {
		hb.gameList.AddItem(listLabel(g), "", 0, nil)
	}
}

func listLabel(g sgf.GameInfo) string {
	result := g.Result
	if result == "" || result == "?" {
		result = "..."
	}
	session := g.GameName
	if len(session) > 8 {
		session = session[:8]
	}
	return fmt.Sprintf("%s  %dx%d  %-8s  %s", g.Date, g.BoardSize, g.BoardSize, session, result)
}

func (hb *HistoryBrowser) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		}
	}
	return event
}

func (hb *HistoryBrowser) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return
	}
	game := hb.games[hb.selected]
	if err := os.Remove(game.FilePath); err != nil {
		hb.log.Warn("delete record", zap.String("path", game.FilePath), zap.Error(err))
	}
	hb.boards = make(map[int]*types.BoardState)
	hb.loadGames()
}

// board replays the selected record once and caches the final position.
func (hb *HistoryBrowser) board(i int) *types.BoardState {
	if b, ok := hb.boards[i]; ok {
		return b
	}
	b, _, err := sgf.ReplayToEnd(hb.games[i].FilePath)
	if err != nil {
		hb.log.Warn("replay record", zap.String("path", hb.games[i].FilePath), zap.Error(err))
	}
	hb.boards[i] = b
	return b
}

// drawPreview renders a mini board and the record's metadata.
func (hb *HistoryBrowser) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if hb.selected < 0 || hb.selected >= len(hb.games) {
		return x, y, width, height
	}
	game := hb.games[hb.selected]
	board := hb.board(hb.selected)
	if board == nil {
		return x, y, width, height
	}

	size := board.Width()
	startX := x + 2
	startY := y + 1
	if width < size+4 || height < size+6 {
		return x, y, width, height
	}

	emptyStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(240))
	blackStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(255)).Bold(true)
	whiteStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	for by := 0; by < size; by++ {
		for bx := 0; bx < size; bx++ {
			ch, style := '·', emptyStyle
			switch s, _ := board.Stone(bx, by); s {
			case types.Black:
				ch, style = '●', blackStyle
			case types.White:
				ch, style = '○', whiteStyle
			}
			screen.SetContent(startX+bx, startY+by, ch, nil, style)
		}
	}

	infoY := startY + size + 1
	infoStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(250))
	dimStyle := tcell.StyleDefault.Foreground(tcell.PaletteColor(245))
	drawText(screen, startX, infoY, fmt.Sprintf("%dx%d", game.BoardSize, game.BoardSize), infoStyle)
	drawText(screen, startX+6, infoY, fmt.Sprintf("| %d moves", game.MoveCount), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("B: %s", game.PlayerBlack), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("W: %s", game.PlayerWhite), dimStyle)

	infoY++
	result := game.Result
	if result == "" || result == "?" {
		result = "Unfinished"
	}
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", result), tcell.StyleDefault.Foreground(MenuColors.TitleAccent))
	return x, y, width, height
}
