package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"igo-local/sgf"
	"igo-local/types"
)

func writeRecord(t *testing.T, dir, session string, hands ...types.Hand) string {
	t.Helper()
	rec, err := sgf.NewGameRecord(dir, sgf.Header{GameName: session, BoardSize: 9, Komi: 6.5, PlayerBlack: "Random", PlayerWhite: "Random"})
	require.NoError(t, err)
	for _, h := range hands {
		require.NoError(t, rec.AddHand(h))
	}
	require.NoError(t, rec.SetResult("B+3.5"))
	require.NoError(t, rec.Close())
	return rec.FilePath
}

func TestHistoryBrowserPreview(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "aaaaaaaa-1111", types.PutHand(types.Black, 4, 4), types.PutHand(types.White, 2, 2))

	hb := NewHistoryBrowser(dir, zaptest.NewLogger(t), nil)
	require.Len(t, hb.Games(), 1)
	assert.Contains(t, listLabel(hb.Games()[0]), "aaaaaaaa")

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 24)
	hb.drawPreview(screen, 0, 0, 40, 24)

	r, _, _, _ := screen.GetContent(2+4, 1+4)
	assert.Equal(t, '●', r)
	r, _, _, _ = screen.GetContent(2+2, 1+2)
	assert.Equal(t, '○', r)
	r, _, _, _ = screen.GetContent(2, 1)
	assert.Equal(t, '·', r)
	assert.Contains(t, screenText(screen), "Result: B+3.5")
}

func TestHistoryBrowserDelete(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "aaaaaaaa", types.PassHand(types.Black))
	writeRecord(t, dir, "bbbbbbbb", types.PassHand(types.Black))

	var closed bool
	hb := NewHistoryBrowser(dir, zaptest.NewLogger(t), func() { closed = true })
	require.Len(t, hb.Games(), 2)

	hb.handleInput(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	assert.Len(t, hb.Games(), 1)

	hb.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	assert.True(t, closed)
}

func TestHistoryBrowserEmpty(t *testing.T) {
	hb := NewHistoryBrowser(t.TempDir(), zaptest.NewLogger(t), nil)
	assert.Empty(t, hb.Games())
	x, y, w, h := hb.drawPreview(nil, 1, 2, 3, 4)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{x, y, w, h})
}
