package game

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"igo-local/engine"
	"igo-local/engine/local"
	"igo-local/scene"
	"igo-local/types"
)

// scriptedGame returns no legal hands for the stones in noMoves and ends after
// limit hands.
type scriptedGame struct {
	size    int
	noMoves map[types.Stone]bool
	played  []types.Hand
	limit   int
}

var _ engine.Game = (*scriptedGame)(nil)

func (g *scriptedGame) Reset()    { g.played = nil }
func (g *scriptedGame) Size() int { return g.size }

func (g *scriptedGame) AllowedHands(turn types.Stone) []types.Hand {
	if g.noMoves[turn] {
		return nil
	}
	return []types.Hand{types.PutHand(turn, 0, 0), types.PutHand(turn, 1, 1)}
}

func (g *scriptedGame) PutHand(h types.Hand) bool {
	g.played = append(g.played, h)
	return g.limit == 0 || len(g.played) < g.limit
}

func (g *scriptedGame) Board() *types.BoardState { return types.NewBoardState(g.size) }
func (g *scriptedGame) Judge() engine.Result     { return engine.Result{Reason: "unknown"} }

func first(hands []types.Hand) types.Hand { return hands[0] }

func TestEmptyHandsMeansPass(t *testing.T) {
	g := &scriptedGame{size: 9, noMoves: map[types.Stone]bool{types.Black: true}}
	d := NewTurnDriver(ChooserFunc(first), zaptest.NewLogger(t))

	hand, ok := d.Tick(g)
	assert.True(t, ok)
	assert.Equal(t, types.PassHand(types.Black), hand)
	require.Len(t, g.played, 1)
	assert.True(t, g.played[0].Pass, "a pass is applied, never skipped")

	hand, _ = d.Tick(g)
	assert.Equal(t, types.PutHand(types.White, 0, 0), hand)
}

func TestTurnMarkerAlternates(t *testing.T) {
	g := &scriptedGame{size: 9, limit: 3}
	d := NewTurnDriver(ChooserFunc(first), zaptest.NewLogger(t))

	for n := 1; n <= 6; n++ {
		d.Tick(g)
		want := types.Black
		if n%2 == 1 {
			want = types.White
		}
		assert.Equal(t, want, d.Turn(), "after %d ticks", n)
	}
}

func TestTickReportsGameEnd(t *testing.T) {
	g := &scriptedGame{size: 9, limit: 2}
	d := NewTurnDriver(ChooserFunc(first), zaptest.NewLogger(t))

	_, ok := d.Tick(g)
	assert.True(t, ok)
	_, ok = d.Tick(g)
	assert.False(t, ok)
	assert.Equal(t, types.Black, d.Turn(), "the marker flips even on the final hand")
}

func TestRandomChooserIsSeeded(t *testing.T) {
	hands := make([]types.Hand, 50)
	for i := range hands {
		hands[i] = types.PutHand(types.Black, i%9, i/9)
	}
	a, b := NewRandomChooser(42), NewRandomChooser(42)
	seen := map[types.Hand]bool{}
	for i := 0; i < 200; i++ {
		h := a.Choose(hands)
		assert.Equal(t, h, b.Choose(hands))
		assert.Contains(t, hands, h)
		seen[h] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

var palette = Palette{Black: tcell.ColorBlack, White: tcell.ColorWhite}

func TestSpawnGrid(t *testing.T) {
	w := scene.NewWorld()
	g := SpawnGrid(w, "in-game", 9, palette)

	assert.Len(t, w.Find(scene.KindCell), 81)
	assert.Zero(t, g.Visible())
	assert.Equal(t, types.BoardPos{X: 3, Y: 7}, g.Cell(3, 7).Pos)
	assert.Nil(t, g.Cell(9, 0))
	assert.True(t, g.Cell(4, 4).Hoshi)

	assert.Equal(t, 82, w.DespawnScope("in-game"))
	assert.Zero(t, w.Len())
}

func TestSyncMatchesBoard(t *testing.T) {
	w := scene.NewWorld()
	g := SpawnGrid(w, nil, 9, palette)

	b := types.NewBoardState(9)
	b.Board[0][0] = types.Black
	b.Board[8][3] = types.White
	g.Sync(b)
	g.Sync(b)

	assert.Equal(t, 2, g.Visible())
	assert.True(t, g.Cell(0, 0).Visible)
	assert.Equal(t, tcell.ColorBlack, g.Cell(0, 0).Color)
	assert.True(t, g.Cell(3, 8).Visible)
	assert.Equal(t, tcell.ColorWhite, g.Cell(3, 8).Color)

	b.Board[8][3] = types.None
	g.Sync(b)
	assert.False(t, g.Cell(3, 8).Visible)
	assert.Equal(t, 1, g.Visible())
}

func TestSyncFollowsLocalPlayout(t *testing.T) {
	cfg := engine.DefaultConfig()
	eng := local.New(cfg)
	w := scene.NewWorld()
	g := SpawnGrid(w, nil, eng.Size(), palette)
	d := NewTurnDriver(NewRandomChooser(7), zaptest.NewLogger(t))

	for i := 0; i < 60; i++ {
		_, ok := d.Tick(eng)
		g.Sync(eng.Board())
		b := eng.Board()
		for y := 0; y < 9; y++ {
			for x := 0; x < 9; x++ {
				s, occupied := b.Stone(x, y)
				cell := g.Cell(x, y)
				require.Equal(t, occupied, cell.Visible)
				if occupied {
					require.Equal(t, palette.color(s), cell.Color)
				}
			}
		}
		if !ok {
			break
		}
	}
}

func TestIsHoshi(t *testing.T) {
	count := func(size int) int {
		n := 0
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				if IsHoshi(x, y, size) {
					n++
				}
			}
		}
		return n
	}
	assert.Equal(t, 5, count(9))
	assert.Equal(t, 5, count(13))
	assert.Equal(t, 9, count(19))
	assert.Zero(t, count(5))

	assert.True(t, IsHoshi(2, 6, 9))
	assert.False(t, IsHoshi(2, 4, 9))
	assert.True(t, IsHoshi(3, 9, 19))
	assert.True(t, IsHoshi(9, 9, 13))
	assert.False(t, IsHoshi(3, 6, 13))
}
