package game

import (
	"runtime"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"igo-local/scene"
	"igo-local/types"
)

// Palette maps stone owners to colours.
type Palette struct {
	Black tcell.Color
	White tcell.Color
}

func (p Palette) color(s types.Stone) tcell.Color {
	if s == types.White {
		return p.White
	}
	return p.Black
}

// BoardGrid is the fixed size x size set of cell nodes drawn for a session.
type BoardGrid struct {
	size    int
	root    *scene.Node
	cells   [][]*scene.Node
	palette Palette
}

// SpawnGrid creates the board node and one hidden cell per point, all owned by scope.
func SpawnGrid(w *scene.World, scope any, size int, palette Palette) *BoardGrid {
	root := w.Spawn(0, scope, scene.Node{
		Kind:    scene.KindBoard,
		Name:    "board",
		Visible: true,
	})
	g := &BoardGrid{
		size:    size,
		root:    root,
		cells:   make([][]*scene.Node, size),
		palette: palette,
	}
	for y := 0; y < size; y++ {
		g.cells[y] = make([]*scene.Node, size)
		for x := 0; x < size; x++ {
			g.cells[y][x] = w.Spawn(root.ID, nil, scene.Node{
				Kind:  scene.KindCell,
				Pos:   types.BoardPos{X: x, Y: y},
				Hoshi: IsHoshi(x, y, size),
				Color: palette.Black,
			})
		}
	}
	return g
}

func (g *BoardGrid) Size() int {
	return g.size
}

func (g *BoardGrid) Root() *scene.Node {
	return g.root
}

// Cell returns the node for (x, y), or nil off the board.
func (g *BoardGrid) Cell(x, y int) *scene.Node {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return nil
	}
	return g.cells[y][x]
}

// Visible counts cells currently showing a stone.
func (g *BoardGrid) Visible() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c.Visible {
				n++
			}
		}
	}
	return n
}

// Sync makes every cell show the stone b holds at its point. Empty points are hidden
// and keep their last colour. Rows are independent and updated concurrently.
func (g *BoardGrid) Sync(b *types.BoardState) {
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for y := range g.cells {
		row := g.cells[y]
		eg.Go(func() error {
			for _, c := range row {
				if s, ok := b.Stone(c.Pos.X, c.Pos.Y); ok {
					c.Color = g.palette.color(s)
					c.Visible = true
				} else {
					c.Visible = false
				}
			}
			return nil
		})
	}
	// Row workers only write their own cells and always return nil.
	_ = eg.Wait()
}

// IsHoshi reports whether (x, y) is a star point: the four corner points and the
// centre, plus the side points on boards of 19 and up.
func IsHoshi(x, y, size int) bool {
	if size < 7 {
		return false
	}
	edge := 3
	if size < 13 {
		edge = 2
	}
	lines := [3]int{edge, size / 2, size - 1 - edge}
	ix, iy := -1, -1
	for i, v := range lines {
		if x == v {
			ix = i
		}
		if y == v {
			iy = i
		}
	}
	if ix < 0 || iy < 0 {
		return false
	}
	if ix == 1 || iy == 1 {
		return size%2 == 1 && (size >= 19 || ix == iy)
	}
	return true
}
