package local

import "igo-local/types"

var neighbours = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// grid is a square board indexed as grid[y][x].
type grid [][]types.Stone

func newGrid(size int) grid {
	g := make(grid, size)
	for i := range g {
		g[i] = make([]types.Stone, size)
	}
	return g
}

func (g grid) size() int { return len(g) }

func (g grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < len(g) && y < len(g)
}

func (g grid) clear() {
	for y := range g {
		for x := range g[y] {
			g[y][x] = types.None
		}
	}
}

// hasLiberty checks if the group at (x, y) has any liberties using flood fill.
func (g grid) hasLiberty(x, y int) bool {
	color := g[y][x]
	if color == types.None {
		return true
	}
	visited := make([]bool, g.size()*g.size())
	return g.hasLibertyDFS(visited, x, y, color)
}

func (g grid) hasLibertyDFS(visited []bool, x, y int, color types.Stone) bool {
	if !g.inside(x, y) {
		return false
	}
	idx := y*g.size() + x
	if visited[idx] {
		return false
	}
	if g[y][x] == types.None {
		return true
	}
	if g[y][x] != color {
		return false
	}
	visited[idx] = true
	for _, d := range neighbours {
		if g.hasLibertyDFS(visited, x+d[0], y+d[1], color) {
			return true
		}
	}
	return false
}

// removeGroup removes all stones in the group at (x, y) and returns the removed points.
func (g grid) removeGroup(x, y int, color types.Stone, removed []types.BoardPos) []types.BoardPos {
	if !g.inside(x, y) || g[y][x] != color {
		return removed
	}
	g[y][x] = types.None
	removed = append(removed, types.BoardPos{X: x, Y: y})
	for _, d := range neighbours {
		removed = g.removeGroup(x+d[0], y+d[1], color, removed)
	}
	return removed
}

// place puts color at (x, y) and removes opponent groups left without liberties.
// The caller checks legality.
func (g grid) place(x, y int, color types.Stone) []types.BoardPos {
	g[y][x] = color
	opponent := color.Opposite()
	var captured []types.BoardPos
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if !g.inside(nx, ny) || g[ny][nx] != opponent {
			continue
		}
		if !g.hasLiberty(nx, ny) {
			captured = g.removeGroup(nx, ny, opponent, captured)
		}
	}
	return captured
}

// isEye reports whether (x, y) is an empty point enclosed only by color.
func (g grid) isEye(x, y int, color types.Stone) bool {
	if g[y][x] != types.None {
		return false
	}
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if g.inside(nx, ny) && g[ny][nx] != color {
			return false
		}
	}
	return true
}

func (g grid) copyFrom(src grid) {
	for y := range src {
		copy(g[y], src[y])
	}
}

// area counts stones plus empty regions bordered by a single colour.
func (g grid) area() (black, white int) {
	size := g.size()
	seen := make([]bool, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			switch g[y][x] {
			case types.Black:
				black++
				continue
			case types.White:
				white++
				continue
			}
			if seen[y*size+x] {
				continue
			}
			n, owner := g.region(x, y, seen)
			switch owner {
			case types.Black:
				black += n
			case types.White:
				white += n
			}
		}
	}
	return black, white
}

// region flood fills the empty region at (x, y), returning its size and the single
// colour bordering it (types.None when both or neither colour touch it).
func (g grid) region(x, y int, seen []bool) (int, types.Stone) {
	size := g.size()
	stack := []types.BoardPos{{X: x, Y: y}}
	seen[y*size+x] = true
	var touchBlack, touchWhite bool
	n := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, d := range neighbours {
			nx, ny := p.X+d[0], p.Y+d[1]
			if !g.inside(nx, ny) {
				continue
			}
			switch g[ny][nx] {
			case types.Black:
				touchBlack = true
			case types.White:
				touchWhite = true
			default:
				if !seen[ny*size+nx] {
					seen[ny*size+nx] = true
					stack = append(stack, types.BoardPos{X: nx, Y: ny})
				}
			}
		}
	}
	switch {
	case touchBlack && !touchWhite:
		return n, types.Black
	case touchWhite && !touchBlack:
		return n, types.White
	}
	return n, types.None
}
