// Package local implements the Go rules in process: captures, suicide, simple ko,
// double-pass ending and area scoring.
package local

import (
	"igo-local/engine"
	"igo-local/types"
)

// Game is an in-process rules engine.
type Game struct {
	cfg      engine.GameConfig
	board    grid
	scratch  grid
	ko       *types.BoardPos
	koColor  types.Stone
	passes   int
	moves    int
	over     bool
	toMove   types.Stone
	lastMove types.BoardPos
}

var _ engine.Game = (*Game)(nil)

// New creates a game on an empty board.
func New(cfg engine.GameConfig) *Game {
	g := &Game{
		cfg:     cfg,
		board:   newGrid(cfg.BoardSize),
		scratch: newGrid(cfg.BoardSize),
	}
	g.Reset()
	return g
}

// Reset clears the board and the game-end state.
func (g *Game) Reset() {
	g.board.clear()
	g.ko = nil
	g.koColor = types.None
	g.passes = 0
	g.moves = 0
	g.over = false
	g.toMove = types.Black
	g.lastMove = types.BoardPos{X: -1, Y: -1}
}

// Size returns the board dimension.
func (g *Game) Size() int {
	return g.board.size()
}

// AllowedHands returns every legal placement for turn that does not fill one of its
// own single-point eyes, in row-major order.
func (g *Game) AllowedHands(turn types.Stone) []types.Hand {
	if g.over {
		return nil
	}
	var hands []types.Hand
	size := g.board.size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if g.board.isEye(x, y, turn) {
				continue
			}
			if g.legal(x, y, turn) {
				hands = append(hands, types.PutHand(turn, x, y))
			}
		}
	}
	return hands
}

// legal reports whether turn may play at (x, y).
func (g *Game) legal(x, y int, turn types.Stone) bool {
	if !g.board.inside(x, y) || g.board[y][x] != types.None {
		return false
	}
	if g.ko != nil && g.koColor == turn && g.ko.X == x && g.ko.Y == y {
		return false
	}
	g.scratch.copyFrom(g.board)
	g.scratch.place(x, y, turn)
	return g.scratch.hasLiberty(x, y)
}

// PutHand applies hand. Illegal placements leave the position untouched.
func (g *Game) PutHand(hand types.Hand) bool {
	if g.over {
		return false
	}
	if hand.Pass {
		g.passes++
		g.ko = nil
		g.advance(hand.Stone, types.BoardPos{X: -1, Y: -1})
		if g.passes >= 2 {
			g.over = true
		}
		return !g.over
	}

	x, y := hand.Pos.X, hand.Pos.Y
	if !g.legal(x, y, hand.Stone) {
		return true
	}
	captured := g.board.place(x, y, hand.Stone)

	g.ko = nil
	if len(captured) == 1 && g.isLoneAtari(x, y) {
		ko := captured[0]
		g.ko = &ko
		g.koColor = hand.Stone.Opposite()
	}
	g.passes = 0
	g.advance(hand.Stone, hand.Pos)
	return !g.over
}

// isLoneAtari reports whether the stone at (x, y) stands alone with a single liberty,
// the shape that makes a single-stone capture a ko.
func (g *Game) isLoneAtari(x, y int) bool {
	color := g.board[y][x]
	liberties := 0
	for _, d := range neighbours {
		nx, ny := x+d[0], y+d[1]
		if !g.board.inside(nx, ny) {
			continue
		}
		switch g.board[ny][nx] {
		case color:
			return false
		case types.None:
			liberties++
		}
	}
	return liberties == 1
}

func (g *Game) advance(stone types.Stone, pos types.BoardPos) {
	g.moves++
	g.toMove = stone.Opposite()
	g.lastMove = pos
	if g.moves >= g.cfg.MoveLimit() {
		g.over = true
	}
}

// Board returns a snapshot of the position.
func (g *Game) Board() *types.BoardState {
	b := types.NewBoardState(g.board.size())
	for y := range g.board {
		copy(b.Board[y], g.board[y])
	}
	b.MoveNumber = g.moves
	b.PlayerToMove = g.toMove
	b.LastMove = g.lastMove
	return b
}

// Judge scores the position by area with komi added to white.
func (g *Game) Judge() engine.Result {
	black, white := g.board.area()
	diff := float64(black) - float64(white) - g.cfg.Komi
	switch {
	case diff > 0:
		return engine.Result{Winner: types.Black, Margin: diff, Reason: "score"}
	case diff < 0:
		return engine.Result{Winner: types.White, Margin: -diff, Reason: "score"}
	}
	return engine.Result{Reason: "score"}
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.over
}
