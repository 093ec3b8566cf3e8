// Package types contains shared data structures for igo-local.
package types

import (
	"encoding/json"
	"fmt"
)

// Stone is the owner of a board point. The zero value is an empty point.
type Stone int

const (
	None Stone = iota
	Black
	White
)

// Opposite returns the other player. None stays None.
func (s Stone) Opposite() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	}
	return None
}

func (s Stone) String() string {
	switch s {
	case Black:
		return "Black"
	case White:
		return "White"
	}
	return "None"
}

// BoardPos represents a position on the board.
type BoardPos struct {
	X int
	Y int
}

// UnmarshalJSON allows BoardPos to be unmarshaled from a JSON array [x, y].
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("board position needs 2 coordinates, got %d", len(v))
	}
	p.X = int(v[0])
	p.Y = int(v[1])
	return nil
}

// Hand is a single move: a stone placed at Pos, or a pass.
type Hand struct {
	Stone Stone
	Pos   BoardPos
	Pass  bool
}

// PutHand returns a hand placing stone at (x, y).
func PutHand(stone Stone, x, y int) Hand {
	return Hand{Stone: stone, Pos: BoardPos{X: x, Y: y}}
}

// PassHand returns a pass for stone.
func PassHand(stone Stone) Hand {
	return Hand{Stone: stone, Pass: true, Pos: BoardPos{X: -1, Y: -1}}
}

func (h Hand) String() string {
	if h.Pass {
		return fmt.Sprintf("%s pass", h.Stone)
	}
	return fmt.Sprintf("%s (%d,%d)", h.Stone, h.Pos.X, h.Pos.Y)
}

// BoardState is a snapshot of a Go board.
// Board is indexed as Board[y][x].
type BoardState struct {
	MoveNumber   int       `json:"move_number"`
	PlayerToMove Stone     `json:"player_to_move"`
	Board        [][]Stone `json:"board"`
	LastMove     BoardPos  `json:"last_move"`
}

// NewBoardState creates a new empty board of the given size.
func NewBoardState(size int) *BoardState {
	board := make([][]Stone, size)
	for i := range board {
		board[i] = make([]Stone, size)
	}
	return &BoardState{
		PlayerToMove: Black,
		Board:        board,
		LastMove:     BoardPos{X: -1, Y: -1},
	}
}

// Height returns the board height.
func (b *BoardState) Height() int {
	return len(b.Board)
}

// Width returns the board width.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Board[0])
}

// Stone returns the stone at (x, y), or false when the point is empty or off the board.
func (b *BoardState) Stone(x, y int) (Stone, bool) {
	if y < 0 || y >= b.Height() || x < 0 || x >= b.Width() {
		return None, false
	}
	s := b.Board[y][x]
	return s, s != None
}

// Clone returns a deep copy of the snapshot.
func (b *BoardState) Clone() *BoardState {
	c := *b
	c.Board = make([][]Stone, len(b.Board))
	for i := range b.Board {
		c.Board[i] = append([]Stone(nil), b.Board[i]...)
	}
	return &c
}
