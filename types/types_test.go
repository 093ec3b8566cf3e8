package types

import (
	"encoding/json"
	"testing"
)

func TestStoneOpposite(t *testing.T) {
	tests := []struct {
		in, want Stone
	}{
		{Black, White},
		{White, Black},
		{None, None},
	}
	for _, tt := range tests {
		if got := tt.in.Opposite(); got != tt.want {
			t.Errorf("%s.Opposite() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBoardStateStone(t *testing.T) {
	b := NewBoardState(9)
	b.Board[2][3] = White

	if s, ok := b.Stone(3, 2); !ok || s != White {
		t.Errorf("Stone(3, 2) = %s, %v; want White, true", s, ok)
	}
	if _, ok := b.Stone(2, 3); ok {
		t.Error("Stone(2, 3) should be empty")
	}
	if _, ok := b.Stone(9, 0); ok {
		t.Error("off-board query should report empty")
	}
}

func TestBoardStateClone(t *testing.T) {
	b := NewBoardState(5)
	c := b.Clone()
	c.Board[0][0] = Black
	if b.Board[0][0] != None {
		t.Fatal("clone should not share rows with the original")
	}
}

func TestBoardPosUnmarshal(t *testing.T) {
	var p BoardPos
	if err := json.Unmarshal([]byte("[3, 15]"), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if p.X != 3 || p.Y != 15 {
		t.Errorf("got %+v, want {3 15}", p)
	}
	if err := json.Unmarshal([]byte("[1]"), &p); err == nil {
		t.Error("expected error for short array")
	}
}

func TestPassHand(t *testing.T) {
	h := PassHand(White)
	if !h.Pass || h.Stone != White {
		t.Fatalf("PassHand(White) = %+v", h)
	}
	if h.String() != "White pass" {
		t.Errorf("String() = %q", h.String())
	}
}
