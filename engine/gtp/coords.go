// Package gtp provides a rules engine backed by GnuGo over GTP (Go Text Protocol).
package gtp

import (
	"fmt"
	"strconv"
	"strings"

	"igo-local/types"
)

// GTP coordinate system:
// - Columns: A-T (skipping I to avoid confusion with 1)
// - Rows: 1-19 (from bottom of board)
// - Example: D4, Q16, K10
//
// Board coordinate system:
// - X: 0-18 (left to right)
// - Y: 0-18 (top to bottom)
// - Example: (3, 15) for D4 on a 19x19 board

// posToGTP converts board coordinates (0-indexed, top-left origin) to GTP notation.
// For a 19x19 board: (0, 18) -> A1, (3, 15) -> D4, (15, 3) -> Q16
func posToGTP(x, y, size int) string {
	col := 'A' + rune(x)
	if x >= 8 {
		col++ // Skip 'I'
	}
	return fmt.Sprintf("%c%d", col, size-y)
}

// gtpToPos converts GTP notation to board coordinates.
// The bool result is false for "pass".
func gtpToPos(vertex string, size int) (types.BoardPos, bool, error) {
	vertex = strings.TrimSpace(strings.ToUpper(vertex))
	if vertex == "PASS" {
		return types.BoardPos{X: -1, Y: -1}, false, nil
	}
	if len(vertex) < 2 {
		return types.BoardPos{}, false, fmt.Errorf("invalid vertex: %s", vertex)
	}

	col := int(vertex[0] - 'A')
	if col < 0 || col > 19 || vertex[0] == 'I' {
		return types.BoardPos{}, false, fmt.Errorf("invalid column in vertex: %s", vertex)
	}
	if col > 7 {
		col-- // Account for skipped 'I'
	}

	row, err := strconv.Atoi(vertex[1:])
	if err != nil {
		return types.BoardPos{}, false, fmt.Errorf("invalid row in vertex: %s", vertex)
	}
	y := size - row
	if col >= size || y < 0 || y >= size {
		return types.BoardPos{}, false, fmt.Errorf("vertex out of bounds: %s", vertex)
	}
	return types.BoardPos{X: col, Y: y}, true, nil
}

// colorToGTP converts a stone to a GTP color string.
func colorToGTP(s types.Stone) string {
	if s == types.White {
		return "white"
	}
	return "black"
}

// handToGTP renders the vertex argument of a play command.
func handToGTP(h types.Hand, size int) string {
	if h.Pass {
		return "pass"
	}
	return posToGTP(h.Pos.X, h.Pos.Y, size)
}
