// Package engine defines the contract between the application and a Go rules engine.
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"igo-local/types"
)

// Game is the rules engine driven by the application.
// Queries never fail at this level: implementations degrade instead of returning errors.
type Game interface {
	// Reset returns the game to an empty board of the configured size.
	Reset()

	// Size returns the board dimension.
	Size() int

	// AllowedHands returns the moves turn may play. An empty slice means turn must pass.
	AllowedHands(turn types.Stone) []types.Hand

	// PutHand applies a move (or pass) and reports whether the game can continue.
	PutHand(hand types.Hand) bool

	// Board returns a snapshot of the current position.
	Board() *types.BoardState

	// Judge classifies the final outcome.
	Judge() Result
}

// Result is the final outcome of a game.
// Winner is types.None for a draw or an unknown result.
type Result struct {
	Winner types.Stone
	Margin float64
	Reason string // "score", "resign", "unknown"
}

// String renders the result the way the game-over screen shows it.
func (r Result) String() string {
	switch {
	case r.Reason == "unknown":
		return "Unknown"
	case r.Winner == types.None:
		return "Draw"
	case r.Reason == "resign":
		return fmt.Sprintf("%s by resignation", r.Winner)
	}
	return fmt.Sprintf("%s by %.1f", r.Winner, r.Margin)
}

// SGF renders the result as an SGF RE[] value.
func (r Result) SGF() string {
	if r.Reason == "unknown" {
		return "?"
	}
	if r.Winner == types.None {
		return "0"
	}
	c := "B"
	if r.Winner == types.White {
		c = "W"
	}
	if r.Reason == "resign" {
		return c + "+R"
	}
	return c + "+" + strconv.FormatFloat(r.Margin, 'f', -1, 64)
}

// ParseResult parses an SGF style result ("W+5.5", "B+R", "0", "Jigo").
func ParseResult(s string) (Result, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "0", "Jigo", "Draw":
		return Result{Reason: "score"}, nil
	case "?", "":
		return Result{Reason: "unknown"}, nil
	}
	if len(s) < 3 || s[1] != '+' {
		return Result{}, fmt.Errorf("invalid result: %q", s)
	}
	var r Result
	switch s[0] {
	case 'B', 'b':
		r.Winner = types.Black
	case 'W', 'w':
		r.Winner = types.White
	default:
		return Result{}, fmt.Errorf("invalid winner in result: %q", s)
	}
	rest := s[2:]
	if strings.HasPrefix(strings.ToUpper(rest), "R") {
		r.Reason = "resign"
		return r, nil
	}
	margin, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return Result{}, fmt.Errorf("invalid margin in result %q: %w", s, err)
	}
	r.Margin = margin
	r.Reason = "score"
	return r, nil
}

// GameConfig holds configuration for opening a rules engine.
type GameConfig struct {
	BoardSize   int     // 9, 13, or 19
	Komi        float64 // Typically 6.5 or 7.5
	Engine      string  // "local" or "gnugo"
	EngineLevel int     // GnuGo level 1-10
	EnginePath  string  // Path to GnuGo binary
	MaxMoves    int     // 0 picks a size based limit
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		BoardSize:   9,
		Komi:        6.5,
		Engine:      "local",
		EngineLevel: 5,
		EnginePath:  "gnugo",
	}
}

// MoveLimit returns the configured move limit, or four moves per point.
func (c GameConfig) MoveLimit() int {
	if c.MaxMoves > 0 {
		return c.MaxMoves
	}
	return c.BoardSize * c.BoardSize * 4
}
