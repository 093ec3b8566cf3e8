package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igo-local/types"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		in   string
		want Result
	}{
		{"W+5.5", Result{Winner: types.White, Margin: 5.5, Reason: "score"}},
		{"B+12", Result{Winner: types.Black, Margin: 12, Reason: "score"}},
		{"B+R", Result{Winner: types.Black, Reason: "resign"}},
		{"w+Resign", Result{Winner: types.White, Reason: "resign"}},
		{"0", Result{Reason: "score"}},
		{"Jigo", Result{Reason: "score"}},
		{"?", Result{Reason: "unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResult(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResultInvalid(t *testing.T) {
	for _, in := range []string{"X+3", "W5", "B+abc"} {
		_, err := ParseResult(in)
		assert.Error(t, err, in)
	}
}

func TestResultFormatting(t *testing.T) {
	tests := []struct {
		r       Result
		display string
		sgf     string
	}{
		{Result{Winner: types.White, Margin: 6.5, Reason: "score"}, "White by 6.5", "W+6.5"},
		{Result{Winner: types.Black, Reason: "resign"}, "Black by resignation", "B+R"},
		{Result{Reason: "score"}, "Draw", "0"},
		{Result{Reason: "unknown"}, "Unknown", "?"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.display, tt.r.String())
		assert.Equal(t, tt.sgf, tt.r.SGF())
	}
}

func TestMoveLimit(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 9*9*4, cfg.MoveLimit())
	cfg.MaxMoves = 10
	assert.Equal(t, 10, cfg.MoveLimit())
}
