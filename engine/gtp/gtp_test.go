package gtp

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"igo-local/engine"
	"igo-local/types"
)

// fakePeer answers GTP commands over pipes the way GnuGo does.
type fakePeer struct {
	mu      sync.Mutex
	seen    []string
	replies map[string]string
}

func (p *fakePeer) commands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.seen...)
}

func (p *fakePeer) serve(in io.Reader, out io.WriteCloser) {
	defer out.Close()
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		cmd := sc.Text()
		p.mu.Lock()
		p.seen = append(p.seen, cmd)
		reply, ok := p.replies[cmd]
		p.mu.Unlock()
		if !ok {
			reply = "="
		}
		fmt.Fprintf(out, "%s\n\n", reply)
	}
}

func startFake(t *testing.T, replies map[string]string) (*Engine, *fakePeer) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	peer := &fakePeer{replies: replies}
	go peer.serve(inR, outW)

	cfg := engine.DefaultConfig()
	cfg.BoardSize = 9
	e := newEngine(cfg, inW, outR, zaptest.NewLogger(t))
	t.Cleanup(func() { e.Close() })
	require.NoError(t, e.setup())
	return e, peer
}

func TestPosToGTP(t *testing.T) {
	tests := []struct {
		x, y, size int
		want       string
	}{
		{0, 18, 19, "A1"},
		{3, 15, 19, "D4"},
		{15, 3, 19, "Q16"},
		{8, 0, 9, "J9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, posToGTP(tt.x, tt.y, tt.size))
	}
}

func TestGTPToPos(t *testing.T) {
	pos, onBoard, err := gtpToPos("d4", 19)
	require.NoError(t, err)
	assert.True(t, onBoard)
	assert.Equal(t, types.BoardPos{X: 3, Y: 15}, pos)

	pos, onBoard, err = gtpToPos("J9", 9)
	require.NoError(t, err)
	assert.True(t, onBoard)
	assert.Equal(t, types.BoardPos{X: 8, Y: 0}, pos)

	_, onBoard, err = gtpToPos("PASS", 9)
	require.NoError(t, err)
	assert.False(t, onBoard)

	for _, bad := range []string{"Z", "I5", "A0", "K10", "Ax"} {
		_, _, err := gtpToPos(bad, 9)
		assert.Error(t, err, bad)
	}
}

func TestSetupCommands(t *testing.T) {
	_, peer := startFake(t, nil)
	assert.Equal(t, []string{"boardsize 9", "clear_board", "komi 6.5"}, peer.commands())
}

func TestAllowedHands(t *testing.T) {
	e, _ := startFake(t, map[string]string{
		"all_legal black": "= A1 B2 pass",
	})
	hands := e.AllowedHands(types.Black)
	assert.Equal(t, []types.Hand{
		types.PutHand(types.Black, 0, 8),
		types.PutHand(types.Black, 1, 7),
	}, hands)
}

func TestAllowedHandsErrorMeansPass(t *testing.T) {
	e, _ := startFake(t, map[string]string{
		"all_legal white": "? engine busy",
	})
	assert.Empty(t, e.AllowedHands(types.White))
}

func TestPutHandRefreshesBoard(t *testing.T) {
	e, peer := startFake(t, map[string]string{
		"list_stones black": "= D4",
		"list_stones white": "=",
	})
	require.True(t, e.PutHand(types.PutHand(types.Black, 3, 5)))

	s, ok := e.Board().Stone(3, 5)
	assert.True(t, ok)
	assert.Equal(t, types.Black, s)
	assert.Contains(t, peer.commands(), "play black D4")
	assert.Equal(t, 1, e.Board().MoveNumber)
}

func TestDoublePassEndsGame(t *testing.T) {
	e, peer := startFake(t, nil)
	assert.True(t, e.PutHand(types.PassHand(types.Black)))
	assert.False(t, e.PutHand(types.PassHand(types.White)))
	assert.Contains(t, peer.commands(), "play white pass")
	assert.False(t, e.PutHand(types.PassHand(types.Black)))
}

func TestRejectedPlayEndsGame(t *testing.T) {
	e, _ := startFake(t, map[string]string{
		"play black A1": "? illegal move",
	})
	assert.False(t, e.PutHand(types.PutHand(types.Black, 0, 8)))
	assert.Empty(t, e.AllowedHands(types.Black))
}

func TestReset(t *testing.T) {
	e, peer := startFake(t, nil)
	e.PutHand(types.PassHand(types.Black))
	e.PutHand(types.PassHand(types.White))

	e.Reset()
	assert.True(t, e.PutHand(types.PassHand(types.Black)), "reset should clear the pass count")
	assert.Equal(t, 2, strings.Count(strings.Join(peer.commands(), "\n"), "clear_board"))
}

func TestJudge(t *testing.T) {
	e, _ := startFake(t, map[string]string{
		"final_score": "= W+7.5",
	})
	assert.Equal(t, engine.Result{Winner: types.White, Margin: 7.5, Reason: "score"}, e.Judge())
}

func TestJudgeUnparsable(t *testing.T) {
	e, _ := startFake(t, map[string]string{
		"final_score": "= cannot score",
	})
	assert.Equal(t, "unknown", e.Judge().Reason)
}
